package slot

import (
	"fmt"

	"github.com/google/uuid"
)

type pair struct{ a, b Slot }

func newPair(a, b Slot) pair {
	if b.Order() < a.Order() {
		a, b = b, a
	}
	return pair{a: a, b: b}
}

// VendorRule adds exclusions for a vendor whose partial slots overlap in practice,
// e.g. a caterer whose afternoon setup spills into the evening service.
type VendorRule struct {
	VendorID  uuid.UUID
	Exclusive [][2]Slot
}

// Policy layers vendor-specific exclusions over the default relation.
// Rules only ever add conflicts; the default pairs cannot be relaxed.
// A nil *Policy behaves as the default relation.
type Policy struct {
	extra map[uuid.UUID]map[pair]struct{}
}

func DefaultPolicy() *Policy {
	return &Policy{extra: map[uuid.UUID]map[pair]struct{}{}}
}

func NewPolicy(rules []VendorRule) (*Policy, error) {
	p := DefaultPolicy()
	for _, rule := range rules {
		if rule.VendorID == uuid.Nil {
			return nil, fmt.Errorf("slot policy rule is missing a vendor id")
		}
		for _, ex := range rule.Exclusive {
			if !ex[0].IsValid() || !ex[1].IsValid() {
				return nil, fmt.Errorf("slot policy for vendor %s: unknown slot in pair %v", rule.VendorID, ex)
			}
			if ex[0] == ex[1] {
				continue
			}
			set, ok := p.extra[rule.VendorID]
			if !ok {
				set = map[pair]struct{}{}
				p.extra[rule.VendorID] = set
			}
			set[newPair(ex[0], ex[1])] = struct{}{}
		}
	}
	return p, nil
}

func (p *Policy) ConflictsWith(vendorID uuid.UUID, a, b Slot) bool {
	if a.ConflictsWith(b) {
		return true
	}
	if p == nil || !a.IsValid() || !b.IsValid() {
		return false
	}
	_, ok := p.extra[vendorID][newPair(a, b)]
	return ok
}

func (p *Policy) ConflictSet(vendorID uuid.UUID, s Slot) []Slot {
	var out []Slot
	for _, v := range all {
		if p.ConflictsWith(vendorID, s, v) {
			out = append(out, v)
		}
	}
	return out
}

// HasOverrides reports whether vendorID has any exclusions beyond the default.
func (p *Policy) HasOverrides(vendorID uuid.UUID) bool {
	if p == nil {
		return false
	}
	return len(p.extra[vendorID]) > 0
}
