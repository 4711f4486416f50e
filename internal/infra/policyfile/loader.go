package policyfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"vendor-booking/internal/domain/slot"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of vendor slot exclusions:
//
//	vendors:
//	  - vendor_id: 6f1c...
//	    exclusive:
//	      - [afternoon, evening]
type File struct {
	Vendors []VendorEntry `yaml:"vendors"`
}

type VendorEntry struct {
	VendorID  string     `yaml:"vendor_id"`
	Exclusive [][]string `yaml:"exclusive"`
}

// Load reads path and builds the policy. An empty path yields the default policy.
func Load(path string) (*slot.Policy, error) {
	if path == "" {
		return slot.DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read slot policy file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*slot.Policy, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse slot policy file: %w", err)
	}

	rules := make([]slot.VendorRule, 0, len(f.Vendors))
	for i, v := range f.Vendors {
		vendorID, err := uuid.Parse(v.VendorID)
		if err != nil {
			return nil, fmt.Errorf("slot policy entry %d: invalid vendor_id %q", i, v.VendorID)
		}
		rule := slot.VendorRule{VendorID: vendorID}
		for _, pair := range v.Exclusive {
			if len(pair) != 2 {
				return nil, fmt.Errorf("slot policy entry %d: exclusive pairs need exactly two slots, got %v", i, pair)
			}
			rule.Exclusive = append(rule.Exclusive, [2]slot.Slot{slot.Slot(pair[0]), slot.Slot(pair[1])})
		}
		rules = append(rules, rule)
	}
	return slot.NewPolicy(rules)
}
