package availability

import (
	"fmt"
	"strings"
	"time"

	"vendor-booking/internal/pkg/civil"
	"vendor-booking/internal/pkg/errs"

	"github.com/teambition/rrule-go"
)

// MaxRecurringDates caps how many days one recurring block may touch.
const MaxRecurringDates = 366

// ExpandRule returns the distinct dates an RFC 5545 RRULE produces inside [from, to],
// anchored at from. Rules producing more than maxDates dates are rejected rather than
// silently truncated, and rules finer than daily are refused outright.
func ExpandRule(rule string, from, to civil.Date, maxDates int) ([]civil.Date, error) {
	rule = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rule), "RRULE:"))
	if rule == "" {
		return nil, errs.Validation("rrule", "is required")
	}
	if err := ValidateRange(from, to, maxDates); err != nil {
		return nil, err
	}

	opt, err := rrule.StrToROption(rule)
	if err != nil {
		return nil, errs.Validation("rrule", err.Error())
	}
	// blocks are whole days; sub-daily rules would expand to millions of occurrences
	if opt.Freq > rrule.DAILY || len(opt.Byhour) > 0 || len(opt.Byminute) > 0 || len(opt.Bysecond) > 0 {
		return nil, errs.Validation("rrule", "frequency finer than daily is not supported")
	}
	opt.Dtstart = from.In(time.UTC)
	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, errs.Validation("rrule", err.Error())
	}

	end := to.In(time.UTC).Add(24*time.Hour - time.Nanosecond)
	seen := map[civil.Date]struct{}{}
	var dates []civil.Date
	next := r.Iterator()
	for {
		occ, ok := next()
		if !ok || occ.After(end) {
			break
		}
		d := civil.Of(occ.UTC())
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
		if maxDates > 0 && len(dates) > maxDates {
			return nil, errs.Validation("rrule", fmt.Sprintf("produces more than %d dates", maxDates))
		}
	}

	if len(dates) == 0 {
		return nil, errs.Validation("rrule", "produces no dates in range")
	}
	return dates, nil
}
