//go:build unit

package slot_test

import (
	"testing"

	"vendor-booking/internal/domain/slot"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, s := range slot.All() {
		parsed, err := slot.Parse(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	for _, bad := range []string{"", "Morning", "brunch", "full-day", "night"} {
		t.Run("rejects "+bad, func(t *testing.T) {
			_, err := slot.Parse(bad)
			assert.Error(t, err)
		})
	}
}

func TestConflictsWith(t *testing.T) {
	// rows/cols: morning, afternoon, evening, full_day
	truth := map[slot.Slot]map[slot.Slot]bool{
		slot.Morning:   {slot.Morning: true, slot.Afternoon: false, slot.Evening: false, slot.FullDay: true},
		slot.Afternoon: {slot.Morning: false, slot.Afternoon: true, slot.Evening: false, slot.FullDay: true},
		slot.Evening:   {slot.Morning: false, slot.Afternoon: false, slot.Evening: true, slot.FullDay: true},
		slot.FullDay:   {slot.Morning: true, slot.Afternoon: true, slot.Evening: true, slot.FullDay: true},
	}

	for a, row := range truth {
		for b, want := range row {
			t.Run(string(a)+"/"+string(b), func(t *testing.T) {
				assert.Equal(t, want, a.ConflictsWith(b))
				// symmetric
				assert.Equal(t, a.ConflictsWith(b), b.ConflictsWith(a))
			})
		}
	}

	for _, s := range slot.All() {
		assert.True(t, s.ConflictsWith(s), "%s must conflict with itself", s)
	}
	assert.False(t, slot.Slot("brunch").ConflictsWith(slot.FullDay))
}

func TestConflictSet(t *testing.T) {
	assert.Equal(t, []slot.Slot{slot.Morning, slot.FullDay}, slot.Morning.ConflictSet())
	assert.Equal(t, slot.All(), slot.FullDay.ConflictSet())
}

func TestOrder(t *testing.T) {
	assert.Less(t, slot.Morning.Order(), slot.Afternoon.Order())
	assert.Less(t, slot.Afternoon.Order(), slot.Evening.Order())
	assert.Less(t, slot.Evening.Order(), slot.FullDay.Order())
	assert.Equal(t, len(slot.All()), slot.Slot("x").Order())
}

func TestPolicy(t *testing.T) {
	caterer := uuid.New()
	other := uuid.New()

	p, err := slot.NewPolicy([]slot.VendorRule{
		{VendorID: caterer, Exclusive: [][2]slot.Slot{{slot.Afternoon, slot.Evening}}},
	})
	require.NoError(t, err)

	t.Run("vendor rule adds exclusion in both directions", func(t *testing.T) {
		assert.True(t, p.ConflictsWith(caterer, slot.Afternoon, slot.Evening))
		assert.True(t, p.ConflictsWith(caterer, slot.Evening, slot.Afternoon))
		assert.False(t, p.ConflictsWith(caterer, slot.Morning, slot.Evening))
		assert.Equal(t, []slot.Slot{slot.Afternoon, slot.Evening, slot.FullDay}, p.ConflictSet(caterer, slot.Evening))
		assert.True(t, p.HasOverrides(caterer))
	})

	t.Run("other vendors keep the default relation", func(t *testing.T) {
		assert.False(t, p.ConflictsWith(other, slot.Afternoon, slot.Evening))
		assert.True(t, p.ConflictsWith(other, slot.Morning, slot.FullDay))
		assert.False(t, p.HasOverrides(other))
	})

	t.Run("nil policy is the default relation", func(t *testing.T) {
		var nilPolicy *slot.Policy
		assert.True(t, nilPolicy.ConflictsWith(caterer, slot.Evening, slot.FullDay))
		assert.False(t, nilPolicy.ConflictsWith(caterer, slot.Afternoon, slot.Evening))
	})

	t.Run("rejects invalid rules", func(t *testing.T) {
		_, err := slot.NewPolicy([]slot.VendorRule{{VendorID: uuid.Nil}})
		assert.Error(t, err)

		_, err = slot.NewPolicy([]slot.VendorRule{
			{VendorID: caterer, Exclusive: [][2]slot.Slot{{slot.Morning, "brunch"}}},
		})
		assert.Error(t, err)
	})
}
