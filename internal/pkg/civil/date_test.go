//go:build unit

package civil_test

import (
	"encoding/json"
	"testing"
	"time"

	"vendor-booking/internal/pkg/civil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		d, err := civil.Parse("2025-09-12")
		require.NoError(t, err)
		assert.Equal(t, civil.Date{Year: 2025, Month: time.September, Day: 12}, d)
		assert.Equal(t, "2025-09-12", d.String())
	})

	for _, in := range []string{"", "2025-9-12", "2025-02-30", "12/09/2025", "2025-09-12T10:00:00Z"} {
		t.Run("rejects "+in, func(t *testing.T) {
			_, err := civil.Parse(in)
			assert.Error(t, err)
		})
	}
}

func TestArithmetic(t *testing.T) {
	d := civil.MustParse("2024-02-28")

	assert.Equal(t, "2024-02-29", d.AddDays(1).String())
	assert.Equal(t, "2024-03-01", d.AddDays(2).String())
	assert.Equal(t, "2023-12-31", civil.MustParse("2024-01-01").AddDays(-1).String())

	assert.Equal(t, 366, civil.DaysBetween(civil.MustParse("2024-01-01"), civil.MustParse("2025-01-01")))
	assert.Equal(t, -1, civil.DaysBetween(d, d.AddDays(-1)))
	assert.Equal(t, 0, civil.DaysBetween(d, d))
}

func TestCompare(t *testing.T) {
	a := civil.MustParse("2025-06-01")
	b := civil.MustParse("2025-06-02")

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.True(t, b.After(a))
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.True(t, civil.Date{}.IsZero())
}

func TestJSON(t *testing.T) {
	type payload struct {
		Date civil.Date `json:"date"`
	}

	b, err := json.Marshal(payload{Date: civil.MustParse("2025-09-12")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2025-09-12"}`, string(b))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2026-01-05"}`), &p))
	assert.Equal(t, "2026-01-05", p.Date.String())

	assert.Error(t, json.Unmarshal([]byte(`{"date":"not-a-date"}`), &p))
}
