//go:build unit

package pgconv_test

import (
	"fmt"
	"testing"
	"time"

	"vendor-booking/internal/pkg/civil"
	"vendor-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
)

func TestDateConversion(t *testing.T) {
	d := civil.MustParse("2025-09-12")

	pd := pgconv.DateToPgtype(d)
	assert.True(t, pd.Valid)
	assert.Equal(t, d, pgconv.DateFromPgtype(pd))

	assert.False(t, pgconv.DateToPgtype(civil.Date{}).Valid)
	assert.True(t, pgconv.DateFromPgtype(pgtype.Date{}).IsZero())
}

func TestNullableConversions(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, &id, pgconv.UUIDPtrFromPgtype(pgconv.UUIDPtrToPgtype(&id)))
	assert.Nil(t, pgconv.UUIDPtrFromPgtype(pgconv.UUIDPtrToPgtype(nil)))

	assert.False(t, pgconv.TextToPgtype("").Valid)
	assert.Equal(t, "note", pgconv.TextFromPgtype(pgconv.TextToPgtype("note")))

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, &now, pgconv.TimePtrFromPgtype(pgconv.TimePtrToPgtype(&now)))
	assert.Nil(t, pgconv.TimePtrFromPgtype(pgconv.TimePtrToPgtype(nil)))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, pgconv.IsNoRows(pgx.ErrNoRows))
	assert.True(t, pgconv.IsNoRows(fmt.Errorf("wrapped: %w", pgx.ErrNoRows)))
	assert.False(t, pgconv.IsNoRows(fmt.Errorf("boom")))
}
