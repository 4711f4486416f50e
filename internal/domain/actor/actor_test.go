//go:build unit

package actor_test

import (
	"testing"

	"vendor-booking/internal/domain/actor"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewRole(t *testing.T) {
	for _, s := range []string{"couple", "vendor", "admin"} {
		r, err := actor.NewRole(s)
		assert.NoError(t, err)
		assert.Equal(t, s, r.String())
	}

	_, err := actor.NewRole("planner")
	assert.ErrorIs(t, err, actor.ErrInvalidRole)
}

func TestCanManageVendor(t *testing.T) {
	vendorID := uuid.New()

	assert.True(t, actor.Actor{ID: vendorID, Role: actor.RoleVendor}.CanManageVendor(vendorID))
	assert.False(t, actor.Actor{ID: uuid.New(), Role: actor.RoleVendor}.CanManageVendor(vendorID))
	assert.False(t, actor.Actor{ID: vendorID, Role: actor.RoleCouple}.CanManageVendor(vendorID))
	assert.True(t, actor.Actor{ID: uuid.New(), Role: actor.RoleAdmin}.CanManageVendor(vendorID))
}
