//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"vendor-booking/internal/domain/actor"
	"vendor-booking/internal/pkg/config"
	"vendor-booking/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	service *jwt.Service
}

func NewJWTHelper(cfg config.AuthConfig) *JWTHelper {
	return &JWTHelper{service: jwt.NewService(cfg.Secret, cfg.Issuer)}
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID, role actor.Role) string {
	t.Helper()
	token, err := h.service.GenerateToken(userID, role, time.Hour)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, role actor.Role) string {
	t.Helper()
	token, err := h.service.GenerateToken(userID, role, -time.Minute)
	require.NoError(t, err)
	return token
}

// Couple returns a fresh couple identity and its token.
func (h *JWTHelper) Couple(t *testing.T) (uuid.UUID, string) {
	t.Helper()
	id := uuid.New()
	return id, h.GenerateToken(t, id, actor.RoleCouple)
}

// Vendor returns a token whose subject is vendorID.
func (h *JWTHelper) Vendor(t *testing.T, vendorID uuid.UUID) string {
	t.Helper()
	return h.GenerateToken(t, vendorID, actor.RoleVendor)
}

func (h *JWTHelper) Admin(t *testing.T) string {
	t.Helper()
	return h.GenerateToken(t, uuid.New(), actor.RoleAdmin)
}
