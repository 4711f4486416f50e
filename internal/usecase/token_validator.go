package usecase

import (
	"vendor-booking/internal/domain/actor"
	"vendor-booking/internal/pkg/jwt"

	"github.com/google/uuid"
)

// TokenValidator turns a bearer token into the calling actor.
type TokenValidator interface {
	ValidateToken(tokenString string) (actor.Actor, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (actor.Actor, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return actor.Actor{}, err
	}

	role, err := actor.NewRole(claims.Role)
	if err != nil {
		return actor.Actor{}, err
	}
	if claims.UserID == uuid.Nil {
		return actor.Actor{}, jwt.ErrInvalidToken
	}

	return actor.Actor{ID: claims.UserID, Role: role}, nil
}
