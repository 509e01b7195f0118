package service

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/todo-render/internal/core/domain"
)

// accessClaims is the subset of the access token payload the renderer reads.
type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// DecodeRole reads the role claim of an access token without verifying its
// signature. The result only drives which controls are shown; the API
// enforces authorization and answers 403 when the role is insufficient.
// Tokens that cannot be decoded yield the guest role.
func DecodeRole(token string) domain.Role {
	if token == "" {
		return domain.RoleGuest
	}

	var claims accessClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return domain.RoleGuest
	}
	return domain.ParseRole(claims.Role)
}
