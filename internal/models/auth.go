package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// UserRole represents the roles carried in identity tokens.
type UserRole string

const (
	RoleTA        UserRole = "TA"
	RoleStaff     UserRole = "STAFF"
	RoleSecretary UserRole = "SECRETARY"
	RoleDean      UserRole = "DEAN"
	RoleAdmin     UserRole = "ADMIN"
)

// JWTClaims is the verified identity of the caller. Tokens are issued by the
// identity service; this API only verifies them.
type JWTClaims struct {
	Email      string   `json:"email"`
	Role       UserRole `json:"role"`
	Department string   `json:"department,omitempty"`
	jwt.RegisteredClaims
}

// IsStaff reports whether the caller acts with staff authority.
func (c *JWTClaims) IsStaff() bool {
	switch c.Role {
	case RoleStaff, RoleSecretary, RoleDean, RoleAdmin:
		return true
	}
	return false
}

// DepartmentScoped reports whether staff actions are restricted to the
// caller's own department.
func (c *JWTClaims) DepartmentScoped() bool {
	return c.Role == RoleSecretary && c.Department != ""
}
