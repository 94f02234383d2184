package models

import "github.com/golang-jwt/jwt/v5"

// StaffRole identifies academy staff allowed to read enrollment records.
const StaffRole = "ADMIN"

// StaffClaims are embedded in staff access tokens.
type StaffClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}
