package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/taskercompanyofficial/taskercompany-api/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	StaffID  uint
	Role     enums.StaffRole
	BranchID *uint
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to staff clients.
type AccessTokenClaims struct {
	StaffID  uint            `json:"staff_id"`
	Role     enums.StaffRole `json:"role"`
	BranchID *uint           `json:"branch_id,omitempty"`
	jwt.RegisteredClaims
}
