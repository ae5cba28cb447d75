package staff

import (
	"github.com/shopspring/decimal"

	"github.com/taskercompanyofficial/taskercompany-api/pkg/db/models"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/pagination"
)

// LoginInput takes either the phone number or the contact email.
type LoginInput struct {
	Phone    string `json:"phone" validate:"required_without=Email,omitempty,max=20"`
	Email    string `json:"email" validate:"required_without=Phone,omitempty,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult pairs the minted token with the authenticated staff member.
type LoginResult struct {
	Token string       `json:"token"`
	Staff models.Staff `json:"user"`
}

// CreateInput registers a new staff member. An omitted password is replaced
// with a generated temporary one returned in CreateResult.
type CreateInput struct {
	FullName             string          `json:"full_name" validate:"required,max=255"`
	FatherName           *string         `json:"father_name"`
	ContactEmail         *string         `json:"contact_email" validate:"omitempty,email"`
	PhoneNumber          string          `json:"phone_number" validate:"required,max=20"`
	SecondaryPhoneNumber *string         `json:"secondary_phone_number"`
	Password             string          `json:"password" validate:"omitempty,min=8"`
	FullAddress          *string         `json:"full_address"`
	State                *string         `json:"state"`
	City                 *string         `json:"city"`
	Salary               decimal.Decimal `json:"salary"`
	BranchID             *uint           `json:"branch_id"`
	ProfileImage         *string         `json:"profile_image"`
	Role                 string          `json:"role" validate:"required"`
	Status               string          `json:"status"`
	HasCRMAccess         bool            `json:"has_crm_access"`
}

// CreateResult carries the stored staff member and, when the password was
// generated, the plaintext temporary password to hand to them once.
type CreateResult struct {
	Staff        models.Staff `json:"user"`
	TempPassword string       `json:"temp_password,omitempty"`
}

// UpdateInput mutates an existing staff member. A non-empty password is
// re-hashed; an empty one leaves the stored hash untouched.
type UpdateInput struct {
	FullName             string          `json:"full_name" validate:"required,max=255"`
	FatherName           *string         `json:"father_name"`
	ContactEmail         *string         `json:"contact_email" validate:"omitempty,email"`
	PhoneNumber          string          `json:"phone_number" validate:"required,max=20"`
	SecondaryPhoneNumber *string         `json:"secondary_phone_number"`
	Password             string          `json:"password" validate:"omitempty,min=8"`
	FullAddress          *string         `json:"full_address"`
	State                *string         `json:"state"`
	City                 *string         `json:"city"`
	Salary               decimal.Decimal `json:"salary"`
	BranchID             *uint           `json:"branch_id"`
	ProfileImage         *string         `json:"profile_image"`
	Role                 string          `json:"role" validate:"required"`
	Status               string          `json:"status"`
	HasCRMAccess         bool            `json:"has_crm_access"`
}

// ListParams configures the staff directory listing.
type ListParams struct {
	Search   string
	Status   string
	Role     string
	BranchID uint
	Page     pagination.Params
}

// ListResult pairs directory rows with pagination metadata.
type ListResult struct {
	Items []models.Staff  `json:"data"`
	Meta  pagination.Meta `json:"meta"`
}
