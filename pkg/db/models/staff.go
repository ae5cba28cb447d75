package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/taskercompanyofficial/taskercompany-api/pkg/enums"
)

// Staff is the single actor identity referenced by complaints, jobs and
// attendance. CRM access and role are attributes, not separate user types.
type Staff struct {
	ID                   uint            `gorm:"primaryKey" json:"id"`
	FullName             string          `gorm:"column:full_name;size:255;not null" json:"full_name"`
	Username             string          `gorm:"column:username;uniqueIndex;size:100;not null" json:"username"`
	FatherName           *string         `gorm:"column:father_name;size:255" json:"father_name"`
	ContactEmail         *string         `gorm:"column:contact_email;size:255" json:"contact_email"`
	PhoneNumber          string          `gorm:"column:phone_number;size:20" json:"phone_number"`
	SecondaryPhoneNumber *string         `gorm:"column:secondary_phone_number;size:20" json:"secondary_phone_number"`
	Password             string          `gorm:"column:password;size:255;not null" json:"-"`
	FullAddress          *string         `gorm:"column:full_address;size:500" json:"full_address"`
	State                *string         `gorm:"column:state;size:100" json:"state"`
	City                 *string         `gorm:"column:city;size:100" json:"city"`
	Salary               decimal.Decimal `gorm:"column:salary;type:numeric(12,2)" json:"salary"`
	BranchID             *uint           `gorm:"column:branch_id;index" json:"branch_id"`
	ProfileImage         *string         `gorm:"column:profile_image;size:500" json:"profile_image"`
	Role                 enums.StaffRole `gorm:"column:role;size:50;not null" json:"role"`
	Status               string          `gorm:"column:status;size:20;default:active" json:"status"`
	HasCRMAccess         bool            `gorm:"column:has_crm_access;default:false" json:"has_crm_access"`
	CreatedAt            time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Staff) TableName() string { return "staff" }
