package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/taskercompanyofficial/taskercompany-api/pkg/enums"
)

// Complaint is the root workflow entity: one customer-reported service request.
type Complaint struct {
	ID                    uint                  `gorm:"primaryKey" json:"id"`
	UserID                *uint                 `gorm:"column:user_id" json:"user_id"`
	ComplainNum           string                `gorm:"column:complain_num;uniqueIndex;size:50;not null" json:"complain_num"`
	BrandComplaintNo      *string               `gorm:"column:brand_complaint_no;size:255" json:"brand_complaint_no"`
	ApplicantName         string                `gorm:"column:applicant_name;size:255;not null" json:"applicant_name"`
	ApplicantEmail        *string               `gorm:"column:applicant_email;size:255" json:"applicant_email"`
	ApplicantPhone        string                `gorm:"column:applicant_phone;size:20;not null" json:"applicant_phone"`
	ApplicantWhatsapp     string                `gorm:"column:applicant_whatsapp;size:20" json:"applicant_whatsapp"`
	ExtraNumbers          *string               `gorm:"column:extra_numbers;size:255" json:"extra_numbers"`
	ReferenceBy           *string               `gorm:"column:reference_by;size:255" json:"reference_by"`
	Dealer                *string               `gorm:"column:dealer;size:255" json:"dealer"`
	ApplicantAddress      string                `gorm:"column:applicant_adress;size:500" json:"applicant_adress"`
	Description           string                `gorm:"column:description;type:text" json:"description"`
	BranchID              uint                  `gorm:"column:branch_id;not null" json:"branch_id"`
	BrandID               *uint                 `gorm:"column:brand_id" json:"brand_id"`
	Product               *string               `gorm:"column:product;size:255" json:"product"`
	Model                 *string               `gorm:"column:model;size:255" json:"model"`
	SerialNumberInd       *string               `gorm:"column:serial_number_ind;size:255" json:"serial_number_ind"`
	SerialNumberOud       *string               `gorm:"column:serial_number_oud;size:255" json:"serial_number_oud"`
	MqNumber              *string               `gorm:"column:mq_nmb;size:255" json:"mq_nmb"`
	PurchaseDate          *time.Time            `gorm:"column:p_date" json:"p_date"`
	CompleteDate          *time.Time            `gorm:"column:complete_date" json:"complete_date"`
	Amount                *decimal.Decimal      `gorm:"column:amount;type:numeric(12,2)" json:"amount"`
	ProductType           *string               `gorm:"column:product_type;size:255" json:"product_type"`
	Technician            *uint                 `gorm:"column:technician" json:"technician"`
	Status                enums.ComplaintStatus `gorm:"column:status;size:50;not null" json:"status"`
	WorkingDetails        *string               `gorm:"column:working_details;type:text" json:"working_details"`
	ComplaintType         string                `gorm:"column:complaint_type;size:255;not null" json:"complaint_type"`
	ProvidedServices      *string               `gorm:"column:provided_services;type:text" json:"provided_services"`
	WarrantyType          *string               `gorm:"column:warranty_type;size:255" json:"warranty_type"`
	CommentsForTechnician *string               `gorm:"column:comments_for_technician;type:text" json:"comments_for_technician"`
	CallStatus            *string               `gorm:"column:call_status;size:50" json:"call_status"`
	Priority              *string               `gorm:"column:priority;size:50" json:"priority"`
	Files                 *string               `gorm:"column:files;type:text" json:"files"`
	CancellationReason    *string               `gorm:"column:cancellation_reason;type:text" json:"cancellation_reason"`
	CancellationDetails   *string               `gorm:"column:cancellation_details;type:text" json:"cancellation_details"`
	CancellationFile      *string               `gorm:"column:cancellation_file;size:500" json:"cancellation_file"`
	CreatedAt             time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName keeps the legacy table name.
func (Complaint) TableName() string { return "complaints" }
