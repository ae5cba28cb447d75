package complaints

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/taskercompanyofficial/taskercompany-api/pkg/db/models"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/enums"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/listing"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/pagination"
)

// CreateInput carries a new complaint registration.
type CreateInput struct {
	ApplicantName     string           `json:"applicant_name" validate:"required,max=255"`
	ApplicantEmail    *string          `json:"applicant_email" validate:"omitempty,email"`
	ApplicantPhone    string           `json:"applicant_phone" validate:"required,max=20"`
	ApplicantWhatsapp string           `json:"applicant_whatsapp" validate:"max=20"`
	ApplicantAddress  string           `json:"applicant_adress" validate:"required,max=500"`
	ExtraNumbers      *string          `json:"extra_numbers"`
	ReferenceBy       *string          `json:"reference_by"`
	Dealer            *string          `json:"dealer"`
	Description       string           `json:"description"`
	BranchID          uint             `json:"branch_id" validate:"required"`
	BrandID           *uint            `json:"brand_id"`
	BrandComplaintNo  *string          `json:"brand_complaint_no"`
	Product           *string          `json:"product"`
	Model             *string          `json:"model"`
	SerialNumberInd   *string          `json:"serial_number_ind"`
	SerialNumberOud   *string          `json:"serial_number_oud"`
	MqNumber          *string          `json:"mq_nmb"`
	PurchaseDate      *time.Time       `json:"p_date"`
	Amount            *decimal.Decimal `json:"amount"`
	ProductType       *string          `json:"product_type"`
	ComplaintType     string           `json:"complaint_type" validate:"required,max=255"`
	WarrantyType      *string          `json:"warranty_type"`
	Priority          *string          `json:"priority"`
	CallStatus        *string          `json:"call_status"`
}

// UpdateInput carries a full complaint update. The payload replaces the
// complaint's mutable fields, so required fields are re-validated.
type UpdateInput struct {
	CreateInput

	Status                enums.ComplaintStatus `json:"status" validate:"required"`
	Technician            *uint                 `json:"technician"`
	WorkingDetails        *string               `json:"working_details"`
	ProvidedServices      *string               `json:"provided_services"`
	CommentsForTechnician *string               `json:"comments_for_technician"`
	CompleteDate          *time.Time            `json:"complete_date"`
	Files                 *string               `json:"files"`

	// SendMessageToTechnician triggers the job assignment path.
	SendMessageToTechnician bool   `json:"send_message_to_technician"`
	JobDescription          string `json:"job_description"`
}

// CancelInput stores the operator's cancellation reason and evidence.
type CancelInput struct {
	Reason  string  `json:"reason" validate:"required"`
	Details string  `json:"details" validate:"required"`
	File    *string `json:"file"`
}

// ScheduleInput books a future visit for a complaint.
type ScheduleInput struct {
	Date    time.Time `json:"date" validate:"required"`
	Details *string   `json:"complaint_details"`
}

// ListParams configures complaint listings.
type ListParams struct {
	BranchID     uint
	TechnicianID uint
	Query        listing.Query
	Page         pagination.Params
}

// ListResult wraps complaint rows with their page metadata.
type ListResult struct {
	Items []models.Complaint `json:"items"`
	Meta  pagination.Meta    `json:"meta"`
}

func (in CreateInput) apply(complaint *models.Complaint) {
	complaint.ApplicantName = in.ApplicantName
	complaint.ApplicantEmail = in.ApplicantEmail
	complaint.ApplicantPhone = in.ApplicantPhone
	complaint.ApplicantWhatsapp = in.ApplicantWhatsapp
	complaint.ApplicantAddress = in.ApplicantAddress
	complaint.ExtraNumbers = in.ExtraNumbers
	complaint.ReferenceBy = in.ReferenceBy
	complaint.Dealer = in.Dealer
	complaint.Description = in.Description
	complaint.BranchID = in.BranchID
	complaint.BrandID = in.BrandID
	complaint.BrandComplaintNo = in.BrandComplaintNo
	complaint.Product = in.Product
	complaint.Model = in.Model
	complaint.SerialNumberInd = in.SerialNumberInd
	complaint.SerialNumberOud = in.SerialNumberOud
	complaint.MqNumber = in.MqNumber
	complaint.PurchaseDate = in.PurchaseDate
	complaint.Amount = in.Amount
	complaint.ProductType = in.ProductType
	complaint.ComplaintType = in.ComplaintType
	complaint.WarrantyType = in.WarrantyType
	complaint.Priority = in.Priority
	complaint.CallStatus = in.CallStatus
}

func (in UpdateInput) apply(complaint *models.Complaint) {
	in.CreateInput.apply(complaint)
	complaint.Status = in.Status
	complaint.Technician = in.Technician
	complaint.WorkingDetails = in.WorkingDetails
	complaint.ProvidedServices = in.ProvidedServices
	complaint.CommentsForTechnician = in.CommentsForTechnician
	complaint.CompleteDate = in.CompleteDate
	if in.Files != nil {
		complaint.Files = in.Files
	}
}
