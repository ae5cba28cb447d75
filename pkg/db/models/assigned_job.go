package models

import (
	"time"

	"github.com/taskercompanyofficial/taskercompany-api/pkg/enums"
)

// AssignedJob is the technician-facing work order derived from a complaint.
// Its status moves independently of the complaint's own lifecycle.
type AssignedJob struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	JobID           uint            `gorm:"column:job_id;index;not null" json:"job_id"` // complaint id
	AssignedBy      uint            `gorm:"column:assigned_by;not null" json:"assigned_by"`
	AssignedTo      uint            `gorm:"column:assigned_to;index;not null" json:"assigned_to"`
	BranchID        uint            `gorm:"column:branch_id;not null" json:"branch_id"`
	Description     *string         `gorm:"column:description;type:text" json:"description"`
	Status          enums.JobStatus `gorm:"column:status;size:20;not null" json:"status"`
	Remarks         *string         `gorm:"column:remarks;type:text" json:"remarks"`
	CustomerRemarks *string         `gorm:"column:customer_remarks;type:text" json:"customer_remarks"`
	Rating          *int            `gorm:"column:rating" json:"rating"`
	AssignedAt      *time.Time      `gorm:"column:assigned_at" json:"assigned_at"`
	CompletedAt     *time.Time      `gorm:"column:completed_at" json:"completed_at"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AssignedJob) TableName() string { return "assigned_jobs" }
