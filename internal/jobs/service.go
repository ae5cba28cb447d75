package jobs

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/taskercompanyofficial/taskercompany-api/internal/notifications"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/db/models"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/enums"
	pkgerrors "github.com/taskercompanyofficial/taskercompany-api/pkg/errors"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/listing"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/pagination"
)

// Notifier is the fan-out surface jobs depends on.
type Notifier interface {
	Publish(ctx context.Context, input notifications.PublishInput)
}

// Service defines job assignment and technician work-order operations.
type Service interface {
	// Assign idempotently binds a technician to a complaint: an existing
	// open or pending job for the complaint is reused instead of duplicated.
	Assign(ctx context.Context, input AssignInput) (*AssignResult, error)
	// NotifyAssigned fires the technician notification for a completed
	// assignment. Callers that assign inside a transaction invoke this
	// after commit.
	NotifyAssigned(ctx context.Context, input AssignInput, result *AssignResult)
	UpdateStatus(ctx context.Context, input StatusUpdateInput) error
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Counts(ctx context.Context, technicianID uint) (Counts, error)
	// DeleteForComplaint removes every job bound to the complaint, inside
	// the caller's transaction when tx is set.
	DeleteForComplaint(ctx context.Context, tx *gorm.DB, complaintID uint) error
}

type service struct {
	repo     Repository
	notifier Notifier
}

// AssignInput carries the assignment plus the complaint context used in the
// technician's notification body.
type AssignInput struct {
	ComplaintID   uint
	TechnicianID  uint
	AssignerID    uint
	BranchID      uint
	Description   string
	Notify        bool
	ComplaintNum  string
	ApplicantName string
	Product       string

	// Tx, when set, runs the persistence inside the caller's transaction.
	// The notification is then deferred to NotifyAssigned after commit.
	Tx *gorm.DB
}

// AssignResult reports the bound job and whether an existing one was reused.
type AssignResult struct {
	Job    models.AssignedJob `json:"job"`
	Reused bool               `json:"reused"`
}

// StatusUpdateInput drives the technician-facing status endpoint.
type StatusUpdateInput struct {
	JobID           uint
	Status          enums.JobStatus
	Remarks         *string
	CustomerRemarks *string
	Rating          *int
}

// ListParams configures job listings.
type ListParams struct {
	TechnicianID uint
	BranchID     uint
	Query        listing.Query
	Page         pagination.Params
}

// ListResult wraps job rows with their page metadata.
type ListResult struct {
	Items []models.AssignedJob `json:"items"`
	Meta  pagination.Meta      `json:"meta"`
}

// NewService wires job assignment dependencies.
func NewService(repo Repository, notifier Notifier) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "jobs repository required")
	}
	return &service{repo: repo, notifier: notifier}, nil
}

func (s *service) Assign(ctx context.Context, input AssignInput) (*AssignResult, error) {
	if input.ComplaintID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "complaint id required")
	}
	if input.TechnicianID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "technician id required")
	}

	repo := s.repo.WithTx(input.Tx)

	existing, err := repo.FindActiveByComplaint(ctx, input.ComplaintID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up active job")
	}

	result := &AssignResult{}
	if existing != nil {
		result.Job = *existing
		result.Reused = true
	} else {
		now := time.Now().UTC()
		job := models.AssignedJob{
			JobID:      input.ComplaintID,
			AssignedBy: input.AssignerID,
			AssignedTo: input.TechnicianID,
			BranchID:   input.BranchID,
			Status:     enums.JobStatusPending,
			AssignedAt: &now,
		}
		if input.Description != "" {
			job.Description = &input.Description
		}
		if err := repo.Create(ctx, &job); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create assigned job")
		}
		result.Job = job
	}

	if input.Notify && input.Tx == nil {
		s.NotifyAssigned(ctx, input, result)
	}

	return result, nil
}

func (s *service) NotifyAssigned(ctx context.Context, input AssignInput, result *AssignResult) {
	if s.notifier == nil || result == nil {
		return
	}
	s.notifier.Publish(ctx, notifications.PublishInput{
		Title:    "New job assigned",
		Message:  assignmentBody(input, result.Reused),
		Severity: enums.SeverityInfo,
		StaffID:  input.TechnicianID,
		Type:     enums.NotificationTypeJobAssigned,
		Params: map[string]any{
			"complaint_id":  input.ComplaintID,
			"complaint_num": input.ComplaintNum,
			"job_id":        result.Job.ID,
		},
	})
}

func assignmentBody(input AssignInput, reused bool) string {
	kind := "New assignment"
	if reused {
		kind = "Updated assignment"
	}
	body := fmt.Sprintf("%s: complaint %s for %s", kind, input.ComplaintNum, input.ApplicantName)
	if input.Product != "" {
		body += fmt.Sprintf(" (%s)", input.Product)
	}
	if input.Description != "" {
		body += ". " + input.Description
	}
	return body
}

func (s *service) UpdateStatus(ctx context.Context, input StatusUpdateInput) error {
	if input.JobID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "job id required")
	}
	if !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid job status").
			WithDetails(map[string]any{"status": string(input.Status)})
	}

	update := statusUpdate{
		Status:          input.Status,
		Remarks:         input.Remarks,
		CustomerRemarks: input.CustomerRemarks,
		Rating:          input.Rating,
	}
	if input.Status == enums.JobStatusClosed {
		now := time.Now().UTC()
		update.CompletedAt = &now
	}

	found, err := s.repo.UpdateStatus(ctx, input.JobID, update)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update job status")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "job not found")
	}
	return nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	rows, total, err := s.repo.List(ctx, listJobsParams{
		TechnicianID: params.TechnicianID,
		BranchID:     params.BranchID,
		Query:        params.Query,
		Page:         params.Page,
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list jobs")
	}
	return &ListResult{Items: rows, Meta: pagination.NewMeta(params.Page, total)}, nil
}

func (s *service) Counts(ctx context.Context, technicianID uint) (Counts, error) {
	if technicianID == 0 {
		return Counts{}, pkgerrors.New(pkgerrors.CodeValidation, "technician id required")
	}
	counts, err := s.repo.CountsByTechnician(ctx, technicianID)
	if err != nil {
		return Counts{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count jobs")
	}
	return counts, nil
}

func (s *service) DeleteForComplaint(ctx context.Context, tx *gorm.DB, complaintID uint) error {
	if err := s.repo.WithTx(tx).DeleteByComplaint(ctx, complaintID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete assigned jobs")
	}
	return nil
}
