package jobs

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/taskercompanyofficial/taskercompany-api/pkg/db/models"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/enums"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/listing"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/pagination"
)

// Repository exposes persistence helpers for assigned jobs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, job *models.AssignedJob) error
	GetByID(ctx context.Context, id uint) (*models.AssignedJob, error)
	FindActiveByComplaint(ctx context.Context, complaintID uint) (*models.AssignedJob, error)
	UpdateStatus(ctx context.Context, id uint, update statusUpdate) (bool, error)
	List(ctx context.Context, params listJobsParams) ([]models.AssignedJob, int64, error)
	CountsByTechnician(ctx context.Context, technicianID uint) (Counts, error)
	DeleteByComplaint(ctx context.Context, complaintID uint) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a jobs repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type statusUpdate struct {
	Status          enums.JobStatus
	Remarks         *string
	CustomerRemarks *string
	Rating          *int
	CompletedAt     *time.Time
}

type listJobsParams struct {
	TechnicianID uint
	BranchID     uint
	Query        listing.Query
	Page         pagination.Params
}

// Counts aggregates a technician's jobs per status for dashboards.
type Counts struct {
	Open    int64 `json:"open"`
	Pending int64 `json:"pending"`
	Closed  int64 `json:"closed"`
}

// jobColumns is the allow-list for job listing filters and sorts.
var jobColumns = listing.AllowList{
	"status":      "status",
	"assigned_to": "assigned_to",
	"assigned_by": "assigned_by",
	"branch_id":   "branch_id",
	"job_id":      "job_id",
	"rating":      "rating",
	"created_at":  "created_at",
	"assigned_at": "assigned_at",
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, job *models.AssignedJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *repositoryImpl) GetByID(ctx context.Context, id uint) (*models.AssignedJob, error) {
	var job models.AssignedJob
	err := r.db.WithContext(ctx).First(&job, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *repositoryImpl) FindActiveByComplaint(ctx context.Context, complaintID uint) (*models.AssignedJob, error) {
	var job models.AssignedJob
	err := r.db.WithContext(ctx).
		Where("job_id = ? AND status IN ?", complaintID, enums.ActiveJobStatuses).
		Order("id DESC").
		First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *repositoryImpl) UpdateStatus(ctx context.Context, id uint, update statusUpdate) (bool, error) {
	columns := map[string]any{"status": update.Status}
	if update.Remarks != nil {
		columns["remarks"] = *update.Remarks
	}
	if update.CustomerRemarks != nil {
		columns["customer_remarks"] = *update.CustomerRemarks
	}
	if update.Rating != nil {
		columns["rating"] = *update.Rating
	}
	if update.CompletedAt != nil {
		columns["completed_at"] = *update.CompletedAt
	}

	result := r.db.WithContext(ctx).
		Model(&models.AssignedJob{}).
		Where("id = ?", id).
		Updates(columns)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) List(ctx context.Context, params listJobsParams) ([]models.AssignedJob, int64, error) {
	scope := r.db.WithContext(ctx).Model(&models.AssignedJob{})
	if params.TechnicianID != 0 {
		scope = scope.Where("assigned_to = ?", params.TechnicianID)
	}
	if params.BranchID != 0 {
		scope = scope.Where("branch_id = ?", params.BranchID)
	}
	if len(params.Query.Statuses) > 0 {
		scope = scope.Where("status IN ?", params.Query.Statuses)
	}

	scope, err := params.Query.Apply(scope, jobColumns, nil)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := params.Page.Normalize()
	var rows []models.AssignedJob
	err = scope.Order("id DESC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repositoryImpl) CountsByTechnician(ctx context.Context, technicianID uint) (Counts, error) {
	type statusCount struct {
		Status enums.JobStatus
		Total  int64
	}

	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.AssignedJob{}).
		Select("status, COUNT(*) AS total").
		Where("assigned_to = ?", technicianID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return Counts{}, err
	}

	var counts Counts
	for _, row := range rows {
		switch row.Status {
		case enums.JobStatusOpen:
			counts.Open = row.Total
		case enums.JobStatusPending:
			counts.Pending = row.Total
		case enums.JobStatusClosed:
			counts.Closed = row.Total
		}
	}
	return counts, nil
}

func (r *repositoryImpl) DeleteByComplaint(ctx context.Context, complaintID uint) error {
	return r.db.WithContext(ctx).Where("job_id = ?", complaintID).Delete(&models.AssignedJob{}).Error
}
