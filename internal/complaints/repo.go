package complaints

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/taskercompanyofficial/taskercompany-api/pkg/db/models"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/enums"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/listing"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/pagination"
)

// Repository exposes persistence helpers for complaints and their audit trail.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, complaint *models.Complaint) error
	GetByID(ctx context.Context, id uint) (*models.Complaint, error)
	GetByNumber(ctx context.Context, number string) (*models.Complaint, error)
	MaxID(ctx context.Context) (uint, error)
	CountByStatus(ctx context.Context, status enums.ComplaintStatus) (int64, error)
	SerialNumberTaken(ctx context.Context, column, value string, excludeID uint) (bool, error)
	Save(ctx context.Context, complaint *models.Complaint) error
	Delete(ctx context.Context, id uint) error
	DeleteHistories(ctx context.Context, complaintID uint) error
	CreateHistory(ctx context.Context, history *models.ComplaintHistory) error
	ListHistories(ctx context.Context, complaintID uint) ([]models.ComplaintHistory, error)
	CreateSchedule(ctx context.Context, schedule *models.Schedule) error
	List(ctx context.Context, params listComplaintsParams) ([]models.Complaint, int64, error)
	StatusCounts(ctx context.Context, branchID uint) (map[enums.ComplaintStatus]int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a complaints repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listComplaintsParams struct {
	BranchID     uint
	TechnicianID uint
	Query        listing.Query
	Page         pagination.Params
}

// complaintColumns is the allow-list for complaint listing filters and sorts.
var complaintColumns = listing.AllowList{
	"complain_num":       "complain_num",
	"brand_complaint_no": "brand_complaint_no",
	"applicant_name":     "applicant_name",
	"applicant_phone":    "applicant_phone",
	"applicant_whatsapp": "applicant_whatsapp",
	"applicant_adress":   "applicant_adress",
	"branch_id":          "branch_id",
	"brand_id":           "brand_id",
	"product":            "product",
	"model":              "model",
	"status":             "status",
	"complaint_type":     "complaint_type",
	"warranty_type":      "warranty_type",
	"call_status":        "call_status",
	"priority":           "priority",
	"technician":         "technician",
	"amount":             "amount",
	"created_at":         "created_at",
	"updated_at":         "updated_at",
	"complete_date":      "complete_date",
}

// complaintSearchColumns is the fixed set the free-text search scans.
var complaintSearchColumns = []string{
	"complain_num",
	"applicant_name",
	"applicant_phone",
	"applicant_whatsapp",
	"applicant_adress",
	"product",
	"model",
	"serial_number_ind",
	"serial_number_oud",
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, complaint *models.Complaint) error {
	return r.db.WithContext(ctx).Create(complaint).Error
}

func (r *repositoryImpl) GetByID(ctx context.Context, id uint) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.db.WithContext(ctx).First(&complaint, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *repositoryImpl) GetByNumber(ctx context.Context, number string) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.db.WithContext(ctx).Where("complain_num = ?", number).First(&complaint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *repositoryImpl) MaxID(ctx context.Context) (uint, error) {
	var maxID *uint
	err := r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Select("MAX(id)").
		Scan(&maxID).Error
	if err != nil {
		return 0, err
	}
	if maxID == nil {
		return 0, nil
	}
	return *maxID, nil
}

func (r *repositoryImpl) CountByStatus(ctx context.Context, status enums.ComplaintStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *repositoryImpl) SerialNumberTaken(ctx context.Context, column, value string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Complaint{})
	switch column {
	case "serial_number_ind":
		query = query.Where("serial_number_ind = ?", value)
	case "serial_number_oud":
		query = query.Where("serial_number_oud = ?", value)
	default:
		return false, errors.New("unknown serial number column")
	}
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repositoryImpl) Save(ctx context.Context, complaint *models.Complaint) error {
	return r.db.WithContext(ctx).Save(complaint).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Complaint{}, id).Error
}

func (r *repositoryImpl) DeleteHistories(ctx context.Context, complaintID uint) error {
	return r.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Delete(&models.ComplaintHistory{}).Error
}

func (r *repositoryImpl) CreateHistory(ctx context.Context, history *models.ComplaintHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *repositoryImpl) ListHistories(ctx context.Context, complaintID uint) ([]models.ComplaintHistory, error) {
	var histories []models.ComplaintHistory
	err := r.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("id DESC").
		Find(&histories).Error
	return histories, err
}

func (r *repositoryImpl) CreateSchedule(ctx context.Context, schedule *models.Schedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *repositoryImpl) List(ctx context.Context, params listComplaintsParams) ([]models.Complaint, int64, error) {
	scope := r.db.WithContext(ctx).Model(&models.Complaint{})
	if params.BranchID != 0 {
		scope = scope.Where("branch_id = ?", params.BranchID)
	}
	if params.TechnicianID != 0 {
		scope = scope.Where("technician = ?", params.TechnicianID)
	}

	// the default view hides terminal complaints unless the caller asks for them
	if len(params.Query.Statuses) > 0 {
		scope = scope.Where("status IN ?", params.Query.Statuses)
	} else {
		scope = scope.Where("status NOT IN ?", enums.DefaultListExclusions)
	}

	scope, err := params.Query.Apply(scope, complaintColumns, complaintSearchColumns)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := params.Page.Normalize()
	var rows []models.Complaint
	err = scope.Order("id DESC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repositoryImpl) StatusCounts(ctx context.Context, branchID uint) (map[enums.ComplaintStatus]int64, error) {
	type statusCount struct {
		Status enums.ComplaintStatus
		Total  int64
	}

	query := r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Select("status, COUNT(*) AS total").
		Group("status")
	if branchID != 0 {
		query = query.Where("branch_id = ?", branchID)
	}

	var rows []statusCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[enums.ComplaintStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
