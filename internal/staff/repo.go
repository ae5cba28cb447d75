package staff

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/taskercompanyofficial/taskercompany-api/pkg/db/models"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/enums"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/listing"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/pagination"
)

// Repository exposes persistence helpers for the staff directory.
type Repository interface {
	Create(ctx context.Context, staff *models.Staff) error
	Save(ctx context.Context, staff *models.Staff) error
	GetByID(ctx context.Context, id uint) (*models.Staff, error)
	FindByLogin(ctx context.Context, phone, email string) (*models.Staff, error)
	UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error)
	PhoneTaken(ctx context.Context, phone string, excludeID uint) (bool, error)
	List(ctx context.Context, params listStaffParams) ([]models.Staff, int64, error)
	ListActive(ctx context.Context, branchID uint) ([]models.Staff, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a staff repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listStaffParams struct {
	Search   string
	Status   string
	Role     enums.StaffRole
	BranchID uint
	Page     pagination.Params
}

// staffSearchColumns is the fixed set the free-text search scans.
var staffSearchColumns = []string{
	"full_name",
	"father_name",
	"contact_email",
	"phone_number",
	"secondary_phone_number",
	"username",
}

func (r *repositoryImpl) Create(ctx context.Context, staff *models.Staff) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

func (r *repositoryImpl) Save(ctx context.Context, staff *models.Staff) error {
	return r.db.WithContext(ctx).Save(staff).Error
}

func (r *repositoryImpl) GetByID(ctx context.Context, id uint) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.WithContext(ctx).First(&staff, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *repositoryImpl) FindByLogin(ctx context.Context, phone, email string) (*models.Staff, error) {
	scope := r.db.WithContext(ctx)
	switch {
	case phone != "" && email != "":
		scope = scope.Where("phone_number = ? OR contact_email = ?", phone, email)
	case phone != "":
		scope = scope.Where("phone_number = ?", phone)
	default:
		scope = scope.Where("contact_email = ?", email)
	}

	var staff models.Staff
	err := scope.First(&staff).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *repositoryImpl) UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	return r.columnTaken(ctx, "username", username, excludeID)
}

func (r *repositoryImpl) PhoneTaken(ctx context.Context, phone string, excludeID uint) (bool, error) {
	return r.columnTaken(ctx, "phone_number", phone, excludeID)
}

func (r *repositoryImpl) columnTaken(ctx context.Context, column, value string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Staff{}).
		Where(column+" = ?", value)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repositoryImpl) List(ctx context.Context, params listStaffParams) ([]models.Staff, int64, error) {
	scope := r.db.WithContext(ctx).Model(&models.Staff{})

	scope, err := listing.Query{Search: params.Search}.Apply(scope, nil, staffSearchColumns)
	if err != nil {
		return nil, 0, err
	}
	if params.Status != "" {
		scope = scope.Where("status = ?", params.Status)
	}
	if params.Role != "" {
		scope = scope.Where("role = ?", params.Role)
	}
	if params.BranchID != 0 {
		scope = scope.Where("branch_id = ?", params.BranchID)
	}

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := params.Page.Normalize()
	var rows []models.Staff
	err = scope.Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repositoryImpl) ListActive(ctx context.Context, branchID uint) ([]models.Staff, error) {
	scope := r.db.WithContext(ctx).Where("status = ?", "active")
	if branchID != 0 {
		scope = scope.Where("branch_id = ?", branchID)
	}

	var rows []models.Staff
	err := scope.Find(&rows).Error
	return rows, err
}
