package attendance

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/taskercompanyofficial/taskercompany-api/pkg/db/models"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/pagination"
)

// Repository exposes persistence helpers for the attendance ledger.
type Repository interface {
	Create(ctx context.Context, record *models.StaffAttendance) error
	Save(ctx context.Context, record *models.StaffAttendance) error
	GetByID(ctx context.Context, id uint) (*models.StaffAttendance, error)
	FindByStaffAndDay(ctx context.Context, staffID uint, day time.Time) (*models.StaffAttendance, error)
	ListByStaffBetween(ctx context.Context, staffID uint, from, to time.Time) ([]models.StaffAttendance, error)
	ListBetween(ctx context.Context, params listAttendanceParams) ([]attendanceRow, int64, error)
	ListDay(ctx context.Context, day time.Time, branchID uint) ([]models.StaffAttendance, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an attendance repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listAttendanceParams struct {
	From     time.Time
	To       time.Time
	BranchID uint
	Page     pagination.Params
}

// attendanceRow carries the record plus the joined staff name for CRM listings.
type attendanceRow struct {
	models.StaffAttendance
	EmployeeName string
}

// dayBounds returns the [start, end) window of the record's calendar day.
func dayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, start.Add(24 * time.Hour)
}

func (r *repositoryImpl) Create(ctx context.Context, record *models.StaffAttendance) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repositoryImpl) Save(ctx context.Context, record *models.StaffAttendance) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *repositoryImpl) GetByID(ctx context.Context, id uint) (*models.StaffAttendance, error) {
	var record models.StaffAttendance
	err := r.db.WithContext(ctx).First(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repositoryImpl) FindByStaffAndDay(ctx context.Context, staffID uint, day time.Time) (*models.StaffAttendance, error) {
	start, end := dayBounds(day)
	var record models.StaffAttendance
	err := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Where("created_at >= ? AND created_at < ?", start, end).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repositoryImpl) ListByStaffBetween(ctx context.Context, staffID uint, from, to time.Time) ([]models.StaffAttendance, error) {
	var records []models.StaffAttendance
	err := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *repositoryImpl) ListBetween(ctx context.Context, params listAttendanceParams) ([]attendanceRow, int64, error) {
	scope := r.db.WithContext(ctx).
		Model(&models.StaffAttendance{}).
		Joins("JOIN staff ON staff.id = staff_attendances.staff_id").
		Where("staff_attendances.created_at >= ? AND staff_attendances.created_at < ?", params.From, params.To)
	if params.BranchID != 0 {
		scope = scope.Where("staff.branch_id = ?", params.BranchID)
	}

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := params.Page.Normalize()
	var rows []attendanceRow
	err := scope.Select("staff_attendances.*, staff.full_name AS employee_name").
		Order("staff_attendances.created_at DESC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repositoryImpl) ListDay(ctx context.Context, day time.Time, branchID uint) ([]models.StaffAttendance, error) {
	start, end := dayBounds(day)
	scope := r.db.WithContext(ctx).
		Model(&models.StaffAttendance{}).
		Where("staff_attendances.created_at >= ? AND staff_attendances.created_at < ?", start, end)
	if branchID != 0 {
		scope = scope.Joins("JOIN staff ON staff.id = staff_attendances.staff_id").
			Where("staff.branch_id = ?", branchID)
	}

	var records []models.StaffAttendance
	err := scope.Find(&records).Error
	return records, err
}
