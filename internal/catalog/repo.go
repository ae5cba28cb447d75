package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/taskercompanyofficial/taskercompany-api/pkg/db/models"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/pagination"
)

type listParams struct {
	Search       string
	Status       string
	ParentColumn string
	ParentID     uint
	Page         pagination.Params
}

// store is the shared persistence surface of the five catalog entities. They
// are flat lookup tables with an identical access pattern.
type store[T any] struct {
	db *gorm.DB
}

func newStore[T any](db *gorm.DB) *store[T] {
	return &store[T]{db: db}
}

func (s *store[T]) Create(ctx context.Context, row *T) error {
	return s.db.WithContext(ctx).Create(row).Error
}

func (s *store[T]) Get(ctx context.Context, id uint) (*T, error) {
	var row T
	err := s.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *store[T]) Save(ctx context.Context, row *T) error {
	return s.db.WithContext(ctx).Save(row).Error
}

func (s *store[T]) Delete(ctx context.Context, id uint) (bool, error) {
	var row T
	result := s.db.WithContext(ctx).Delete(&row, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *store[T]) List(ctx context.Context, params listParams) ([]T, int64, error) {
	var row T
	scope := s.db.WithContext(ctx).Model(&row)
	if params.Search != "" {
		scope = scope.Where("name LIKE ?", "%"+params.Search+"%")
	}
	if params.Status != "" {
		scope = scope.Where("status = ?", params.Status)
	}
	if params.ParentColumn != "" && params.ParentID != 0 {
		scope = scope.Where(params.ParentColumn+" = ?", params.ParentID)
	}

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := params.Page.Normalize()
	var rows []T
	err := scope.Order("name ASC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Repository bundles the catalog stores.
type Repository struct {
	Branches    *store[models.Branch]
	Brands      *store[models.Brand]
	Categories  *store[models.Category]
	Services    *store[models.Service]
	SubServices *store[models.SubService]
}

// NewRepository returns catalog stores bound to the provided database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Branches:    newStore[models.Branch](db),
		Brands:      newStore[models.Brand](db),
		Categories:  newStore[models.Category](db),
		Services:    newStore[models.Service](db),
		SubServices: newStore[models.SubService](db),
	}
}
