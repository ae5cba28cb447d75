package catalog

import (
	"context"

	"github.com/taskercompanyofficial/taskercompany-api/pkg/db/models"
	pkgerrors "github.com/taskercompanyofficial/taskercompany-api/pkg/errors"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/pagination"
)

// ListParams configures catalog listings. ParentID narrows services to a
// category or sub-services to a service.
type ListParams struct {
	Search   string
	Status   string
	ParentID uint
	Page     pagination.Params
}

// BranchInput carries a branch create or update.
type BranchInput struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	Phone   *string `json:"phone"`
	Status  string  `json:"status"`
}

// BrandInput carries an authorized-brand create or update.
type BrandInput struct {
	Name   string  `json:"name" validate:"required,max=255"`
	Logo   *string `json:"logo"`
	Status string  `json:"status"`
}

// CategoryInput carries a category create or update.
type CategoryInput struct {
	Name   string  `json:"name" validate:"required,max=255"`
	Image  *string `json:"image"`
	Status string  `json:"status"`
}

// ServiceInput carries a service create or update.
type ServiceInput struct {
	CategoryID  uint    `json:"category_id" validate:"required"`
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
}

// SubServiceInput carries a sub-service create or update.
type SubServiceInput struct {
	ServiceID uint   `json:"service_id" validate:"required"`
	Name      string `json:"name" validate:"required,max=255"`
	Status    string `json:"status"`
}

// Service defines the catalog maintenance operations.
type Service interface {
	ListBranches(ctx context.Context, params ListParams) (*pagination.Page[models.Branch], error)
	CreateBranch(ctx context.Context, input BranchInput) (*models.Branch, error)
	UpdateBranch(ctx context.Context, id uint, input BranchInput) (*models.Branch, error)
	DeleteBranch(ctx context.Context, id uint) error

	ListBrands(ctx context.Context, params ListParams) (*pagination.Page[models.Brand], error)
	CreateBrand(ctx context.Context, input BrandInput) (*models.Brand, error)
	UpdateBrand(ctx context.Context, id uint, input BrandInput) (*models.Brand, error)
	DeleteBrand(ctx context.Context, id uint) error

	ListCategories(ctx context.Context, params ListParams) (*pagination.Page[models.Category], error)
	CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uint, input CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uint) error

	ListServices(ctx context.Context, params ListParams) (*pagination.Page[models.Service], error)
	CreateService(ctx context.Context, input ServiceInput) (*models.Service, error)
	UpdateService(ctx context.Context, id uint, input ServiceInput) (*models.Service, error)
	DeleteService(ctx context.Context, id uint) error

	ListSubServices(ctx context.Context, params ListParams) (*pagination.Page[models.SubService], error)
	CreateSubService(ctx context.Context, input SubServiceInput) (*models.SubService, error)
	UpdateSubService(ctx context.Context, id uint, input SubServiceInput) (*models.SubService, error)
	DeleteSubService(ctx context.Context, id uint) error
}

type service struct {
	repo *Repository
}

// NewService wires the catalog dependencies.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog repository required")
	}
	return &service{repo: repo}, nil
}

func defaultStatus(status string) string {
	if status == "" {
		return "active"
	}
	return status
}

func list[T any](ctx context.Context, st *store[T], params ListParams, parentColumn string) (*pagination.Page[T], error) {
	rows, total, err := st.List(ctx, listParams{
		Search:       params.Search,
		Status:       params.Status,
		ParentColumn: parentColumn,
		ParentID:     params.ParentID,
		Page:         params.Page,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list catalog rows")
	}
	return &pagination.Page[T]{Data: rows, Meta: pagination.NewMeta(params.Page, total)}, nil
}

func get[T any](ctx context.Context, st *store[T], id uint) (*T, error) {
	row, err := st.Get(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog row")
	}
	if row == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "record not found")
	}
	return row, nil
}

func remove[T any](ctx context.Context, st *store[T], id uint) error {
	found, err := st.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete catalog row")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "record not found")
	}
	return nil
}

func (s *service) ListBranches(ctx context.Context, params ListParams) (*pagination.Page[models.Branch], error) {
	return list(ctx, s.repo.Branches, params, "")
}

func (s *service) CreateBranch(ctx context.Context, input BranchInput) (*models.Branch, error) {
	branch := models.Branch{
		Name:    input.Name,
		Address: input.Address,
		City:    input.City,
		Phone:   input.Phone,
		Status:  defaultStatus(input.Status),
	}
	if err := s.repo.Branches.Create(ctx, &branch); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create branch")
	}
	return &branch, nil
}

func (s *service) UpdateBranch(ctx context.Context, id uint, input BranchInput) (*models.Branch, error) {
	branch, err := get(ctx, s.repo.Branches, id)
	if err != nil {
		return nil, err
	}
	branch.Name = input.Name
	branch.Address = input.Address
	branch.City = input.City
	branch.Phone = input.Phone
	branch.Status = defaultStatus(input.Status)
	if err := s.repo.Branches.Save(ctx, branch); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save branch")
	}
	return branch, nil
}

func (s *service) DeleteBranch(ctx context.Context, id uint) error {
	return remove(ctx, s.repo.Branches, id)
}

func (s *service) ListBrands(ctx context.Context, params ListParams) (*pagination.Page[models.Brand], error) {
	return list(ctx, s.repo.Brands, params, "")
}

func (s *service) CreateBrand(ctx context.Context, input BrandInput) (*models.Brand, error) {
	brand := models.Brand{
		Name:   input.Name,
		Logo:   input.Logo,
		Status: defaultStatus(input.Status),
	}
	if err := s.repo.Brands.Create(ctx, &brand); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create brand")
	}
	return &brand, nil
}

func (s *service) UpdateBrand(ctx context.Context, id uint, input BrandInput) (*models.Brand, error) {
	brand, err := get(ctx, s.repo.Brands, id)
	if err != nil {
		return nil, err
	}
	brand.Name = input.Name
	brand.Logo = input.Logo
	brand.Status = defaultStatus(input.Status)
	if err := s.repo.Brands.Save(ctx, brand); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save brand")
	}
	return brand, nil
}

func (s *service) DeleteBrand(ctx context.Context, id uint) error {
	return remove(ctx, s.repo.Brands, id)
}

func (s *service) ListCategories(ctx context.Context, params ListParams) (*pagination.Page[models.Category], error) {
	return list(ctx, s.repo.Categories, params, "")
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	category := models.Category{
		Name:   input.Name,
		Image:  input.Image,
		Status: defaultStatus(input.Status),
	}
	if err := s.repo.Categories.Create(ctx, &category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return &category, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uint, input CategoryInput) (*models.Category, error) {
	category, err := get(ctx, s.repo.Categories, id)
	if err != nil {
		return nil, err
	}
	category.Name = input.Name
	category.Image = input.Image
	category.Status = defaultStatus(input.Status)
	if err := s.repo.Categories.Save(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save category")
	}
	return category, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uint) error {
	return remove(ctx, s.repo.Categories, id)
}

func (s *service) ListServices(ctx context.Context, params ListParams) (*pagination.Page[models.Service], error) {
	return list(ctx, s.repo.Services, params, "category_id")
}

func (s *service) CreateService(ctx context.Context, input ServiceInput) (*models.Service, error) {
	if err := s.requireCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}
	offering := models.Service{
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Description: input.Description,
		Status:      defaultStatus(input.Status),
	}
	if err := s.repo.Services.Create(ctx, &offering); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create service")
	}
	return &offering, nil
}

func (s *service) UpdateService(ctx context.Context, id uint, input ServiceInput) (*models.Service, error) {
	offering, err := get(ctx, s.repo.Services, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}
	offering.CategoryID = input.CategoryID
	offering.Name = input.Name
	offering.Description = input.Description
	offering.Status = defaultStatus(input.Status)
	if err := s.repo.Services.Save(ctx, offering); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save service")
	}
	return offering, nil
}

func (s *service) DeleteService(ctx context.Context, id uint) error {
	return remove(ctx, s.repo.Services, id)
}

func (s *service) ListSubServices(ctx context.Context, params ListParams) (*pagination.Page[models.SubService], error) {
	return list(ctx, s.repo.SubServices, params, "service_id")
}

func (s *service) CreateSubService(ctx context.Context, input SubServiceInput) (*models.SubService, error) {
	if err := s.requireService(ctx, input.ServiceID); err != nil {
		return nil, err
	}
	offering := models.SubService{
		ServiceID: input.ServiceID,
		Name:      input.Name,
		Status:    defaultStatus(input.Status),
	}
	if err := s.repo.SubServices.Create(ctx, &offering); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create sub-service")
	}
	return &offering, nil
}

func (s *service) UpdateSubService(ctx context.Context, id uint, input SubServiceInput) (*models.SubService, error) {
	offering, err := get(ctx, s.repo.SubServices, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireService(ctx, input.ServiceID); err != nil {
		return nil, err
	}
	offering.ServiceID = input.ServiceID
	offering.Name = input.Name
	offering.Status = defaultStatus(input.Status)
	if err := s.repo.SubServices.Save(ctx, offering); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save sub-service")
	}
	return offering, nil
}

func (s *service) DeleteSubService(ctx context.Context, id uint) error {
	return remove(ctx, s.repo.SubServices, id)
}

func (s *service) requireCategory(ctx context.Context, id uint) error {
	category, err := s.repo.Categories.Get(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	if category == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "category not found")
	}
	return nil
}

func (s *service) requireService(ctx context.Context, id uint) error {
	offering, err := s.repo.Services.Get(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service")
	}
	if offering == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "service not found")
	}
	return nil
}
