package catalog

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taskercompanyofficial/taskercompany-api/pkg/db/models"
	pkgerrors "github.com/taskercompanyofficial/taskercompany-api/pkg/errors"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/pagination"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	err = conn.AutoMigrate(
		&models.Branch{},
		&models.Brand{},
		&models.Category{},
		&models.Service{},
		&models.SubService{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestBranchLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	city := "Lahore"
	created, err := svc.CreateBranch(ctx, BranchInput{Name: "Johar Town", City: &city})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != "active" {
		t.Fatalf("default status should be active, got %q", created.Status)
	}

	updated, err := svc.UpdateBranch(ctx, created.ID, BranchInput{Name: "Johar Town II", Status: "inactive"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Johar Town II" || updated.Status != "inactive" {
		t.Fatalf("update not applied: %+v", updated)
	}

	if err := svc.DeleteBranch(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	err = svc.DeleteBranch(ctx, created.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on double delete, got %v", err)
	}
}

func TestListFiltersByNameAndStatus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateBrand(ctx, BrandInput{Name: "Haier"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateBrand(ctx, BrandInput{Name: "Gree", Status: "inactive"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateBrand(ctx, BrandInput{Name: "Dawlance"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	page, err := svc.ListBrands(ctx, ListParams{Search: "aie"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Meta.Total != 1 || page.Data[0].Name != "Haier" {
		t.Fatalf("search should match Haier only, got %+v", page.Data)
	}

	page, err = svc.ListBrands(ctx, ListParams{Status: "active"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Meta.Total != 2 {
		t.Fatalf("expected 2 active brands, got %d", page.Meta.Total)
	}
	// name-sorted
	if page.Data[0].Name != "Dawlance" {
		t.Fatalf("expected name ordering, got %+v", page.Data)
	}
}

func TestServiceRequiresExistingCategory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateService(ctx, ServiceInput{CategoryID: 42, Name: "AC Installation"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing category, got %v", err)
	}

	category, err := svc.CreateCategory(ctx, CategoryInput{Name: "Air Conditioning"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := svc.CreateService(ctx, ServiceInput{CategoryID: category.ID, Name: "AC Installation"}); err != nil {
		t.Fatalf("create service: %v", err)
	}
}

func TestSubServicesScopedToService(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, CategoryInput{Name: "Air Conditioning"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	install, err := svc.CreateService(ctx, ServiceInput{CategoryID: category.ID, Name: "Installation"})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	repair, err := svc.CreateService(ctx, ServiceInput{CategoryID: category.ID, Name: "Repair"})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}

	if _, err := svc.CreateSubService(ctx, SubServiceInput{ServiceID: install.ID, Name: "Split AC"}); err != nil {
		t.Fatalf("create sub-service: %v", err)
	}
	if _, err := svc.CreateSubService(ctx, SubServiceInput{ServiceID: repair.ID, Name: "Gas Refill"}); err != nil {
		t.Fatalf("create sub-service: %v", err)
	}

	page, err := svc.ListSubServices(ctx, ListParams{ParentID: install.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Meta.Total != 1 || page.Data[0].Name != "Split AC" {
		t.Fatalf("expected only the installation sub-service, got %+v", page.Data)
	}
}

func TestListPaginates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	names := []string{"Multan", "Karachi", "Lahore"}
	for _, name := range names {
		if _, err := svc.CreateBranch(ctx, BranchInput{Name: name}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	page, err := svc.ListBranches(ctx, ListParams{Page: pagination.Params{Page: 2, PerPage: 2}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Meta.Total != 3 || len(page.Data) != 1 {
		t.Fatalf("expected 1 row on page 2, got %d of %d", len(page.Data), page.Meta.Total)
	}
	if page.Data[0].Name != "Multan" {
		t.Fatalf("expected Multan last by name, got %q", page.Data[0].Name)
	}
}
