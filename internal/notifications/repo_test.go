package notifications

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taskercompanyofficial/taskercompany-api/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Notification{}, &models.DeviceToken{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return conn
}

func TestDeviceTokenMissingStaffReturnsEmpty(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	token, err := repo.DeviceToken(context.Background(), 42)
	if err != nil {
		t.Fatalf("device token: %v", err)
	}
	if token != "" {
		t.Fatalf("expected no token for unknown staff, got %q", token)
	}
}

func TestSaveDeviceTokenUpserts(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)

	if err := repo.SaveDeviceToken(context.Background(), 7, "tok-1"); err != nil {
		t.Fatalf("save first token: %v", err)
	}
	if err := repo.SaveDeviceToken(context.Background(), 7, "tok-2"); err != nil {
		t.Fatalf("save second token: %v", err)
	}

	var count int64
	if err := db.Model(&models.DeviceToken{}).Where("staff_id = ?", 7).Count(&count).Error; err != nil {
		t.Fatalf("count tokens: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one row per staff, got %d", count)
	}

	token, err := repo.DeviceToken(context.Background(), 7)
	if err != nil {
		t.Fatalf("device token: %v", err)
	}
	if token != "tok-2" {
		t.Fatalf("expected latest token, got %q", token)
	}
}
