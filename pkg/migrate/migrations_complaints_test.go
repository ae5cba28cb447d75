package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taskercompanyofficial/taskercompany-api/pkg/migrate"
)

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}

func TestComplaintsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_complaints.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no complaints migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE complaints",
		"complain_num VARCHAR(50) NOT NULL",
		"CREATE UNIQUE INDEX idx_complaints_complain_num",
		"branch_id BIGINT NOT NULL REFERENCES branches (id)",
		"CREATE TABLE complaint_histories",
		"data JSONB",
		"CREATE TABLE schedules",
		"DROP TABLE complaints",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
