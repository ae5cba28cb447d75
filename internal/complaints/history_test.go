package complaints

import (
	"strings"
	"testing"

	"github.com/taskercompanyofficial/taskercompany-api/pkg/db/models"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/enums"
)

func TestRenderChangesDescribesEachField(t *testing.T) {
	before := map[string]any{"status": "open", "priority": "low", "applicant_name": "Ali"}
	after := map[string]any{"status": "closed", "priority": "high", "applicant_name": "Ali"}

	got := renderChanges(before, after)

	if !strings.HasPrefix(got, "Complaint updated: ") {
		t.Fatalf("missing prefix: %q", got)
	}
	if !strings.Contains(got, "Status changed from 'open' to 'closed'") {
		t.Fatalf("missing status change: %q", got)
	}
	if !strings.Contains(got, "Priority changed from 'low' to 'high'") {
		t.Fatalf("missing priority change: %q", got)
	}
	if strings.Contains(got, "Applicant name") {
		t.Fatalf("unchanged field should not appear: %q", got)
	}
}

func TestRenderChangesNoChangesPlaceholder(t *testing.T) {
	fields := map[string]any{"status": "open"}
	if got := renderChanges(fields, fields); got != historyNoChanges {
		t.Fatalf("expected placeholder, got %q", got)
	}
}

func TestRenderChangesIgnoresVolatileFields(t *testing.T) {
	before := map[string]any{"updated_at": "2026-01-01", "files": "a.jpg", "status": "open"}
	after := map[string]any{"updated_at": "2026-01-02", "files": "b.jpg", "status": "open"}

	if got := renderChanges(before, after); got != historyNoChanges {
		t.Fatalf("updated_at and files must be excluded from the diff, got %q", got)
	}
}

func TestSnapshotUsesColumnNames(t *testing.T) {
	complaint := &models.Complaint{
		ID:               3,
		ComplainNum:      "TC010120263",
		ApplicantName:    "Sana",
		ApplicantAddress: "House 5, Lahore",
		Status:           enums.ComplaintStatusOpen,
	}

	fields, err := snapshot(complaint)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if fields["complain_num"] != "TC010120263" {
		t.Fatalf("expected complain_num key, got %+v", fields)
	}
	// legacy column spelling is part of the data contract
	if fields["applicant_adress"] != "House 5, Lahore" {
		t.Fatalf("expected applicant_adress key, got %+v", fields)
	}
}

func TestRenderChangesNumericValues(t *testing.T) {
	before := map[string]any{"branch_id": float64(1)}
	after := map[string]any{"branch_id": float64(2)}

	got := renderChanges(before, after)
	if !strings.Contains(got, "Branch id changed from '1' to '2'") {
		t.Fatalf("integers should render without a fraction: %q", got)
	}
}
