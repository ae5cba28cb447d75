package complaints

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/taskercompanyofficial/taskercompany-api/internal/jobs"
	"github.com/taskercompanyofficial/taskercompany-api/internal/notifications"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/db/models"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/enums"
	pkgerrors "github.com/taskercompanyofficial/taskercompany-api/pkg/errors"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/logger"
)

type fakeRepository struct {
	complaints   map[uint]*models.Complaint
	histories    []models.ComplaintHistory
	schedules    []models.Schedule
	nextID       uint
	statusCount  map[enums.ComplaintStatus]int64
	takenSerials map[string]uint // value -> complaint id holding it
	createErr    error
	saveErr      error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		complaints:   map[uint]*models.Complaint{},
		statusCount:  map[enums.ComplaintStatus]int64{},
		takenSerials: map[string]uint{},
	}
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	complaint.ID = f.nextID
	clone := *complaint
	f.complaints[complaint.ID] = &clone
	return nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id uint) (*models.Complaint, error) {
	if c, ok := f.complaints[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeRepository) GetByNumber(ctx context.Context, number string) (*models.Complaint, error) {
	for _, c := range f.complaints {
		if c.ComplainNum == number {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) MaxID(ctx context.Context) (uint, error) { return f.nextID, nil }

func (f *fakeRepository) CountByStatus(ctx context.Context, status enums.ComplaintStatus) (int64, error) {
	return f.statusCount[status], nil
}

func (f *fakeRepository) SerialNumberTaken(ctx context.Context, column, value string, excludeID uint) (bool, error) {
	holder, ok := f.takenSerials[value]
	return ok && holder != excludeID, nil
}

func (f *fakeRepository) Save(ctx context.Context, complaint *models.Complaint) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	clone := *complaint
	f.complaints[complaint.ID] = &clone
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id uint) error {
	delete(f.complaints, id)
	return nil
}

func (f *fakeRepository) DeleteHistories(ctx context.Context, complaintID uint) error {
	kept := f.histories[:0]
	for _, h := range f.histories {
		if h.ComplaintID != complaintID {
			kept = append(kept, h)
		}
	}
	f.histories = kept
	return nil
}

func (f *fakeRepository) CreateHistory(ctx context.Context, history *models.ComplaintHistory) error {
	history.ID = uint(len(f.histories) + 1)
	f.histories = append(f.histories, *history)
	return nil
}

func (f *fakeRepository) ListHistories(ctx context.Context, complaintID uint) ([]models.ComplaintHistory, error) {
	var out []models.ComplaintHistory
	for _, h := range f.histories {
		if h.ComplaintID == complaintID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeRepository) CreateSchedule(ctx context.Context, schedule *models.Schedule) error {
	f.schedules = append(f.schedules, *schedule)
	return nil
}

func (f *fakeRepository) List(ctx context.Context, params listComplaintsParams) ([]models.Complaint, int64, error) {
	return nil, 0, nil
}

func (f *fakeRepository) StatusCounts(ctx context.Context, branchID uint) (map[enums.ComplaintStatus]int64, error) {
	return f.statusCount, nil
}

type fakeTxRunner struct {
	failWith error
}

func (f *fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if f.failWith != nil {
		return f.failWith
	}
	return fn(nil)
}

type fakeNotifier struct {
	published []notifications.PublishInput
}

func (f *fakeNotifier) Publish(ctx context.Context, input notifications.PublishInput) {
	f.published = append(f.published, input)
}

type fakeAssigner struct {
	assigned []jobs.AssignInput
	notified int
	err      error
}

func (f *fakeAssigner) Assign(ctx context.Context, input jobs.AssignInput) (*jobs.AssignResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.assigned = append(f.assigned, input)
	return &jobs.AssignResult{Job: models.AssignedJob{ID: 1, JobID: input.ComplaintID}}, nil
}

func (f *fakeAssigner) NotifyAssigned(ctx context.Context, input jobs.AssignInput, result *jobs.AssignResult) {
	f.notified++
}

func (f *fakeAssigner) DeleteForComplaint(ctx context.Context, tx *gorm.DB, complaintID uint) error {
	return nil
}

type fakeWhatsApp struct {
	texts     []string
	templates []string
	err       error
}

func (f *fakeWhatsApp) SendText(ctx context.Context, to, body string) error {
	f.texts = append(f.texts, body)
	return f.err
}

func (f *fakeWhatsApp) SendTemplate(ctx context.Context, to, templateName, languageCode string, bodyParams []string) error {
	f.templates = append(f.templates, templateName)
	return f.err
}

type testHarness struct {
	repo     *fakeRepository
	notifier *fakeNotifier
	assigner *fakeAssigner
	wa       *fakeWhatsApp
	svc      Service
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	h := &testHarness{
		repo:     newFakeRepository(),
		notifier: &fakeNotifier{},
		assigner: &fakeAssigner{},
		wa:       &fakeWhatsApp{},
	}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(h.repo, &fakeTxRunner{}, h.notifier, h.assigner, h.wa, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	h.svc = svc
	return h
}

func validCreateInput() CreateInput {
	return CreateInput{
		ApplicantName:     "Ali Raza",
		ApplicantPhone:    "03001234567",
		ApplicantWhatsapp: "923001234567",
		ApplicantAddress:  "House 5, Lahore",
		BranchID:          1,
		ComplaintType:     "repair",
	}
}

func validUpdateInput(status enums.ComplaintStatus) UpdateInput {
	return UpdateInput{CreateInput: validCreateInput(), Status: status}
}

func TestCreateGeneratesSequentialNumber(t *testing.T) {
	h := newHarness(t)

	datePart := time.Now().Format("02012006")
	for i := 1; i <= 3; i++ {
		complaint, err := h.svc.Create(context.Background(), validCreateInput(), 9)
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		want := fmt.Sprintf("TC%s%d", datePart, i)
		if complaint.ComplainNum != want {
			t.Fatalf("expected number %s, got %s", want, complaint.ComplainNum)
		}
		if complaint.Status != enums.ComplaintStatusOpen {
			t.Fatalf("new complaint should be open, got %s", complaint.Status)
		}
	}
}

func TestCreateFiresBroadcastAndTemplate(t *testing.T) {
	h := newHarness(t)

	if _, err := h.svc.Create(context.Background(), validCreateInput(), 9); err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(h.notifier.published) != 1 || h.notifier.published[0].Title != "New Complaint" {
		t.Fatalf("expected new-complaint broadcast, got %+v", h.notifier.published)
	}
	if len(h.wa.templates) != 1 || h.wa.templates[0] != createTemplateName {
		t.Fatalf("expected create template send, got %+v", h.wa.templates)
	}
}

func TestCreateMapsDuplicateNumberToConflict(t *testing.T) {
	h := newHarness(t)
	h.repo.createErr = errors.New(`ERROR: duplicate key value violates unique constraint "idx_complaints_complain_num" (SQLSTATE 23505)`)

	_, err := h.svc.Create(context.Background(), validCreateInput(), 9)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on duplicate complaint number, got %v", err)
	}
}

func TestUpdateMapsUniqueViolationToConflict(t *testing.T) {
	h := newHarness(t)
	created, err := h.svc.Create(context.Background(), validCreateInput(), 9)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	h.repo.saveErr = errors.New(`ERROR: duplicate key value violates unique constraint "idx_complaints_serial_number_ind" (SQLSTATE 23505)`)

	_, err = h.svc.Update(context.Background(), created.ID, validUpdateInput(enums.ComplaintStatusInProgress), 9)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on unique violation, got %v", err)
	}
}

func TestCreateSucceedsWhenWhatsAppFails(t *testing.T) {
	h := newHarness(t)
	h.wa.err = errors.New("gateway down")

	if _, err := h.svc.Create(context.Background(), validCreateInput(), 9); err != nil {
		t.Fatalf("create must not fail on messaging outage: %v", err)
	}
}

func TestUpdateWritesHistoryRow(t *testing.T) {
	h := newHarness(t)
	created, _ := h.svc.Create(context.Background(), validCreateInput(), 9)

	input := validUpdateInput(enums.ComplaintStatusInProgress)
	if _, err := h.svc.Update(context.Background(), created.ID, input, 9); err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(h.repo.histories) != 1 {
		t.Fatalf("expected 1 history row, got %d", len(h.repo.histories))
	}
	history := h.repo.histories[0]
	if history.UserID != 9 {
		t.Fatalf("history should record the acting staff, got %d", history.UserID)
	}
	if !strings.Contains(history.Description, "Status changed from 'open' to 'in-progress'") {
		t.Fatalf("unexpected history description: %q", history.Description)
	}
	if !strings.Contains(string(history.Data), created.ComplainNum) {
		t.Fatalf("history data should snapshot the complaint: %s", history.Data)
	}
}

func TestMarkTechnicianReachedRecordsTransition(t *testing.T) {
	h := newHarness(t)
	created, _ := h.svc.Create(context.Background(), validCreateInput(), 9)

	updated, err := h.svc.MarkTechnicianReached(context.Background(), created.ID, 4)
	if err != nil {
		t.Fatalf("mark technician reached: %v", err)
	}
	if updated.Status != enums.ComplaintStatusTechnicianReached {
		t.Fatalf("expected technician_reached status, got %s", updated.Status)
	}

	if len(h.repo.histories) != 1 {
		t.Fatalf("expected 1 history row, got %d", len(h.repo.histories))
	}
	history := h.repo.histories[0]
	if history.UserID != 4 {
		t.Fatalf("history should record the acting staff, got %d", history.UserID)
	}
	if !strings.Contains(history.Description, "technician_reached") {
		t.Fatalf("unexpected history description: %q", history.Description)
	}
}

func TestMarkTechnicianReachedUnknownComplaint(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.MarkTechnicianReached(context.Background(), 404, 4)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestUpdateNoChangesUsesPlaceholder(t *testing.T) {
	h := newHarness(t)
	created, _ := h.svc.Create(context.Background(), validCreateInput(), 9)

	input := validUpdateInput(enums.ComplaintStatusOpen)
	if _, err := h.svc.Update(context.Background(), created.ID, input, 9); err != nil {
		t.Fatalf("update: %v", err)
	}

	if h.repo.histories[0].Description != historyNoChanges {
		t.Fatalf("expected placeholder description, got %q", h.repo.histories[0].Description)
	}
}

func TestUpdateSerialNumbersRequiredForStrictStatuses(t *testing.T) {
	h := newHarness(t)
	create := validCreateInput()
	create.ComplaintType = string(enums.ComplaintTypeNewInstallation)
	created, _ := h.svc.Create(context.Background(), create, 9)

	for _, status := range []enums.ComplaintStatus{
		enums.ComplaintStatusFeedbackPending,
		enums.ComplaintStatusPendingByBrand,
		enums.ComplaintStatusClosed,
	} {
		input := validUpdateInput(status)
		input.ComplaintType = string(enums.ComplaintTypeNewInstallation)
		_, err := h.svc.Update(context.Background(), created.ID, input, 9)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("status %s: expected validation error, got %v", status, err)
		}
	}

	// any other status accepts missing serials
	input := validUpdateInput(enums.ComplaintStatusInProgress)
	input.ComplaintType = string(enums.ComplaintTypeNewInstallation)
	if _, err := h.svc.Update(context.Background(), created.ID, input, 9); err != nil {
		t.Fatalf("non-strict status should accept missing serials: %v", err)
	}
}

func TestUpdateSerialNumberUniqueness(t *testing.T) {
	h := newHarness(t)
	create := validCreateInput()
	create.ComplaintType = string(enums.ComplaintTypeNewInstallation)
	created, _ := h.svc.Create(context.Background(), create, 9)

	h.repo.takenSerials["IND-1"] = 999 // held by another complaint

	ind, oud := "IND-1", "OUD-1"
	input := validUpdateInput(enums.ComplaintStatusClosed)
	input.ComplaintType = string(enums.ComplaintTypeNewInstallation)
	input.SerialNumberInd = &ind
	input.SerialNumberOud = &oud

	_, err := h.svc.Update(context.Background(), created.ID, input, 9)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected conflict for duplicate serial, got %v", err)
	}

	// the same serial held by this very complaint is fine
	h.repo.takenSerials["IND-1"] = created.ID
	if _, err := h.svc.Update(context.Background(), created.ID, input, 9); err != nil {
		t.Fatalf("self-held serial should pass: %v", err)
	}
}

func TestUpdateFeedbackPendingCap(t *testing.T) {
	h := newHarness(t)
	created, _ := h.svc.Create(context.Background(), validCreateInput(), 9)

	h.repo.statusCount[enums.ComplaintStatusFeedbackPending] = 50
	input := validUpdateInput(enums.ComplaintStatusFeedbackPending)
	_, err := h.svc.Update(context.Background(), created.ID, input, 9)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected cap rejection at 50, got %v", err)
	}

	h.repo.statusCount[enums.ComplaintStatusFeedbackPending] = 49
	if _, err := h.svc.Update(context.Background(), created.ID, input, 9); err != nil {
		t.Fatalf("expected success at 49, got %v", err)
	}
}

func TestUpdateDelegatesJobAssignment(t *testing.T) {
	h := newHarness(t)
	created, _ := h.svc.Create(context.Background(), validCreateInput(), 9)

	tech := uint(7)
	input := validUpdateInput(enums.ComplaintStatusAssigned)
	input.Technician = &tech
	input.SendMessageToTechnician = true
	input.JobDescription = "AC not cooling"

	if _, err := h.svc.Update(context.Background(), created.ID, input, 9); err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(h.assigner.assigned) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(h.assigner.assigned))
	}
	if h.assigner.assigned[0].TechnicianID != 7 {
		t.Fatalf("unexpected technician %d", h.assigner.assigned[0].TechnicianID)
	}
	if h.assigner.notified != 1 {
		t.Fatalf("assignment notification should fire after commit, got %d", h.assigner.notified)
	}
}

func TestUpdateRollsBackOnTransactionFailure(t *testing.T) {
	h := newHarness(t)
	created, _ := h.svc.Create(context.Background(), validCreateInput(), 9)

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(h.repo, &fakeTxRunner{failWith: errors.New("deadlock")}, h.notifier, h.assigner, h.wa, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	input := validUpdateInput(enums.ComplaintStatusClosed)
	if _, err := svc.Update(context.Background(), created.ID, input, 9); err == nil {
		t.Fatal("expected failure")
	}
	if h.assigner.notified != 0 {
		t.Fatal("no side effects may fire when the transaction fails")
	}
	if len(h.wa.texts) != 0 {
		t.Fatal("closure message must not send when the transaction fails")
	}
}

func TestUpdateClosedSendsUrduText(t *testing.T) {
	h := newHarness(t)
	created, _ := h.svc.Create(context.Background(), validCreateInput(), 9)

	input := validUpdateInput(enums.ComplaintStatusClosed)
	if _, err := h.svc.Update(context.Background(), created.ID, input, 9); err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(h.wa.texts) != 1 {
		t.Fatalf("expected closure text, got %d", len(h.wa.texts))
	}
	if !strings.Contains(h.wa.texts[0], "masla hal kar diya gaya hai") {
		t.Fatalf("unexpected closure body: %q", h.wa.texts[0])
	}

	// updating again with the same status must not re-send
	if _, err := h.svc.Update(context.Background(), created.ID, input, 9); err != nil {
		t.Fatalf("second update: %v", err)
	}
	if len(h.wa.texts) != 1 {
		t.Fatalf("unchanged status should not re-send, got %d texts", len(h.wa.texts))
	}
}

func TestCancelStoresReasonAndFile(t *testing.T) {
	h := newHarness(t)
	created, _ := h.svc.Create(context.Background(), validCreateInput(), 9)

	file := "cancelled_complaints/evidence.jpg"
	err := h.svc.Cancel(context.Background(), created.ID, CancelInput{
		Reason:  "customer request",
		Details: "moved to another city",
		File:    &file,
	})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}

	stored := h.repo.complaints[created.ID]
	if stored.Status != enums.ComplaintStatusCancelled {
		t.Fatalf("expected cancelled, got %s", stored.Status)
	}
	if stored.CancellationReason == nil || *stored.CancellationReason != "customer request" {
		t.Fatalf("reason not stored: %+v", stored.CancellationReason)
	}
	if stored.CancellationFile == nil || *stored.CancellationFile != file {
		t.Fatalf("file not stored: %+v", stored.CancellationFile)
	}
}

func TestScheduleRequiresFutureDate(t *testing.T) {
	h := newHarness(t)
	created, _ := h.svc.Create(context.Background(), validCreateInput(), 9)

	err := h.svc.Schedule(context.Background(), created.ID, ScheduleInput{Date: time.Now().Add(-time.Hour)})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for past date, got %v", err)
	}

	if err := h.svc.Schedule(context.Background(), created.ID, ScheduleInput{Date: time.Now().Add(48 * time.Hour)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if h.repo.complaints[created.ID].Status != enums.ComplaintStatusScheduled {
		t.Fatalf("expected scheduled status, got %s", h.repo.complaints[created.ID].Status)
	}
	if len(h.repo.schedules) != 1 {
		t.Fatalf("expected schedule row, got %d", len(h.repo.schedules))
	}
}

func TestDeleteCascades(t *testing.T) {
	h := newHarness(t)
	created, _ := h.svc.Create(context.Background(), validCreateInput(), 9)
	if _, err := h.svc.Update(context.Background(), created.ID, validUpdateInput(enums.ComplaintStatusInProgress), 9); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := h.svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(h.repo.histories) != 0 {
		t.Fatalf("histories should cascade, got %d", len(h.repo.histories))
	}
	if _, ok := h.repo.complaints[created.ID]; ok {
		t.Fatal("complaint should be gone")
	}
}

func TestGetNotFound(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Get(context.Background(), 404)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
