package intake

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/taskercompanyofficial/taskercompany-api/internal/catalog"
	"github.com/taskercompanyofficial/taskercompany-api/internal/complaints"
	"github.com/taskercompanyofficial/taskercompany-api/internal/notifications"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/db/models"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/enums"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/logger"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/pagination"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/whatsapp"
)

type fakeSessions struct {
	data map[string]*Session
	puts int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{data: map[string]*Session{}}
}

func (f *fakeSessions) Get(_ context.Context, phone string) (*Session, error) {
	sess, ok := f.data[phone]
	if !ok {
		return nil, nil
	}
	copied := *sess
	return &copied, nil
}

func (f *fakeSessions) Put(_ context.Context, phone string, sess *Session) error {
	copied := *sess
	f.data[phone] = &copied
	f.puts++
	return nil
}

func (f *fakeSessions) Delete(_ context.Context, phone string) error {
	delete(f.data, phone)
	return nil
}

type sentText struct {
	to   string
	body string
}

type sentButtons struct {
	to      string
	body    string
	buttons []whatsapp.Button
}

type fakeMessenger struct {
	texts   []sentText
	buttons []sentButtons
}

func (f *fakeMessenger) SendText(_ context.Context, to, body string) error {
	f.texts = append(f.texts, sentText{to: to, body: body})
	return nil
}

func (f *fakeMessenger) SendButtons(_ context.Context, to, body string, buttons []whatsapp.Button) error {
	f.buttons = append(f.buttons, sentButtons{to: to, body: body, buttons: buttons})
	return nil
}

func (f *fakeMessenger) lastText(t *testing.T) sentText {
	t.Helper()
	if len(f.texts) == 0 {
		t.Fatal("no text messages sent")
	}
	return f.texts[len(f.texts)-1]
}

type fakeComplaints struct {
	created   []complaints.CreateInput
	createErr error
	byNumber  map[string]*models.Complaint
}

func (f *fakeComplaints) Create(_ context.Context, input complaints.CreateInput, _ uint) (*models.Complaint, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, input)
	return &models.Complaint{
		ID:             uint(len(f.created)),
		ComplainNum:    "TC310820261",
		ApplicantName:  input.ApplicantName,
		ApplicantPhone: input.ApplicantPhone,
		Status:         enums.ComplaintStatusOpen,
		ComplaintType:  input.ComplaintType,
		Description:    input.Description,
	}, nil
}

func (f *fakeComplaints) GetByNumber(_ context.Context, number string) (*models.Complaint, error) {
	return f.byNumber[number], nil
}

type fakeCatalog struct {
	branches []models.Branch
	brands   []models.Brand
}

func (f *fakeCatalog) ListBranches(_ context.Context, _ catalog.ListParams) (*pagination.Page[models.Branch], error) {
	return &pagination.Page[models.Branch]{Data: f.branches}, nil
}

func (f *fakeCatalog) ListBrands(_ context.Context, params catalog.ListParams) (*pagination.Page[models.Brand], error) {
	var matched []models.Brand
	for _, b := range f.brands {
		if strings.Contains(strings.ToLower(b.Name), strings.ToLower(params.Search)) {
			matched = append(matched, b)
		}
	}
	return &pagination.Page[models.Brand]{Data: matched}, nil
}

type fakeNotifier struct {
	published []notifications.PublishInput
}

func (f *fakeNotifier) Publish(_ context.Context, input notifications.PublishInput) {
	f.published = append(f.published, input)
}

type botHarness struct {
	svc        Service
	sessions   *fakeSessions
	messenger  *fakeMessenger
	complaints *fakeComplaints
	catalog    *fakeCatalog
	notifier   *fakeNotifier
}

func newBotHarness(t *testing.T) *botHarness {
	t.Helper()

	h := &botHarness{
		sessions:  newFakeSessions(),
		messenger: &fakeMessenger{},
		complaints: &fakeComplaints{
			byNumber: map[string]*models.Complaint{},
		},
		catalog: &fakeCatalog{
			branches: []models.Branch{
				{ID: 4, Name: "Lahore"},
				{ID: 9, Name: "Rawalpindi"},
			},
			brands: []models.Brand{
				{ID: 3, Name: "Haier"},
				{ID: 5, Name: "Dawlance"},
			},
		},
		notifier: &fakeNotifier{},
	}

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(h.sessions, h.complaints, h.catalog, h.messenger, h.notifier, logg)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	h.svc = svc
	return h
}

func (h *botHarness) send(t *testing.T, from, text string) {
	t.Helper()
	if err := h.svc.HandleMessage(context.Background(), from, text); err != nil {
		t.Fatalf("handling %q: %v", text, err)
	}
}

const caller = "923001234567"

func TestGreetingSendsMenu(t *testing.T) {
	h := newBotHarness(t)

	h.send(t, caller, "Hi")

	if len(h.messenger.buttons) != 1 {
		t.Fatalf("expected one interactive message, got %d", len(h.messenger.buttons))
	}
	menu := h.messenger.buttons[0]
	if !strings.Contains(menu.body, "Welcome to Tasker Company!") {
		t.Fatalf("unexpected welcome body: %q", menu.body)
	}
	if len(menu.buttons) != 3 || menu.buttons[1].ID != "register_complaint" {
		t.Fatalf("unexpected menu buttons: %+v", menu.buttons)
	}
	if len(h.sessions.data) != 0 {
		t.Fatal("greeting should not open a session")
	}
}

func TestUnknownInputAtIdle(t *testing.T) {
	h := newBotHarness(t)

	h.send(t, caller, "what do you do")

	if got := h.messenger.lastText(t).body; got != msgHelp {
		t.Fatalf("expected help prompt, got %q", got)
	}
}

func TestSupportReply(t *testing.T) {
	h := newBotHarness(t)

	h.send(t, caller, "support")

	got := h.messenger.lastText(t).body
	if !strings.Contains(got, "+92 302 5117000") {
		t.Fatalf("expected support contact number, got %q", got)
	}
	if len(h.sessions.data) != 0 {
		t.Fatal("support should not open a session")
	}
}

func TestRegistrationFlowCreatesComplaint(t *testing.T) {
	h := newBotHarness(t)

	h.send(t, caller, "register_complaint")
	if got := h.messenger.lastText(t).body; got != msgAskName {
		t.Fatalf("expected name prompt, got %q", got)
	}

	h.send(t, caller, "Ali Raza")
	if got := h.messenger.lastText(t).body; got != msgAskPhone {
		t.Fatalf("expected phone prompt, got %q", got)
	}

	h.send(t, caller, "03001234567")
	h.send(t, caller, "03007654321")
	h.send(t, caller, "House 12, Model Town, Lahore")

	menu := h.messenger.lastText(t).body
	if !strings.Contains(menu, "1. Lahore") || !strings.Contains(menu, "2. Rawalpindi") {
		t.Fatalf("expected numbered branch menu, got %q", menu)
	}

	h.send(t, caller, "2")
	if got := h.messenger.lastText(t).body; got != msgAskType {
		t.Fatalf("expected type prompt, got %q", got)
	}

	h.send(t, caller, "repairing")
	h.send(t, caller, "Haier")
	h.send(t, caller, "AC is not cooling")

	if len(h.complaints.created) != 1 {
		t.Fatalf("expected one complaint, got %d", len(h.complaints.created))
	}
	created := h.complaints.created[0]
	if created.ApplicantName != "Ali Raza" || created.ApplicantPhone != "03001234567" {
		t.Fatalf("unexpected applicant fields: %+v", created)
	}
	if created.BranchID != 9 {
		t.Fatalf("expected branch 9 from menu pick 2, got %d", created.BranchID)
	}
	if created.BrandID == nil || *created.BrandID != 3 {
		t.Fatalf("expected brand Haier matched to id 3, got %v", created.BrandID)
	}
	if created.Description != "AC is not cooling" || created.ComplaintType != "repairing" {
		t.Fatalf("unexpected complaint fields: %+v", created)
	}

	final := h.messenger.lastText(t).body
	if !strings.Contains(final, "TC310820261") {
		t.Fatalf("expected complaint number in confirmation, got %q", final)
	}
	if len(h.sessions.data) != 0 {
		t.Fatal("session should end after registration")
	}
}

func TestInvalidBranchPickDoesNotAdvance(t *testing.T) {
	h := newBotHarness(t)

	h.send(t, caller, "register_complaint")
	h.send(t, caller, "Ali Raza")
	h.send(t, caller, "03001234567")
	h.send(t, caller, "03001234567")
	h.send(t, caller, "House 12, Lahore")

	for _, pick := range []string{"7", "zero"} {
		h.send(t, caller, pick)
		if got := h.messenger.lastText(t).body; got != msgInvalidBranch {
			t.Fatalf("pick %q: expected re-prompt, got %q", pick, got)
		}
	}

	sess := h.sessions.data[caller]
	if sess == nil || sess.Step != stepBranch {
		t.Fatalf("expected session parked at branch step, got %+v", sess)
	}
	if sess.BranchID != 0 {
		t.Fatalf("branch should not be stored on invalid pick, got %d", sess.BranchID)
	}
}

func TestUnmatchedBrandKeptAsProduct(t *testing.T) {
	h := newBotHarness(t)

	h.send(t, caller, "register_complaint")
	for _, answer := range []string{"Ali Raza", "03001234567", "03001234567", "House 12", "1", "repairing", "SuperCool", "compressor noise"} {
		h.send(t, caller, answer)
	}

	created := h.complaints.created[0]
	if created.BrandID != nil {
		t.Fatalf("expected no brand match, got %v", *created.BrandID)
	}
	if created.Product == nil || *created.Product != "SuperCool" {
		t.Fatalf("expected brand text kept as product, got %v", created.Product)
	}
}

func TestRegistrationFailureEndsSession(t *testing.T) {
	h := newBotHarness(t)
	h.complaints.createErr = errors.New("db down")

	h.send(t, caller, "register_complaint")
	for _, answer := range []string{"Ali Raza", "03001234567", "03001234567", "House 12", "1", "repairing", "Haier", "no cooling"} {
		h.send(t, caller, answer)
	}

	if got := h.messenger.lastText(t).body; got != msgCreateFailed {
		t.Fatalf("expected failure message, got %q", got)
	}
	if len(h.sessions.data) != 0 {
		t.Fatal("session should end even when creation fails")
	}
}

func TestCheckStatusFound(t *testing.T) {
	h := newBotHarness(t)
	h.complaints.byNumber["TC150820263"] = &models.Complaint{
		ComplainNum:   "TC150820263",
		Status:        enums.ComplaintStatusInProgress,
		ComplaintType: "repairing",
		Description:   "water leakage",
	}

	h.send(t, caller, "check_status")
	if got := h.messenger.lastText(t).body; got != msgAskNumber {
		t.Fatalf("expected number prompt, got %q", got)
	}

	h.send(t, caller, "TC150820263")

	got := h.messenger.lastText(t).body
	for _, want := range []string{"Complaint Details:", "Number: TC150820263", "Status: in-progress", "Description: water leakage"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in details, got %q", want, got)
		}
	}
	if len(h.sessions.data) != 0 {
		t.Fatal("status lookup should end the session")
	}
}

func TestCheckStatusNotFound(t *testing.T) {
	h := newBotHarness(t)

	h.send(t, caller, "check_status")
	h.send(t, caller, "TC999")

	if got := h.messenger.lastText(t).body; got != msgStatusNotFound {
		t.Fatalf("expected not-found message, got %q", got)
	}
	if len(h.sessions.data) != 0 {
		t.Fatal("status lookup should end the session")
	}

	h.send(t, caller, "TC999")
	if got := h.messenger.lastText(t).body; got != msgHelp {
		t.Fatalf("expected idle help after cleared session, got %q", got)
	}
}

func TestCorruptSessionResets(t *testing.T) {
	h := newBotHarness(t)
	h.sessions.data[caller] = &Session{Mode: modeCollect, Step: 42}

	h.send(t, caller, "anything")

	if got := h.messenger.lastText(t).body; got != msgRestart {
		t.Fatalf("expected restart message, got %q", got)
	}
	if len(h.sessions.data) != 0 {
		t.Fatal("corrupt session should be cleared")
	}
}

func TestEveryInboundMessageNotifiesStaff(t *testing.T) {
	h := newBotHarness(t)

	h.send(t, caller, "hi")
	h.send(t, caller, "support")

	if len(h.notifier.published) != 2 {
		t.Fatalf("expected a broadcast per message, got %d", len(h.notifier.published))
	}
	if h.notifier.published[0].Title != "New WhatsApp Message" {
		t.Fatalf("unexpected broadcast title: %q", h.notifier.published[0].Title)
	}
}
