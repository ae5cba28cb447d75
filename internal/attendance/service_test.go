package attendance

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taskercompanyofficial/taskercompany-api/internal/jobs"
	"github.com/taskercompanyofficial/taskercompany-api/internal/notifications"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/db/models"
	pkgerrors "github.com/taskercompanyofficial/taskercompany-api/pkg/errors"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/logger"
)

type fakeRepository struct {
	records []*models.StaffAttendance
	nextID  uint
}

func (f *fakeRepository) Create(ctx context.Context, record *models.StaffAttendance) error {
	f.nextID++
	record.ID = f.nextID
	f.records = append(f.records, record)
	return nil
}

func (f *fakeRepository) Save(ctx context.Context, record *models.StaffAttendance) error {
	for i, existing := range f.records {
		if existing.ID == record.ID {
			f.records[i] = record
			return nil
		}
	}
	f.records = append(f.records, record)
	return nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id uint) (*models.StaffAttendance, error) {
	for _, record := range f.records {
		if record.ID == id {
			return record, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) FindByStaffAndDay(ctx context.Context, staffID uint, day time.Time) (*models.StaffAttendance, error) {
	key := day.Format("2006-01-02")
	for _, record := range f.records {
		if record.StaffID == staffID && record.CreatedAt.Format("2006-01-02") == key {
			return record, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) ListByStaffBetween(ctx context.Context, staffID uint, from, to time.Time) ([]models.StaffAttendance, error) {
	var out []models.StaffAttendance
	for _, record := range f.records {
		if record.StaffID != staffID {
			continue
		}
		if record.CreatedAt.Before(from) || !record.CreatedAt.Before(to) {
			continue
		}
		out = append(out, *record)
	}
	return out, nil
}

func (f *fakeRepository) ListBetween(ctx context.Context, params listAttendanceParams) ([]attendanceRow, int64, error) {
	var out []attendanceRow
	for _, record := range f.records {
		if record.CreatedAt.Before(params.From) || !record.CreatedAt.Before(params.To) {
			continue
		}
		out = append(out, attendanceRow{StaffAttendance: *record, EmployeeName: "Ali Raza"})
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepository) ListDay(ctx context.Context, day time.Time, branchID uint) ([]models.StaffAttendance, error) {
	key := day.Format("2006-01-02")
	var out []models.StaffAttendance
	for _, record := range f.records {
		if record.CreatedAt.Format("2006-01-02") == key {
			out = append(out, *record)
		}
	}
	return out, nil
}

type fakeDirectory struct {
	staff map[uint]*models.Staff
}

func (f *fakeDirectory) GetByID(ctx context.Context, id uint) (*models.Staff, error) {
	return f.staff[id], nil
}

func (f *fakeDirectory) ListActive(ctx context.Context, branchID uint) ([]models.Staff, error) {
	var out []models.Staff
	for _, member := range f.staff {
		out = append(out, *member)
	}
	return out, nil
}

type fakeNotifier struct {
	published []notifications.PublishInput
}

func (f *fakeNotifier) Publish(ctx context.Context, input notifications.PublishInput) {
	f.published = append(f.published, input)
}

type fakeJobCounter struct{}

func (fakeJobCounter) Counts(ctx context.Context, technicianID uint) (jobs.Counts, error) {
	return jobs.Counts{Open: 1}, nil
}

type harness struct {
	repo     *fakeRepository
	notifier *fakeNotifier
	svc      *service
}

func newHarness(t *testing.T, now time.Time) *harness {
	t.Helper()
	repo := &fakeRepository{}
	notifier := &fakeNotifier{}
	directory := &fakeDirectory{staff: map[uint]*models.Staff{
		7: {ID: 7, FullName: "Ali Raza", Salary: decimal.NewFromInt(30000)},
	}}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(repo, directory, notifier, fakeJobCounter{}, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	impl := svc.(*service)
	impl.now = func() time.Time { return now }
	return &harness{repo: repo, notifier: notifier, svc: impl}
}

// workday avoids Sundays so payroll assertions stay deterministic.
var workday = time.Date(2026, 8, 31, 8, 30, 0, 0, time.UTC) // a Monday

func checkInInput() CheckInInput {
	return CheckInInput{StaffID: 7, Location: "Branch office", Longitude: 74.35, Latitude: 31.52}
}

func TestCheckInCreatesRecordAndNotifies(t *testing.T) {
	h := newHarness(t, workday)

	record, err := h.svc.CheckIn(context.Background(), checkInInput())
	if err != nil {
		t.Fatalf("check in: %v", err)
	}
	if record.CheckIn == nil || !record.CheckIn.Equal(workday) {
		t.Fatalf("check-in time not stored: %+v", record.CheckIn)
	}
	if len(h.notifier.published) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(h.notifier.published))
	}
	if h.notifier.published[0].Message != "Ali Raza has checked in" {
		t.Fatalf("unexpected message %q", h.notifier.published[0].Message)
	}
}

func TestCheckInTwiceConflicts(t *testing.T) {
	h := newHarness(t, workday)

	if _, err := h.svc.CheckIn(context.Background(), checkInInput()); err != nil {
		t.Fatalf("first check in: %v", err)
	}
	_, err := h.svc.CheckIn(context.Background(), checkInInput())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCheckInFillsEmptyDailyRow(t *testing.T) {
	h := newHarness(t, workday)

	// the daily scheduler pre-creates an empty row
	empty := &models.StaffAttendance{StaffID: 7, CreatedAt: workday.Add(-2 * time.Hour)}
	if err := h.repo.Create(context.Background(), empty); err != nil {
		t.Fatalf("seed: %v", err)
	}

	record, err := h.svc.CheckIn(context.Background(), checkInInput())
	if err != nil {
		t.Fatalf("check in: %v", err)
	}
	if record.ID != empty.ID {
		t.Fatalf("should update the existing row, got new id %d", record.ID)
	}
	if len(h.repo.records) != 1 {
		t.Fatalf("no duplicate rows expected, got %d", len(h.repo.records))
	}
}

func TestCheckOutRequiresCheckIn(t *testing.T) {
	h := newHarness(t, workday)

	input := CheckOutInput{StaffID: 7, Location: "Branch office", Longitude: 74.35, Latitude: 31.52}
	_, err := h.svc.CheckOut(context.Background(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict without check-in, got %v", err)
	}

	// an empty pre-created row is still not a check-in
	empty := &models.StaffAttendance{StaffID: 7, CreatedAt: workday}
	if err := h.repo.Create(context.Background(), empty); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_, err = h.svc.CheckOut(context.Background(), input)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on empty row, got %v", err)
	}
}

func TestCheckOutTwiceConflicts(t *testing.T) {
	h := newHarness(t, workday)

	if _, err := h.svc.CheckIn(context.Background(), checkInInput()); err != nil {
		t.Fatalf("check in: %v", err)
	}
	input := CheckOutInput{StaffID: 7, Location: "Branch office", Longitude: 74.35, Latitude: 31.52}
	if _, err := h.svc.CheckOut(context.Background(), input); err != nil {
		t.Fatalf("check out: %v", err)
	}
	_, err := h.svc.CheckOut(context.Background(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestTodayCreatesEmptyRowOnce(t *testing.T) {
	h := newHarness(t, workday)

	first, err := h.svc.Today(context.Background(), 7)
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if first.CheckIn != nil {
		t.Fatal("fresh row must be empty")
	}
	second, err := h.svc.Today(context.Background(), 7)
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("today must reuse the row, got ids %d and %d", first.ID, second.ID)
	}
}

func seedDay(t *testing.T, h *harness, day time.Time, checkIn *time.Time) {
	t.Helper()
	record := &models.StaffAttendance{StaffID: 7, CheckIn: checkIn, CreatedAt: day}
	if err := h.repo.Create(context.Background(), record); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func at(day time.Time, hour, minute int) *time.Time {
	ts := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
	return &ts
}

func TestRangeEmitsEveryCalendarDay(t *testing.T) {
	h := newHarness(t, workday)

	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	seedDay(t, h, monday, at(monday, 8, 45))                                    // present
	seedDay(t, h, monday.AddDate(0, 0, 1), at(monday.AddDate(0, 0, 1), 10, 30)) // late
	// Wednesday has no row at all

	report, err := h.svc.Range(context.Background(), RangeInput{
		StaffID: 7,
		From:    monday,
		To:      monday.AddDate(0, 0, 2),
	})
	if err != nil {
		t.Fatalf("range: %v", err)
	}

	if len(report.Days) != 3 {
		t.Fatalf("expected one entry per day, got %d", len(report.Days))
	}
	if report.Days[0].Status != DayPresent || report.Days[1].Status != DayLate || report.Days[2].Status != DayAbsent {
		t.Fatalf("unexpected statuses %+v", report.Days)
	}
	if report.Days[2].Record != nil {
		t.Fatal("absent day must be synthetic")
	}
	if report.Stats != (RangeStats{TotalDays: 3, Present: 2, Late: 1, Absent: 1}) {
		t.Fatalf("unexpected stats %+v", report.Stats)
	}
}

func TestRangeLateBoundaryIsExclusive(t *testing.T) {
	h := newHarness(t, workday)

	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	seedDay(t, h, monday, at(monday, 10, 0)) // exactly 10:00:00

	report, err := h.svc.Range(context.Background(), RangeInput{StaffID: 7, From: monday, To: monday})
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if report.Days[0].Status != DayPresent {
		t.Fatalf("10:00:00 sharp is on time, got %s", report.Days[0].Status)
	}
}

func TestRangeFilterKeepsSyntheticAbsents(t *testing.T) {
	h := newHarness(t, workday)

	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	seedDay(t, h, monday, at(monday, 8, 45))
	seedDay(t, h, monday.AddDate(0, 0, 1), at(monday.AddDate(0, 0, 1), 10, 30))

	report, err := h.svc.Range(context.Background(), RangeInput{
		StaffID: 7,
		From:    monday,
		To:      monday.AddDate(0, 0, 1),
		Filter:  string(DayLate),
	})
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	// the filtered-out Monday still appears, demoted to absent
	if report.Days[0].Status != DayAbsent || report.Days[1].Status != DayLate {
		t.Fatalf("unexpected statuses %+v", report.Days)
	}
}

func TestRangeRejectsUnknownFilter(t *testing.T) {
	h := newHarness(t, workday)

	_, err := h.svc.Range(context.Background(), RangeInput{StaffID: 7, Filter: "tardy"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMonthlyStatsUsesNineOClockThreshold(t *testing.T) {
	h := newHarness(t, workday)

	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	out := at(monday, 17, 0)
	record := &models.StaffAttendance{StaffID: 7, CheckIn: at(monday, 9, 30), CheckOut: out, CreatedAt: monday}
	if err := h.repo.Create(context.Background(), record); err != nil {
		t.Fatalf("seed: %v", err)
	}
	seedDay(t, h, monday.AddDate(0, 0, 1), at(monday.AddDate(0, 0, 1), 8, 30)) // in, never out

	stats, err := h.svc.MonthlyStats(context.Background(), 7, monday, monday.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("monthly stats: %v", err)
	}

	// 9:30 is late here even though the range report tolerates it
	if stats.Late != 1 {
		t.Fatalf("expected 1 late day, got %d", stats.Late)
	}
	// present demands both check-in and check-out
	if stats.Present != 1 {
		t.Fatalf("expected 1 present day, got %d", stats.Present)
	}
	if stats.Total != 3 || stats.Absent != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestPayrollSundaysPaidAndExcluded(t *testing.T) {
	h := newHarness(t, workday)

	// Fri 28 Aug .. Mon 31 Aug 2026: Sunday is the 30th
	friday := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	seedDay(t, h, friday, at(friday, 8, 45)) // present
	sunday := friday.AddDate(0, 0, 2)
	seedDay(t, h, sunday, at(sunday, 9, 0)) // stored row is ignored on Sunday
	// Saturday and Monday absent

	report, err := h.svc.Payroll(context.Background(), 7, friday, friday.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("payroll: %v", err)
	}

	if report.Stats.Sundays != 1 || report.Stats.WorkingDays != 3 {
		t.Fatalf("unexpected day tallies %+v", report.Stats)
	}
	if report.Stats.Present != 1 || report.Stats.Absent != 2 {
		t.Fatalf("unexpected presence tallies %+v", report.Stats)
	}

	daily := decimal.NewFromInt(30000).Div(decimal.NewFromInt(30))
	if !report.Stats.DailySalary.Equal(daily) {
		t.Fatalf("daily salary should be base/30, got %s", report.Stats.DailySalary)
	}
	// paid: 1 present day + 1 Sunday
	if !report.Stats.TotalSalary.Equal(daily.Mul(decimal.NewFromInt(2))) {
		t.Fatalf("unexpected total salary %s", report.Stats.TotalSalary)
	}

	for _, day := range report.Days {
		if day.Sunday && day.Record != nil {
			t.Fatal("Sunday entries must be synthetic")
		}
	}
}

func TestPayrollUnknownStaff(t *testing.T) {
	h := newHarness(t, workday)

	_, err := h.svc.Payroll(context.Background(), 404, workday, workday)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMarkPresentConflictsWhenCheckedIn(t *testing.T) {
	h := newHarness(t, workday)

	monday := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	input := MarkPresentInput{StaffID: 7, Date: monday, Location: "Branch office", Longitude: 74.35, Latitude: 31.52}

	record, err := h.svc.MarkPresent(context.Background(), input)
	if err != nil {
		t.Fatalf("mark present: %v", err)
	}
	if record.CheckIn == nil || !record.CheckIn.Equal(monday) {
		t.Fatalf("check-in should carry the given date, got %+v", record.CheckIn)
	}

	_, err = h.svc.MarkPresent(context.Background(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestMarkAbsentClearsAllFields(t *testing.T) {
	h := newHarness(t, workday)

	if _, err := h.svc.CheckIn(context.Background(), checkInInput()); err != nil {
		t.Fatalf("check in: %v", err)
	}
	out := CheckOutInput{StaffID: 7, Location: "Branch office", Longitude: 74.35, Latitude: 31.52}
	if _, err := h.svc.CheckOut(context.Background(), out); err != nil {
		t.Fatalf("check out: %v", err)
	}

	record, err := h.svc.MarkAbsent(context.Background(), 7, workday)
	if err != nil {
		t.Fatalf("mark absent: %v", err)
	}
	if record.CheckIn != nil || record.CheckOut != nil || record.CheckInLocation != nil || record.CheckOutLocation != nil {
		t.Fatalf("all presence fields must be cleared: %+v", record)
	}
}

func TestDailyStatsSplitsPresentAndAbsent(t *testing.T) {
	h := newHarness(t, workday)
	h.svc.directory.(*fakeDirectory).staff[8] = &models.Staff{ID: 8, FullName: "Sana Khan"}

	if _, err := h.svc.CheckIn(context.Background(), checkInInput()); err != nil {
		t.Fatalf("check in: %v", err)
	}

	stats, err := h.svc.DailyStats(context.Background(), 0)
	if err != nil {
		t.Fatalf("daily stats: %v", err)
	}
	if len(stats.Present) != 1 || stats.Present[0].ID != 7 || stats.Present[0].Status != "Present" {
		t.Fatalf("unexpected present board %+v", stats.Present)
	}
	if len(stats.Absent) != 1 || stats.Absent[0].ID != 8 {
		t.Fatalf("unexpected absent board %+v", stats.Absent)
	}
	if stats.Present[0].Jobs.Open != 1 {
		t.Fatalf("job counts should ride along, got %+v", stats.Present[0].Jobs)
	}
}

func TestEnsureDailyRowsBackfillsOnce(t *testing.T) {
	h := newHarness(t, workday)
	h.svc.directory.(*fakeDirectory).staff[8] = &models.Staff{ID: 8, FullName: "Sana Khan"}

	created, err := h.svc.EnsureDailyRows(context.Background())
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if created != 2 {
		t.Fatalf("expected 2 rows, got %d", created)
	}
	// per-staff reminders plus the board broadcast
	if len(h.notifier.published) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(h.notifier.published))
	}

	created, err = h.svc.EnsureDailyRows(context.Background())
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if created != 0 {
		t.Fatalf("second run must be a no-op, got %d", created)
	}
}
