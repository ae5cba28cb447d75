package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taskercompanyofficial/taskercompany-api/internal/jobs"
	"github.com/taskercompanyofficial/taskercompany-api/internal/notifications"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/db/models"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/enums"
	pkgerrors "github.com/taskercompanyofficial/taskercompany-api/pkg/errors"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/logger"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/pagination"
)

// Two late thresholds coexist: the range report flags arrivals after 10:00,
// the monthly dashboard after 09:00. Both are kept per call site.
const (
	lateThresholdReport = "10:00:00"
	lateThresholdStats  = "09:00"

	payrollDivisor = 30
)

// Notifier is the fan-out surface attendance depends on.
type Notifier interface {
	Publish(ctx context.Context, input notifications.PublishInput)
}

// StaffDirectory resolves staff identities and salaries.
type StaffDirectory interface {
	GetByID(ctx context.Context, id uint) (*models.Staff, error)
	ListActive(ctx context.Context, branchID uint) ([]models.Staff, error)
}

// JobCounter reports a technician's live work-order tallies for the daily board.
type JobCounter interface {
	Counts(ctx context.Context, technicianID uint) (jobs.Counts, error)
}

// Service defines the attendance ledger operations.
type Service interface {
	CheckIn(ctx context.Context, input CheckInInput) (*models.StaffAttendance, error)
	CheckOut(ctx context.Context, input CheckOutInput) (*models.StaffAttendance, error)
	Today(ctx context.Context, staffID uint) (*models.StaffAttendance, error)
	Range(ctx context.Context, input RangeInput) (*RangeReport, error)
	MonthlyStats(ctx context.Context, staffID uint, from, to time.Time) (*MonthlyStats, error)
	Payroll(ctx context.Context, staffID uint, from, to time.Time) (*PayrollReport, error)
	MarkPresent(ctx context.Context, input MarkPresentInput) (*models.StaffAttendance, error)
	MarkAbsent(ctx context.Context, staffID uint, date time.Time) (*models.StaffAttendance, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	DailyStats(ctx context.Context, branchID uint) (*DailyStats, error)
	EnsureDailyRows(ctx context.Context) (int, error)
}

type service struct {
	repo       Repository
	directory  StaffDirectory
	notifier   Notifier
	jobCounter JobCounter
	logg       *logger.Logger
	now        func() time.Time
}

// NewService wires the attendance ledger dependencies.
func NewService(repo Repository, directory StaffDirectory, notifier Notifier, jobCounter JobCounter, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "attendance repository required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		repo:       repo,
		directory:  directory,
		notifier:   notifier,
		jobCounter: jobCounter,
		logg:       logg,
		now:        time.Now,
	}, nil
}

func (s *service) CheckIn(ctx context.Context, input CheckInInput) (*models.StaffAttendance, error) {
	if input.StaffID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "staff id required")
	}
	if input.Location == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location required")
	}

	now := s.now()
	record, err := s.repo.FindByStaffAndDay(ctx, input.StaffID, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load today's attendance")
	}

	if record != nil {
		if record.CheckIn != nil {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "already checked in for today")
		}
		record.CheckIn = &now
		record.CheckInLocation = &input.Location
		record.CheckInLongitude = &input.Longitude
		record.CheckInLatitude = &input.Latitude
		if err := s.repo.Save(ctx, record); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save check-in")
		}
	} else {
		record = &models.StaffAttendance{
			StaffID:          input.StaffID,
			CheckIn:          &now,
			CheckInLocation:  &input.Location,
			CheckInLongitude: &input.Longitude,
			CheckInLatitude:  &input.Latitude,
			CreatedAt:        now,
		}
		if err := s.repo.Create(ctx, record); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create check-in")
		}
	}

	s.notifyPresence(ctx, input.StaffID, "checked in")
	return record, nil
}

func (s *service) CheckOut(ctx context.Context, input CheckOutInput) (*models.StaffAttendance, error) {
	if input.StaffID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "staff id required")
	}
	if input.Location == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location required")
	}

	now := s.now()
	record, err := s.repo.FindByStaffAndDay(ctx, input.StaffID, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load today's attendance")
	}
	if record == nil || record.CheckIn == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "please check in first")
	}
	if record.CheckOut != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "already checked out for today")
	}

	record.CheckOut = &now
	record.CheckOutLocation = &input.Location
	record.CheckOutLongitude = &input.Longitude
	record.CheckOutLatitude = &input.Latitude
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save check-out")
	}

	s.notifyPresence(ctx, input.StaffID, "checked out")
	return record, nil
}

// notifyPresence broadcasts the check event to the CRM dashboard. Failures
// never surface to the staff member.
func (s *service) notifyPresence(ctx context.Context, staffID uint, action string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(ctx, notifications.PublishInput{
		Title:    "New Notification",
		Message:  fmt.Sprintf("%s has %s", s.staffName(ctx, staffID), action),
		Severity: enums.SeverityInfo,
	})
}

func (s *service) staffName(ctx context.Context, staffID uint) string {
	if s.directory == nil {
		return fmt.Sprintf("Staff %d", staffID)
	}
	staff, err := s.directory.GetByID(ctx, staffID)
	if err != nil || staff == nil {
		return fmt.Sprintf("Staff %d", staffID)
	}
	return staff.FullName
}

// Today returns the staff member's record for the current day, creating an
// empty one when none exists yet.
func (s *service) Today(ctx context.Context, staffID uint) (*models.StaffAttendance, error) {
	if staffID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "staff id required")
	}

	now := s.now()
	record, err := s.repo.FindByStaffAndDay(ctx, staffID, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load today's attendance")
	}
	if record != nil {
		return record, nil
	}

	record = &models.StaffAttendance{StaffID: staffID, CreatedAt: now}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create attendance record")
	}
	return record, nil
}

func (s *service) Range(ctx context.Context, input RangeInput) (*RangeReport, error) {
	if input.StaffID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "staff id required")
	}
	switch input.Filter {
	case "", "all", string(DayPresent), string(DayLate), string(DayAbsent):
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "filter must be one of all, present, late, absent")
	}

	from, to, err := s.reportWindow(input.From, input.To)
	if err != nil {
		return nil, err
	}

	fromStart, _ := dayBounds(from)
	_, toEnd := dayBounds(to)
	records, err := s.repo.ListByStaffBetween(ctx, input.StaffID, fromStart, toEnd)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list attendance")
	}

	byDay := indexByDay(records, input.Filter)

	report := &RangeReport{}
	for day := fromStart; day.Before(toEnd); day = day.AddDate(0, 0, 1) {
		record := byDay[day.Format("2006-01-02")]
		status := dayStatus(record, lateThresholdReport, "15:04:05")

		report.Days = append(report.Days, DayEntry{Date: day, Status: status, Record: record})
		report.Stats.TotalDays++
		switch status {
		case DayAbsent:
			report.Stats.Absent++
		case DayLate:
			report.Stats.Present++
			report.Stats.Late++
		default:
			report.Stats.Present++
		}
	}
	return report, nil
}

func (s *service) MonthlyStats(ctx context.Context, staffID uint, from, to time.Time) (*MonthlyStats, error) {
	if staffID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "staff id required")
	}
	from, to, err := s.reportWindow(from, to)
	if err != nil {
		return nil, err
	}

	fromStart, _ := dayBounds(from)
	_, toEnd := dayBounds(to)
	records, err := s.repo.ListByStaffBetween(ctx, staffID, fromStart, toEnd)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list attendance")
	}

	stats := &MonthlyStats{Total: int(toEnd.Sub(fromStart).Hours() / 24)}
	for _, record := range records {
		if record.CheckIn != nil && record.CheckOut != nil {
			stats.Present++
		}
		if record.CheckIn != nil && record.CheckIn.Format("15:04") > lateThresholdStats {
			stats.Late++
		}
	}
	stats.Absent = stats.Total - stats.Present
	return stats, nil
}

func (s *service) Payroll(ctx context.Context, staffID uint, from, to time.Time) (*PayrollReport, error) {
	if s.directory == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "staff directory required")
	}
	staff, err := s.directory.GetByID(ctx, staffID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load staff")
	}
	if staff == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "staff not found")
	}

	from, to, err = s.reportWindow(from, to)
	if err != nil {
		return nil, err
	}

	fromStart, _ := dayBounds(from)
	_, toEnd := dayBounds(to)
	records, err := s.repo.ListByStaffBetween(ctx, staffID, fromStart, toEnd)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list attendance")
	}
	byDay := indexByDay(records, "")

	dailySalary := staff.Salary.Div(decimal.NewFromInt(payrollDivisor))
	report := &PayrollReport{
		Stats: PayrollStats{DailySalary: dailySalary, BaseSalary: staff.Salary},
	}

	for day := fromStart; day.Before(toEnd); day = day.AddDate(0, 0, 1) {
		entry := PayrollDay{Date: day}

		if day.Weekday() == time.Sunday {
			// Sundays are paid in full and excluded from the working-day tally
			entry.Sunday = true
			entry.DailySalary = dailySalary
			report.Stats.Sundays++
			report.Days = append(report.Days, entry)
			continue
		}

		report.Stats.WorkingDays++
		entry.Record = byDay[day.Format("2006-01-02")]
		if entry.Record != nil && entry.Record.CheckIn != nil {
			entry.DailySalary = dailySalary
			report.Stats.Present++
		} else {
			report.Stats.Absent++
		}
		report.Days = append(report.Days, entry)
	}

	payableDays := int64(report.Stats.Present + report.Stats.Sundays)
	report.Stats.TotalSalary = dailySalary.Mul(decimal.NewFromInt(payableDays))
	return report, nil
}

func (s *service) MarkPresent(ctx context.Context, input MarkPresentInput) (*models.StaffAttendance, error) {
	if input.StaffID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "staff id required")
	}
	if input.Date.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date required")
	}
	if err := s.requireStaff(ctx, input.StaffID); err != nil {
		return nil, err
	}

	record, err := s.repo.FindByStaffAndDay(ctx, input.StaffID, input.Date)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load attendance")
	}
	if record != nil && record.CheckIn != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("already checked in for %s", input.Date.Format("2006-01-02")))
	}

	date := input.Date
	if record == nil {
		record = &models.StaffAttendance{StaffID: input.StaffID, CreatedAt: date}
	}
	record.CheckIn = &date
	record.CheckInLocation = &input.Location
	record.CheckInLongitude = &input.Longitude
	record.CheckInLatitude = &input.Latitude

	if record.ID == 0 {
		err = s.repo.Create(ctx, record)
	} else {
		err = s.repo.Save(ctx, record)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save attendance")
	}
	return record, nil
}

func (s *service) MarkAbsent(ctx context.Context, staffID uint, date time.Time) (*models.StaffAttendance, error) {
	if staffID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "staff id required")
	}
	if date.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date required")
	}
	if err := s.requireStaff(ctx, staffID); err != nil {
		return nil, err
	}

	record, err := s.repo.FindByStaffAndDay(ctx, staffID, date)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load attendance")
	}
	if record == nil {
		record = &models.StaffAttendance{StaffID: staffID, CreatedAt: date}
		if err := s.repo.Create(ctx, record); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create attendance record")
		}
	}

	record.CheckIn = nil
	record.CheckInLocation = nil
	record.CheckInLongitude = nil
	record.CheckInLatitude = nil
	record.CheckOut = nil
	record.CheckOutLocation = nil
	record.CheckOutLongitude = nil
	record.CheckOutLatitude = nil

	if err := s.repo.Save(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save attendance")
	}
	return record, nil
}

func (s *service) requireStaff(ctx context.Context, staffID uint) error {
	if s.directory == nil {
		return nil
	}
	staff, err := s.directory.GetByID(ctx, staffID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load staff")
	}
	if staff == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "staff not found")
	}
	return nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	from, to, err := s.listWindow(params.From, params.To)
	if err != nil {
		return nil, err
	}

	fromStart, _ := dayBounds(from)
	_, toEnd := dayBounds(to)
	rows, total, err := s.repo.ListBetween(ctx, listAttendanceParams{
		From:     fromStart,
		To:       toEnd,
		BranchID: params.BranchID,
		Page:     params.Page,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list attendance")
	}

	result := &ListResult{
		Items: make([]Entry, 0, len(rows)),
		Meta:  pagination.NewMeta(params.Page, total),
	}
	for _, row := range rows {
		entry := Entry{
			ID:               row.ID,
			EmployeeName:     row.EmployeeName,
			CheckIn:          row.CheckIn,
			CheckInLocation:  row.CheckInLocation,
			CheckOut:         row.CheckOut,
			CheckOutLocation: row.CheckOutLocation,
		}
		switch {
		case row.CheckOut != nil:
			entry.Status = "checked_out"
		case row.CheckIn != nil:
			entry.Status = "checked_in"
		default:
			entry.Status = "absent"
		}
		if row.CheckIn != nil && row.CheckOut != nil {
			hours := row.CheckOut.Sub(*row.CheckIn).Hours()
			entry.TotalHours = float64(int(hours*100+0.5)) / 100
		}
		result.Items = append(result.Items, entry)
	}
	return result, nil
}

func (s *service) DailyStats(ctx context.Context, branchID uint) (*DailyStats, error) {
	if s.directory == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "staff directory required")
	}

	staff, err := s.directory.ListActive(ctx, branchID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list staff")
	}

	records, err := s.repo.ListDay(ctx, s.now(), branchID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list attendance")
	}
	byStaff := make(map[uint]*models.StaffAttendance, len(records))
	for i := range records {
		byStaff[records[i].StaffID] = &records[i]
	}

	stats := &DailyStats{Present: []StaffDay{}, Absent: []StaffDay{}}
	for _, member := range staff {
		day := StaffDay{
			ID:           member.ID,
			FullName:     member.FullName,
			ProfileImage: member.ProfileImage,
		}
		if s.jobCounter != nil {
			counts, err := s.jobCounter.Counts(ctx, member.ID)
			if err == nil {
				day.Jobs = counts
			}
		}

		record := byStaff[member.ID]
		if record != nil && record.CheckIn != nil {
			day.CheckIn = record.CheckIn
			day.CheckOut = record.CheckOut
			if record.CheckOut != nil {
				day.Status = "Checked Out"
			} else {
				day.Status = "Present"
			}
			stats.Present = append(stats.Present, day)
		} else {
			day.Status = "Absent"
			stats.Absent = append(stats.Absent, day)
		}
	}
	return stats, nil
}

// EnsureDailyRows backfills an empty attendance row for every active staff
// member missing one today, then reminds them to check in. Meant for the
// daily scheduler.
func (s *service) EnsureDailyRows(ctx context.Context) (int, error) {
	if s.directory == nil {
		return 0, pkgerrors.New(pkgerrors.CodeDependency, "staff directory required")
	}

	staff, err := s.directory.ListActive(ctx, 0)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list staff")
	}

	now := s.now()
	created := 0
	for _, member := range staff {
		record, err := s.repo.FindByStaffAndDay(ctx, member.ID, now)
		if err != nil {
			return created, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load attendance")
		}
		if record != nil {
			continue
		}
		record = &models.StaffAttendance{StaffID: member.ID, CreatedAt: now}
		if err := s.repo.Create(ctx, record); err != nil {
			return created, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create attendance record")
		}
		created++

		if s.notifier != nil {
			s.notifier.Publish(ctx, notifications.PublishInput{
				Title:    "Daily Attendance Reminder",
				Message:  "Attendance records have been created for today. Please check your status.",
				Severity: enums.SeverityInfo,
				StaffID:  member.ID,
				Type:     enums.NotificationTypeAttendance,
			})
		}
	}

	if created > 0 && s.notifier != nil {
		s.notifier.Publish(ctx, notifications.PublishInput{
			Title:    "Daily Reminder",
			Message:  "Attendance records have been created!",
			Severity: enums.SeverityInfo,
		})
	}
	return created, nil
}

// reportWindow defaults to the current month when no bounds are supplied.
func (s *service) reportWindow(from, to time.Time) (time.Time, time.Time, error) {
	now := s.now()
	if to.IsZero() {
		to = now
	}
	if from.IsZero() {
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "to must not precede from")
	}
	return from, to, nil
}

// listWindow defaults to the current day for the CRM listing.
func (s *service) listWindow(from, to time.Time) (time.Time, time.Time, error) {
	now := s.now()
	if from.IsZero() {
		from = now
	}
	if to.IsZero() {
		to = now
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "to must not precede from")
	}
	return from, to, nil
}

// indexByDay maps stored rows to their calendar day, optionally narrowed to
// one derived status. Filtered-out days fall back to synthetic absents.
func indexByDay(records []models.StaffAttendance, filter string) map[string]*models.StaffAttendance {
	byDay := make(map[string]*models.StaffAttendance, len(records))
	for i := range records {
		record := &records[i]
		switch filter {
		case "", "all":
		case string(DayPresent):
			// present includes late arrivals
			if record.CheckIn == nil {
				continue
			}
		case string(DayLate):
			if dayStatus(record, lateThresholdReport, "15:04:05") != DayLate {
				continue
			}
		case string(DayAbsent):
			if record.CheckIn != nil {
				continue
			}
		}
		byDay[record.CreatedAt.Format("2006-01-02")] = record
	}
	return byDay
}

func dayStatus(record *models.StaffAttendance, threshold, layout string) DayStatus {
	if record == nil || record.CheckIn == nil {
		return DayAbsent
	}
	if record.CheckIn.Format(layout) > threshold {
		return DayLate
	}
	return DayPresent
}
