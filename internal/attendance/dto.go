package attendance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/taskercompanyofficial/taskercompany-api/internal/jobs"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/db/models"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/pagination"
)

// CheckInInput carries a staff member's geotagged check-in.
type CheckInInput struct {
	StaffID   uint    `json:"-"`
	Location  string  `json:"location" validate:"required,max=255"`
	Longitude float64 `json:"longitude" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"required"`
}

// CheckOutInput mirrors CheckInInput for the end of the shift.
type CheckOutInput struct {
	StaffID   uint    `json:"-"`
	Location  string  `json:"location" validate:"required,max=255"`
	Longitude float64 `json:"longitude" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"required"`
}

// MarkPresentInput backdates a check-in on behalf of a staff member.
type MarkPresentInput struct {
	StaffID   uint      `json:"-"`
	Date      time.Time `json:"date" validate:"required"`
	Location  string    `json:"location" validate:"required,max=255"`
	Longitude float64   `json:"longitude" validate:"required"`
	Latitude  float64   `json:"latitude" validate:"required"`
}

// DayStatus is the derived presence state of one calendar day.
type DayStatus string

const (
	DayPresent DayStatus = "present"
	DayLate    DayStatus = "late"
	DayAbsent  DayStatus = "absent"
)

// RangeInput selects a staff member's report window. Filter narrows the
// stored records to one of present/late/absent; synthetic absent days are
// emitted either way.
type RangeInput struct {
	StaffID uint
	From    time.Time
	To      time.Time
	Filter  string
}

// DayEntry is one calendar day of the range report. Record is nil on days
// without a stored row.
type DayEntry struct {
	Date   time.Time               `json:"date"`
	Status DayStatus               `json:"status"`
	Record *models.StaffAttendance `json:"record"`
}

// RangeStats rolls the report up.
type RangeStats struct {
	TotalDays int `json:"total_days"`
	Present   int `json:"present"`
	Late      int `json:"late"`
	Absent    int `json:"absent"`
}

// RangeReport is the staff-facing attendance report.
type RangeReport struct {
	Days  []DayEntry `json:"attendances"`
	Stats RangeStats `json:"stats"`
}

// MonthlyStats summarizes a window for the staff dashboard. Present requires
// both a check-in and a check-out.
type MonthlyStats struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	Total   int `json:"total"`
}

// PayrollDay is one calendar day of the payroll report. Sundays are credited
// at the full daily rate regardless of any stored record.
type PayrollDay struct {
	Date        time.Time               `json:"date"`
	Sunday      bool                    `json:"is_sunday"`
	Record      *models.StaffAttendance `json:"record"`
	DailySalary decimal.Decimal         `json:"daily_salary"`
}

// PayrollStats rolls the payroll window up. WorkingDays excludes Sundays.
type PayrollStats struct {
	WorkingDays int             `json:"total_days"`
	Present     int             `json:"present"`
	Absent      int             `json:"absent"`
	Sundays     int             `json:"sundays"`
	DailySalary decimal.Decimal `json:"daily_salary"`
	TotalSalary decimal.Decimal `json:"total_salary"`
	BaseSalary  decimal.Decimal `json:"base_salary"`
}

// PayrollReport is the CRM-facing per-staff salary projection.
type PayrollReport struct {
	Days  []PayrollDay `json:"attendances"`
	Stats PayrollStats `json:"stats"`
}

// ListParams configures the CRM attendance listing.
type ListParams struct {
	From     time.Time
	To       time.Time
	BranchID uint
	Page     pagination.Params
}

// Entry is one CRM listing row with the joined employee name and derived
// day state.
type Entry struct {
	ID               uint       `json:"id"`
	EmployeeName     string     `json:"employee_name"`
	CheckIn          *time.Time `json:"check_in"`
	CheckInLocation  *string    `json:"check_in_location"`
	CheckOut         *time.Time `json:"check_out"`
	CheckOutLocation *string    `json:"check_out_location"`
	TotalHours       float64    `json:"total_hours"`
	Status           string     `json:"status"`
}

// ListResult pairs the listing rows with pagination metadata.
type ListResult struct {
	Items []Entry         `json:"data"`
	Meta  pagination.Meta `json:"meta"`
}

// StaffDay is one staff member's presence line in the daily stats board,
// including their live job counts.
type StaffDay struct {
	ID           uint        `json:"id"`
	FullName     string      `json:"full_name"`
	ProfileImage *string     `json:"profile_image"`
	Jobs         jobs.Counts `json:"jobs"`
	Status       string      `json:"status"`
	CheckIn      *time.Time  `json:"check_in"`
	CheckOut     *time.Time  `json:"check_out"`
}

// DailyStats splits today's staff into present and absent boards.
type DailyStats struct {
	Present []StaffDay `json:"present"`
	Absent  []StaffDay `json:"absent"`
}
