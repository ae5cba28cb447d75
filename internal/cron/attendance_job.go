package cron

import (
	"context"
	"fmt"

	"github.com/taskercompanyofficial/taskercompany-api/pkg/logger"
)

type attendanceBackfiller interface {
	EnsureDailyRows(ctx context.Context) (int, error)
}

type DailyAttendanceJobParams struct {
	Logger     *logger.Logger
	Attendance attendanceBackfiller
}

// NewDailyAttendanceJob opens an empty attendance row for every active
// staff member so check-ins later in the day update an existing record.
func NewDailyAttendanceJob(params DailyAttendanceJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Attendance == nil {
		return nil, fmt.Errorf("attendance service required")
	}
	return &dailyAttendanceJob{
		logg:       params.Logger,
		attendance: params.Attendance,
	}, nil
}

type dailyAttendanceJob struct {
	logg       *logger.Logger
	attendance attendanceBackfiller
}

func (j *dailyAttendanceJob) Name() string { return "daily-attendance" }

func (j *dailyAttendanceJob) Run(ctx context.Context) error {
	created, err := j.attendance.EnsureDailyRows(ctx)
	if err != nil {
		return fmt.Errorf("daily attendance backfill: %w", err)
	}
	logCtx := j.logg.WithField(ctx, "rows_created", created)
	j.logg.Info(logCtx, "daily attendance rows ensured")
	return nil
}
