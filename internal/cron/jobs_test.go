package cron

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeBackfiller struct {
	created int
	err     error
	calls   int
}

func (f *fakeBackfiller) EnsureDailyRows(context.Context) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.created, nil
}

func TestDailyAttendanceJobBackfillsRows(t *testing.T) {
	backfiller := &fakeBackfiller{created: 12}
	job, err := NewDailyAttendanceJob(DailyAttendanceJobParams{
		Logger:     testLogger(),
		Attendance: backfiller,
	})
	if err != nil {
		t.Fatalf("NewDailyAttendanceJob: %v", err)
	}
	if job.Name() != "daily-attendance" {
		t.Fatalf("unexpected job name %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if backfiller.calls != 1 {
		t.Fatalf("expected backfill called once, got %d", backfiller.calls)
	}
}

func TestDailyAttendanceJobPropagatesErrors(t *testing.T) {
	job, err := NewDailyAttendanceJob(DailyAttendanceJobParams{
		Logger:     testLogger(),
		Attendance: &fakeBackfiller{err: errors.New("boom")},
	})
	if err != nil {
		t.Fatalf("NewDailyAttendanceJob: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

type fakeNotificationRepo struct {
	lastCutoff  time.Time
	deletedRows int64
	err         error
	called      int
}

func (f *fakeNotificationRepo) DeleteReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.called++
	f.lastCutoff = cutoff
	if f.err != nil {
		return 0, f.err
	}
	return f.deletedRows, nil
}

func TestNotificationCleanupJobDeletesOldReadNotifications(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	repo := &fakeNotificationRepo{deletedRows: 42}
	job := newCleanupJob(t, repo)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	expectedCutoff := now.UTC().Add(-notificationRetentionDays * 24 * time.Hour)
	if !repo.lastCutoff.Equal(expectedCutoff) {
		t.Fatalf("expected cutoff %s, got %s", expectedCutoff, repo.lastCutoff)
	}
	if repo.called != 1 {
		t.Fatalf("expected repo called once, got %d", repo.called)
	}
}

func TestNotificationCleanupJobPropagatesErrors(t *testing.T) {
	job := newCleanupJob(t, &fakeNotificationRepo{err: errors.New("boom")})
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func newCleanupJob(t *testing.T, repo *fakeNotificationRepo) *notificationCleanupJob {
	t.Helper()
	jobIface, err := NewNotificationCleanupJob(NotificationCleanupJobParams{
		Logger:     testLogger(),
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("NewNotificationCleanupJob: %v", err)
	}
	job, ok := jobIface.(*notificationCleanupJob)
	if !ok {
		t.Fatalf("expected notificationCleanupJob, got %T", jobIface)
	}
	return job
}
