package enums

import "fmt"

// JobStatus tracks the technician work order independently of the complaint status.
type JobStatus string

const (
	JobStatusOpen      JobStatus = "open"
	JobStatusPending   JobStatus = "pending"
	JobStatusClosed    JobStatus = "closed"
	JobStatusCancelled JobStatus = "cancelled"
	JobStatusRejected  JobStatus = "rejected"
)

var validJobStatuses = []JobStatus{
	JobStatusOpen,
	JobStatusPending,
	JobStatusClosed,
	JobStatusCancelled,
	JobStatusRejected,
}

// ActiveJobStatuses are the states in which a complaint already has a live work order.
var ActiveJobStatuses = []JobStatus{JobStatusOpen, JobStatusPending}

// IsValid checks whether the given status matches the canonical enum.
func (s JobStatus) IsValid() bool {
	for _, candidate := range validJobStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsActive reports whether the job still occupies the complaint's single active slot.
func (s JobStatus) IsActive() bool {
	return s == JobStatusOpen || s == JobStatusPending
}

// ParseJobStatus converts raw strings into JobStatus.
func ParseJobStatus(value string) (JobStatus, error) {
	for _, candidate := range validJobStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid job status %q", value)
}
