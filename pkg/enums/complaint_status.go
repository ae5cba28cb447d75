package enums

import "fmt"

// ComplaintStatus maps to the status column on complaints.
type ComplaintStatus string

const (
	ComplaintStatusOpen                ComplaintStatus = "open"
	ComplaintStatusAssigned            ComplaintStatus = "assigned-to-technician"
	ComplaintStatusInProgress          ComplaintStatus = "in-progress"
	ComplaintStatusHoldByUs            ComplaintStatus = "hold-by-us"
	ComplaintStatusHoldByCustomer      ComplaintStatus = "hold-by-customer"
	ComplaintStatusPartDemand          ComplaintStatus = "part-demand"
	ComplaintStatusPendingByBrand      ComplaintStatus = "pending-by-brand"
	ComplaintStatusKitInServiceCenter  ComplaintStatus = "kit-in-service-center"
	ComplaintStatusUnitInServiceCenter ComplaintStatus = "unit-in-service-center"
	ComplaintStatusQuotationApplied    ComplaintStatus = "quotation-applied"
	ComplaintStatusFeedbackPending     ComplaintStatus = "feedback-pending"
	ComplaintStatusCompleted           ComplaintStatus = "completed"
	ComplaintStatusClosed              ComplaintStatus = "closed"
	ComplaintStatusCancelled           ComplaintStatus = "cancelled"
	ComplaintStatusScheduled           ComplaintStatus = "scheduled"
	ComplaintStatusTechnicianReached   ComplaintStatus = "technician_reached"
)

var validComplaintStatuses = []ComplaintStatus{
	ComplaintStatusOpen,
	ComplaintStatusAssigned,
	ComplaintStatusInProgress,
	ComplaintStatusHoldByUs,
	ComplaintStatusHoldByCustomer,
	ComplaintStatusPartDemand,
	ComplaintStatusPendingByBrand,
	ComplaintStatusKitInServiceCenter,
	ComplaintStatusUnitInServiceCenter,
	ComplaintStatusQuotationApplied,
	ComplaintStatusFeedbackPending,
	ComplaintStatusCompleted,
	ComplaintStatusClosed,
	ComplaintStatusCancelled,
	ComplaintStatusScheduled,
	ComplaintStatusTechnicianReached,
}

// DefaultListExclusions is removed from listings unless the caller filters explicitly.
var DefaultListExclusions = []ComplaintStatus{ComplaintStatusClosed, ComplaintStatusCancelled}

// IsValid checks whether the given status matches the canonical enum.
func (s ComplaintStatus) IsValid() bool {
	for _, candidate := range validComplaintStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further lifecycle transitions are expected.
func (s ComplaintStatus) IsTerminal() bool {
	return s == ComplaintStatusClosed || s == ComplaintStatusCancelled
}

// ParseComplaintStatus converts raw strings into ComplaintStatus.
func ParseComplaintStatus(value string) (ComplaintStatus, error) {
	for _, candidate := range validComplaintStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid complaint status %q", value)
}
