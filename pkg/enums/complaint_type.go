package enums

// ComplaintType is free-form in the catalog, but one variant carries extra
// serial-number rules during updates.
type ComplaintType string

// ComplaintTypeNewInstallation requires unique indoor/outdoor serial numbers
// once the complaint reaches a settlement status.
const ComplaintTypeNewInstallation ComplaintType = "new-ac-free-installation"

// SerialRequiredStatuses are the target statuses for which a new-installation
// update must carry both serial numbers.
var SerialRequiredStatuses = []ComplaintStatus{
	ComplaintStatusFeedbackPending,
	ComplaintStatusPendingByBrand,
	ComplaintStatusClosed,
}

// RequiresSerialNumbers reports whether the status/type pair makes the two
// serial-number fields mandatory.
func RequiresSerialNumbers(complaintType string, target ComplaintStatus) bool {
	if ComplaintType(complaintType) != ComplaintTypeNewInstallation {
		return false
	}
	for _, s := range SerialRequiredStatuses {
		if s == target {
			return true
		}
	}
	return false
}
