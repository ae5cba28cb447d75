package enums

// NotificationType classifies persisted staff notifications.
type NotificationType string

const (
	NotificationTypeComplaintUpdate NotificationType = "complaint_update"
	NotificationTypeJobAssigned     NotificationType = "job_assigned"
	NotificationTypeAttendance      NotificationType = "attendance"
	NotificationTypeSystem          NotificationType = "system"
)

// NotificationSeverity is carried on broadcast events so CRM clients can style them.
type NotificationSeverity string

const (
	SeverityInfo    NotificationSeverity = "info"
	SeveritySuccess NotificationSeverity = "success"
	SeverityWarning NotificationSeverity = "warning"
	SeverityError   NotificationSeverity = "error"
)
