package models

import (
	"time"

	"github.com/taskercompanyofficial/taskercompany-api/pkg/enums"
)

// Notification is a persisted in-app notification addressed to one staff member.
type Notification struct {
	ID        uint                   `gorm:"primaryKey" json:"id"`
	UserID    uint                   `gorm:"column:user_id;index;not null" json:"user_id"`
	Title     string                 `gorm:"column:title;size:255;not null" json:"title"`
	Body      string                 `gorm:"column:body;type:text;not null" json:"body"`
	Type      enums.NotificationType `gorm:"column:type;size:50;not null" json:"type"`
	IsRead    bool                   `gorm:"column:is_read;default:false" json:"is_read"`
	Params    []byte                 `gorm:"column:params;type:jsonb" json:"params"`
	CreatedAt time.Time              `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

// DeviceToken holds the single active push token registered by a staff device.
type DeviceToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StaffID   uint      `gorm:"column:staff_id;index;not null" json:"staff_id"`
	PushToken string    `gorm:"column:push_token;size:500;not null" json:"push_token"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (DeviceToken) TableName() string { return "device_tokens" }

// Schedule records an agreed future visit for a complaint.
type Schedule struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ComplaintID      uint      `gorm:"column:complaint_id;index;not null" json:"complaint_id"`
	Date             time.Time `gorm:"column:date;not null" json:"date"`
	ComplaintDetails *string   `gorm:"column:complaint_details;size:500" json:"complaint_details"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Schedule) TableName() string { return "schedules" }
