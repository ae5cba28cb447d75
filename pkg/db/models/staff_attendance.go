package models

import "time"

// StaffAttendance is one row per staff member per calendar day. The day is
// carried on CreatedAt; duplicate-day prevention lives in the service, not in
// a database constraint.
type StaffAttendance struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	StaffID           uint       `gorm:"column:staff_id;index;not null" json:"staff_id"`
	CheckIn           *time.Time `gorm:"column:check_in" json:"check_in"`
	CheckInLocation   *string    `gorm:"column:check_in_location;size:255" json:"check_in_location"`
	CheckInLongitude  *float64   `gorm:"column:check_in_longitude" json:"check_in_longitude"`
	CheckInLatitude   *float64   `gorm:"column:check_in_latitude" json:"check_in_latitude"`
	CheckOut          *time.Time `gorm:"column:check_out" json:"check_out"`
	CheckOutLocation  *string    `gorm:"column:check_out_location;size:255" json:"check_out_location"`
	CheckOutLongitude *float64   `gorm:"column:check_out_longitude" json:"check_out_longitude"`
	CheckOutLatitude  *float64   `gorm:"column:check_out_latitude" json:"check_out_latitude"`
	CreatedAt         time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StaffAttendance) TableName() string { return "staff_attendances" }
