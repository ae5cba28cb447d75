package models

import "time"

// ComplaintHistory is the append-only audit trail: one row per update, holding
// a rendered field-diff description and the full post-update snapshot.
type ComplaintHistory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ComplaintID uint      `gorm:"column:complaint_id;index;not null" json:"complaint_id"`
	UserID      uint      `gorm:"column:user_id;not null" json:"user_id"`
	Description string    `gorm:"column:description;type:text;not null" json:"description"`
	Data        []byte    `gorm:"column:data;type:jsonb" json:"data"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ComplaintHistory) TableName() string { return "complaint_histories" }
