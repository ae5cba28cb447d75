package models

import "time"

// Branch is a physical service location referenced by staff and complaints.
type Branch struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:name;size:255;not null" json:"name"`
	Address   *string   `gorm:"column:address;size:500" json:"address"`
	City      *string   `gorm:"column:city;size:100" json:"city"`
	Phone     *string   `gorm:"column:phone;size:20" json:"phone"`
	Status    string    `gorm:"column:status;size:20;default:active" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Branch) TableName() string { return "branches" }

// Brand is an appliance brand the company is authorized to service.
type Brand struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:name;size:255;not null" json:"name"`
	Logo      *string   `gorm:"column:logo;size:500" json:"logo"`
	Status    string    `gorm:"column:status;size:20;default:active" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Brand) TableName() string { return "authorized_brands" }

// Category groups services, e.g. air conditioning or refrigeration.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:name;size:255;not null" json:"name"`
	Image     *string   `gorm:"column:image;size:500" json:"image"`
	Status    string    `gorm:"column:status;size:20;default:active" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Category) TableName() string { return "categories" }

// Service is a billable service offering under a category.
type Service struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CategoryID  uint      `gorm:"column:category_id;index;not null" json:"category_id"`
	Name        string    `gorm:"column:name;size:255;not null" json:"name"`
	Description *string   `gorm:"column:description;type:text" json:"description"`
	Status      string    `gorm:"column:status;size:20;default:active" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Service) TableName() string { return "services" }

// SubService is a finer-grained offering under a service.
type SubService struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ServiceID uint      `gorm:"column:service_id;index;not null" json:"service_id"`
	Name      string    `gorm:"column:name;size:255;not null" json:"name"`
	Status    string    `gorm:"column:status;size:20;default:active" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SubService) TableName() string { return "sub_services" }
