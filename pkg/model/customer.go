package model

import "time"

// Customer is the tenant root. Credentials and projects hang off a customer.
type Customer struct {
	ID           int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string `gorm:"column:name;uniqueIndex;not null"`
	Description  string `gorm:"column:description"`
	ContactEmail string `gorm:"column:contact_email"`
	ContactPhone string `gorm:"column:contact_phone"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Customer) TableName() string {
	return "customers"
}
