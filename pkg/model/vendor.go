package model

import "time"

// Vendor is a third-party API provider catalog entry. Read-mostly.
type Vendor struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string `gorm:"column:name;uniqueIndex;not null"`
	DisplayName string `gorm:"column:display_name;not null"`
	Description string `gorm:"column:description"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Vendor) TableName() string {
	return "vendors"
}
