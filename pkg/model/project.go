package model

import "time"

// Project is an optional sub-scope under exactly one customer. Project names
// are unique within their customer, not globally.
type Project struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID  int64  `gorm:"column:customer_id;not null;uniqueIndex:idx_projects_customer_name"`
	Name        string `gorm:"column:name;not null;uniqueIndex:idx_projects_customer_name"`
	Description string `gorm:"column:description"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Project) TableName() string {
	return "projects"
}
