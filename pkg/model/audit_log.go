package model

import "time"

// AuditLog is an append-only record of a credential-affecting or
// credential-accessing action. Rows are never updated or deleted by the
// server; retention is an operational concern.
type AuditLog struct {
	ID           int64  `gorm:"column:id;primaryKey;autoIncrement"`
	UserID       string `gorm:"column:user_id;not null;index"`
	Action       string `gorm:"column:action;not null"`
	ResourceType string `gorm:"column:resource_type;not null"`
	ResourceID   *int64 `gorm:"column:resource_id"`
	CustomerID   *int64 `gorm:"column:customer_id"`
	ProjectID    *int64 `gorm:"column:project_id"`
	VendorID     *int64 `gorm:"column:vendor_id"`
	CredentialID *int64 `gorm:"column:credential_id;index"`
	Details      string `gorm:"column:details"`
	IPAddress    string `gorm:"column:ip_address"`
	UserAgent    string `gorm:"column:user_agent"`
	CreatedAt    time.Time
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
