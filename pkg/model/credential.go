package model

import (
	"fmt"
	"time"
)

// Credential statuses. Deleted is a terminal soft-delete marker; the row is
// kept for audit linkage but excluded from all reads.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
	StatusDeleted  = "deleted"
)

// ValidStatus reports whether s is a status a caller may set. Deleted is
// reachable only through the delete operation, never through create/update.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusDisabled
}

// Credential holds the relational metadata for a stored credential. The
// secret key is never persisted here; it lives encrypted in the external
// secret store at VaultPath. Scope (customer, project, vendor) is immutable
// once created.
type Credential struct {
	ID           int64  `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID   int64  `gorm:"column:customer_id;not null;index"`
	ProjectID    *int64 `gorm:"column:project_id;index"`
	VendorID     int64  `gorm:"column:vendor_id;not null;index"`
	AccessKey    string `gorm:"column:access_key;not null"`
	VaultPath    string `gorm:"column:vault_path;not null"`
	ResourceUser string `gorm:"column:resource_user"`
	Labels       string `gorm:"column:labels"`
	Status       string `gorm:"column:status;not null;default:active"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Credential) TableName() string {
	return "credentials"
}

// IsActive reports whether the credential may be used for retrieval.
func (c *Credential) IsActive() bool {
	return c.Status == StatusActive
}

// ScopeString renders the (customer, project) scope for audit details.
func (c *Credential) ScopeString() string {
	if c.ProjectID == nil {
		return fmt.Sprintf("customer %d", c.CustomerID)
	}
	return fmt.Sprintf("customer %d, project %d", c.CustomerID, *c.ProjectID)
}
