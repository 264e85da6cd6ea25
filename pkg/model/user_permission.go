package model

import "time"

// Permission types. The model is purely additive; the type is advisory
// metadata and the evaluator only checks grant existence.
const (
	PermissionRead  = "read"
	PermissionWrite = "write"
	PermissionAdmin = "admin"
)

// ValidPermissionType reports whether t is a known permission type.
func ValidPermissionType(t string) bool {
	return t == PermissionRead || t == PermissionWrite || t == PermissionAdmin
}

// UserPermission grants a user access to a (customer, project) scope. A nil
// CustomerID or ProjectID is a wildcard matching every customer or project.
type UserPermission struct {
	ID             int64  `gorm:"column:id;primaryKey;autoIncrement"`
	UserID         string `gorm:"column:user_id;not null;index"`
	CustomerID     *int64 `gorm:"column:customer_id"`
	ProjectID      *int64 `gorm:"column:project_id"`
	PermissionType string `gorm:"column:permission_type;not null;default:read"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (UserPermission) TableName() string {
	return "user_permissions"
}
