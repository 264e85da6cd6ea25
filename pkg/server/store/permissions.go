package store

import "github.com/doodlesbykumbi/credstore/pkg/model"

// PermissionPatch carries partial updates. The grant's scope columns are
// immutable; only the permission type can change.
type PermissionPatch struct {
	PermissionType *string
}

// PermissionsStore abstracts permission grant persistence and evaluation
type PermissionsStore interface {
	// CreatePermission inserts a grant.
	CreatePermission(permission *model.UserPermission) error

	// GetPermission retrieves a grant by id. Returns ErrNotFound if absent.
	GetPermission(id int64) (*model.UserPermission, error)

	// ListPermissions returns grants, optionally narrowed to one user.
	ListPermissions(userID string, skip, limit int) ([]model.UserPermission, error)

	// CountPermissions returns the number of grants, optionally narrowed to
	// one user.
	CountPermissions(userID string) (int64, error)

	// UpdatePermission applies a partial update.
	UpdatePermission(id int64, patch PermissionPatch) (*model.UserPermission, error)

	// DeletePermission removes a grant.
	DeletePermission(id int64) error

	// CheckPermission reports whether any grant of the user covers the
	// (customer, project) scope. A grant with a nil customer or project
	// matches any value in that position. A customer-level credential
	// (nil projectID) is covered only by grants whose project is the
	// wildcard.
	CheckPermission(userID string, customerID int64, projectID *int64) (bool, error)
}
