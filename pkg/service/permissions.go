package service

import (
	"context"

	"github.com/doodlesbykumbi/credstore/pkg/audit"
	"github.com/doodlesbykumbi/credstore/pkg/identity"
	"github.com/doodlesbykumbi/credstore/pkg/model"
	"github.com/doodlesbykumbi/credstore/pkg/server/store"
)

// Permissions manages access grants. The model is additive only: a grant is
// created or revoked, never edited.
type Permissions struct {
	permissions store.PermissionsStore
	customers   store.CustomersStore
	projects    store.ProjectsStore
	recorder    *audit.Recorder
	pageSizeMax int
}

// NewPermissions creates a new Permissions service
func NewPermissions(permissions store.PermissionsStore, customers store.CustomersStore, projects store.ProjectsStore, recorder *audit.Recorder, pageSizeMax int) *Permissions {
	return &Permissions{
		permissions: permissions,
		customers:   customers,
		projects:    projects,
		recorder:    recorder,
		pageSizeMax: pageSizeMax,
	}
}

// GrantInput carries the fields for a new grant. Nil CustomerID or
// ProjectID is a wildcard.
type GrantInput struct {
	UserID         string
	CustomerID     *int64
	ProjectID      *int64
	PermissionType string
}

// PermissionPage is a paginated list result.
type PermissionPage struct {
	Items []model.UserPermission `json:"items"`
	Total int64                  `json:"total"`
	Skip  int                    `json:"skip"`
	Limit int                    `json:"limit"`
}

func (s *Permissions) Grant(ctx context.Context, who identity.Identity, input GrantInput) (*model.UserPermission, error) {
	if input.UserID == "" {
		return nil, invalidf("user_id is required")
	}
	if input.PermissionType == "" {
		input.PermissionType = model.PermissionRead
	}
	if !model.ValidPermissionType(input.PermissionType) {
		return nil, invalidf("unknown permission type %q", input.PermissionType)
	}
	if input.ProjectID != nil && input.CustomerID == nil {
		return nil, invalidf("a project-scoped grant requires a customer")
	}
	if input.CustomerID != nil {
		if _, err := s.customers.GetCustomer(*input.CustomerID); err != nil {
			return nil, err
		}
	}
	if input.ProjectID != nil {
		project, err := s.projects.GetProject(*input.ProjectID)
		if err != nil {
			return nil, err
		}
		if project.CustomerID != *input.CustomerID {
			return nil, invalidf("project %d does not belong to customer %d", project.ID, *input.CustomerID)
		}
	}

	permission := &model.UserPermission{
		UserID:         input.UserID,
		CustomerID:     input.CustomerID,
		ProjectID:      input.ProjectID,
		PermissionType: input.PermissionType,
	}
	if err := s.permissions.CreatePermission(permission); err != nil {
		return nil, err
	}
	s.recorder.Record(audit.Entry{
		UserID:       who.UserID,
		Action:       "grant_permission",
		ResourceType: audit.ResourcePermission,
		ResourceID:   &permission.ID,
		CustomerID:   permission.CustomerID,
		ProjectID:    permission.ProjectID,
		Details:      "user: " + permission.UserID + ", type: " + permission.PermissionType,
		IPAddress:    who.RemoteIP,
		UserAgent:    who.UserAgent,
	})
	return permission, nil
}

func (s *Permissions) Get(ctx context.Context, id int64) (*model.UserPermission, error) {
	return s.permissions.GetPermission(id)
}

func (s *Permissions) List(ctx context.Context, userID string, skip, limit int) (*PermissionPage, error) {
	skip, limit = normalizePage(skip, limit, s.pageSizeMax)
	items, err := s.permissions.ListPermissions(userID, skip, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.permissions.CountPermissions(userID)
	if err != nil {
		return nil, err
	}
	return &PermissionPage{Items: items, Total: total, Skip: skip, Limit: limit}, nil
}

// Update changes a grant's permission type. The scope columns are immutable;
// changing scope means revoke plus re-grant so the trail stays unambiguous.
func (s *Permissions) Update(ctx context.Context, who identity.Identity, id int64, permissionType string) (*model.UserPermission, error) {
	if !model.ValidPermissionType(permissionType) {
		return nil, invalidf("unknown permission type %q", permissionType)
	}
	permission, err := s.permissions.UpdatePermission(id, store.PermissionPatch{PermissionType: &permissionType})
	if err != nil {
		return nil, err
	}
	s.recorder.Record(audit.Entry{
		UserID:       who.UserID,
		Action:       "update_permission",
		ResourceType: audit.ResourcePermission,
		ResourceID:   &permission.ID,
		CustomerID:   permission.CustomerID,
		ProjectID:    permission.ProjectID,
		Details:      "user: " + permission.UserID + ", type: " + permission.PermissionType,
		IPAddress:    who.RemoteIP,
		UserAgent:    who.UserAgent,
	})
	return permission, nil
}

func (s *Permissions) Revoke(ctx context.Context, who identity.Identity, id int64) error {
	permission, err := s.permissions.GetPermission(id)
	if err != nil {
		return err
	}
	if err := s.permissions.DeletePermission(id); err != nil {
		return err
	}
	s.recorder.Record(audit.Entry{
		UserID:       who.UserID,
		Action:       "revoke_permission",
		ResourceType: audit.ResourcePermission,
		ResourceID:   &permission.ID,
		CustomerID:   permission.CustomerID,
		ProjectID:    permission.ProjectID,
		Details:      "user: " + permission.UserID,
		IPAddress:    who.RemoteIP,
		UserAgent:    who.UserAgent,
	})
	return nil
}
