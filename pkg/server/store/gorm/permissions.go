package gorm

import (
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/credstore/pkg/model"
	"github.com/doodlesbykumbi/credstore/pkg/server/store"
)

// Ensure PermissionsStore implements store.PermissionsStore
var _ store.PermissionsStore = (*PermissionsStore)(nil)

// PermissionsStore implements store.PermissionsStore using GORM
type PermissionsStore struct {
	db *gorm.DB
}

// NewPermissionsStore creates a new PermissionsStore
func NewPermissionsStore(db *gorm.DB) *PermissionsStore {
	return &PermissionsStore{db: db}
}

func (s *PermissionsStore) CreatePermission(permission *model.UserPermission) error {
	return translateError(s.db.Create(permission).Error)
}

func (s *PermissionsStore) GetPermission(id int64) (*model.UserPermission, error) {
	var permission model.UserPermission
	if err := s.db.First(&permission, id).Error; err != nil {
		return nil, wrapNotFound(err, "permission", id)
	}
	return &permission, nil
}

func (s *PermissionsStore) ListPermissions(userID string, skip, limit int) ([]model.UserPermission, error) {
	permissions := make([]model.UserPermission, 0)
	query := s.db.Order("id").Offset(skip).Limit(limit)
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	err := query.Find(&permissions).Error
	return permissions, err
}

func (s *PermissionsStore) CountPermissions(userID string) (int64, error) {
	var count int64
	query := s.db.Model(&model.UserPermission{})
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	err := query.Count(&count).Error
	return count, err
}

func (s *PermissionsStore) UpdatePermission(id int64, patch store.PermissionPatch) (*model.UserPermission, error) {
	permission, err := s.GetPermission(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.PermissionType != nil {
		updates["permission_type"] = *patch.PermissionType
	}
	if len(updates) > 0 {
		if err := s.db.Model(permission).Updates(updates).Error; err != nil {
			return nil, translateError(err)
		}
	}
	return permission, nil
}

func (s *PermissionsStore) DeletePermission(id int64) error {
	result := s.db.Delete(&model.UserPermission{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// CheckPermission binds a nil projectID as SQL NULL, so `project_id = ?`
// can never match and only wildcard grants cover customer-level scopes.
func (s *PermissionsStore) CheckPermission(userID string, customerID int64, projectID *int64) (bool, error) {
	var count int64
	err := s.db.Model(&model.UserPermission{}).
		Where("user_id = ?", userID).
		Where("customer_id IS NULL OR customer_id = ?", customerID).
		Where("project_id IS NULL OR project_id = ?", projectID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
