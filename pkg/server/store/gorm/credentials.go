package gorm

import (
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/credstore/pkg/model"
	"github.com/doodlesbykumbi/credstore/pkg/server/store"
)

// Ensure CredentialsStore implements store.CredentialsStore
var _ store.CredentialsStore = (*CredentialsStore)(nil)

// CredentialsStore implements store.CredentialsStore using GORM
type CredentialsStore struct {
	db *gorm.DB
}

// NewCredentialsStore creates a new CredentialsStore
func NewCredentialsStore(db *gorm.DB) *CredentialsStore {
	return &CredentialsStore{db: db}
}

const credentialRowSelect = `
	SELECT c.id, c.customer_id, c.project_id, c.vendor_id, c.access_key,
	       c.vault_path, c.resource_user, c.labels, c.status, c.created_at,
	       c.updated_at, cu.name AS customer_name, p.name AS project_name,
	       v.name AS vendor_name, v.display_name AS vendor_display_name
	FROM credentials c
	JOIN customers cu ON cu.id = c.customer_id
	LEFT JOIN projects p ON p.id = c.project_id
	JOIN vendors v ON v.id = c.vendor_id`

// permissionExistsClause restricts rows to those covered by one of the
// user's grants. A NULL grant column is a wildcard; a customer-level
// credential is only covered by grants with a NULL project.
const permissionExistsClause = `
	EXISTS (
		SELECT 1 FROM user_permissions up
		WHERE up.user_id = ?
		  AND (up.customer_id IS NULL OR up.customer_id = c.customer_id)
		  AND (up.project_id IS NULL OR (c.project_id IS NOT NULL AND up.project_id = c.project_id))
	)`

func (s *CredentialsStore) CreateCredential(credential *model.Credential) error {
	return translateError(s.db.Create(credential).Error)
}

func (s *CredentialsStore) GetCredential(id int64) (*model.Credential, error) {
	var credential model.Credential
	err := s.db.Where("id = ? AND status <> ?", id, model.StatusDeleted).First(&credential).Error
	if err != nil {
		return nil, wrapNotFound(err, "credential", id)
	}
	return &credential, nil
}

func (s *CredentialsStore) GetCredentialRow(id int64) (*store.CredentialRow, error) {
	var row store.CredentialRow
	result := s.db.Raw(
		credentialRowSelect+` WHERE c.id = ? AND c.status <> ?`,
		id, model.StatusDeleted,
	).Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, wrapNotFound(gorm.ErrRecordNotFound, "credential", id)
	}
	return &row, nil
}

func (s *CredentialsStore) ListByUserPermissions(userID string, filter store.CredentialFilter, skip, limit int) ([]store.CredentialRow, error) {
	query := credentialRowSelect + ` WHERE c.status <> ? AND ` + permissionExistsClause
	args := []interface{}{model.StatusDeleted, userID}
	query, args = applyCredentialFilter(query, args, filter)
	query += ` ORDER BY c.created_at DESC, c.id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, skip)

	rows := make([]store.CredentialRow, 0)
	err := s.db.Raw(query, args...).Scan(&rows).Error
	return rows, err
}

func (s *CredentialsStore) CountByUserPermissions(userID string, filter store.CredentialFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM credentials c WHERE c.status <> ? AND ` + permissionExistsClause
	args := []interface{}{model.StatusDeleted, userID}
	query, args = applyCredentialFilter(query, args, filter)

	var count int64
	err := s.db.Raw(query, args...).Scan(&count).Error
	return count, err
}

func applyCredentialFilter(query string, args []interface{}, filter store.CredentialFilter) (string, []interface{}) {
	if filter.CustomerID != nil {
		query += ` AND c.customer_id = ?`
		args = append(args, *filter.CustomerID)
	}
	if filter.ProjectID != nil {
		query += ` AND c.project_id = ?`
		args = append(args, *filter.ProjectID)
	}
	if filter.VendorID != nil {
		query += ` AND c.vendor_id = ?`
		args = append(args, *filter.VendorID)
	}
	return query, args
}

func (s *CredentialsStore) UpdateCredential(id int64, patch store.CredentialPatch) (*model.Credential, error) {
	credential, err := s.GetCredential(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.AccessKey != nil {
		updates["access_key"] = *patch.AccessKey
	}
	if patch.VaultPath != nil {
		updates["vault_path"] = *patch.VaultPath
	}
	if patch.ResourceUser != nil {
		updates["resource_user"] = *patch.ResourceUser
	}
	if patch.Labels != nil {
		updates["labels"] = *patch.Labels
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if len(updates) > 0 {
		if err := s.db.Model(credential).Updates(updates).Error; err != nil {
			return nil, translateError(err)
		}
	}
	return credential, nil
}

func (s *CredentialsStore) SoftDeleteCredential(id int64) error {
	result := s.db.Model(&model.Credential{}).
		Where("id = ? AND status <> ?", id, model.StatusDeleted).
		Update("status", model.StatusDeleted)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return wrapNotFound(gorm.ErrRecordNotFound, "credential", id)
	}
	return nil
}
