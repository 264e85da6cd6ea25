package gorm

import (
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/credstore/pkg/model"
	"github.com/doodlesbykumbi/credstore/pkg/server/store"
)

// Ensure AuditStore implements store.AuditStore
var _ store.AuditStore = (*AuditStore)(nil)

// AuditStore implements store.AuditStore using GORM
type AuditStore struct {
	db *gorm.DB
}

// NewAuditStore creates a new AuditStore
func NewAuditStore(db *gorm.DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) CreateAuditLog(entry *model.AuditLog) error {
	return s.db.Create(entry).Error
}

func (s *AuditStore) ListAuditLogsByUser(userID string, skip, limit int) ([]model.AuditLog, error) {
	entries := make([]model.AuditLog, 0)
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(skip).Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (s *AuditStore) ListAuditLogsByCredential(credentialID int64, skip, limit int) ([]model.AuditLog, error) {
	entries := make([]model.AuditLog, 0)
	err := s.db.Where("credential_id = ?", credentialID).
		Order("created_at DESC, id DESC").
		Offset(skip).Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (s *AuditStore) CountAuditLogsByUser(userID string) (int64, error) {
	var count int64
	err := s.db.Model(&model.AuditLog{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (s *AuditStore) CountAuditLogsByCredential(credentialID int64) (int64, error) {
	var count int64
	err := s.db.Model(&model.AuditLog{}).Where("credential_id = ?", credentialID).Count(&count).Error
	return count, err
}
