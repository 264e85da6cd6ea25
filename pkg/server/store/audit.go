package store

import "github.com/doodlesbykumbi/credstore/pkg/model"

// AuditStore abstracts the append-only audit trail
type AuditStore interface {
	// CreateAuditLog appends an entry.
	CreateAuditLog(entry *model.AuditLog) error

	// ListAuditLogsByUser returns a user's entries, newest first.
	ListAuditLogsByUser(userID string, skip, limit int) ([]model.AuditLog, error)

	// ListAuditLogsByCredential returns a credential's entries, newest first.
	// Soft-deleted credentials keep their history.
	ListAuditLogsByCredential(credentialID int64, skip, limit int) ([]model.AuditLog, error)

	// CountAuditLogsByUser returns the number of entries for a user.
	CountAuditLogsByUser(userID string) (int64, error)

	// CountAuditLogsByCredential returns the number of entries for a
	// credential.
	CountAuditLogsByCredential(credentialID int64) (int64, error)
}
