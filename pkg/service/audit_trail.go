package service

import (
	"context"

	"github.com/doodlesbykumbi/credstore/pkg/model"
	"github.com/doodlesbykumbi/credstore/pkg/server/store"
)

// AuditTrail serves read access to the audit log.
type AuditTrail struct {
	auditLogs   store.AuditStore
	pageSizeMax int
}

// NewAuditTrail creates a new AuditTrail service
func NewAuditTrail(auditLogs store.AuditStore, pageSizeMax int) *AuditTrail {
	return &AuditTrail{auditLogs: auditLogs, pageSizeMax: pageSizeMax}
}

// AuditPage is a paginated list result, newest first.
type AuditPage struct {
	Items []model.AuditLog `json:"items"`
	Total int64            `json:"total"`
	Skip  int              `json:"skip"`
	Limit int              `json:"limit"`
}

func (s *AuditTrail) ListByUser(ctx context.Context, userID string, skip, limit int) (*AuditPage, error) {
	if userID == "" {
		return nil, invalidf("user_id is required")
	}
	skip, limit = normalizePage(skip, limit, s.pageSizeMax)
	items, err := s.auditLogs.ListAuditLogsByUser(userID, skip, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.auditLogs.CountAuditLogsByUser(userID)
	if err != nil {
		return nil, err
	}
	return &AuditPage{Items: items, Total: total, Skip: skip, Limit: limit}, nil
}

func (s *AuditTrail) ListByCredential(ctx context.Context, credentialID int64, skip, limit int) (*AuditPage, error) {
	skip, limit = normalizePage(skip, limit, s.pageSizeMax)
	items, err := s.auditLogs.ListAuditLogsByCredential(credentialID, skip, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.auditLogs.CountAuditLogsByCredential(credentialID)
	if err != nil {
		return nil, err
	}
	return &AuditPage{Items: items, Total: total, Skip: skip, Limit: limit}, nil
}
