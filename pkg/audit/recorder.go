package audit

import (
	"fmt"
	"os"

	"github.com/doodlesbykumbi/credstore/pkg/model"
	"github.com/doodlesbykumbi/credstore/pkg/server/store"
)

// Recorder persists audit entries and emits them as syslog lines. A failed
// database write is reported but never fails the operation being audited;
// the syslog line is the fallback record.
type Recorder struct {
	logger *Logger
	store  store.AuditStore
}

// NewRecorder creates a new Recorder
func NewRecorder(logger *Logger, auditStore store.AuditStore) *Recorder {
	return &Recorder{logger: logger, store: auditStore}
}

// Record logs the entry and appends it to the audit trail
func (r *Recorder) Record(entry Entry) {
	r.logger.Log(entry)

	if r.store == nil {
		return
	}
	row := &model.AuditLog{
		UserID:       entry.UserID,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		CustomerID:   entry.CustomerID,
		ProjectID:    entry.ProjectID,
		VendorID:     entry.VendorID,
		CredentialID: entry.CredentialID,
		Details:      entry.Details,
		IPAddress:    entry.IPAddress,
		UserAgent:    entry.UserAgent,
	}
	if err := r.store.CreateAuditLog(row); err != nil {
		fmt.Fprintf(os.Stderr, "audit: failed to save entry: %v\n", err)
	}
}
