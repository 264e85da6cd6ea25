package store

import "github.com/doodlesbykumbi/credstore/pkg/model"

// CredentialRow is a credential joined with the display names of its scope.
// Rows come back from list queries so callers don't refetch customer, project
// and vendor records one by one.
type CredentialRow struct {
	model.Credential
	CustomerName      string
	ProjectName       *string
	VendorName        string
	VendorDisplayName string
}

// CredentialPatch carries partial updates to the mutable credential fields.
// Nil fields are left untouched. Scope fields are immutable and absent here.
type CredentialPatch struct {
	AccessKey    *string
	VaultPath    *string
	ResourceUser *string
	Labels       *string
	Status       *string
}

// CredentialFilter narrows list queries. Nil fields match everything.
type CredentialFilter struct {
	CustomerID *int64
	ProjectID  *int64
	VendorID   *int64
}

// CredentialsStore abstracts credential metadata persistence. Soft-deleted
// rows are invisible to every read; only the relational metadata lives here,
// never the secret key.
type CredentialsStore interface {
	// CreateCredential inserts a credential row.
	CreateCredential(credential *model.Credential) error

	// GetCredential retrieves a non-deleted credential by id. Returns
	// ErrNotFound for absent or soft-deleted rows.
	GetCredential(id int64) (*model.Credential, error)

	// GetCredentialRow retrieves a non-deleted credential with its scope
	// names resolved.
	GetCredentialRow(id int64) (*CredentialRow, error)

	// ListByUserPermissions returns the non-deleted credentials the user's
	// grants cover, newest first, narrowed by filter.
	ListByUserPermissions(userID string, filter CredentialFilter, skip, limit int) ([]CredentialRow, error)

	// CountByUserPermissions returns the number of rows ListByUserPermissions
	// would yield without pagination.
	CountByUserPermissions(userID string, filter CredentialFilter) (int64, error)

	// UpdateCredential applies a partial update to a non-deleted credential.
	UpdateCredential(id int64, patch CredentialPatch) (*model.Credential, error)

	// SoftDeleteCredential marks a credential deleted. Returns ErrNotFound if
	// the row is absent or already deleted, making repeat deletes fail cleanly.
	SoftDeleteCredential(id int64) error
}
