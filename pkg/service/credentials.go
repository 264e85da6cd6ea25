package service

import (
	"context"
	"fmt"
	"log"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/doodlesbykumbi/credstore/pkg/audit"
	"github.com/doodlesbykumbi/credstore/pkg/crypto"
	"github.com/doodlesbykumbi/credstore/pkg/identity"
	"github.com/doodlesbykumbi/credstore/pkg/model"
	"github.com/doodlesbykumbi/credstore/pkg/server/store"
	"github.com/doodlesbykumbi/credstore/pkg/vault"
)

// noProjectSegment stands in for the project id in vault paths when a
// credential is scoped to the customer only. Kept for compatibility with
// existing secret store layouts.
const noProjectSegment = "no-project"

// Secret store payload keys.
const (
	payloadAccessKey = "access_key"
	payloadSecretKey = "secret_key"
)

// Credentials manages the credential lifecycle. Every operation that touches
// a credential appends an audit entry.
type Credentials struct {
	credentials store.CredentialsStore
	customers   store.CustomersStore
	projects    store.ProjectsStore
	vendors     store.VendorsStore
	permissions store.PermissionsStore
	secrets     vault.Store
	cipher      *crypto.Cipher
	recorder    *audit.Recorder

	credentialPath string
	pageSizeMax    int
}

// CredentialsDeps collects the collaborators for NewCredentials.
type CredentialsDeps struct {
	Credentials    store.CredentialsStore
	Customers      store.CustomersStore
	Projects       store.ProjectsStore
	Vendors        store.VendorsStore
	Permissions    store.PermissionsStore
	Secrets        vault.Store
	Cipher         *crypto.Cipher
	Recorder       *audit.Recorder
	CredentialPath string
	PageSizeMax    int
}

// NewCredentials creates a new Credentials service
func NewCredentials(deps CredentialsDeps) *Credentials {
	pageSizeMax := deps.PageSizeMax
	if pageSizeMax <= 0 {
		pageSizeMax = 100
	}
	return &Credentials{
		credentials:    deps.Credentials,
		customers:      deps.Customers,
		projects:       deps.Projects,
		vendors:        deps.Vendors,
		permissions:    deps.Permissions,
		secrets:        deps.Secrets,
		cipher:         deps.Cipher,
		recorder:       deps.Recorder,
		credentialPath: deps.CredentialPath,
		pageSizeMax:    pageSizeMax,
	}
}

// CreateCredentialInput carries the fields for a new credential. SecretKey
// is consumed in-memory only.
type CreateCredentialInput struct {
	CustomerID   int64
	ProjectID    *int64
	VendorID     int64
	AccessKey    string
	SecretKey    string
	ResourceUser string
	Labels       string
}

// UpdateCredentialInput carries a partial update. Nil fields are left
// untouched; a new AccessKey or SecretKey triggers rotation of the stored
// secret.
type UpdateCredentialInput struct {
	AccessKey    *string
	SecretKey    *string
	ResourceUser *string
	Labels       *string
	Status       *string
}

// CredentialSummary is the list-view shape. The access key is masked and no
// secret field exists on the type.
type CredentialSummary struct {
	ID           int64     `json:"id"`
	CustomerID   int64     `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	ProjectID    *int64    `json:"project_id,omitempty"`
	ProjectName  *string   `json:"project_name,omitempty"`
	VendorID     int64     `json:"vendor_id"`
	VendorName   string    `json:"vendor_name"`
	AccessKey    string    `json:"access_key"`
	ResourceUser string    `json:"resource_user,omitempty"`
	Labels       string    `json:"labels,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CredentialContext is the service-to-service shape: scope names, the
// access key and the secret's address, never the secret itself.
type CredentialContext struct {
	CredentialID      int64  `json:"credential_id"`
	CustomerName      string `json:"customer_name"`
	ProjectName       string `json:"project_name"`
	VendorName        string `json:"vendor_name"`
	VendorDisplayName string `json:"vendor_display_name"`
	AccessKey         string `json:"access_key"`
	VaultPath         string `json:"vault_path"`
	ResourceUser      string `json:"resource_user,omitempty"`
	Labels            string `json:"labels,omitempty"`
	Status            string `json:"status"`
}

// ExternalCallCredential carries the decrypted secret for an outbound
// provider call, plus the scope ids the caller needs to attribute it.
// Never persisted, never logged.
type ExternalCallCredential struct {
	CredentialID int64  `json:"credential_id"`
	CustomerID   int64  `json:"customer_id"`
	ProjectID    *int64 `json:"project_id,omitempty"`
	VendorID     int64  `json:"vendor_id"`
	VendorName   string `json:"vendor_name"`
	AccessKey    string `json:"access_key"`
	SecretKey    string `json:"secret_key"`
	ResourceUser string `json:"resource_user,omitempty"`
}

// CredentialPage is a paginated list result.
type CredentialPage struct {
	Items []CredentialSummary `json:"items"`
	Total int64               `json:"total"`
	Skip  int                 `json:"skip"`
	Limit int                 `json:"limit"`
}

// CredentialListFilter narrows List to a customer or project.
type CredentialListFilter struct {
	CustomerID *int64
	ProjectID  *int64
	VendorID   *int64
}

// vaultPath derives the secret location from the immutable scope and the
// access key. Injective over (customer, project-or-absent, vendor, access
// key).
func (s *Credentials) vaultPath(customerID int64, projectID *int64, vendorID int64, accessKey string) string {
	project := noProjectSegment
	if projectID != nil {
		project = strconv.FormatInt(*projectID, 10)
	}
	return path.Join(
		s.credentialPath,
		strconv.FormatInt(customerID, 10),
		project,
		strconv.FormatInt(vendorID, 10),
		accessKey,
	)
}

// Create encrypts and stores the secret, then persists the credential row.
// The secret store write happens first; a row is never persisted for a
// secret that could not be stored. An orphaned secret from a failed row
// insert is accepted rather than coordinating a rollback across both stores.
func (s *Credentials) Create(ctx context.Context, who identity.Identity, input CreateCredentialInput) (*model.Credential, error) {
	if input.AccessKey == "" {
		return nil, invalidf("access_key is required")
	}
	if input.SecretKey == "" {
		return nil, invalidf("secret_key is required")
	}

	if _, err := s.customers.GetCustomer(input.CustomerID); err != nil {
		return nil, err
	}
	if _, err := s.vendors.GetVendor(input.VendorID); err != nil {
		return nil, err
	}
	if input.ProjectID != nil {
		project, err := s.projects.GetProject(*input.ProjectID)
		if err != nil {
			return nil, err
		}
		if project.CustomerID != input.CustomerID {
			return nil, invalidf("project %d does not belong to customer %d", project.ID, input.CustomerID)
		}
	}

	if !s.secrets.IsAvailable() {
		return nil, fmt.Errorf("create credential: %w", vault.ErrUnavailable)
	}

	encrypted, err := s.cipher.Encrypt(input.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("create credential: encrypt: %w", err)
	}

	vaultPath := s.vaultPath(input.CustomerID, input.ProjectID, input.VendorID, input.AccessKey)
	payload := map[string]string{
		payloadAccessKey: input.AccessKey,
		payloadSecretKey: encrypted,
	}
	if err := s.secrets.Write(ctx, vaultPath, payload); err != nil {
		return nil, fmt.Errorf("create credential: %w", err)
	}

	credential := &model.Credential{
		CustomerID:   input.CustomerID,
		ProjectID:    input.ProjectID,
		VendorID:     input.VendorID,
		AccessKey:    input.AccessKey,
		VaultPath:    vaultPath,
		ResourceUser: input.ResourceUser,
		Labels:       input.Labels,
		Status:       model.StatusActive,
	}
	if err := s.credentials.CreateCredential(credential); err != nil {
		return nil, fmt.Errorf("create credential: %w", err)
	}

	s.recorder.Record(audit.Entry{
		UserID:       who.UserID,
		Action:       "create_credential",
		ResourceType: audit.ResourceCredential,
		ResourceID:   &credential.ID,
		CustomerID:   &credential.CustomerID,
		ProjectID:    credential.ProjectID,
		VendorID:     &credential.VendorID,
		CredentialID: &credential.ID,
		Details:      fmt.Sprintf("scope: %s; vendor %d", credential.ScopeString(), credential.VendorID),
		IPAddress:    who.RemoteIP,
		UserAgent:    who.UserAgent,
	})
	return credential, nil
}

// GetContext returns the scope names and access key for a credential. The
// call is audited because it discloses an access key and a provider
// identity.
func (s *Credentials) GetContext(ctx context.Context, who identity.Identity, id int64) (*CredentialContext, error) {
	row, err := s.credentials.GetCredentialRow(id)
	if err != nil {
		return nil, err
	}
	if !row.IsActive() {
		return nil, fmt.Errorf("credential %d: %w", id, ErrNotActive)
	}
	if err := s.authorize(who, &row.Credential, "use_credential"); err != nil {
		return nil, err
	}

	projectName := noProjectSegment
	if row.ProjectName != nil {
		projectName = *row.ProjectName
	}

	s.recorder.Record(audit.Entry{
		UserID:       who.UserID,
		Action:       "use_credential",
		ResourceType: audit.ResourceCredential,
		ResourceID:   &row.ID,
		CustomerID:   &row.CustomerID,
		ProjectID:    row.ProjectID,
		VendorID:     &row.VendorID,
		CredentialID: &row.ID,
		IPAddress:    who.RemoteIP,
		UserAgent:    who.UserAgent,
	})

	return &CredentialContext{
		CredentialID:      row.ID,
		CustomerName:      row.CustomerName,
		ProjectName:       projectName,
		VendorName:        row.VendorName,
		VendorDisplayName: row.VendorDisplayName,
		AccessKey:         row.AccessKey,
		VaultPath:         row.VaultPath,
		ResourceUser:      row.ResourceUser,
		Labels:            row.Labels,
		Status:            row.Status,
	}, nil
}

// GetForExternalCall reads and decrypts the stored secret for an outbound
// provider call. The plaintext exists in-memory only.
func (s *Credentials) GetForExternalCall(ctx context.Context, who identity.Identity, id int64) (*ExternalCallCredential, error) {
	row, err := s.credentials.GetCredentialRow(id)
	if err != nil {
		return nil, err
	}
	if !row.IsActive() {
		return nil, fmt.Errorf("credential %d: %w", id, ErrNotActive)
	}
	if err := s.authorize(who, &row.Credential, "retrieve_credential_for_api"); err != nil {
		return nil, err
	}

	if !s.secrets.IsAvailable() {
		return nil, fmt.Errorf("retrieve credential %d: %w", id, vault.ErrUnavailable)
	}
	payload, err := s.secrets.Read(ctx, row.VaultPath)
	if err != nil {
		return nil, fmt.Errorf("retrieve credential %d: %w", id, err)
	}
	secret, err := s.cipher.Decrypt(payload[payloadSecretKey])
	if err != nil {
		return nil, fmt.Errorf("retrieve credential %d: %w", id, err)
	}

	s.recorder.Record(audit.Entry{
		UserID:       who.UserID,
		Action:       "retrieve_credential_for_api",
		ResourceType: audit.ResourceCredential,
		ResourceID:   &row.ID,
		CustomerID:   &row.CustomerID,
		ProjectID:    row.ProjectID,
		VendorID:     &row.VendorID,
		CredentialID: &row.ID,
		IPAddress:    who.RemoteIP,
		UserAgent:    who.UserAgent,
	})

	return &ExternalCallCredential{
		CredentialID: row.ID,
		CustomerID:   row.CustomerID,
		ProjectID:    row.ProjectID,
		VendorID:     row.VendorID,
		VendorName:   row.VendorName,
		AccessKey:    row.AccessKey,
		SecretKey:    secret,
		ResourceUser: row.ResourceUser,
	}, nil
}

// List returns the credentials the caller's grants cover, with masked
// access keys.
func (s *Credentials) List(ctx context.Context, who identity.Identity, filter CredentialListFilter, skip, limit int) (*CredentialPage, error) {
	skip, limit = normalizePage(skip, limit, s.pageSizeMax)

	storeFilter := store.CredentialFilter{
		CustomerID: filter.CustomerID,
		ProjectID:  filter.ProjectID,
		VendorID:   filter.VendorID,
	}
	rows, err := s.credentials.ListByUserPermissions(who.UserID, storeFilter, skip, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.credentials.CountByUserPermissions(who.UserID, storeFilter)
	if err != nil {
		return nil, err
	}

	items := make([]CredentialSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, CredentialSummary{
			ID:           row.ID,
			CustomerID:   row.CustomerID,
			CustomerName: row.CustomerName,
			ProjectID:    row.ProjectID,
			ProjectName:  row.ProjectName,
			VendorID:     row.VendorID,
			VendorName:   row.VendorName,
			AccessKey:    crypto.MaskAccessKey(row.AccessKey, crypto.MaskVisibleChars),
			ResourceUser: row.ResourceUser,
			Labels:       row.Labels,
			Status:       row.Status,
			CreatedAt:    row.CreatedAt,
			UpdatedAt:    row.UpdatedAt,
		})
	}
	return &CredentialPage{Items: items, Total: total, Skip: skip, Limit: limit}, nil
}

// Update applies a partial update. Rotating the access key moves the stored
// secret: the payload is written under the new path before the row is
// updated, and the old path is removed only after the row update succeeds.
func (s *Credentials) Update(ctx context.Context, who identity.Identity, id int64, input UpdateCredentialInput) (*model.Credential, error) {
	credential, err := s.credentials.GetCredential(id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(who, credential, "update_credential"); err != nil {
		return nil, err
	}

	if input.AccessKey != nil && *input.AccessKey == "" {
		return nil, invalidf("access_key cannot be empty")
	}
	if input.SecretKey != nil && *input.SecretKey == "" {
		return nil, invalidf("secret_key cannot be empty")
	}
	if input.Status != nil && !model.ValidStatus(*input.Status) {
		return nil, invalidf("status must be %q or %q", model.StatusActive, model.StatusDisabled)
	}

	var changed []string
	patch := store.CredentialPatch{
		ResourceUser: input.ResourceUser,
		Labels:       input.Labels,
		Status:       input.Status,
	}
	if input.ResourceUser != nil {
		changed = append(changed, "resource_user")
	}
	if input.Labels != nil {
		changed = append(changed, "labels")
	}
	if input.Status != nil {
		changed = append(changed, "status")
	}

	newAccessKey := credential.AccessKey
	if input.AccessKey != nil && *input.AccessKey != credential.AccessKey {
		newAccessKey = *input.AccessKey
		patch.AccessKey = input.AccessKey
		changed = append(changed, "access_key")
	}
	oldPath := credential.VaultPath
	newPath := s.vaultPath(credential.CustomerID, credential.ProjectID, credential.VendorID, newAccessKey)
	pathChanged := newPath != oldPath

	switch {
	case input.SecretKey != nil:
		// New secret: encrypt and write under the (possibly new) path.
		if !s.secrets.IsAvailable() {
			return nil, fmt.Errorf("update credential %d: %w", id, vault.ErrUnavailable)
		}
		encrypted, err := s.cipher.Encrypt(*input.SecretKey)
		if err != nil {
			return nil, fmt.Errorf("update credential %d: encrypt: %w", id, err)
		}
		payload := map[string]string{
			payloadAccessKey: newAccessKey,
			payloadSecretKey: encrypted,
		}
		if err := s.secrets.Write(ctx, newPath, payload); err != nil {
			return nil, fmt.Errorf("update credential %d: %w", id, err)
		}
		changed = append(changed, "secret_key")
	case pathChanged:
		// Access key rotation without a new secret: move the existing
		// payload to the new path.
		if !s.secrets.IsAvailable() {
			return nil, fmt.Errorf("update credential %d: %w", id, vault.ErrUnavailable)
		}
		payload, err := s.secrets.Read(ctx, oldPath)
		if err != nil {
			return nil, fmt.Errorf("update credential %d: %w", id, err)
		}
		payload[payloadAccessKey] = newAccessKey
		if err := s.secrets.Write(ctx, newPath, payload); err != nil {
			return nil, fmt.Errorf("update credential %d: %w", id, err)
		}
	}
	if pathChanged {
		patch.VaultPath = &newPath
		changed = append(changed, "vault_path")
	}

	updated, err := s.credentials.UpdateCredential(id, patch)
	if err != nil {
		return nil, fmt.Errorf("update credential %d: %w", id, err)
	}

	// The old path is stale only once the row points at the new one.
	if pathChanged {
		if err := s.secrets.Delete(ctx, oldPath); err != nil {
			log.Printf("credentials: failed to remove stale secret for credential %d: %v", id, err)
		}
	}

	s.recorder.Record(audit.Entry{
		UserID:       who.UserID,
		Action:       "update_credential",
		ResourceType: audit.ResourceCredential,
		ResourceID:   &updated.ID,
		CustomerID:   &updated.CustomerID,
		ProjectID:    updated.ProjectID,
		VendorID:     &updated.VendorID,
		CredentialID: &updated.ID,
		Details:      "fields: " + strings.Join(changed, ", "),
		IPAddress:    who.RemoteIP,
		UserAgent:    who.UserAgent,
	})
	return updated, nil
}

// Delete soft-deletes the credential. The row survives for audit linkage
// and the stored secret stays in the external store untouched: vault paths
// carry no uniqueness guarantee against the relational rows, so removing
// one here could destroy a secret another row still points at. Purging
// retired secrets is an operational process, not this API.
func (s *Credentials) Delete(ctx context.Context, who identity.Identity, id int64) error {
	credential, err := s.credentials.GetCredential(id)
	if err != nil {
		return err
	}
	if err := s.authorize(who, credential, "delete_credential"); err != nil {
		return err
	}

	if err := s.credentials.SoftDeleteCredential(id); err != nil {
		return err
	}

	s.recorder.Record(audit.Entry{
		UserID:       who.UserID,
		Action:       "delete_credential",
		ResourceType: audit.ResourceCredential,
		ResourceID:   &credential.ID,
		CustomerID:   &credential.CustomerID,
		ProjectID:    credential.ProjectID,
		VendorID:     &credential.VendorID,
		CredentialID: &credential.ID,
		Details:      "scope: " + credential.ScopeString(),
		IPAddress:    who.RemoteIP,
		UserAgent:    who.UserAgent,
	})
	return nil
}

// authorize checks the caller's grants against the credential's scope and
// records denied attempts.
func (s *Credentials) authorize(who identity.Identity, credential *model.Credential, action string) error {
	ok, err := s.permissions.CheckPermission(who.UserID, credential.CustomerID, credential.ProjectID)
	if err != nil {
		return err
	}
	if !ok {
		s.recorder.Record(audit.Entry{
			UserID:       who.UserID,
			Action:       action,
			ResourceType: audit.ResourceCredential,
			ResourceID:   &credential.ID,
			CustomerID:   &credential.CustomerID,
			ProjectID:    credential.ProjectID,
			CredentialID: &credential.ID,
			IPAddress:    who.RemoteIP,
			UserAgent:    who.UserAgent,
			Denied:       true,
		})
		return fmt.Errorf("user %s on credential %d: %w", who.UserID, credential.ID, ErrForbidden)
	}
	return nil
}

