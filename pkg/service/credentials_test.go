package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormio "gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/credstore/pkg/audit"
	"github.com/doodlesbykumbi/credstore/pkg/crypto"
	"github.com/doodlesbykumbi/credstore/pkg/identity"
	"github.com/doodlesbykumbi/credstore/pkg/model"
	"github.com/doodlesbykumbi/credstore/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/credstore/pkg/server/store/gorm"
	"github.com/doodlesbykumbi/credstore/pkg/vault"
)

// fakeSecrets is an in-memory vault.Store recording operation order.
type fakeSecrets struct {
	data        map[string]map[string]string
	unavailable bool
	failWrites  bool
	ops         []string
}

var _ vault.Store = (*fakeSecrets)(nil)

func newFakeSecrets() *fakeSecrets {
	return &fakeSecrets{data: map[string]map[string]string{}}
}

func (f *fakeSecrets) IsAvailable() bool { return !f.unavailable }

func (f *fakeSecrets) Write(_ context.Context, path string, payload map[string]string) error {
	if f.unavailable {
		return vault.ErrUnavailable
	}
	if f.failWrites {
		return fmt.Errorf("write %s: backend down", path)
	}
	copied := make(map[string]string, len(payload))
	for k, v := range payload {
		copied[k] = v
	}
	f.data[path] = copied
	f.ops = append(f.ops, "write "+path)
	return nil
}

func (f *fakeSecrets) Read(_ context.Context, path string) (map[string]string, error) {
	if f.unavailable {
		return nil, vault.ErrUnavailable
	}
	payload, ok := f.data[path]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, vault.ErrSecretNotFound)
	}
	copied := make(map[string]string, len(payload))
	for k, v := range payload {
		copied[k] = v
	}
	f.ops = append(f.ops, "read "+path)
	return copied, nil
}

func (f *fakeSecrets) Delete(_ context.Context, path string) error {
	if f.unavailable {
		return vault.ErrUnavailable
	}
	delete(f.data, path)
	f.ops = append(f.ops, "delete "+path)
	return nil
}

type testEnv struct {
	db          *gormio.DB
	secrets     *fakeSecrets
	credentials *Credentials
	permissions store.PermissionsStore
	auditLogs   store.AuditStore
	syslog      *bytes.Buffer

	customerID int64
	projectID  int64
	vendorID   int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gormio.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gormio.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Customer{}, &model.Project{}, &model.Vendor{},
		&model.Credential{}, &model.UserPermission{}, &model.AuditLog{},
	))

	customer := &model.Customer{Name: "acme"}
	require.NoError(t, db.Create(customer).Error)
	project := &model.Project{CustomerID: customer.ID, Name: "billing"}
	require.NoError(t, db.Create(project).Error)
	vendor := &model.Vendor{Name: "stripe", DisplayName: "Stripe"}
	require.NoError(t, db.Create(vendor).Error)

	key := bytes.Repeat([]byte{7}, crypto.KeySize)
	cipher, err := crypto.New(key)
	require.NoError(t, err)

	var syslog bytes.Buffer
	auditLogger := audit.NewLogger()
	auditLogger.SetWriter(&syslog)
	auditStore := gormstore.NewAuditStore(db)
	recorder := audit.NewRecorder(auditLogger, auditStore)

	secrets := newFakeSecrets()
	permissions := gormstore.NewPermissionsStore(db)
	credentials := NewCredentials(CredentialsDeps{
		Credentials:    gormstore.NewCredentialsStore(db),
		Customers:      gormstore.NewCustomersStore(db),
		Projects:       gormstore.NewProjectsStore(db),
		Vendors:        gormstore.NewVendorsStore(db),
		Permissions:    permissions,
		Secrets:        secrets,
		Cipher:         cipher,
		Recorder:       recorder,
		CredentialPath: "credentials",
		PageSizeMax:    100,
	})

	return &testEnv{
		db:          db,
		secrets:     secrets,
		credentials: credentials,
		permissions: permissions,
		auditLogs:   auditStore,
		syslog:      &syslog,
		customerID:  customer.ID,
		projectID:   project.ID,
		vendorID:    vendor.ID,
	}
}

func (e *testEnv) grant(t *testing.T, userID string, customerID, projectID *int64) {
	t.Helper()
	require.NoError(t, e.permissions.CreatePermission(&model.UserPermission{
		UserID:         userID,
		CustomerID:     customerID,
		ProjectID:      projectID,
		PermissionType: model.PermissionRead,
	}))
}

func (e *testEnv) auditActions(t *testing.T, credentialID int64) []string {
	t.Helper()
	entries, err := e.auditLogs.ListAuditLogsByCredential(credentialID, 0, 100)
	require.NoError(t, err)
	actions := make([]string, 0, len(entries))
	for _, entry := range entries {
		actions = append(actions, entry.Action)
	}
	return actions
}

func alice() identity.Identity {
	return identity.Identity{UserID: "alice", RemoteIP: "10.0.0.5", UserAgent: "credstore-test"}
}

func TestCredentialLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.grant(t, "alice", &env.customerID, nil)

	created, err := env.credentials.Create(ctx, alice(), CreateCredentialInput{
		CustomerID: env.customerID,
		VendorID:   env.vendorID,
		AccessKey:  "abcd1234",
		SecretKey:  "s3cr3t",
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.Equal(t, model.StatusActive, created.Status)

	wantPath := fmt.Sprintf("credentials/%d/no-project/%d/abcd1234", env.customerID, env.vendorID)
	assert.Equal(t, wantPath, created.VaultPath)

	// The stored payload holds only ciphertext, never the plaintext secret.
	payload := env.secrets.data[wantPath]
	require.NotNil(t, payload)
	assert.Equal(t, "abcd1234", payload["access_key"])
	assert.NotEqual(t, "s3cr3t", payload["secret_key"])
	assert.NotContains(t, payload["secret_key"], "s3cr3t")

	// The plaintext secret never reaches the relational store.
	var count int64
	require.NoError(t, env.db.Raw(
		`SELECT COUNT(*) FROM credentials WHERE access_key LIKE ? OR vault_path LIKE ? OR labels LIKE ?`,
		"%s3cr3t%", "%s3cr3t%", "%s3cr3t%",
	).Scan(&count).Error)
	assert.Zero(t, count)

	// Listing masks the access key but keeps its length.
	page, err := env.credentials.List(ctx, alice(), CredentialListFilter{}, 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "abcd****", page.Items[0].AccessKey)
	assert.Equal(t, "acme", page.Items[0].CustomerName)

	// Context resolves names, the secret's address and the credential
	// state, but never carries a secret.
	credContext, err := env.credentials.GetContext(ctx, alice(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme", credContext.CustomerName)
	assert.Equal(t, "no-project", credContext.ProjectName)
	assert.Equal(t, "stripe", credContext.VendorName)
	assert.Equal(t, "Stripe", credContext.VendorDisplayName)
	assert.Equal(t, "abcd1234", credContext.AccessKey)
	assert.Equal(t, created.VaultPath, credContext.VaultPath)
	assert.Equal(t, model.StatusActive, credContext.Status)

	// External call retrieval round-trips the exact secret and names the
	// scope ids.
	external, err := env.credentials.GetForExternalCall(ctx, alice(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", external.SecretKey)
	assert.Equal(t, "abcd1234", external.AccessKey)
	assert.Equal(t, "stripe", external.VendorName)
	assert.Equal(t, env.customerID, external.CustomerID)
	assert.Equal(t, env.vendorID, external.VendorID)
	assert.Nil(t, external.ProjectID)

	// A user with no grant on the customer is refused.
	mallory := identity.Identity{UserID: "mallory"}
	_, err = env.credentials.GetForExternalCall(ctx, mallory, created.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	actions := env.auditActions(t, created.ID)
	assert.Equal(t, []string{
		"retrieve_credential_for_api", // mallory, denied
		"retrieve_credential_for_api", // alice
		"use_credential",
		"create_credential",
	}, actions)
}

func TestCreateCredentialValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.credentials.Create(ctx, alice(), CreateCredentialInput{
		CustomerID: env.customerID, VendorID: env.vendorID, SecretKey: "sk",
	})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = env.credentials.Create(ctx, alice(), CreateCredentialInput{
		CustomerID: env.customerID, VendorID: env.vendorID, AccessKey: "ak",
	})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = env.credentials.Create(ctx, alice(), CreateCredentialInput{
		CustomerID: 9999, VendorID: env.vendorID, AccessKey: "ak", SecretKey: "sk",
	})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = env.credentials.Create(ctx, alice(), CreateCredentialInput{
		CustomerID: env.customerID, VendorID: 9999, AccessKey: "ak", SecretKey: "sk",
	})
	assert.ErrorIs(t, err, store.ErrNotFound)

	// A project of another customer is rejected.
	foreign := &model.Customer{Name: "foreign"}
	require.NoError(t, env.db.Create(foreign).Error)
	foreignProject := &model.Project{CustomerID: foreign.ID, Name: "theirs"}
	require.NoError(t, env.db.Create(foreignProject).Error)
	_, err = env.credentials.Create(ctx, alice(), CreateCredentialInput{
		CustomerID: env.customerID, ProjectID: &foreignProject.ID, VendorID: env.vendorID,
		AccessKey: "ak", SecretKey: "sk",
	})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestCreateCredentialRequiresSecretStore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.secrets.unavailable = true

	_, err := env.credentials.Create(ctx, alice(), CreateCredentialInput{
		CustomerID: env.customerID, VendorID: env.vendorID,
		AccessKey: "ak", SecretKey: "sk",
	})
	assert.ErrorIs(t, err, vault.ErrUnavailable)

	// No partial state: the row was never created.
	var count int64
	require.NoError(t, env.db.Raw(`SELECT COUNT(*) FROM credentials`).Scan(&count).Error)
	assert.Zero(t, count)
}

func TestCreateCredentialWriteFailureLeavesNoRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.secrets.failWrites = true

	_, err := env.credentials.Create(ctx, alice(), CreateCredentialInput{
		CustomerID: env.customerID, VendorID: env.vendorID,
		AccessKey: "ak", SecretKey: "sk",
	})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "sk")

	var count int64
	require.NoError(t, env.db.Raw(`SELECT COUNT(*) FROM credentials`).Scan(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateCredentialRotatesAccessKey(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.grant(t, "alice", &env.customerID, nil)

	created, err := env.credentials.Create(ctx, alice(), CreateCredentialInput{
		CustomerID: env.customerID, VendorID: env.vendorID,
		AccessKey: "old-key", SecretKey: "s3cr3t",
	})
	require.NoError(t, err)
	oldPath := created.VaultPath

	newKey := "new-key"
	updated, err := env.credentials.Update(ctx, alice(), created.ID, UpdateCredentialInput{
		AccessKey: &newKey,
	})
	require.NoError(t, err)
	assert.Equal(t, "new-key", updated.AccessKey)

	newPath := fmt.Sprintf("credentials/%d/no-project/%d/new-key", env.customerID, env.vendorID)
	assert.Equal(t, newPath, updated.VaultPath)

	// The payload moved and the secret survived the move.
	assert.NotContains(t, env.secrets.data, oldPath)
	external, err := env.credentials.GetForExternalCall(ctx, alice(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", external.SecretKey)

	// Write-then-delete: the new path is written before the old is removed.
	writeIdx, deleteIdx := -1, -1
	for i, op := range env.secrets.ops {
		if op == "write "+newPath {
			writeIdx = i
		}
		if op == "delete "+oldPath {
			deleteIdx = i
		}
	}
	require.NotEqual(t, -1, writeIdx)
	require.NotEqual(t, -1, deleteIdx)
	assert.Less(t, writeIdx, deleteIdx)
}

func TestUpdateCredentialRotatesSecret(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.grant(t, "alice", &env.customerID, nil)

	created, err := env.credentials.Create(ctx, alice(), CreateCredentialInput{
		CustomerID: env.customerID, VendorID: env.vendorID,
		AccessKey: "ak", SecretKey: "first",
	})
	require.NoError(t, err)

	newSecret := "second"
	_, err = env.credentials.Update(ctx, alice(), created.ID, UpdateCredentialInput{
		SecretKey: &newSecret,
	})
	require.NoError(t, err)

	external, err := env.credentials.GetForExternalCall(ctx, alice(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", external.SecretKey)
}

func TestUpdateCredentialStatusAndMetadata(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.grant(t, "alice", &env.customerID, nil)

	created, err := env.credentials.Create(ctx, alice(), CreateCredentialInput{
		CustomerID: env.customerID, VendorID: env.vendorID,
		AccessKey: "ak", SecretKey: "sk",
	})
	require.NoError(t, err)

	disabled := model.StatusDisabled
	user := "svc-account"
	updated, err := env.credentials.Update(ctx, alice(), created.ID, UpdateCredentialInput{
		Status:       &disabled,
		ResourceUser: &user,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusDisabled, updated.Status)
	assert.Equal(t, "svc-account", updated.ResourceUser)

	// Disabled credentials refuse retrieval.
	_, err = env.credentials.GetContext(ctx, alice(), created.ID)
	assert.ErrorIs(t, err, ErrNotActive)
	_, err = env.credentials.GetForExternalCall(ctx, alice(), created.ID)
	assert.ErrorIs(t, err, ErrNotActive)

	// Deleted is not settable through update.
	deleted := model.StatusDeleted
	_, err = env.credentials.Update(ctx, alice(), created.ID, UpdateCredentialInput{Status: &deleted})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDeleteCredential(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.grant(t, "alice", &env.customerID, nil)

	created, err := env.credentials.Create(ctx, alice(), CreateCredentialInput{
		CustomerID: env.customerID, VendorID: env.vendorID,
		AccessKey: "ak", SecretKey: "sk",
	})
	require.NoError(t, err)

	require.NoError(t, env.credentials.Delete(ctx, alice(), created.ID))

	// The row turns invisible but the stored secret stays: retiring a
	// credential never destroys external-store state.
	assert.Contains(t, env.secrets.data, created.VaultPath)
	_, err = env.credentials.GetContext(ctx, alice(), created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Deleting again finds nothing.
	assert.ErrorIs(t, env.credentials.Delete(ctx, alice(), created.ID), store.ErrNotFound)

	// History survives the delete.
	actions := env.auditActions(t, created.ID)
	assert.Contains(t, actions, "delete_credential")
	assert.Contains(t, actions, "create_credential")
}

func TestListRespectsPermissionScope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.grant(t, "alice", &env.customerID, &env.projectID)

	// One credential inside alice's project, one outside.
	_, err := env.credentials.Create(ctx, alice(), CreateCredentialInput{
		CustomerID: env.customerID, ProjectID: &env.projectID, VendorID: env.vendorID,
		AccessKey: "inside-key", SecretKey: "sk",
	})
	require.NoError(t, err)
	_, err = env.credentials.Create(ctx, alice(), CreateCredentialInput{
		CustomerID: env.customerID, VendorID: env.vendorID,
		AccessKey: "outside-key", SecretKey: "sk",
	})
	require.NoError(t, err)

	page, err := env.credentials.List(ctx, alice(), CredentialListFilter{}, 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, "insi******", page.Items[0].AccessKey)
}

func TestSecretNeverInSyslog(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.grant(t, "alice", &env.customerID, nil)

	created, err := env.credentials.Create(ctx, alice(), CreateCredentialInput{
		CustomerID: env.customerID, VendorID: env.vendorID,
		AccessKey: "abcd1234", SecretKey: "super-secret-value",
	})
	require.NoError(t, err)
	_, err = env.credentials.GetForExternalCall(ctx, alice(), created.ID)
	require.NoError(t, err)

	assert.NotContains(t, env.syslog.String(), "super-secret-value")
}
