package gorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/credstore/pkg/model"
	"github.com/doodlesbykumbi/credstore/pkg/server/store"
)

func TestCredentialsStoreGetExcludesDeleted(t *testing.T) {
	db := testDB(t)
	customerID, projectID, vendorID := seedScope(t, db)
	s := NewCredentialsStore(db)

	credential := &model.Credential{
		CustomerID: customerID,
		ProjectID:  &projectID,
		VendorID:   vendorID,
		AccessKey:  "AKIA1234EXAMPLE",
		VaultPath:  "credentials/1/1/1/AKIA1234EXAMPLE",
		Status:     model.StatusActive,
	}
	require.NoError(t, s.CreateCredential(credential))

	got, err := s.GetCredential(credential.ID)
	require.NoError(t, err)
	assert.Equal(t, "AKIA1234EXAMPLE", got.AccessKey)

	require.NoError(t, s.SoftDeleteCredential(credential.ID))

	_, err = s.GetCredential(credential.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// A second delete finds nothing to delete.
	assert.ErrorIs(t, s.SoftDeleteCredential(credential.ID), store.ErrNotFound)

	// The row itself survives for audit linkage.
	var status string
	require.NoError(t, db.Raw(`SELECT status FROM credentials WHERE id = ?`, credential.ID).Scan(&status).Error)
	assert.Equal(t, model.StatusDeleted, status)
}

func TestCredentialsStoreRowResolvesNames(t *testing.T) {
	db := testDB(t)
	customerID, projectID, vendorID := seedScope(t, db)
	s := NewCredentialsStore(db)

	scoped := &model.Credential{
		CustomerID: customerID,
		ProjectID:  &projectID,
		VendorID:   vendorID,
		AccessKey:  "key-a",
		VaultPath:  "credentials/a",
		Status:     model.StatusActive,
	}
	require.NoError(t, s.CreateCredential(scoped))

	row, err := s.GetCredentialRow(scoped.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme", row.CustomerName)
	require.NotNil(t, row.ProjectName)
	assert.Equal(t, "billing", *row.ProjectName)
	assert.Equal(t, "stripe", row.VendorName)
	assert.Equal(t, "Stripe", row.VendorDisplayName)

	// Customer-level credential has no project name.
	customerLevel := &model.Credential{
		CustomerID: customerID,
		VendorID:   vendorID,
		AccessKey:  "key-b",
		VaultPath:  "credentials/b",
		Status:     model.StatusActive,
	}
	require.NoError(t, s.CreateCredential(customerLevel))

	row, err = s.GetCredentialRow(customerLevel.ID)
	require.NoError(t, err)
	assert.Nil(t, row.ProjectName)
}

func TestCredentialsStoreListByUserPermissions(t *testing.T) {
	db := testDB(t)
	customerID, projectID, vendorID := seedScope(t, db)
	s := NewCredentialsStore(db)
	permissions := NewPermissionsStore(db)

	otherCustomer := &model.Customer{Name: "other"}
	require.NoError(t, db.Create(otherCustomer).Error)

	inProject := &model.Credential{
		CustomerID: customerID, ProjectID: &projectID, VendorID: vendorID,
		AccessKey: "key-project", VaultPath: "credentials/p", Status: model.StatusActive,
	}
	customerLevel := &model.Credential{
		CustomerID: customerID, VendorID: vendorID,
		AccessKey: "key-customer", VaultPath: "credentials/c", Status: model.StatusActive,
	}
	foreign := &model.Credential{
		CustomerID: otherCustomer.ID, VendorID: vendorID,
		AccessKey: "key-foreign", VaultPath: "credentials/f", Status: model.StatusActive,
	}
	for _, c := range []*model.Credential{inProject, customerLevel, foreign} {
		require.NoError(t, s.CreateCredential(c))
	}

	// Project-scoped grant sees only the project credential.
	require.NoError(t, permissions.CreatePermission(&model.UserPermission{
		UserID: "bob", CustomerID: &customerID, ProjectID: &projectID,
		PermissionType: model.PermissionRead,
	}))
	rows, err := s.ListByUserPermissions("bob", store.CredentialFilter{}, 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, inProject.ID, rows[0].ID)

	// Customer-wide grant sees both credentials of the customer.
	require.NoError(t, permissions.CreatePermission(&model.UserPermission{
		UserID: "alice", CustomerID: &customerID,
		PermissionType: model.PermissionAdmin,
	}))
	rows, err = s.ListByUserPermissions("alice", store.CredentialFilter{}, 0, 10)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	// Global wildcard sees everything, newest first.
	require.NoError(t, permissions.CreatePermission(&model.UserPermission{
		UserID: "root", PermissionType: model.PermissionAdmin,
	}))
	rows, err = s.ListByUserPermissions("root", store.CredentialFilter{}, 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, foreign.ID, rows[0].ID)

	count, err := s.CountByUserPermissions("root", store.CredentialFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	// Filters narrow further.
	rows, err = s.ListByUserPermissions("root", store.CredentialFilter{CustomerID: &customerID}, 0, 10)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = s.ListByUserPermissions("root", store.CredentialFilter{ProjectID: &projectID}, 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, inProject.ID, rows[0].ID)

	// No grants, no rows.
	rows, err = s.ListByUserPermissions("nobody", store.CredentialFilter{}, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCredentialsStoreListExcludesDeleted(t *testing.T) {
	db := testDB(t)
	customerID, _, vendorID := seedScope(t, db)
	s := NewCredentialsStore(db)
	permissions := NewPermissionsStore(db)

	require.NoError(t, permissions.CreatePermission(&model.UserPermission{
		UserID: "alice", PermissionType: model.PermissionAdmin,
	}))

	credential := &model.Credential{
		CustomerID: customerID, VendorID: vendorID,
		AccessKey: "key", VaultPath: "credentials/x", Status: model.StatusActive,
	}
	require.NoError(t, s.CreateCredential(credential))
	require.NoError(t, s.SoftDeleteCredential(credential.ID))

	rows, err := s.ListByUserPermissions("alice", store.CredentialFilter{}, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCredentialsStoreUpdatePatch(t *testing.T) {
	db := testDB(t)
	customerID, _, vendorID := seedScope(t, db)
	s := NewCredentialsStore(db)

	credential := &model.Credential{
		CustomerID: customerID, VendorID: vendorID,
		AccessKey: "old-key", VaultPath: "credentials/old",
		ResourceUser: "svc", Status: model.StatusActive,
	}
	require.NoError(t, s.CreateCredential(credential))

	newKey := "new-key"
	newPath := "credentials/new"
	disabled := model.StatusDisabled
	updated, err := s.UpdateCredential(credential.ID, store.CredentialPatch{
		AccessKey: &newKey,
		VaultPath: &newPath,
		Status:    &disabled,
	})
	require.NoError(t, err)
	assert.Equal(t, "new-key", updated.AccessKey)
	assert.Equal(t, "credentials/new", updated.VaultPath)
	assert.Equal(t, model.StatusDisabled, updated.Status)
	// Untouched fields survive.
	assert.Equal(t, "svc", updated.ResourceUser)

	_, err = s.UpdateCredential(9999, store.CredentialPatch{AccessKey: &newKey})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
