package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/credstore/pkg/audit"
	"github.com/doodlesbykumbi/credstore/pkg/model"
	"github.com/doodlesbykumbi/credstore/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/credstore/pkg/server/store/gorm"
)

func newPermissionsService(env *testEnv) *Permissions {
	auditLogger := audit.NewLogger()
	auditLogger.SetWriter(env.syslog)
	recorder := audit.NewRecorder(auditLogger, env.auditLogs)
	return NewPermissions(
		env.permissions,
		gormstore.NewCustomersStore(env.db),
		gormstore.NewProjectsStore(env.db),
		recorder,
		100,
	)
}

func TestGrantValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := newPermissionsService(env)
	ctx := context.Background()

	otherCustomer := &model.Customer{Name: "globex"}
	require.NoError(t, env.db.Create(otherCustomer).Error)

	missing := int64(9999)

	tests := []struct {
		name  string
		input GrantInput
		want  error
	}{
		{
			name:  "user id required",
			input: GrantInput{},
			want:  ErrInvalid,
		},
		{
			name:  "unknown permission type",
			input: GrantInput{UserID: "bob", PermissionType: "owner"},
			want:  ErrInvalid,
		},
		{
			name:  "project grant without customer",
			input: GrantInput{UserID: "bob", ProjectID: &env.projectID},
			want:  ErrInvalid,
		},
		{
			name:  "project must belong to customer",
			input: GrantInput{UserID: "bob", CustomerID: &otherCustomer.ID, ProjectID: &env.projectID},
			want:  ErrInvalid,
		},
		{
			name:  "unknown customer",
			input: GrantInput{UserID: "bob", CustomerID: &missing},
			want:  store.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Grant(ctx, alice(), tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGrantAndRevoke(t *testing.T) {
	env := newTestEnv(t)
	svc := newPermissionsService(env)
	ctx := context.Background()

	granted, err := svc.Grant(ctx, alice(), GrantInput{
		UserID:     "bob",
		CustomerID: &env.customerID,
		ProjectID:  &env.projectID,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PermissionRead, granted.PermissionType, "type defaults to read")

	page, err := svc.List(ctx, "bob", 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(1), page.Total)

	updated, err := svc.Update(ctx, alice(), granted.ID, model.PermissionWrite)
	require.NoError(t, err)
	assert.Equal(t, model.PermissionWrite, updated.PermissionType)

	_, err = svc.Update(ctx, alice(), granted.ID, "owner")
	assert.ErrorIs(t, err, ErrInvalid)

	require.NoError(t, svc.Revoke(ctx, alice(), granted.ID))

	_, err = svc.Get(ctx, granted.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	entries, err := env.auditLogs.ListAuditLogsByUser("alice", 0, 10)
	require.NoError(t, err)
	actions := make([]string, 0, len(entries))
	for _, entry := range entries {
		actions = append(actions, entry.Action)
	}
	assert.Equal(t, []string{"revoke_permission", "update_permission", "grant_permission"}, actions)
}
