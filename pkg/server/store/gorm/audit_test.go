package gorm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/credstore/pkg/model"
)

func TestAuditStoreNewestFirst(t *testing.T) {
	s := NewAuditStore(testDB(t))

	credentialID := int64(42)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.CreateAuditLog(&model.AuditLog{
			UserID:       "alice",
			Action:       fmt.Sprintf("action-%d", i),
			ResourceType: "credential",
			CredentialID: &credentialID,
		}))
	}
	require.NoError(t, s.CreateAuditLog(&model.AuditLog{
		UserID:       "bob",
		Action:       "use_credential",
		ResourceType: "credential",
	}))

	byUser, err := s.ListAuditLogsByUser("alice", 0, 10)
	require.NoError(t, err)
	require.Len(t, byUser, 3)
	assert.Equal(t, "action-2", byUser[0].Action)
	assert.Equal(t, "action-0", byUser[2].Action)

	byCredential, err := s.ListAuditLogsByCredential(credentialID, 0, 10)
	require.NoError(t, err)
	assert.Len(t, byCredential, 3)

	count, err := s.CountAuditLogsByUser("alice")
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	count, err = s.CountAuditLogsByCredential(credentialID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	page, err := s.ListAuditLogsByUser("alice", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "action-1", page[0].Action)
}
