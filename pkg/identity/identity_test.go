package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetGet(t *testing.T) {
	ctx := context.Background()

	_, ok := Get(ctx)
	assert.False(t, ok)

	id := Identity{UserID: "user-1", RemoteIP: "10.0.0.1", UserAgent: "svc/1.0"}
	ctx = Set(ctx, id)

	got, ok := Get(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)
}
