package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore("buildhub:")

	_, found, err := s.GetItem(ctx, "token")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.SetItem(ctx, "token", "abc"))
	require.NoError(t, s.SetItem(ctx, "userData", "{}"))

	v, found, err := s.GetItem(ctx, "token")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "abc", v)
	assert.ElementsMatch(t, []string{"token", "userData"}, s.Keys())

	require.NoError(t, s.RemoveItem(ctx, "token", "missing"))
	_, found, _ = s.GetItem(ctx, "token")
	assert.False(t, found)
	assert.Equal(t, []string{"userData"}, s.Keys())
}
