package lib

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryHistoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryHistoryStore()

	for _, expr := range []string{"1+1", "2+2", "3+3"} {
		require.NoError(t, store.Append(ctx, HistoryEntry{Expression: expr, Valid: true}))
	}

	all, err := store.Load(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"1+1", "2+2", "3+3"}, all)

	recent, err := store.Load(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"2+2", "3+3"}, recent)

	none, err := store.Load(ctx, 0)
	require.NoError(t, err)
	require.Len(t, none, 0)

	require.NoError(t, store.Close())
}
