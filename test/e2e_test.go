package test

import (
	"context"
	"os"
	"testing"

	"github.com/graeme-hill/calcstuff-go/lib"
	"github.com/stretchr/testify/require"
)

// Needs a running postgres, e.g. CALC_TEST_DSN="user=postgres password=password sslmode=disable".
func TestPostgresHistory(t *testing.T) {
	connStr := os.Getenv("CALC_TEST_DSN")
	if connStr == "" {
		t.Skip("CALC_TEST_DSN not set")
	}

	ctx := context.Background()
	store, err := lib.OpenPostgresHistory(ctx, connStr)
	require.NoError(t, err)
	defer store.Close()

	before, err := store.Load(ctx, 1000000)
	require.NoError(t, err)

	require.NoError(t, store.Append(ctx, lib.HistoryEntry{Expression: "3+4*2", Outcome: "14", Valid: true}))
	require.NoError(t, store.Append(ctx, lib.HistoryEntry{Expression: "12/0", Outcome: "Invalid calculation"}))

	after, err := store.Load(ctx, 1000000)
	require.NoError(t, err)
	require.Len(t, after, len(before)+2)

	recent, err := store.Load(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"3+4*2", "12/0"}, recent)

	// migrations were recorded, so opening again applies nothing new
	again, err := lib.OpenPostgresHistory(ctx, connStr)
	require.NoError(t, err)
	require.NoError(t, again.Close())
}
