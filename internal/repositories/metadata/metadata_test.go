package metadata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/brewlog/internal/common"
	"github.com/dmitrijs2005/brewlog/internal/logging"
	"github.com/dmitrijs2005/brewlog/internal/storage"
)

func TestMetadata_LoadAbsentIsZero(t *testing.T) {
	r := NewRepository(storage.NewMemStore(), logging.Discard())

	m, err := r.Load(context.Background())
	require.NoError(t, err)
	require.True(t, m.LastSync.IsZero())
}

func TestMetadata_SetLastSyncRoundTrip(t *testing.T) {
	r := NewRepository(storage.NewMemStore(), logging.Discard())
	ctx := context.Background()
	ts := time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC)

	require.NoError(t, r.SetLastSync(ctx, ts))

	m, err := r.Load(ctx)
	require.NoError(t, err)
	require.True(t, m.LastSync.Equal(ts))
}

func TestMetadata_CorruptDegradesToZero(t *testing.T) {
	store := storage.NewMemStore()
	r := NewRepository(store, logging.Discard())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, common.StorageKeySyncMetadata, []byte("oops")))

	m, err := r.Load(ctx)
	require.NoError(t, err)
	require.True(t, m.LastSync.IsZero())
}
