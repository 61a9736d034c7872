package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/storage"
	"solana-wallet-lab/internal/storage/postgres"
)

func TestProfileStore_PutAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewProfileStore(pool)
	ctx := context.Background()

	pct := 62.5
	profile := &domain.WalletProfile{
		Wallet:     "WalletAddress111",
		TxCount:    140,
		SwapCount:  38,
		DegenScore: 77,
		Percentile: &pct,
		Rationale:  []string{"token graveyard: 6 abandoned tokens"},
		Heatmap:    map[string]int{"sat_14": 3},
		Features: domain.FeatureVector{
			FailureRate:     0.12,
			GraveyardCount:  6,
			RealizedLossSOL: 14.5,
		},
	}
	now := time.Now().UTC().Truncate(time.Microsecond)

	require.NoError(t, store.Put(ctx, profile, now))

	sp, err := store.Get(ctx, "WalletAddress111")
	require.NoError(t, err)
	assert.Equal(t, profile.DegenScore, sp.Profile.DegenScore)
	assert.Equal(t, profile.TxCount, sp.Profile.TxCount)
	assert.Equal(t, profile.Rationale, sp.Profile.Rationale)
	assert.Equal(t, 3, sp.Profile.Heatmap["sat_14"])
	require.NotNil(t, sp.Profile.Percentile)
	assert.InDelta(t, 62.5, *sp.Profile.Percentile, 1e-9)
	assert.True(t, sp.UpdatedAt.Equal(now))
}

func TestProfileStore_PutUpserts(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewProfileStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &domain.WalletProfile{Wallet: "w", DegenScore: 10}, time.Now()))
	require.NoError(t, store.Put(ctx, &domain.WalletProfile{Wallet: "w", DegenScore: 90}, time.Now()))

	sp, err := store.Get(ctx, "w")
	require.NoError(t, err)
	assert.Equal(t, 90, sp.Profile.DegenScore)
}

func TestProfileStore_GetMissing(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := postgres.NewProfileStore(pool).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestProfileStore_Recent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewProfileStore(pool)
	ctx := context.Background()
	base := time.Now().UTC()

	for i, w := range []string{"w1", "w2", "w3"} {
		require.NoError(t, store.Put(ctx, &domain.WalletProfile{Wallet: w, DegenScore: i * 10},
			base.Add(time.Duration(i)*time.Minute)))
	}

	recent, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "w3", recent[0].Profile.Wallet)
	assert.Equal(t, "w2", recent[1].Profile.Wallet)

	_, err = store.Recent(ctx, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
