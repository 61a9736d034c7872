package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/storage/memory"
)

func TestGetComputesOnceThenServesCached(t *testing.T) {
	ctx := context.Background()
	store := memory.NewProfileStore()

	var computes int32
	compute := func(ctx context.Context, wallet string) (*domain.WalletProfile, error) {
		atomic.AddInt32(&computes, 1)
		return &domain.WalletProfile{Wallet: wallet, DegenScore: 55}, nil
	}

	c := New(store, compute, Options{})

	p, cached, err := c.Get(ctx, "w1")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 55, p.DegenScore)

	p, cached, err = c.Get(ctx, "w1")
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 55, p.DegenScore)

	assert.Equal(t, int32(1), atomic.LoadInt32(&computes))
}

func TestGetCoalescesConcurrentRequests(t *testing.T) {
	ctx := context.Background()
	store := memory.NewProfileStore()

	var computes int32
	gate := make(chan struct{})
	compute := func(ctx context.Context, wallet string) (*domain.WalletProfile, error) {
		atomic.AddInt32(&computes, 1)
		<-gate
		return &domain.WalletProfile{Wallet: wallet, DegenScore: 70}, nil
	}

	c := New(store, compute, Options{})

	const n = 8
	var wg sync.WaitGroup
	results := make([]*domain.WalletProfile, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _, errs[i] = c.Get(ctx, "w1")
		}(i)
	}

	// Let every goroutine reach the flight before releasing the compute.
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, 70, results[i].DegenScore)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&computes))
}

func TestGetRecomputesAfterTTL(t *testing.T) {
	ctx := context.Background()
	store := memory.NewProfileStore()

	current := time.Now()
	var mu sync.Mutex
	now := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}

	var computes int32
	compute := func(ctx context.Context, wallet string) (*domain.WalletProfile, error) {
		return &domain.WalletProfile{Wallet: wallet, DegenScore: int(atomic.AddInt32(&computes, 1))}, nil
	}

	c := New(store, compute, Options{TTL: time.Hour, Now: now})

	p, _, err := c.Get(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.DegenScore)

	mu.Lock()
	current = current.Add(61 * time.Minute)
	mu.Unlock()

	p, cached, err := c.Get(ctx, "w1")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, p.DegenScore)
}

func TestGetFailedComputeDoesNotPopulate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewProfileStore()

	boom := errors.New("rpc down")
	calls := 0
	compute := func(ctx context.Context, wallet string) (*domain.WalletProfile, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return &domain.WalletProfile{Wallet: wallet, DegenScore: 33}, nil
	}

	c := New(store, compute, Options{})

	_, _, err := c.Get(ctx, "w1")
	require.ErrorIs(t, err, boom)

	// The failure was not cached; the next request recomputes.
	p, cached, err := c.Get(ctx, "w1")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 33, p.DegenScore)
}
