// Package cache provides the TTL + request-coalescing layer in front of the
// analysis pipeline. Wallet analysis is expensive (hundreds of RPC calls), so
// concurrent requests for the same wallet share one computation and completed
// profiles are served from the backing store until they expire.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/observability"
	"solana-wallet-lab/internal/storage"
)

// DefaultTTL is how long a stored profile is served without recomputation.
const DefaultTTL = time.Hour

// ComputeFunc produces a fresh profile for a wallet.
type ComputeFunc func(ctx context.Context, wallet string) (*domain.WalletProfile, error)

// ProfileCache coalesces and caches profile computations. Expiry is lazy: a
// stale entry stays in the store until the next request for that wallet
// recomputes it.
type ProfileCache struct {
	store   storage.ProfileStore
	compute ComputeFunc
	ttl     time.Duration
	now     func() time.Time
	logger  *log.Logger
	group   singleflight.Group
}

// Options configures a ProfileCache. Zero values take defaults.
type Options struct {
	TTL    time.Duration
	Now    func() time.Time
	Logger *log.Logger
}

// New creates a ProfileCache over a backing store and compute function.
func New(store storage.ProfileStore, compute ComputeFunc, opts Options) *ProfileCache {
	c := &ProfileCache{
		store:   store,
		compute: compute,
		ttl:     opts.TTL,
		now:     opts.Now,
		logger:  opts.Logger,
	}
	if c.ttl <= 0 {
		c.ttl = DefaultTTL
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c
}

// Get returns the wallet's profile, serving from the store when fresh and
// computing otherwise. cached reports whether the profile was served without
// recomputation. Only fully completed computations are stored; a failed
// computation leaves any stale entry in place but does not serve it.
func (c *ProfileCache) Get(ctx context.Context, wallet string) (profile *domain.WalletProfile, cached bool, err error) {
	if sp, ok := c.lookup(ctx, wallet); ok {
		observability.RecordCacheHit()
		return sp.Profile, true, nil
	}
	observability.RecordCacheMiss()

	v, err, shared := c.group.Do(wallet, func() (interface{}, error) {
		// A concurrent flight may have stored a fresh profile between the
		// caller's lookup and this one.
		if sp, ok := c.lookup(ctx, wallet); ok {
			return sp.Profile, nil
		}

		p, err := c.compute(ctx, wallet)
		if err != nil {
			return nil, err
		}
		if putErr := c.store.Put(ctx, p, c.now()); putErr != nil {
			// The caller still gets the profile; only durability suffered.
			c.logger.Printf("cache: store profile for %s: %v", wallet, putErr)
		}
		return p, nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("compute profile: %w", err)
	}
	if shared {
		observability.RecordCacheCoalesced()
	}
	return v.(*domain.WalletProfile), shared, nil
}

// lookup fetches the stored profile if present and unexpired.
func (c *ProfileCache) lookup(ctx context.Context, wallet string) (*storage.StoredProfile, bool) {
	sp, err := c.store.Get(ctx, wallet)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			c.logger.Printf("cache: lookup %s: %v", wallet, err)
		}
		return nil, false
	}
	if c.now().Sub(sp.UpdatedAt) > c.ttl {
		return nil, false
	}
	return sp, true
}
