// Package memory provides in-memory store implementations used by tests and
// as the default backend when no database is configured.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/storage"
)

// ProfileStore implements storage.ProfileStore with an in-memory map.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]*storage.StoredProfile
}

// NewProfileStore creates an empty in-memory profile store.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[string]*storage.StoredProfile)}
}

// Compile-time interface check.
var _ storage.ProfileStore = (*ProfileStore)(nil)

// Put stores a profile, replacing any previous one for the wallet.
func (s *ProfileStore) Put(ctx context.Context, p *domain.WalletProfile, updatedAt time.Time) error {
	if p == nil || p.Wallet == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.Wallet] = &storage.StoredProfile{Profile: p, UpdatedAt: updatedAt}
	return nil
}

// Get retrieves the stored profile for a wallet.
func (s *ProfileStore) Get(ctx context.Context, wallet string) (*storage.StoredProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sp, ok := s.profiles[wallet]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *sp
	return &cp, nil
}

// Recent retrieves the most recently updated profiles, newest first.
func (s *ProfileStore) Recent(ctx context.Context, limit int) ([]*storage.StoredProfile, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*storage.StoredProfile, 0, len(s.profiles))
	for _, sp := range s.profiles {
		cp := *sp
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].Profile.Wallet < out[j].Profile.Wallet
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
