package memory

import (
	"context"
	"sort"
	"sync"

	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/storage"
)

// PopulationStore implements storage.PopulationStore with an append-only
// in-memory slice.
type PopulationStore struct {
	mu     sync.RWMutex
	events []domain.ScoreEvent
}

// NewPopulationStore creates an empty in-memory population store.
func NewPopulationStore() *PopulationStore {
	return &PopulationStore{}
}

// Compile-time interface check.
var _ storage.PopulationStore = (*PopulationStore)(nil)

// Append records one completed scoring.
func (s *PopulationStore) Append(ctx context.Context, e *domain.ScoreEvent) error {
	if e == nil || e.Wallet == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, *e)
	return nil
}

// CountBelow returns the number of recorded scores strictly below score.
func (s *PopulationStore) CountBelow(ctx context.Context, score int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.events {
		if e.Score < score {
			n++
		}
	}
	return n, nil
}

// Count returns the total number of recorded scores.
func (s *PopulationStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events), nil
}

// Top retrieves the highest latest-per-wallet scores.
func (s *PopulationStore) Top(ctx context.Context, limit int) ([]*domain.ScoreEvent, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := make(map[string]domain.ScoreEvent)
	for _, e := range s.events {
		prev, ok := latest[e.Wallet]
		if !ok || e.ScoredAt >= prev.ScoredAt {
			latest[e.Wallet] = e
		}
	}

	out := make([]*domain.ScoreEvent, 0, len(latest))
	for _, e := range latest {
		cp := e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Wallet < out[j].Wallet
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Stats summarizes the population.
func (s *PopulationStore) Stats(ctx context.Context) (*storage.PopulationStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &storage.PopulationStats{Analyses: len(s.events)}
	if len(s.events) == 0 {
		return stats, nil
	}

	wallets := make(map[string]struct{})
	total := 0
	for _, e := range s.events {
		wallets[e.Wallet] = struct{}{}
		total += e.Score
	}
	stats.Wallets = len(wallets)
	stats.AverageScore = float64(total) / float64(len(s.events))
	return stats, nil
}
