package postgres

import (
	"context"
	"fmt"

	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/storage"
)

// PopulationStore implements storage.PopulationStore using PostgreSQL.
// Score events are append-only; rows are never updated or deleted.
type PopulationStore struct {
	pool *Pool
}

// NewPopulationStore creates a new PopulationStore.
func NewPopulationStore(pool *Pool) *PopulationStore {
	return &PopulationStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PopulationStore = (*PopulationStore)(nil)

// Append records one completed scoring.
func (s *PopulationStore) Append(ctx context.Context, e *domain.ScoreEvent) error {
	if e == nil || e.Wallet == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO score_events (wallet, score, scored_at)
		VALUES ($1, $2, $3)
	`

	if _, err := s.pool.Exec(ctx, query, e.Wallet, e.Score, e.ScoredAt); err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert score event: %w", err)
	}
	return nil
}

// CountBelow returns the number of recorded scores strictly below score.
func (s *PopulationStore) CountBelow(ctx context.Context, score int) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM score_events WHERE score < $1`, score).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count scores below: %w", err)
	}
	return n, nil
}

// Count returns the total number of recorded scores.
func (s *PopulationStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM score_events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count scores: %w", err)
	}
	return n, nil
}

// Top retrieves the highest latest-per-wallet scores.
func (s *PopulationStore) Top(ctx context.Context, limit int) ([]*domain.ScoreEvent, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT wallet, score, scored_at FROM (
			SELECT DISTINCT ON (wallet) wallet, score, scored_at
			FROM score_events
			ORDER BY wallet, scored_at DESC, id DESC
		) latest
		ORDER BY score DESC, wallet ASC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query top scores: %w", err)
	}
	defer rows.Close()

	var out []*domain.ScoreEvent
	for rows.Next() {
		var e domain.ScoreEvent
		if err := rows.Scan(&e.Wallet, &e.Score, &e.ScoredAt); err != nil {
			return nil, fmt.Errorf("scan score event: %w", err)
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate score events: %w", err)
	}
	return out, nil
}

// Stats summarizes the population.
func (s *PopulationStore) Stats(ctx context.Context) (*storage.PopulationStats, error) {
	query := `
		SELECT COUNT(DISTINCT wallet), COUNT(*), COALESCE(AVG(score), 0)
		FROM score_events
	`

	stats := &storage.PopulationStats{}
	if err := s.pool.QueryRow(ctx, query).Scan(&stats.Wallets, &stats.Analyses, &stats.AverageScore); err != nil {
		return nil, fmt.Errorf("query population stats: %w", err)
	}
	return stats, nil
}
