package clickhouse

import (
	"context"
	"fmt"

	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/storage"
)

// ScoreEventStore implements storage.ScoreArchive using ClickHouse. The
// archive is analytical; it never serves percentile ranks and an insert
// failure never fails an analysis.
type ScoreEventStore struct {
	conn *Conn
}

// NewScoreEventStore creates a new ScoreEventStore.
func NewScoreEventStore(conn *Conn) *ScoreEventStore {
	return &ScoreEventStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ScoreArchive = (*ScoreEventStore)(nil)

// Record appends a score event to the archive.
func (s *ScoreEventStore) Record(ctx context.Context, e *domain.ScoreEvent) error {
	if e == nil || e.Wallet == "" {
		return storage.ErrInvalidInput
	}

	query := `INSERT INTO score_events (wallet, score, scored_at) VALUES (?, ?, ?)`
	if err := s.conn.Exec(ctx, query, e.Wallet, int32(e.Score), e.ScoredAt); err != nil {
		return fmt.Errorf("insert score event: %w", err)
	}
	return nil
}

// RecordBatch appends multiple score events in one native batch.
func (s *ScoreEventStore) RecordBatch(ctx context.Context, events []*domain.ScoreEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `INSERT INTO score_events (wallet, score, scored_at)`)
	if err != nil {
		return fmt.Errorf("prepare score event batch: %w", err)
	}
	for _, e := range events {
		if e == nil || e.Wallet == "" {
			return storage.ErrInvalidInput
		}
		if err := batch.Append(e.Wallet, int32(e.Score), e.ScoredAt); err != nil {
			return fmt.Errorf("append score event: %w", err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("send score event batch: %w", err)
	}
	return nil
}
