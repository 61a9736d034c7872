package storage

import (
	"context"
	"time"

	"solana-wallet-lab/internal/domain"
)

// StoredProfile is a profile together with the time it was computed. The
// cache layer uses UpdatedAt for TTL decisions.
type StoredProfile struct {
	Profile   *domain.WalletProfile
	UpdatedAt time.Time
}

// ProfileStore provides access to computed wallet profiles.
type ProfileStore interface {
	// Put stores a profile, replacing any previous one for the wallet.
	Put(ctx context.Context, p *domain.WalletProfile, updatedAt time.Time) error

	// Get retrieves the stored profile for a wallet. Returns ErrNotFound if not exists.
	Get(ctx context.Context, wallet string) (*StoredProfile, error)

	// Recent retrieves the most recently updated profiles, newest first.
	Recent(ctx context.Context, limit int) ([]*StoredProfile, error)
}

// PopulationStats summarizes the score population.
type PopulationStats struct {
	Wallets      int
	Analyses     int
	AverageScore float64
}

// PopulationStore provides access to the append-only score population that
// percentiles are ranked against.
type PopulationStore interface {
	// Append records one completed scoring.
	Append(ctx context.Context, e *domain.ScoreEvent) error

	// CountBelow returns the number of recorded scores strictly below score.
	CountBelow(ctx context.Context, score int) (int, error)

	// Count returns the total number of recorded scores.
	Count(ctx context.Context) (int, error)

	// Top retrieves the highest latest-per-wallet scores, ordered by score
	// descending, wallet ascending on ties.
	Top(ctx context.Context, limit int) ([]*domain.ScoreEvent, error)

	// Stats summarizes the population.
	Stats(ctx context.Context) (*PopulationStats, error)
}

// ScoreArchive is an optional analytical sink for score events. Failures to
// archive never fail an analysis.
type ScoreArchive interface {
	// Record appends a score event to the archive.
	Record(ctx context.Context, e *domain.ScoreEvent) error
}
