package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/storage"
)

// ProfileStore implements storage.ProfileStore using PostgreSQL. Profiles
// are stored as JSONB payloads; the wallet and score columns exist for
// indexing, the payload is the source of truth.
type ProfileStore struct {
	pool *Pool
}

// NewProfileStore creates a new ProfileStore.
func NewProfileStore(pool *Pool) *ProfileStore {
	return &ProfileStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ProfileStore = (*ProfileStore)(nil)

// Put stores a profile, replacing any previous one for the wallet.
func (s *ProfileStore) Put(ctx context.Context, p *domain.WalletProfile, updatedAt time.Time) error {
	if p == nil || p.Wallet == "" {
		return storage.ErrInvalidInput
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	query := `
		INSERT INTO wallet_profiles (wallet, degen_score, payload, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (wallet) DO UPDATE
		SET degen_score = EXCLUDED.degen_score,
		    payload = EXCLUDED.payload,
		    updated_at = EXCLUDED.updated_at
	`

	if _, err := s.pool.Exec(ctx, query, p.Wallet, p.DegenScore, payload, updatedAt); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// Get retrieves the stored profile for a wallet. Returns ErrNotFound if not exists.
func (s *ProfileStore) Get(ctx context.Context, wallet string) (*storage.StoredProfile, error) {
	query := `
		SELECT payload, updated_at
		FROM wallet_profiles
		WHERE wallet = $1
	`

	var payload []byte
	var updatedAt time.Time
	if err := s.pool.QueryRow(ctx, query, wallet).Scan(&payload, &updatedAt); err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	var p domain.WalletProfile
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &storage.StoredProfile{Profile: &p, UpdatedAt: updatedAt}, nil
}

// Recent retrieves the most recently updated profiles, newest first.
func (s *ProfileStore) Recent(ctx context.Context, limit int) ([]*storage.StoredProfile, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT payload, updated_at
		FROM wallet_profiles
		ORDER BY updated_at DESC, wallet ASC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent profiles: %w", err)
	}
	defer rows.Close()

	var out []*storage.StoredProfile
	for rows.Next() {
		var payload []byte
		var updatedAt time.Time
		if err := rows.Scan(&payload, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan profile row: %w", err)
		}
		var p domain.WalletProfile
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("unmarshal profile: %w", err)
		}
		out = append(out, &storage.StoredProfile{Profile: &p, UpdatedAt: updatedAt})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profile rows: %w", err)
	}
	return out, nil
}
