// Package tokens maps mint addresses to token metadata.
//
// Resolution order: in-process cache → bundled registry snapshot → sentinel.
// The registry is a point-in-time snapshot refreshed out of band; resolution
// never performs a network fetch, which bounds analysis latency.
package tokens

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"solana-wallet-lab/internal/domain"
)

//go:embed registry.json
var bundledRegistry []byte

type registryEntry struct {
	Mint     string `json:"mint"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// Resolver resolves mints to TokenInfo. Safe for concurrent use.
type Resolver struct {
	mu       sync.RWMutex
	registry map[string]domain.TokenInfo
	cache    map[string]domain.TokenInfo
}

// NewResolver creates a resolver loaded with the bundled registry snapshot.
func NewResolver() (*Resolver, error) {
	r := &Resolver{
		registry: make(map[string]domain.TokenInfo),
		cache:    make(map[string]domain.TokenInfo),
	}
	if err := r.load(bundledRegistry); err != nil {
		return nil, fmt.Errorf("load bundled registry: %w", err)
	}
	return r, nil
}

// Reload replaces the registry from a fresh snapshot and drops the cache.
// Intended for out-of-band refresh, not per-analysis calls.
func (r *Resolver) Reload(snapshot []byte) error {
	return r.load(snapshot)
}

func (r *Resolver) load(data []byte) error {
	var entries []registryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("unmarshal registry: %w", err)
	}

	registry := make(map[string]domain.TokenInfo, len(entries))
	for _, e := range entries {
		if e.Mint == "" || e.Symbol == "" {
			return fmt.Errorf("registry entry missing mint or symbol: %+v", e)
		}
		registry[e.Mint] = domain.TokenInfo{
			Mint:     e.Mint,
			Symbol:   e.Symbol,
			Decimals: e.Decimals,
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.registry = registry
	r.cache = make(map[string]domain.TokenInfo)
	return nil
}

// Resolve returns the TokenInfo for a mint. Unknown mints resolve to the
// UnknownSymbol sentinel; absence of metadata is expected, never an error.
func (r *Resolver) Resolve(mint string) domain.TokenInfo {
	r.mu.RLock()
	if info, ok := r.cache[mint]; ok {
		r.mu.RUnlock()
		return info
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if info, ok := r.cache[mint]; ok {
		return info
	}

	info, ok := r.registry[mint]
	if !ok {
		info = domain.TokenInfo{Mint: mint, Symbol: domain.UnknownSymbol}
	}
	r.cache[mint] = info
	return info
}

// Size returns the number of registry entries (for startup logging).
func (r *Resolver) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.registry)
}
