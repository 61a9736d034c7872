// Package history retrieves a wallet's transaction history: the full
// signature list (newest first, capped) and the resolved transaction bodies.
package history

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"solana-wallet-lab/internal/observability"
	"solana-wallet-lab/internal/solana"
)

// Default configuration values.
const (
	DefaultMaxSignatures = 1000
	DefaultPageSize      = 1000
	DefaultWorkers       = 8
	DefaultMaxRetries    = 3
	DefaultRetryDelay    = 200 * time.Millisecond

	// DefaultPartialThreshold is the drop rate above which the result is
	// flagged as based on partial history.
	DefaultPartialThreshold = 0.05
)

// Fetcher pages through the signature API and resolves transactions across a
// bounded worker pool. Individual resolution failures are retried, then the
// signature is dropped rather than aborting the whole fetch.
type Fetcher struct {
	client           solana.RPCClient
	maxSignatures    int
	pageSize         int
	workers          int
	maxRetries       int
	retryDelay       time.Duration
	partialThreshold float64
	logger           *log.Logger
}

// Options configures a Fetcher. Zero values take defaults.
type Options struct {
	MaxSignatures    int
	PageSize         int
	Workers          int
	MaxRetries       int
	RetryDelay       time.Duration
	PartialThreshold float64
	Logger           *log.Logger
}

// NewFetcher creates a history fetcher.
func NewFetcher(client solana.RPCClient, opts Options) *Fetcher {
	f := &Fetcher{
		client:           client,
		maxSignatures:    opts.MaxSignatures,
		pageSize:         opts.PageSize,
		workers:          opts.Workers,
		maxRetries:       opts.MaxRetries,
		retryDelay:       opts.RetryDelay,
		partialThreshold: opts.PartialThreshold,
		logger:           opts.Logger,
	}
	if f.maxSignatures <= 0 {
		f.maxSignatures = DefaultMaxSignatures
	}
	if f.pageSize <= 0 || f.pageSize > DefaultPageSize {
		f.pageSize = DefaultPageSize
	}
	if f.workers <= 0 {
		f.workers = DefaultWorkers
	}
	if f.maxRetries <= 0 {
		f.maxRetries = DefaultMaxRetries
	}
	if f.retryDelay <= 0 {
		f.retryDelay = DefaultRetryDelay
	}
	if f.partialThreshold <= 0 {
		f.partialThreshold = DefaultPartialThreshold
	}
	if f.logger == nil {
		f.logger = log.Default()
	}
	return f
}

// Result holds a fetched history. Transactions preserve the newest-first
// signature order; unresolvable signatures are absent and counted in Dropped.
type Result struct {
	Signatures   []solana.SignatureInfo
	Transactions []*solana.Transaction
	Dropped      int
	Partial      bool
}

// Fetch retrieves signatures up to the cap and resolves them. A wallet with
// zero transactions returns an empty Result, not an error.
func (f *Fetcher) Fetch(ctx context.Context, address string) (*Result, error) {
	sigs, err := f.fetchSignatures(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("list signatures: %w", err)
	}

	observability.RecordSignaturesFetched(len(sigs))

	result := &Result{Signatures: sigs}
	if len(sigs) == 0 {
		return result, nil
	}

	resolved := make([]*solana.Transaction, len(sigs))
	var mu sync.Mutex
	dropped := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)

	for i, sig := range sigs {
		g.Go(func() error {
			tx, err := f.resolveWithRetry(gctx, sig.Signature)
			if err != nil || tx == nil {
				mu.Lock()
				dropped++
				mu.Unlock()
				if err != nil {
					f.logger.Printf("history: dropping %s after retries: %v", sig.Signature, err)
				}
				return nil
			}
			resolved[i] = tx
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Compact, preserving signature order.
	result.Transactions = make([]*solana.Transaction, 0, len(sigs)-dropped)
	for _, tx := range resolved {
		if tx != nil {
			result.Transactions = append(result.Transactions, tx)
		}
	}
	result.Dropped = dropped
	result.Partial = float64(dropped)/float64(len(sigs)) > f.partialThreshold
	if dropped > 0 {
		observability.RecordResolutionDrops(dropped)
	}

	if result.Partial {
		f.logger.Printf("history: partial history for %s: %d/%d signatures dropped", address, dropped, len(sigs))
	}
	return result, nil
}

// fetchSignatures pages through getSignaturesForAddress using the last-seen
// signature as continuation cursor, stopping at the cap or when the upstream
// reports no further results.
func (f *Fetcher) fetchSignatures(ctx context.Context, address string) ([]solana.SignatureInfo, error) {
	var all []solana.SignatureInfo
	before := ""

	for len(all) < f.maxSignatures {
		limit := f.pageSize
		if remaining := f.maxSignatures - len(all); remaining < limit {
			limit = remaining
		}

		page, err := f.client.GetSignaturesForAddress(ctx, address, &solana.SignaturesOpts{
			Before: before,
			Limit:  limit,
		})
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}

		all = append(all, page...)
		before = page[len(page)-1].Signature

		if len(page) < limit {
			break
		}
	}

	return all, nil
}

// resolveWithRetry resolves one signature with bounded retries and
// exponential backoff. A nil transaction (not found) is not retried.
func (f *Fetcher) resolveWithRetry(ctx context.Context, signature string) (*solana.Transaction, error) {
	delay := f.retryDelay
	var lastErr error

	for attempt := 0; attempt < f.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		tx, err := f.client.GetTransaction(ctx, signature)
		if err == nil {
			return tx, nil
		}
		lastErr = err
	}

	return nil, lastErr
}
