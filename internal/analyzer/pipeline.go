// Package analyzer wires the full pipeline behind a single Analyze call:
// fetch history, reconstruct swaps, derive behavior and valuation features
// concurrently, score, and rank against the population.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"solana-wallet-lab/internal/behavior"
	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/history"
	"solana-wallet-lab/internal/observability"
	"solana-wallet-lab/internal/scoring"
	"solana-wallet-lab/internal/solana"
	"solana-wallet-lab/internal/storage"
	"solana-wallet-lab/internal/swaps"
	"solana-wallet-lab/internal/tokens"
	"solana-wallet-lab/internal/valuation"
)

// DefaultTimeout bounds one full analysis, wall clock.
const DefaultTimeout = 30 * time.Second

// Analyzer runs the analysis pipeline.
type Analyzer struct {
	client     solana.RPCClient
	fetcher    *history.Fetcher
	recon      *swaps.Reconstructor
	engine     *scoring.Engine
	population storage.PopulationStore
	archive    storage.ScoreArchive
	prices     valuation.PriceSource
	cfg        behavior.Config
	timeout    time.Duration
	logger     *log.Logger
}

// Options configures an Analyzer. Zero values take defaults; Population is
// required, Archive is optional.
type Options struct {
	Fetcher    *history.Fetcher
	Resolver   *tokens.Resolver
	Population storage.PopulationStore
	Archive    storage.ScoreArchive
	Prices     valuation.PriceSource
	Behavior   *behavior.Config
	Timeout    time.Duration
	Logger     *log.Logger
}

// New creates an Analyzer over an RPC client.
func New(client solana.RPCClient, opts Options) (*Analyzer, error) {
	if opts.Population == nil {
		return nil, errors.New("analyzer: population store is required")
	}

	resolver := opts.Resolver
	if resolver == nil {
		var err error
		resolver, err = tokens.NewResolver()
		if err != nil {
			return nil, fmt.Errorf("create token resolver: %w", err)
		}
	}

	a := &Analyzer{
		client:     client,
		fetcher:    opts.Fetcher,
		recon:      swaps.NewReconstructor(resolver),
		engine:     scoring.NewEngine(),
		population: opts.Population,
		archive:    opts.Archive,
		prices:     opts.Prices,
		timeout:    opts.Timeout,
		logger:     opts.Logger,
	}
	if a.fetcher == nil {
		a.fetcher = history.NewFetcher(client, history.Options{Logger: opts.Logger})
	}
	if a.prices == nil {
		a.prices = valuation.StaticSOLPrices{}
	}
	if opts.Behavior != nil {
		a.cfg = *opts.Behavior
	} else {
		a.cfg = behavior.DefaultConfig()
	}
	if a.timeout <= 0 {
		a.timeout = DefaultTimeout
	}
	if a.logger == nil {
		a.logger = log.Default()
	}
	return a, nil
}

// Analyze produces a complete profile for a wallet address. A wallet with no
// history gets a baseline profile, not an error. The profile is best-effort
// on partial data; PartialHistory marks degraded inputs.
func (a *Analyzer) Analyze(ctx context.Context, address string) (*domain.WalletProfile, error) {
	if err := ValidateAddress(address); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	started := time.Now()

	hist, err := a.fetcher.Fetch(ctx, address)
	if err != nil {
		err = a.classify(err)
		observability.RecordAnalysis(statusOf(err), time.Since(started).Seconds())
		return nil, err
	}

	profile := &domain.WalletProfile{
		Wallet:         address,
		CreatedAt:      time.Now().UTC(),
		PartialHistory: hist.Partial,
		Heatmap:        make(map[string]int),
	}
	profile.TxCount, profile.FailedTxCount = behavior.FailureStats(hist.Signatures)

	if hist.Partial {
		observability.RecordPartialHistory()
	}

	if profile.TxCount == 0 {
		a.finish(ctx, profile)
		observability.RecordAnalysis("success", time.Since(started).Seconds())
		a.logger.Printf("analyzer: %s: empty wallet, baseline profile in %s", address, time.Since(started).Round(time.Millisecond))
		return profile, nil
	}

	records := a.recon.Reconstruct(address, hist.Transactions)
	observability.RecordSwapsRecognized(len(records))
	timestamps := blockTimes(hist)

	var (
		holdings   []domain.TokenHolding
		solBalance float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		holdings, solBalance = a.fetchHoldings(gctx, address)
		a.analyzeBehavior(profile, records, timestamps, hist.Transactions, holdings)
		return nil
	})
	g.Go(func() error {
		a.estimateValue(profile, address, records, hist.Transactions)
		return nil
	})
	if err := g.Wait(); err != nil {
		err = a.classify(err)
		observability.RecordAnalysis(statusOf(err), time.Since(started).Seconds())
		return nil, err
	}

	profile.SOLBalance = solBalance
	a.deriveFeatures(profile, records, timestamps)
	a.finish(ctx, profile)
	observability.RecordAnalysis("success", time.Since(started).Seconds())

	a.logger.Printf("analyzer: %s: %d txs, %d swaps, score %d in %s",
		address, profile.TxCount, profile.SwapCount, profile.DegenScore, time.Since(started).Round(time.Millisecond))
	return profile, nil
}

// fetchHoldings retrieves the current SOL balance and token accounts. Both
// are best effort: failures degrade the graveyard check, they do not abort.
func (a *Analyzer) fetchHoldings(ctx context.Context, address string) ([]domain.TokenHolding, float64) {
	var holdings []domain.TokenHolding
	accounts, err := a.client.GetTokenAccountsByOwner(ctx, address)
	if err != nil {
		a.logger.Printf("analyzer: token accounts for %s: %v", address, err)
	} else {
		for _, acc := range accounts {
			holdings = append(holdings, domain.TokenHolding{
				Mint:     acc.Mint,
				Amount:   acc.UIAmount,
				Decimals: acc.Decimals,
			})
		}
	}

	lamports, err := a.client.GetBalance(ctx, address)
	if err != nil {
		a.logger.Printf("analyzer: balance for %s: %v", address, err)
		return holdings, 0
	}
	return holdings, float64(lamports) / solana.LamportsPerSOL
}

func (a *Analyzer) analyzeBehavior(profile *domain.WalletProfile, records []*domain.SwapRecord, timestamps []int64, txs []*solana.Transaction, holdings []domain.TokenHolding) {
	profile.Heatmap = behavior.Heatmap(timestamps)
	profile.ProtocolStats = behavior.ProtocolStats(txs)
	profile.JoinedDuring = behavior.JoinedDuring(timestamps)
	profile.PeakActivity = behavior.PeakActivity(timestamps)

	gaps := behavior.InactivityGaps(timestamps, a.cfg.GapThreshold)
	behavior.AnnotateGaps(gaps)
	profile.InactivityGaps = gaps

	count, names := behavior.Graveyard(records, holdings, a.cfg.DustThreshold)
	profile.Features.GraveyardCount = count
	profile.GraveyardNames = names
}

func (a *Analyzer) estimateValue(profile *domain.WalletProfile, address string, records []*domain.SwapRecord, txs []*solana.Transaction) {
	profile.NetWorthTimeline = valuation.NetWorthTimeline(address, txs, a.prices)
	profile.LossLedger = valuation.LossLedger(records, valuation.DefaultLossLedgerSize)
	profile.LossByPeriod = valuation.LossByPeriod(records, func(month string) (string, bool) {
		e, ok := behavior.EventFor(month)
		return e.Event, ok
	})
	profile.EstimatedPnLSOL = valuation.EstimatedPnL(records)
}

func (a *Analyzer) deriveFeatures(profile *domain.WalletProfile, records []*domain.SwapRecord, timestamps []int64) {
	fv := &profile.Features
	fv.TxCount = profile.TxCount
	fv.FailedTxCount = profile.FailedTxCount
	fv.FailureRate = behavior.FailureRate(profile.TxCount, profile.FailedTxCount)
	fv.NocturnalRatio = behavior.NocturnalRatio(timestamps, a.cfg.NightStartHour, a.cfg.NightEndHour)
	fv.BurstScore = behavior.BurstScore(timestamps, a.cfg.BurstWindow)
	fv.GraveyardRatio = behavior.GraveyardRatio(fv.GraveyardCount, records)

	distinct := make(map[string]struct{})
	for _, rec := range records {
		if rec.Success {
			fv.SwapCount++
			if rec.Out.Mint != "" && rec.Out.Mint != domain.SOLMint {
				distinct[rec.Out.Mint] = struct{}{}
			}
		}
	}
	profile.SwapCount = fv.SwapCount
	profile.TokenCount = len(distinct)
	fv.SwapsPerDay = float64(fv.SwapCount) / spanDays(timestamps)

	for _, e := range profile.LossLedger {
		fv.RealizedLossSOL += e.SOLLost
	}
	if rate, ok := valuation.WinRate(records); ok {
		fv.WinRate = rate
	}
}

// finish scores the profile and ranks it against the population. Ranking is
// computed before this score is appended, so a wallet never ranks against
// itself.
func (a *Analyzer) finish(ctx context.Context, profile *domain.WalletProfile) {
	result := a.engine.Score(profile.Features)
	profile.DegenScore = result.Score
	profile.Rationale = result.Rationale
	profile.Achievements = scoring.Achievements(profile)

	below, err := a.population.CountBelow(ctx, profile.DegenScore)
	if err != nil {
		a.logger.Printf("analyzer: rank %s: %v", profile.Wallet, err)
	} else {
		total, err := a.population.Count(ctx)
		if err != nil {
			a.logger.Printf("analyzer: rank %s: %v", profile.Wallet, err)
		} else {
			profile.Percentile = scoring.Percentile(below, total)
		}
	}

	event := &domain.ScoreEvent{
		Wallet:   profile.Wallet,
		Score:    profile.DegenScore,
		ScoredAt: profile.CreatedAt.Unix(),
	}
	if err := a.population.Append(ctx, event); err != nil {
		a.logger.Printf("analyzer: append score for %s: %v", profile.Wallet, err)
	}
	if a.archive != nil {
		if err := a.archive.Record(ctx, event); err != nil {
			a.logger.Printf("analyzer: archive score for %s: %v", profile.Wallet, err)
		}
	}
}

// classify maps pipeline failures to the package's sentinel errors.
func (a *Analyzer) classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrAnalysisTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
}

func statusOf(err error) string {
	switch {
	case errors.Is(err, ErrAnalysisTimeout):
		return "timeout"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "upstream_error"
	default:
		return "error"
	}
}

// blockTimes collects signature block times, skipping signatures the
// upstream returned without one.
func blockTimes(hist *history.Result) []int64 {
	out := make([]int64, 0, len(hist.Signatures))
	for _, sig := range hist.Signatures {
		if sig.BlockTime != nil {
			out = append(out, *sig.BlockTime)
		}
	}
	return out
}

// spanDays is the wallet's active span in days, never below one.
func spanDays(timestamps []int64) float64 {
	if len(timestamps) == 0 {
		return 1
	}
	min, max := timestamps[0], timestamps[0]
	for _, ts := range timestamps[1:] {
		if ts < min {
			min = ts
		}
		if ts > max {
			max = ts
		}
	}
	return math.Max(1, float64(max-min)/86400)
}
