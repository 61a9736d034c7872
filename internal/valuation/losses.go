package valuation

import (
	"sort"

	"solana-wallet-lab/internal/domain"
)

// DefaultLossLedgerSize caps the per-token loss ledger.
const DefaultLossLedgerSize = 10

// tokenFlow accumulates SOL spent on and received for one mint.
type tokenFlow struct {
	symbol   string
	spent    float64
	received float64
}

// solFlows folds successful swaps into per-token SOL in/out totals. Only
// direct SOL legs count; token-to-token swaps carry no SOL flow to attribute.
func solFlows(records []*domain.SwapRecord) map[string]*tokenFlow {
	flows := make(map[string]*tokenFlow)
	get := func(mint, symbol string) *tokenFlow {
		f, ok := flows[mint]
		if !ok {
			f = &tokenFlow{symbol: symbol}
			flows[mint] = f
		}
		return f
	}

	for _, rec := range records {
		if !rec.Success {
			continue
		}
		switch {
		case rec.IsBuy():
			get(rec.Out.Mint, rec.Out.Symbol).spent += rec.In.Amount
		case rec.IsSell():
			get(rec.In.Mint, rec.In.Symbol).received += rec.Out.Amount
		}
	}
	return flows
}

// LossLedger ranks tokens by realized SOL loss (SOL spent minus SOL received
// per mint), keeping only net losses, largest first, capped at limit. Ties
// break by mint so the ledger is stable across runs.
func LossLedger(records []*domain.SwapRecord, limit int) []domain.LossEntry {
	if limit <= 0 {
		limit = DefaultLossLedgerSize
	}

	flows := solFlows(records)
	var entries []domain.LossEntry
	for mint, f := range flows {
		if loss := f.spent - f.received; loss > 0 {
			entries = append(entries, domain.LossEntry{Mint: mint, Symbol: f.symbol, SOLLost: loss})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].SOLLost != entries[j].SOLLost {
			return entries[i].SOLLost > entries[j].SOLLost
		}
		return entries[i].Mint < entries[j].Mint
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// TotalRealizedLoss sums net SOL losses across all tokens. Tokens exited at
// a profit do not offset losses here; the PnL estimate covers that.
func TotalRealizedLoss(records []*domain.SwapRecord) float64 {
	var total float64
	for _, f := range solFlows(records) {
		if loss := f.spent - f.received; loss > 0 {
			total += loss
		}
	}
	return total
}

// EstimatedPnL is SOL received minus SOL spent across all swaps, net of both
// wins and losses.
func EstimatedPnL(records []*domain.SwapRecord) float64 {
	var pnl float64
	for _, f := range solFlows(records) {
		pnl += f.received - f.spent
	}
	return pnl
}

// LossByPeriod buckets SOL spent minus SOL received per month, reporting
// only losing months with their market event when one exists. EventFor is
// injected so this package stays independent of the behavior tables.
func LossByPeriod(records []*domain.SwapRecord, eventFor func(month string) (string, bool)) []domain.PeriodLoss {
	net := make(map[string]float64)
	for _, rec := range records {
		if !rec.Success {
			continue
		}
		month := monthKey(rec.Timestamp)
		switch {
		case rec.IsBuy():
			net[month] -= rec.In.Amount
		case rec.IsSell():
			net[month] += rec.Out.Amount
		}
	}

	months := make([]string, 0, len(net))
	for m := range net {
		months = append(months, m)
	}
	sort.Strings(months)

	var out []domain.PeriodLoss
	for _, m := range months {
		if net[m] >= 0 {
			continue
		}
		pl := domain.PeriodLoss{Month: m, SOLLost: -net[m]}
		if eventFor != nil {
			if e, ok := eventFor(m); ok {
				pl.Event = e
			}
		}
		out = append(out, pl)
	}
	return out
}

// WinRate is the fraction of completed round trips that exited with more SOL
// than they cost. A token with no sell is not a completed round trip and
// does not count either way. ok is false when no round trips completed.
func WinRate(records []*domain.SwapRecord) (rate float64, ok bool) {
	wins, completed := 0, 0
	for _, f := range solFlows(records) {
		if f.spent == 0 || f.received == 0 {
			continue
		}
		completed++
		if f.received > f.spent {
			wins++
		}
	}
	if completed == 0 {
		return 0, false
	}
	return float64(wins) / float64(completed), true
}
