package behavior

import (
	"sort"

	"solana-wallet-lab/internal/domain"
)

// Graveyard identifies tokens the wallet bought and never exited: the mint
// appears as the output leg of a successful swap, never as an input leg dated
// at or after its first acquisition, and is either unresolvable or held in
// negligible size today. SOL itself is never a graveyard token.
//
// Record order does not matter; acquisitions and exits are related by swap
// timestamps. An exit predating the first recorded acquisition (visible with
// truncated histories) does not clear the position. Holdings come from the
// wallet's current token accounts; a mint absent from holdings counts as a
// zero position.
func Graveyard(records []*domain.SwapRecord, holdings []domain.TokenHolding, dustThreshold float64) (count int, names []string) {
	held := make(map[string]float64, len(holdings))
	for _, h := range holdings {
		held[h.Mint] = h.Amount
	}

	type entry struct {
		symbol   string
		acquired int64
	}
	acquired := make(map[string]*entry)
	lastExit := make(map[string]int64)

	for _, rec := range records {
		if !rec.Success {
			continue
		}
		if mint := rec.Out.Mint; mint != "" && mint != domain.SOLMint {
			e, ok := acquired[mint]
			if !ok {
				acquired[mint] = &entry{symbol: rec.Out.Symbol, acquired: rec.Timestamp}
			} else if rec.Timestamp < e.acquired {
				e.acquired = rec.Timestamp
			}
		}
		if mint := rec.In.Mint; mint != "" && mint != domain.SOLMint {
			if ts, ok := lastExit[mint]; !ok || rec.Timestamp > ts {
				lastExit[mint] = rec.Timestamp
			}
		}
	}

	mints := make([]string, 0, len(acquired))
	for mint := range acquired {
		mints = append(mints, mint)
	}
	sort.Strings(mints)

	for _, mint := range mints {
		e := acquired[mint]
		if exit, ok := lastExit[mint]; ok && exit >= e.acquired {
			continue
		}
		if e.symbol == domain.UnknownSymbol || held[mint] < dustThreshold {
			count++
			names = append(names, e.symbol)
		}
	}
	return count, names
}

// GraveyardRatio is graveyard count over distinct tokens ever acquired.
func GraveyardRatio(graveyardCount int, records []*domain.SwapRecord) float64 {
	distinct := make(map[string]struct{})
	for _, rec := range records {
		if rec.Success && rec.Out.Mint != "" && rec.Out.Mint != domain.SOLMint {
			distinct[rec.Out.Mint] = struct{}{}
		}
	}
	if len(distinct) == 0 {
		return 0
	}
	return float64(graveyardCount) / float64(len(distinct))
}
