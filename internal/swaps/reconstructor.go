// Package swaps reconstructs logical trades from resolved transactions.
//
// A transaction is a candidate swap when it invokes a known DEX program. The
// swap legs come from the wallet owner's balance-change deltas: the largest
// net decrease is the input leg, the largest net increase the output leg.
// For a routed multi-hop swap this collapses intermediate hops into a single
// record. The largest-magnitude tie-break is a documented heuristic, not a
// verified reconstruction of every router's behavior.
package swaps

import (
	"math"
	"sort"

	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/solana"
	"solana-wallet-lab/internal/tokens"
)

// Reconstructor turns transactions into SwapRecords. Reconstruction is a
// pure function of its input: identical transaction lists yield identical
// records in identical order.
type Reconstructor struct {
	resolver *tokens.Resolver
}

// NewReconstructor creates a reconstructor using the given token resolver.
func NewReconstructor(resolver *tokens.Resolver) *Reconstructor {
	return &Reconstructor{resolver: resolver}
}

// Reconstruct extracts at most one SwapRecord per transaction, preserving
// the input order. Non-swap transactions yield nothing; failed swap
// transactions yield a record with Success=false and zero amounts.
func (r *Reconstructor) Reconstruct(wallet string, txs []*solana.Transaction) []*domain.SwapRecord {
	var records []*domain.SwapRecord
	for _, tx := range txs {
		if rec := r.reconstructOne(wallet, tx); rec != nil {
			records = append(records, rec)
		}
	}
	return records
}

func (r *Reconstructor) reconstructOne(wallet string, tx *solana.Transaction) *domain.SwapRecord {
	protocol := Classify(tx)
	if !protocol.IsSwapProtocol() {
		return nil
	}

	solChange := lamportDelta(wallet, tx)

	if tx.Failed {
		// Still counts toward the failure-rate statistic; amounts are
		// zeroed so valuation ignores it.
		return &domain.SwapRecord{
			Signature: tx.Signature,
			Timestamp: tx.BlockTime,
			Protocol:  protocol,
			Success:   false,
		}
	}

	deltas := balanceDeltas(wallet, tx, solChange)
	inMint, inAmt, outMint, outAmt := pickLegs(deltas)
	if inMint == "" || outMint == "" {
		// No two-sided balance change for the wallet; not a swap we can
		// attribute (e.g. the wallet only paid fees in a routed tx).
		return nil
	}

	inInfo := r.resolver.Resolve(inMint)
	outInfo := r.resolver.Resolve(outMint)

	return &domain.SwapRecord{
		Signature: tx.Signature,
		Timestamp: tx.BlockTime,
		Protocol:  protocol,
		In:        domain.SwapLeg{Mint: inMint, Symbol: inInfo.Symbol, Amount: inAmt},
		Out:       domain.SwapLeg{Mint: outMint, Symbol: outInfo.Symbol, Amount: outAmt},
		SOLChange: solChange,
		Success:   true,
	}
}

// lamportDelta returns the wallet's native balance change in SOL.
func lamportDelta(wallet string, tx *solana.Transaction) float64 {
	idx := -1
	for i, key := range tx.AccountKeys {
		if key == wallet {
			idx = i
			break
		}
	}
	if idx < 0 || idx >= len(tx.PreBalances) || idx >= len(tx.PostBalances) {
		return 0
	}
	return (float64(tx.PostBalances[idx]) - float64(tx.PreBalances[idx])) / solana.LamportsPerSOL
}

// balanceDeltas computes per-mint UI-amount deltas for token accounts owned
// by the wallet, folding the native lamport change in under the SOL mint.
func balanceDeltas(wallet string, tx *solana.Transaction, solChange float64) map[string]float64 {
	deltas := make(map[string]float64)

	for _, b := range tx.PreTokenBalances {
		if b.Owner == wallet {
			deltas[b.Mint] -= b.UIAmount
		}
	}
	for _, b := range tx.PostTokenBalances {
		if b.Owner == wallet {
			deltas[b.Mint] += b.UIAmount
		}
	}
	if solChange != 0 {
		deltas[domain.SOLMint] += solChange
	}
	return deltas
}

// pickLegs selects the input (largest net decrease) and output (largest net
// increase) legs. Mint order breaks exact-magnitude ties so re-parsing the
// same transaction always yields the same record.
func pickLegs(deltas map[string]float64) (inMint string, inAmt float64, outMint string, outAmt float64) {
	mints := make([]string, 0, len(deltas))
	for mint := range deltas {
		mints = append(mints, mint)
	}
	sort.Strings(mints)

	for _, mint := range mints {
		d := deltas[mint]
		switch {
		case d < 0 && math.Abs(d) > inAmt:
			inMint, inAmt = mint, math.Abs(d)
		case d > 0 && d > outAmt:
			outMint, outAmt = mint, d
		}
	}
	return inMint, inAmt, outMint, outAmt
}
