package swaps

import (
	"sort"

	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/solana"
)

// Known DEX program IDs.
const (
	// JupiterV6 is the Jupiter aggregator v6 router program ID.
	JupiterV6 = "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"
	// RaydiumAMMV4 is the Raydium AMM v4 program ID.
	RaydiumAMMV4 = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	// PumpFun is the pump.fun bonding curve program ID.
	PumpFun = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"
	// OrcaWhirlpool is the Orca Whirlpool program ID.
	OrcaWhirlpool = "whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc"
)

// programProtocols is the closed classification table. New protocols are
// added here and as a domain.Protocol constant, never matched ad hoc.
var programProtocols = map[string]domain.Protocol{
	JupiterV6:     domain.ProtocolJupiter,
	RaydiumAMMV4:  domain.ProtocolRaydium,
	PumpFun:       domain.ProtocolPumpFun,
	OrcaWhirlpool: domain.ProtocolOrca,
}

// Classify returns the protocol of the first known DEX program the
// transaction invokes, or ProtocolUnrecognized.
func Classify(tx *solana.Transaction) domain.Protocol {
	for _, id := range tx.ProgramIDs {
		if p, ok := programProtocols[id]; ok {
			return p
		}
	}
	return domain.ProtocolUnrecognized
}

// Protocols returns the distinct known protocols a transaction touches,
// deduped per transaction, in deterministic order.
func Protocols(tx *solana.Transaction) []domain.Protocol {
	seen := make(map[domain.Protocol]struct{})
	for _, id := range tx.ProgramIDs {
		if p, ok := programProtocols[id]; ok {
			seen[p] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]domain.Protocol, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
