package domain

// Protocol identifies the DEX program a swap was routed through.
// The set is closed: adding a protocol means adding a constant here and a
// program ID to the classification table, never matching on loose strings.
type Protocol string

// Known protocols.
const (
	ProtocolJupiter      Protocol = "JUPITER"
	ProtocolRaydium      Protocol = "RAYDIUM"
	ProtocolPumpFun      Protocol = "PUMPFUN"
	ProtocolOrca         Protocol = "ORCA"
	ProtocolUnrecognized Protocol = "UNRECOGNIZED"
)

// IsValid checks if the protocol is a known enum value.
func (p Protocol) IsValid() bool {
	switch p {
	case ProtocolJupiter, ProtocolRaydium, ProtocolPumpFun, ProtocolOrca, ProtocolUnrecognized:
		return true
	}
	return false
}

// IsSwapProtocol reports whether transactions invoking this protocol are
// candidate swaps. Unrecognized programs never are.
func (p Protocol) IsSwapProtocol() bool {
	return p.IsValid() && p != ProtocolUnrecognized
}

// SwapLeg is one side of a reconstructed trade.
type SwapLeg struct {
	Mint   string
	Symbol string
	Amount float64 // UI amount, always >= 0
}

// SwapRecord is a reconstructed logical trade. A routed multi-hop swap
// collapses to a single record spanning the route's first input and last
// output; intermediate hops are not reported.
//
// Invariant: every SwapRecord references exactly one transaction signature,
// and a transaction yields at most one SwapRecord.
type SwapRecord struct {
	Signature string
	Timestamp int64 // Unix seconds
	Protocol  Protocol
	In        SwapLeg
	Out       SwapLeg
	SOLChange float64 // net lamport delta for the wallet, in SOL (negative = spent)
	Success   bool
}

// IsBuy reports whether the swap spent SOL to acquire a token.
func (s *SwapRecord) IsBuy() bool {
	return s.Success && s.In.Mint == SOLMint && s.Out.Mint != SOLMint
}

// IsSell reports whether the swap exited a token back to SOL.
func (s *SwapRecord) IsSell() bool {
	return s.Success && s.In.Mint != SOLMint && s.Out.Mint == SOLMint
}
