package domain

// Well-known mint addresses.
const (
	// SOLMint is the Wrapped SOL mint, used as the native asset identifier
	// in swap legs and valuation.
	SOLMint = "So11111111111111111111111111111111111111112"
)

// UnknownSymbol is the sentinel symbol for mints absent from the registry.
// Unresolved mints are a first-class category, not an error.
const UnknownSymbol = "SHITCOIN"

// TokenInfo describes a mint. Mint metadata is effectively immutable once
// registered, so resolved entries are cached process-wide.
type TokenInfo struct {
	Mint     string
	Symbol   string
	Decimals int
}

// Known reports whether the symbol was resolved from the registry.
func (t TokenInfo) Known() bool {
	return t.Symbol != UnknownSymbol
}

// TokenHolding is a current token-account balance for the subject wallet.
type TokenHolding struct {
	Mint     string
	Amount   float64 // UI amount (decimals applied)
	Decimals int
}
