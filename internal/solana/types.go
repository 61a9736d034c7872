package solana

// SignatureInfo from getSignaturesForAddress.
type SignatureInfo struct {
	Signature string
	Slot      int64
	BlockTime *int64
	Err       interface{}
}

// SignaturesOpts defines optional pagination parameters for getSignaturesForAddress.
type SignaturesOpts struct {
	Before string // Start searching backwards from this signature
	Until  string // Search until this signature
	Limit  int    // Maximum number of signatures to return
}

// Transaction represents a resolved Solana transaction with the fields the
// swap reconstructor needs: invoked programs and balance deltas.
type Transaction struct {
	Signature   string
	Slot        int64
	BlockTime   int64 // Unix timestamp (seconds)
	Fee         uint64
	Failed      bool
	AccountKeys []string
	ProgramIDs  []string // outer + inner instruction programs, in invocation order

	PreBalances  []uint64 // lamports per account index
	PostBalances []uint64

	PreTokenBalances  []TokenBalance
	PostTokenBalances []TokenBalance
}

// TokenBalance is a pre/post SPL token balance entry from transaction meta.
type TokenBalance struct {
	AccountIndex int
	Mint         string
	Owner        string
	UIAmount     float64
	Decimals     int
}

// TokenAccount is one SPL token holding from getTokenAccountsByOwner.
type TokenAccount struct {
	Mint     string
	UIAmount float64
	Decimals int
}

// LamportsPerSOL converts between lamports and SOL.
const LamportsPerSOL = 1_000_000_000
