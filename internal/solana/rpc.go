package solana

import "context"

// RPCClient defines the Solana RPC HTTP interface consumed by the analysis
// pipeline. Implementations must be safe for concurrent use.
type RPCClient interface {
	// GetSignaturesForAddress retrieves signatures for an address, newest
	// first, with pagination.
	GetSignaturesForAddress(ctx context.Context, address string, opts *SignaturesOpts) ([]SignatureInfo, error)

	// GetTransaction retrieves a transaction by signature.
	// Returns (nil, nil) when the transaction is not found.
	GetTransaction(ctx context.Context, signature string) (*Transaction, error)

	// GetBalance retrieves the lamport balance of an address.
	GetBalance(ctx context.Context, address string) (uint64, error)

	// GetTokenAccountsByOwner retrieves SPL token balances held by an address.
	GetTokenAccountsByOwner(ctx context.Context, address string) ([]TokenAccount, error)
}
