// Package stub provides an in-memory solana.RPCClient for testing.
package stub

import (
	"context"
	"errors"
	"sync"

	"solana-wallet-lab/internal/solana"
)

// ErrUnavailable simulates a transient upstream failure.
var ErrUnavailable = errors.New("upstream unavailable")

// RPCClient implements solana.RPCClient backed by maps. Failure injection:
// signatures listed in FailSignatures fail the first FailCount attempts,
// signatures in DeadSignatures always fail.
type RPCClient struct {
	mu sync.Mutex

	Signatures     map[string][]solana.SignatureInfo
	Transactions   map[string]*solana.Transaction
	Balances       map[string]uint64
	TokenAccounts  map[string][]solana.TokenAccount
	FailSignatures map[string]int // signature -> remaining failures before success
	DeadSignatures map[string]struct{}

	// Call counters for coalescing/retry assertions.
	SignatureCalls   int
	TransactionCalls int
}

// NewRPCClient creates an empty stub client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Signatures:     make(map[string][]solana.SignatureInfo),
		Transactions:   make(map[string]*solana.Transaction),
		Balances:       make(map[string]uint64),
		TokenAccounts:  make(map[string][]solana.TokenAccount),
		FailSignatures: make(map[string]int),
		DeadSignatures: make(map[string]struct{}),
	}
}

var _ solana.RPCClient = (*RPCClient)(nil)

// GetSignaturesForAddress returns scripted signatures, honoring Before/Limit
// pagination the way the real endpoint does.
func (c *RPCClient) GetSignaturesForAddress(ctx context.Context, address string, opts *solana.SignaturesOpts) ([]solana.SignatureInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SignatureCalls++

	sigs := c.Signatures[address]

	if opts != nil && opts.Before != "" {
		for i, s := range sigs {
			if s.Signature == opts.Before {
				sigs = sigs[i+1:]
				break
			}
		}
	}
	if opts != nil && opts.Limit > 0 && opts.Limit < len(sigs) {
		sigs = sigs[:opts.Limit]
	}

	out := make([]solana.SignatureInfo, len(sigs))
	copy(out, sigs)
	return out, nil
}

// GetTransaction returns a scripted transaction or an injected failure.
func (c *RPCClient) GetTransaction(ctx context.Context, signature string) (*solana.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.TransactionCalls++

	if _, dead := c.DeadSignatures[signature]; dead {
		return nil, ErrUnavailable
	}
	if remaining, ok := c.FailSignatures[signature]; ok && remaining > 0 {
		c.FailSignatures[signature] = remaining - 1
		return nil, ErrUnavailable
	}

	tx, ok := c.Transactions[signature]
	if !ok {
		return nil, nil
	}
	cp := *tx
	return &cp, nil
}

// GetBalance returns the scripted lamport balance.
func (c *RPCClient) GetBalance(_ context.Context, address string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Balances[address], nil
}

// GetTokenAccountsByOwner returns scripted token accounts.
func (c *RPCClient) GetTokenAccountsByOwner(_ context.Context, address string) ([]solana.TokenAccount, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]solana.TokenAccount, len(c.TokenAccounts[address]))
	copy(out, c.TokenAccounts[address])
	return out, nil
}

// AddSignatures scripts the signature list for an address (newest first).
func (c *RPCClient) AddSignatures(address string, sigs []solana.SignatureInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Signatures[address] = sigs
}

// AddTransaction scripts a resolvable transaction.
func (c *RPCClient) AddTransaction(tx *solana.Transaction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Transactions[tx.Signature] = tx
}
