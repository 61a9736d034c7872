package swaps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/solana"
	"solana-wallet-lab/internal/tokens"
)

const (
	wallet   = "WaLLet11111111111111111111111111111111111111"
	bonkMint = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"
)

func newReconstructor(t *testing.T) *Reconstructor {
	t.Helper()
	resolver, err := tokens.NewResolver()
	require.NoError(t, err)
	return NewReconstructor(resolver)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		programs []string
		want     domain.Protocol
	}{
		{"jupiter", []string{JupiterV6}, domain.ProtocolJupiter},
		{"raydium", []string{RaydiumAMMV4}, domain.ProtocolRaydium},
		{"pumpfun", []string{PumpFun}, domain.ProtocolPumpFun},
		{"orca", []string{OrcaWhirlpool}, domain.ProtocolOrca},
		{"first known wins", []string{"Unknown111", RaydiumAMMV4, JupiterV6}, domain.ProtocolRaydium},
		{"unknown", []string{"Unknown111"}, domain.ProtocolUnrecognized},
		{"empty", nil, domain.ProtocolUnrecognized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := &solana.Transaction{ProgramIDs: tc.programs}
			assert.Equal(t, tc.want, Classify(tx))
		})
	}
}

func buyTx(sig string, solSpent float64, mint string, tokensOut float64) *solana.Transaction {
	pre := uint64(10 * solana.LamportsPerSOL)
	return &solana.Transaction{
		Signature:    sig,
		BlockTime:    1700000000,
		ProgramIDs:   []string{JupiterV6},
		AccountKeys:  []string{wallet},
		PreBalances:  []uint64{pre},
		PostBalances: []uint64{pre - uint64(solSpent*solana.LamportsPerSOL)},
		PostTokenBalances: []solana.TokenBalance{
			{AccountIndex: 1, Mint: mint, Owner: wallet, UIAmount: tokensOut},
		},
	}
}

func TestReconstructBuy(t *testing.T) {
	r := newReconstructor(t)

	records := r.Reconstruct(wallet, []*solana.Transaction{buyTx("sig1", 2, bonkMint, 50000)})
	require.Len(t, records, 1)

	rec := records[0]
	assert.True(t, rec.Success)
	assert.True(t, rec.IsBuy())
	assert.Equal(t, domain.ProtocolJupiter, rec.Protocol)
	assert.Equal(t, domain.SOLMint, rec.In.Mint)
	assert.InDelta(t, 2.0, rec.In.Amount, 1e-9)
	assert.Equal(t, bonkMint, rec.Out.Mint)
	assert.Equal(t, "BONK", rec.Out.Symbol)
	assert.InDelta(t, 50000.0, rec.Out.Amount, 1e-9)
	assert.InDelta(t, -2.0, rec.SOLChange, 1e-9)
}

func TestReconstructSell(t *testing.T) {
	r := newReconstructor(t)

	tx := &solana.Transaction{
		Signature:    "sig-sell",
		BlockTime:    1700000100,
		ProgramIDs:   []string{RaydiumAMMV4},
		AccountKeys:  []string{wallet},
		PreBalances:  []uint64{5 * solana.LamportsPerSOL},
		PostBalances: []uint64{6 * solana.LamportsPerSOL},
		PreTokenBalances: []solana.TokenBalance{
			{AccountIndex: 1, Mint: bonkMint, Owner: wallet, UIAmount: 50000},
		},
		PostTokenBalances: []solana.TokenBalance{
			{AccountIndex: 1, Mint: bonkMint, Owner: wallet, UIAmount: 0},
		},
	}

	records := r.Reconstruct(wallet, []*solana.Transaction{tx})
	require.Len(t, records, 1)

	rec := records[0]
	assert.True(t, rec.IsSell())
	assert.Equal(t, bonkMint, rec.In.Mint)
	assert.InDelta(t, 50000.0, rec.In.Amount, 1e-9)
	assert.Equal(t, domain.SOLMint, rec.Out.Mint)
	assert.InDelta(t, 1.0, rec.Out.Amount, 1e-9)
}

func TestReconstructMultiHopCollapses(t *testing.T) {
	r := newReconstructor(t)

	// SOL -> USDC -> BONK routed through Jupiter: the intermediate USDC hop
	// nets to zero and the record is a single SOL -> BONK swap.
	usdc := "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	tx := &solana.Transaction{
		Signature:    "sig-route",
		BlockTime:    1700000200,
		ProgramIDs:   []string{JupiterV6, RaydiumAMMV4, OrcaWhirlpool},
		AccountKeys:  []string{wallet},
		PreBalances:  []uint64{10 * solana.LamportsPerSOL},
		PostBalances: []uint64{7 * solana.LamportsPerSOL},
		PreTokenBalances: []solana.TokenBalance{
			{AccountIndex: 1, Mint: usdc, Owner: wallet, UIAmount: 0},
			{AccountIndex: 2, Mint: bonkMint, Owner: wallet, UIAmount: 0},
		},
		PostTokenBalances: []solana.TokenBalance{
			{AccountIndex: 1, Mint: usdc, Owner: wallet, UIAmount: 0},
			{AccountIndex: 2, Mint: bonkMint, Owner: wallet, UIAmount: 90000},
		},
	}

	records := r.Reconstruct(wallet, []*solana.Transaction{tx})
	require.Len(t, records, 1)
	assert.Equal(t, domain.SOLMint, records[0].In.Mint)
	assert.Equal(t, bonkMint, records[0].Out.Mint)
	assert.Equal(t, domain.ProtocolJupiter, records[0].Protocol)
}

func TestReconstructFailedSwap(t *testing.T) {
	r := newReconstructor(t)

	tx := buyTx("sig-fail", 0, bonkMint, 0)
	tx.Failed = true
	tx.PostTokenBalances = nil

	records := r.Reconstruct(wallet, []*solana.Transaction{tx})
	require.Len(t, records, 1)
	assert.False(t, records[0].Success)
	assert.Zero(t, records[0].In.Amount)
	assert.Zero(t, records[0].Out.Amount)
	assert.False(t, records[0].IsBuy())
}

func TestReconstructSkipsNonSwaps(t *testing.T) {
	r := newReconstructor(t)

	transfer := &solana.Transaction{
		Signature:    "sig-transfer",
		ProgramIDs:   []string{"11111111111111111111111111111111"},
		AccountKeys:  []string{wallet},
		PreBalances:  []uint64{5 * solana.LamportsPerSOL},
		PostBalances: []uint64{4 * solana.LamportsPerSOL},
	}
	assert.Empty(t, r.Reconstruct(wallet, []*solana.Transaction{transfer}))
}

func TestReconstructSkipsOneSidedChanges(t *testing.T) {
	r := newReconstructor(t)

	// The wallet only paid fees; no token leg appeared.
	tx := &solana.Transaction{
		Signature:    "sig-feeonly",
		ProgramIDs:   []string{JupiterV6},
		AccountKeys:  []string{wallet},
		PreBalances:  []uint64{5 * solana.LamportsPerSOL},
		PostBalances: []uint64{5*solana.LamportsPerSOL - 5000},
	}
	assert.Empty(t, r.Reconstruct(wallet, []*solana.Transaction{tx}))
}

func TestReconstructDeterministic(t *testing.T) {
	r := newReconstructor(t)

	txs := []*solana.Transaction{
		buyTx("a", 1, bonkMint, 1000),
		buyTx("b", 2, "UnknownMint11111111111111111111111111111111", 500),
	}

	first := r.Reconstruct(wallet, txs)
	second := r.Reconstruct(wallet, txs)
	require.Equal(t, first, second)
	assert.Equal(t, "a", first[0].Signature)
	assert.Equal(t, domain.UnknownSymbol, first[1].Out.Symbol)
}
