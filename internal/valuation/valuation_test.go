package valuation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/solana"
)

const wallet = "WaLLet11111111111111111111111111111111111111"

func ts(value string) int64 {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t.Unix()
}

func TestStaticSOLPrices(t *testing.T) {
	var src StaticSOLPrices

	p, ok := src.PriceAt(SOLAsset, "2024-01")
	require.True(t, ok)
	assert.Equal(t, 95.0, p)

	p, ok = src.PriceAt(SOLAsset, "2024-03")
	require.True(t, ok)
	assert.Equal(t, 185.0, p)

	_, ok = src.PriceAt(SOLAsset, "2019-01")
	assert.False(t, ok)

	_, ok = src.PriceAt("BONK", "2024-03")
	assert.False(t, ok)
}

func solTx(sig string, when string, postSOL float64) *solana.Transaction {
	return &solana.Transaction{
		Signature:    sig,
		BlockTime:    ts(when),
		AccountKeys:  []string{wallet, "SomeProgram111111111111111111111111111111111"},
		PreBalances:  []uint64{0, 0},
		PostBalances: []uint64{uint64(postSOL * solana.LamportsPerSOL), 0},
	}
}

func TestNetWorthTimeline(t *testing.T) {
	txs := []*solana.Transaction{
		// Newest first, as the fetcher returns them.
		solTx("c", "2024-03-20T00:00:00Z", 4),
		solTx("b", "2024-03-01T00:00:00Z", 10),
		solTx("a", "2024-01-15T00:00:00Z", 12),
	}

	points := NetWorthTimeline(wallet, txs, StaticSOLPrices{})
	require.Len(t, points, 2)

	assert.Equal(t, "2024-01", points[0].Month)
	assert.Equal(t, 12.0, points[0].EstimatedSOL)
	assert.InDelta(t, 12*95.0, points[0].EstimatedUSD, 1e-9)
	assert.Equal(t, 1, points[0].TxCount)

	// Last balance of March wins, not the larger one.
	assert.Equal(t, "2024-03", points[1].Month)
	assert.Equal(t, 4.0, points[1].EstimatedSOL)
	assert.InDelta(t, 4*185.0, points[1].EstimatedUSD, 1e-9)
	assert.Equal(t, 2, points[1].TxCount)
}

func TestNetWorthTimelineOmitsUnpricedMonths(t *testing.T) {
	txs := []*solana.Transaction{
		solTx("old", "2019-06-01T00:00:00Z", 100),
		solTx("new", "2024-01-01T00:00:00Z", 5),
	}
	points := NetWorthTimeline(wallet, txs, StaticSOLPrices{})
	require.Len(t, points, 1)
	assert.Equal(t, "2024-01", points[0].Month)
}

func TestNetWorthTimelineEmpty(t *testing.T) {
	assert.Nil(t, NetWorthTimeline(wallet, nil, StaticSOLPrices{}))
}

func swap(sig, mint, symbol string, when string, solIn, tokenOut, tokenIn, solOut float64) *domain.SwapRecord {
	rec := &domain.SwapRecord{
		Signature: sig,
		Timestamp: ts(when),
		Protocol:  domain.ProtocolJupiter,
		Success:   true,
	}
	if solIn > 0 {
		rec.In = domain.SwapLeg{Mint: domain.SOLMint, Symbol: "SOL", Amount: solIn}
		rec.Out = domain.SwapLeg{Mint: mint, Symbol: symbol, Amount: tokenOut}
		rec.SOLChange = -solIn
	} else {
		rec.In = domain.SwapLeg{Mint: mint, Symbol: symbol, Amount: tokenIn}
		rec.Out = domain.SwapLeg{Mint: domain.SOLMint, Symbol: "SOL", Amount: solOut}
		rec.SOLChange = solOut
	}
	return rec
}

func TestLossLedger(t *testing.T) {
	records := []*domain.SwapRecord{
		swap("1", "mintA", "SHITCOIN", "2024-03-01T00:00:00Z", 10, 1e6, 0, 0),
		swap("2", "mintA", "SHITCOIN", "2024-03-02T00:00:00Z", 0, 0, 1e6, 2), // lost 8
		swap("3", "mintB", "BONK", "2024-03-03T00:00:00Z", 5, 1e6, 0, 0),
		swap("4", "mintB", "BONK", "2024-03-04T00:00:00Z", 0, 0, 1e6, 9), // won 4
		swap("5", "mintC", "WIF", "2024-03-05T00:00:00Z", 3, 100, 0, 0), // unrealized
	}

	ledger := LossLedger(records, 10)
	require.Len(t, ledger, 2)
	assert.Equal(t, "mintA", ledger[0].Mint)
	assert.InDelta(t, 8.0, ledger[0].SOLLost, 1e-9)
	assert.Equal(t, "mintC", ledger[1].Mint)
	assert.InDelta(t, 3.0, ledger[1].SOLLost, 1e-9)

	assert.InDelta(t, 11.0, TotalRealizedLoss(records), 1e-9)
	assert.InDelta(t, -7.0, EstimatedPnL(records), 1e-9)
}

func TestLossLedgerCap(t *testing.T) {
	var records []*domain.SwapRecord
	for _, mint := range []string{"m1", "m2", "m3"} {
		records = append(records, swap(mint, mint, "SHITCOIN", "2024-03-01T00:00:00Z", 1, 100, 0, 0))
	}
	assert.Len(t, LossLedger(records, 2), 2)
}

func TestLossByPeriod(t *testing.T) {
	records := []*domain.SwapRecord{
		swap("1", "mintA", "SHITCOIN", "2024-03-01T00:00:00Z", 10, 1e6, 0, 0),
		swap("2", "mintA", "SHITCOIN", "2024-03-15T00:00:00Z", 0, 0, 1e6, 4),
		swap("3", "mintB", "BONK", "2024-04-01T00:00:00Z", 0, 0, 1e6, 7),
	}

	eventFor := func(month string) (string, bool) {
		if month == "2024-03" {
			return "BONK/WIF memecoin mania", true
		}
		return "", false
	}

	periods := LossByPeriod(records, eventFor)
	require.Len(t, periods, 1)
	assert.Equal(t, "2024-03", periods[0].Month)
	assert.InDelta(t, 6.0, periods[0].SOLLost, 1e-9)
	assert.Equal(t, "BONK/WIF memecoin mania", periods[0].Event)
}

func TestWinRate(t *testing.T) {
	records := []*domain.SwapRecord{
		swap("1", "mintA", "SHITCOIN", "2024-03-01T00:00:00Z", 10, 1e6, 0, 0),
		swap("2", "mintA", "SHITCOIN", "2024-03-02T00:00:00Z", 0, 0, 1e6, 2), // loss
		swap("3", "mintB", "BONK", "2024-03-03T00:00:00Z", 5, 1e6, 0, 0),
		swap("4", "mintB", "BONK", "2024-03-04T00:00:00Z", 0, 0, 1e6, 9), // win
		swap("5", "mintC", "WIF", "2024-03-05T00:00:00Z", 3, 100, 0, 0), // open
	}

	rate, ok := WinRate(records)
	require.True(t, ok)
	assert.InDelta(t, 0.5, rate, 1e-9)
}

func TestWinRateNoRoundTrips(t *testing.T) {
	records := []*domain.SwapRecord{
		swap("1", "mintC", "WIF", "2024-03-05T00:00:00Z", 3, 100, 0, 0),
	}
	_, ok := WinRate(records)
	assert.False(t, ok)
}
