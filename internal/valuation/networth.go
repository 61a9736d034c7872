package valuation

import (
	"sort"
	"time"

	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/solana"
)

// NetWorthTimeline replays the wallet's post-transaction SOL balance and
// samples the last observed balance of each active month, priced in USD with
// the given source. Months the source cannot price are omitted. The result
// is strictly ordered by month with no duplicates.
func NetWorthTimeline(wallet string, txs []*solana.Transaction, prices PriceSource) []domain.NetWorthPoint {
	type sample struct {
		blockTime int64
		sol       float64
		txCount   int
	}
	byMonth := make(map[string]*sample)

	for _, tx := range txs {
		bal, ok := postBalance(wallet, tx)
		if !ok {
			continue
		}
		month := monthKey(tx.BlockTime)
		s, exists := byMonth[month]
		if !exists {
			s = &sample{}
			byMonth[month] = s
		}
		s.txCount++
		if tx.BlockTime >= s.blockTime {
			s.blockTime = tx.BlockTime
			s.sol = bal
		}
	}
	if len(byMonth) == 0 {
		return nil
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	var points []domain.NetWorthPoint
	for _, m := range months {
		price, ok := prices.PriceAt(SOLAsset, m)
		if !ok {
			continue
		}
		s := byMonth[m]
		points = append(points, domain.NetWorthPoint{
			Month:        m,
			EstimatedSOL: s.sol,
			EstimatedUSD: s.sol * price,
			SOLPriceUSD:  price,
			TxCount:      s.txCount,
		})
	}
	return points
}

// postBalance returns the wallet's native balance after the transaction, in
// SOL.
func postBalance(wallet string, tx *solana.Transaction) (float64, bool) {
	for i, key := range tx.AccountKeys {
		if key == wallet {
			if i >= len(tx.PostBalances) {
				return 0, false
			}
			return float64(tx.PostBalances[i]) / solana.LamportsPerSOL, true
		}
	}
	return 0, false
}

func monthKey(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01")
}
