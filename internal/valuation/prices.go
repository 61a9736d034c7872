// Package valuation estimates historical net worth and realized losses from
// a wallet's reconstructed activity. Estimates use a coarse monthly price
// table; they are directional, not accounting-grade.
package valuation

// PriceSource answers historical price lookups at month granularity.
// Months use the YYYY-MM format in UTC.
type PriceSource interface {
	// PriceAt returns the USD price of an asset for a month. ok is false
	// when the source has no data for that asset-month pair.
	PriceAt(asset, month string) (price float64, ok bool)
}

// StaticSOLPrices is a PriceSource backed by a bundled table of monthly SOL
// closes. It knows nothing about other assets.
type StaticSOLPrices struct{}

var _ PriceSource = StaticSOLPrices{}

// solMonthlyUSD holds approximate month-end SOL/USD closes.
var solMonthlyUSD = map[string]float64{
	"2021-01": 3.5, "2021-02": 13.0, "2021-03": 19.0, "2021-04": 43.0,
	"2021-05": 30.0, "2021-06": 34.0, "2021-07": 35.0, "2021-08": 110.0,
	"2021-09": 140.0, "2021-10": 200.0, "2021-11": 210.0, "2021-12": 170.0,
	"2022-01": 95.0, "2022-02": 88.0, "2022-03": 120.0, "2022-04": 88.0,
	"2022-05": 40.0, "2022-06": 33.0, "2022-07": 41.0, "2022-08": 31.0,
	"2022-09": 33.0, "2022-10": 31.0, "2022-11": 14.0, "2022-12": 10.0,
	"2023-01": 24.0, "2023-02": 22.0, "2023-03": 21.0, "2023-04": 22.0,
	"2023-05": 20.0, "2023-06": 18.0, "2023-07": 24.0, "2023-08": 20.0,
	"2023-09": 21.0, "2023-10": 38.0, "2023-11": 60.0, "2023-12": 100.0,
	"2024-01": 95.0, "2024-02": 110.0, "2024-03": 185.0, "2024-04": 135.0,
	"2024-05": 165.0, "2024-06": 145.0, "2024-07": 175.0, "2024-08": 140.0,
	"2024-09": 150.0, "2024-10": 170.0, "2024-11": 235.0, "2024-12": 190.0,
	"2025-01": 230.0, "2025-02": 145.0, "2025-03": 125.0, "2025-04": 150.0,
	"2025-05": 165.0, "2025-06": 150.0, "2025-07": 180.0, "2025-08": 200.0,
	"2025-09": 210.0, "2025-10": 195.0, "2025-11": 205.0, "2025-12": 215.0,
	"2026-01": 220.0, "2026-02": 210.0,
}

// SOLAsset is the asset key the static table answers for.
const SOLAsset = "SOL"

// PriceAt implements PriceSource for SOL only.
func (StaticSOLPrices) PriceAt(asset, month string) (float64, bool) {
	if asset != SOLAsset {
		return 0, false
	}
	p, ok := solMonthlyUSD[month]
	return p, ok
}
