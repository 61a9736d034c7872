package domain

import "time"

// FeatureVector holds the normalized behavioral/valuation inputs to scoring.
// All fields are pure functions of the fetched transaction set.
type FeatureVector struct {
	TxCount         int     `json:"tx_count"`
	FailedTxCount   int     `json:"failed_tx_count"`
	SwapCount       int     `json:"swap_count"`
	FailureRate     float64 `json:"failure_rate"`     // failed / total, 0 if total is 0
	NocturnalRatio  float64 `json:"nocturnal_ratio"`  // fraction of txs in the night window
	BurstScore      float64 `json:"burst_score"`      // max txs in sliding window / total
	GraveyardCount  int     `json:"graveyard_count"`
	GraveyardRatio  float64 `json:"graveyard_ratio"` // graveyard tokens / distinct tokens acquired
	SwapsPerDay     float64 `json:"swaps_per_day"`
	RealizedLossSOL float64 `json:"realized_loss_sol"` // sum of loss-ledger entries, >= 0
	WinRate         float64 `json:"win_rate"`          // completed round trips that exited above entry
}

// NetWorthPoint is one month of the estimated net-worth timeline.
type NetWorthPoint struct {
	Month        string  `json:"month"` // YYYY-MM, UTC
	EstimatedSOL float64 `json:"estimated_sol"`
	EstimatedUSD float64 `json:"estimated_usd"`
	SOLPriceUSD  float64 `json:"sol_price_usd"`
	TxCount      int     `json:"tx_count"`
}

// LossEntry is one token's realized SOL-equivalent loss.
type LossEntry struct {
	Mint    string  `json:"mint"`
	Symbol  string  `json:"symbol"`
	SOLLost float64 `json:"sol_lost"` // > 0
}

// PeriodLoss is realized loss grouped by calendar month, annotated with the
// market event active that month when one is known.
type PeriodLoss struct {
	Month   string  `json:"month"` // YYYY-MM
	SOLLost float64 `json:"sol_lost"`
	Event   string  `json:"event,omitempty"`
}

// InactivityGap is a dormancy period longer than the configured threshold.
type InactivityGap struct {
	Start       int64  `json:"start"` // Unix seconds, last tx before the gap
	End         int64  `json:"end"`   // Unix seconds, first tx after the gap
	Days        int    `json:"days"`
	EventMissed string `json:"event_missed,omitempty"` // market event inside the gap, if any
}

// ProtocolStat counts transactions touching a protocol, deduped per tx.
type ProtocolStat struct {
	Protocol Protocol `json:"protocol"`
	TxCount  int      `json:"tx_count"`
}

// TimelineHighlight ties a wallet milestone to a market-event month.
type TimelineHighlight struct {
	Month     string `json:"month"` // YYYY-MM
	TxCount   int    `json:"tx_count"`
	Event     string `json:"event,omitempty"`
	Sentiment string `json:"sentiment,omitempty"`
}

// Achievement is a deterministic badge derived from the feature vector.
type Achievement struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// WalletProfile is the pipeline's terminal artifact. It is created fresh per
// analysis request and immutable once returned; cached copies carry CreatedAt
// for TTL eviction.
type WalletProfile struct {
	Wallet    string    `json:"wallet"`
	CreatedAt time.Time `json:"created_at"`

	// Aggregate counters
	TxCount       int     `json:"tx_count"`
	FailedTxCount int     `json:"failed_tx_count"`
	SwapCount     int     `json:"swap_count"`
	TokenCount    int     `json:"token_count"`
	SOLBalance    float64 `json:"sol_balance"`

	// Partial-history marker: set when the drop rate of unresolvable
	// transactions exceeded the fetcher threshold.
	PartialHistory bool `json:"partial_history"`

	// Behavioral features
	Features       FeatureVector      `json:"features"`
	InactivityGaps []InactivityGap    `json:"inactivity_gaps,omitempty"`
	ProtocolStats  []ProtocolStat     `json:"protocol_stats,omitempty"`
	Heatmap        map[string]int     `json:"heatmap,omitempty"` // "sat_14" -> count
	JoinedDuring   *TimelineHighlight `json:"joined_during,omitempty"`
	PeakActivity   *TimelineHighlight `json:"peak_activity,omitempty"`
	GraveyardNames []string           `json:"graveyard_names,omitempty"`

	// Valuation
	NetWorthTimeline []NetWorthPoint `json:"net_worth_timeline,omitempty"`
	LossLedger       []LossEntry     `json:"loss_ledger,omitempty"`
	LossByPeriod     []PeriodLoss    `json:"loss_by_period,omitempty"`
	EstimatedPnLSOL  float64         `json:"estimated_pnl_sol"`

	// Scoring
	DegenScore   int           `json:"degen_score"` // [1,100]
	Rationale    []string      `json:"rationale"`   // dominant factors, largest first
	Percentile   *float64      `json:"percentile"`  // null when the population was empty
	Achievements []Achievement `json:"achievements,omitempty"`
}
