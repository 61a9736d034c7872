package domain

// ScoreEvent is one completed scoring of a wallet. The population of score
// events is what percentiles are ranked against; it is append-only so ranks
// reflect every analysis ever completed, not just the latest per wallet.
type ScoreEvent struct {
	Wallet   string `json:"wallet"`
	Score    int    `json:"score"`
	ScoredAt int64  `json:"scored_at"`
}
