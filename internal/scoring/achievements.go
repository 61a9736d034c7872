package scoring

import "solana-wallet-lab/internal/domain"

// achievementRule awards one badge when its predicate holds.
type achievementRule struct {
	id    string
	label string
	match func(p *domain.WalletProfile) bool
}

// achievementRules is evaluated in order; output order is therefore stable.
var achievementRules = []achievementRule{
	{
		id:    "top_buyer",
		label: "Bought the absolute top",
		match: func(p *domain.WalletProfile) bool {
			return p.JoinedDuring != nil && p.JoinedDuring.Month == "2021-11"
		},
	},
	{
		id:    "ftx_survivor",
		label: "Traded through the FTX collapse",
		match: func(p *domain.WalletProfile) bool {
			for _, g := range p.InactivityGaps {
				if g.EventMissed == "FTX collapse" {
					return false
				}
			}
			return activeAround(p, "2022-11")
		},
	},
	{
		id:    "night_owl",
		label: "Most active between midnight and 5am",
		match: func(p *domain.WalletProfile) bool {
			return p.Features.NocturnalRatio >= 0.3
		},
	},
	{
		id:    "serial_fumbler",
		label: "One in five transactions failed",
		match: func(p *domain.WalletProfile) bool {
			return p.Features.FailureRate >= 0.2 && p.TxCount >= 20
		},
	},
	{
		id:    "token_cemetery",
		label: "Five or more abandoned tokens",
		match: func(p *domain.WalletProfile) bool {
			return p.Features.GraveyardCount >= 5
		},
	},
	{
		id:    "heavy_bags",
		label: "Over 10 SOL in realized losses",
		match: func(p *domain.WalletProfile) bool {
			return p.Features.RealizedLossSOL > 10
		},
	},
	{
		id:    "one_session_wonder",
		label: "Half the history happened in one sitting",
		match: func(p *domain.WalletProfile) bool {
			return p.Features.BurstScore >= 0.5 && p.TxCount >= 10
		},
	},
	{
		id:    "certified_degen",
		label: "Degen score 90 or above",
		match: func(p *domain.WalletProfile) bool {
			return p.DegenScore >= 90
		},
	},
}

func activeAround(p *domain.WalletProfile, month string) bool {
	before, after := false, false
	for _, pt := range p.NetWorthTimeline {
		if pt.Month <= month {
			before = true
		}
		if pt.Month >= month {
			after = true
		}
	}
	return before && after
}

// Achievements evaluates every badge rule against a finished profile. The
// profile's score and features must already be populated.
func Achievements(p *domain.WalletProfile) []domain.Achievement {
	var out []domain.Achievement
	for _, r := range achievementRules {
		if r.match(p) {
			out = append(out, domain.Achievement{ID: r.id, Label: r.label})
		}
	}
	return out
}
