// Package scoring turns a behavioral feature vector into a degen score on a
// fixed 1..100 scale. Scoring is deterministic: the same features always
// produce the same score and rationale, so results are reproducible and
// comparable across the population.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"solana-wallet-lab/internal/domain"
)

// Factor weights. They sum to 1.0; changing them rescales every score in the
// population, so bump them together with an archive annotation.
const (
	WeightSwapFrequency = 0.20
	WeightFailureRate   = 0.15
	WeightNocturnal     = 0.10
	WeightBurst         = 0.15
	WeightGraveyard     = 0.20
	WeightLossMagnitude = 0.20
)

// Normalization knees: the factor value at which a feature saturates to 1.0.
const (
	swapsPerDayKnee = 10.0
	lossSOLKnee     = 100.0
)

// factor is one weighted scoring component.
type factor struct {
	name   string
	weight float64
	value  float64 // normalized to [0, 1]
	detail string
}

// Result is a computed score with its explanation.
type Result struct {
	Score     int
	Rationale []string
}

// Engine computes degen scores. The zero value is not usable; construct with
// NewEngine.
type Engine struct{}

// NewEngine creates a scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Score maps a feature vector to a 1..100 degen score with a rationale
// listing the dominant contributing factors, largest contribution first.
func (e *Engine) Score(fv domain.FeatureVector) Result {
	factors := []factor{
		{
			name:   "swap frequency",
			weight: WeightSwapFrequency,
			value:  saturate(fv.SwapsPerDay / swapsPerDayKnee),
			detail: fmt.Sprintf("%.1f swaps/day", fv.SwapsPerDay),
		},
		{
			name:   "failure rate",
			weight: WeightFailureRate,
			value:  saturate(fv.FailureRate),
			detail: fmt.Sprintf("%.0f%% of transactions failed", fv.FailureRate*100),
		},
		{
			name:   "nocturnal activity",
			weight: WeightNocturnal,
			value:  saturate(fv.NocturnalRatio),
			detail: fmt.Sprintf("%.0f%% of activity between 00:00 and 05:00 UTC", fv.NocturnalRatio*100),
		},
		{
			name:   "burst trading",
			weight: WeightBurst,
			value:  saturate(fv.BurstScore),
			detail: fmt.Sprintf("%.0f%% of activity in a single burst window", fv.BurstScore*100),
		},
		{
			name:   "token graveyard",
			weight: WeightGraveyard,
			value:  saturate(fv.GraveyardRatio),
			detail: fmt.Sprintf("%d abandoned tokens", fv.GraveyardCount),
		},
		{
			name:   "realized losses",
			weight: WeightLossMagnitude,
			value:  saturate(fv.RealizedLossSOL / lossSOLKnee),
			detail: fmt.Sprintf("%.2f SOL realized losses", fv.RealizedLossSOL),
		},
	}

	var weighted float64
	for _, f := range factors {
		weighted += f.weight * f.value
	}
	score := clamp(int(math.Round(weighted*100)), 1, 100)

	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].weight*factors[i].value > factors[j].weight*factors[j].value
	})

	var rationale []string
	for _, f := range factors {
		if f.weight*f.value <= 0 {
			continue
		}
		rationale = append(rationale, fmt.Sprintf("%s: %s", f.name, f.detail))
	}
	if len(rationale) > 3 {
		rationale = rationale[:3]
	}
	if len(rationale) == 0 {
		rationale = []string{"no notable degen behavior detected"}
	}

	return Result{Score: score, Rationale: rationale}
}

func saturate(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Percentile converts a population rank into a percentile: the share of
// previously scored wallets strictly below this score. Returns nil when the
// population is empty; a fabricated midpoint would be misleading on day one.
func Percentile(below, total int) *float64 {
	if total <= 0 {
		return nil
	}
	p := float64(below) / float64(total) * 100
	return &p
}
