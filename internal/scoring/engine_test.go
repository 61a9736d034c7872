package scoring

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/storage/memory"
)

func TestScoreDeterministic(t *testing.T) {
	e := NewEngine()
	fv := domain.FeatureVector{
		SwapsPerDay:     4,
		FailureRate:     0.25,
		NocturnalRatio:  0.4,
		BurstScore:      0.6,
		GraveyardRatio:  0.5,
		GraveyardCount:  3,
		RealizedLossSOL: 40,
	}

	first := e.Score(fv)
	second := e.Score(fv)
	assert.Equal(t, first, second)
	assert.GreaterOrEqual(t, first.Score, 1)
	assert.LessOrEqual(t, first.Score, 100)
	assert.NotEmpty(t, first.Rationale)
}

func TestScoreQuietWalletFloorsAtOne(t *testing.T) {
	r := NewEngine().Score(domain.FeatureVector{})
	assert.Equal(t, 1, r.Score)
	assert.Equal(t, []string{"no notable degen behavior detected"}, r.Rationale)
}

func TestScoreMaxedFeaturesClampAtHundred(t *testing.T) {
	r := NewEngine().Score(domain.FeatureVector{
		SwapsPerDay:     50,
		FailureRate:     1,
		NocturnalRatio:  1,
		BurstScore:      1,
		GraveyardRatio:  1,
		GraveyardCount:  30,
		RealizedLossSOL: 5000,
	})
	assert.Equal(t, 100, r.Score)
}

func TestScoreMonotonicInLosses(t *testing.T) {
	e := NewEngine()
	base := domain.FeatureVector{SwapsPerDay: 2, RealizedLossSOL: 5}
	worse := base
	worse.RealizedLossSOL = 50

	assert.Greater(t, e.Score(worse).Score, e.Score(base).Score)
}

func TestRationaleOrderedByContribution(t *testing.T) {
	r := NewEngine().Score(domain.FeatureVector{
		GraveyardRatio:  1, // 0.20 contribution
		GraveyardCount:  8,
		NocturnalRatio:  0.5, // 0.05 contribution
		FailureRate:     0.1, // 0.015 contribution
	})

	require.NotEmpty(t, r.Rationale)
	assert.Contains(t, r.Rationale[0], "token graveyard")
	assert.LessOrEqual(t, len(r.Rationale), 3)
}

func TestPercentile(t *testing.T) {
	p := Percentile(30, 40)
	require.NotNil(t, p)
	assert.InDelta(t, 75.0, *p, 1e-9)

	assert.Nil(t, Percentile(0, 0))

	p = Percentile(0, 1)
	require.NotNil(t, p)
	assert.Zero(t, *p)
}

func TestPercentileRankMonotonicUnderPopulationGrowth(t *testing.T) {
	ctx := context.Background()
	pop := memory.NewPopulationStore()
	for i, s := range []int{20, 40, 60} {
		require.NoError(t, pop.Append(ctx, &domain.ScoreEvent{
			Wallet:   fmt.Sprintf("wallet-%d", i),
			Score:    s,
			ScoredAt: int64(i),
		}))
	}

	rank := func(score int) (below, total int) {
		below, err := pop.CountBelow(ctx, score)
		require.NoError(t, err)
		total, err = pop.Count(ctx)
		require.NoError(t, err)
		return below, total
	}

	below, total := rank(50)
	assert.Equal(t, 2, below)
	assert.Equal(t, 3, total)

	// A higher-scoring wallet joining never lowers an existing wallet's
	// rank: the strictly-below count is unchanged.
	require.NoError(t, pop.Append(ctx, &domain.ScoreEvent{Wallet: "whale", Score: 95, ScoredAt: 10}))
	belowAfter, totalAfter := rank(50)
	assert.Equal(t, below, belowAfter)
	assert.Equal(t, total+1, totalAfter)

	// Ordering is preserved on recomputation: the lower score never ends up
	// with a higher percentile than the score that outranks it.
	whaleBelow, _ := rank(95)
	low := Percentile(belowAfter, totalAfter)
	high := Percentile(whaleBelow, totalAfter)
	require.NotNil(t, low)
	require.NotNil(t, high)
	assert.LessOrEqual(t, *low, *high)

	// A lower-scoring wallet joining strictly raises the recomputed
	// percentile.
	require.NoError(t, pop.Append(ctx, &domain.ScoreEvent{Wallet: "shrimp", Score: 5, ScoredAt: 11}))
	belowFinal, totalFinal := rank(50)
	final := Percentile(belowFinal, totalFinal)
	require.NotNil(t, final)
	assert.Greater(t, *final, *low)
}

func TestAchievements(t *testing.T) {
	p := &domain.WalletProfile{
		TxCount:    120,
		DegenScore: 93,
		Features: domain.FeatureVector{
			NocturnalRatio:  0.45,
			FailureRate:     0.25,
			GraveyardCount:  7,
			RealizedLossSOL: 22,
			BurstScore:      0.1,
		},
		JoinedDuring: &domain.TimelineHighlight{Month: "2021-11", Event: "Absolute market top"},
	}

	got := Achievements(p)
	ids := make([]string, 0, len(got))
	for _, a := range got {
		ids = append(ids, a.ID)
	}

	assert.Equal(t, []string{
		"top_buyer",
		"night_owl",
		"serial_fumbler",
		"token_cemetery",
		"heavy_bags",
		"certified_degen",
	}, ids)
}

func TestAchievementsQuietWallet(t *testing.T) {
	assert.Empty(t, Achievements(&domain.WalletProfile{DegenScore: 12}))
}
