// Package behavior derives time-series and distribution features from a
// wallet's transaction and swap stream. Everything here is a pure function
// of already-fetched data; no I/O happens in this package.
package behavior

import (
	"sort"
	"time"

	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/solana"
)

// Default analysis parameters.
const (
	// Night window [NightStartHour, NightEndHour) in UTC.
	DefaultNightStartHour = 0
	DefaultNightEndHour   = 5

	// DefaultBurstWindow is the sliding window for burst detection.
	DefaultBurstWindow = 10 * time.Minute

	// DefaultGapThreshold is the minimum dormancy period reported as an
	// inactivity gap.
	DefaultGapThreshold = 14 * 24 * time.Hour

	// DefaultDustThreshold is the holding size below which a token is
	// considered a negligible (graveyard) position.
	DefaultDustThreshold = 1.0
)

// Config holds the behavioral analysis parameters.
type Config struct {
	NightStartHour int
	NightEndHour   int
	BurstWindow    time.Duration
	GapThreshold   time.Duration
	DustThreshold  float64
}

// DefaultConfig returns the standard parameters.
func DefaultConfig() Config {
	return Config{
		NightStartHour: DefaultNightStartHour,
		NightEndHour:   DefaultNightEndHour,
		BurstWindow:    DefaultBurstWindow,
		GapThreshold:   DefaultGapThreshold,
		DustThreshold:  DefaultDustThreshold,
	}
}

// FailureStats counts total and failed transactions from the signature list.
// Signatures are used rather than resolved bodies so dropped resolutions
// still count toward the totals.
func FailureStats(sigs []solana.SignatureInfo) (total, failed int) {
	total = len(sigs)
	for _, s := range sigs {
		if s.Err != nil {
			failed++
		}
	}
	return total, failed
}

// FailureRate is failed / total, 0 for an empty wallet.
func FailureRate(total, failed int) float64 {
	if total == 0 {
		return 0
	}
	return float64(failed) / float64(total)
}

// NocturnalRatio returns the fraction of timestamps whose UTC hour falls in
// [startHour, endHour).
func NocturnalRatio(timestamps []int64, startHour, endHour int) float64 {
	if len(timestamps) == 0 {
		return 0
	}
	night := 0
	for _, ts := range timestamps {
		h := time.Unix(ts, 0).UTC().Hour()
		if h >= startHour && h < endHour {
			night++
		}
	}
	return float64(night) / float64(len(timestamps))
}

// BurstScore returns the maximum number of transactions inside any sliding
// window of the given width, normalized by the total count. A steady wallet
// scores near 1/n; a wallet that did everything in one session scores 1.
func BurstScore(timestamps []int64, window time.Duration) float64 {
	n := len(timestamps)
	if n == 0 {
		return 0
	}

	sorted := sortedCopy(timestamps)
	windowSec := int64(window / time.Second)

	maxInWindow := 1
	lo := 0
	for hi := 0; hi < n; hi++ {
		for sorted[hi]-sorted[lo] > windowSec {
			lo++
		}
		if count := hi - lo + 1; count > maxInWindow {
			maxInWindow = count
		}
	}
	return float64(maxInWindow) / float64(n)
}

// MaxBurst returns the raw peak window count (for reporting).
func MaxBurst(timestamps []int64, window time.Duration) int {
	if len(timestamps) == 0 {
		return 0
	}
	score := BurstScore(timestamps, window)
	return int(score*float64(len(timestamps)) + 0.5)
}

// InactivityGaps returns dormancy periods longer than threshold, ordered
// chronologically. Gap annotation with market events happens in timeline.go.
func InactivityGaps(timestamps []int64, threshold time.Duration) []domain.InactivityGap {
	if len(timestamps) < 2 {
		return nil
	}

	sorted := sortedCopy(timestamps)
	thresholdSec := int64(threshold / time.Second)

	var gaps []domain.InactivityGap
	for i := 1; i < len(sorted); i++ {
		delta := sorted[i] - sorted[i-1]
		if delta > thresholdSec {
			gaps = append(gaps, domain.InactivityGap{
				Start: sorted[i-1],
				End:   sorted[i],
				Days:  int(delta / 86400),
			})
		}
	}
	return gaps
}

func sortedCopy(timestamps []int64) []int64 {
	sorted := make([]int64, len(timestamps))
	copy(sorted, timestamps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted
}
