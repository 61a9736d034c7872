package behavior

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/solana"
	"solana-wallet-lab/internal/swaps"
)

// MonthKey formats a unix timestamp as a YYYY-MM UTC month key.
func MonthKey(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01")
}

// HeatmapKey formats a unix timestamp as a day-hour bucket like "sat_14",
// using UTC, a lowercase three-letter day name, and an unpadded hour.
func HeatmapKey(ts int64) string {
	t := time.Unix(ts, 0).UTC()
	day := strings.ToLower(t.Weekday().String()[:3])
	return day + "_" + strconv.Itoa(t.Hour())
}

// Heatmap buckets timestamps by day-of-week and hour.
func Heatmap(timestamps []int64) map[string]int {
	out := make(map[string]int)
	for _, ts := range timestamps {
		out[HeatmapKey(ts)]++
	}
	return out
}

// ActivityByMonth counts transactions per YYYY-MM month.
func ActivityByMonth(timestamps []int64) map[string]int {
	out := make(map[string]int)
	for _, ts := range timestamps {
		out[MonthKey(ts)]++
	}
	return out
}

// ProtocolStats counts, per protocol, the number of transactions touching it.
// A transaction invoking the same protocol several times counts once; one
// touching two protocols counts toward both. Output is sorted by count
// descending, protocol name ascending on ties.
func ProtocolStats(txs []*solana.Transaction) []domain.ProtocolStat {
	counts := make(map[domain.Protocol]int)
	for _, tx := range txs {
		for _, p := range swaps.Protocols(tx) {
			counts[p]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	out := make([]domain.ProtocolStat, 0, len(counts))
	for p, n := range counts {
		out = append(out, domain.ProtocolStat{Protocol: p, TxCount: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TxCount != out[j].TxCount {
			return out[i].TxCount > out[j].TxCount
		}
		return out[i].Protocol < out[j].Protocol
	})
	return out
}

// JoinedDuring returns the highlight for the wallet's first active month,
// with the market event of that month if one exists.
func JoinedDuring(timestamps []int64) *domain.TimelineHighlight {
	if len(timestamps) == 0 {
		return nil
	}
	first := timestamps[0]
	for _, ts := range timestamps[1:] {
		if ts < first {
			first = ts
		}
	}
	return highlight(MonthKey(first), ActivityByMonth(timestamps)[MonthKey(first)])
}

// PeakActivity returns the highlight for the wallet's busiest month. Ties
// break toward the earlier month.
func PeakActivity(timestamps []int64) *domain.TimelineHighlight {
	byMonth := ActivityByMonth(timestamps)
	if len(byMonth) == 0 {
		return nil
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	peak := months[0]
	for _, m := range months[1:] {
		if byMonth[m] > byMonth[peak] {
			peak = m
		}
	}
	return highlight(peak, byMonth[peak])
}

func highlight(month string, txCount int) *domain.TimelineHighlight {
	h := &domain.TimelineHighlight{Month: month, TxCount: txCount}
	if e, ok := EventFor(month); ok {
		h.Event = e.Event
		h.Sentiment = e.Sentiment
	}
	return h
}

// AnnotateGaps fills in the first market event that fell inside each gap.
// Gaps spanning no event are left unannotated.
func AnnotateGaps(gaps []domain.InactivityGap) {
	for i := range gaps {
		start := time.Unix(gaps[i].Start, 0).UTC()
		end := time.Unix(gaps[i].End, 0).UTC()

		for m := monthStart(start); !m.After(end); m = m.AddDate(0, 1, 0) {
			if e, ok := EventFor(m.Format("2006-01")); ok {
				gaps[i].EventMissed = e.Event
				break
			}
		}
	}
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
