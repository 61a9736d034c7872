package behavior

// MarketEvent is a notable market period keyed by month (YYYY-MM).
type MarketEvent struct {
	Event     string
	Sentiment string
}

// marketEvents is a static table of Solana-relevant market periods. Months
// without an entry are unremarkable. Keys use YYYY-MM in UTC.
var marketEvents = map[string]MarketEvent{
	"2021-01": {Event: "First retail memecoin wave", Sentiment: "euphoria"},
	"2021-05": {Event: "May 2021 crash", Sentiment: "panic"},
	"2021-09": {Event: "Solana's first major outage", Sentiment: "nervous"},
	"2021-11": {Event: "Absolute market top", Sentiment: "peak euphoria"},
	"2022-05": {Event: "LUNA/UST collapse", Sentiment: "capitulation"},
	"2022-06": {Event: "Celsius and 3AC contagion", Sentiment: "despair"},
	"2022-11": {Event: "FTX collapse", Sentiment: "panic"},
	"2023-01": {Event: "Post-FTX relief bounce", Sentiment: "cautious"},
	"2023-03": {Event: "USDC depeg scare", Sentiment: "nervous"},
	"2023-12": {Event: "Solana revival rally", Sentiment: "euphoria"},
	"2024-01": {Event: "JUP airdrop season", Sentiment: "greedy"},
	"2024-03": {Event: "BONK/WIF memecoin mania", Sentiment: "peak degen"},
	"2024-11": {Event: "Post-election melt-up", Sentiment: "euphoria"},
	"2025-01": {Event: "Political memecoin frenzy", Sentiment: "peak degen"},
}

// EventFor returns the market event for a YYYY-MM month, if any.
func EventFor(month string) (MarketEvent, bool) {
	e, ok := marketEvents[month]
	return e, ok
}
