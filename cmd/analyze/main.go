// Package main runs a one-shot wallet analysis and prints the profile.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"solana-wallet-lab/internal/analyzer"
	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/history"
	"solana-wallet-lab/internal/solana"
	"solana-wallet-lab/internal/storage/memory"
)

func main() {
	rpcEndpoint := flag.String("rpc-endpoint", os.Getenv("SOLANA_RPC_ENDPOINT"), "Solana RPC HTTP endpoint")
	maxSignatures := flag.Int("max-signatures", history.DefaultMaxSignatures, "Signature fetch cap")
	timeout := flag.Duration("timeout", analyzer.DefaultTimeout, "Analysis wall-clock budget")
	asJSON := flag.Bool("json", false, "Print the full profile as JSON")

	flag.Parse()

	logger := log.New(os.Stderr, "[analyze] ", log.LstdFlags)

	if *rpcEndpoint == "" {
		logger.Fatal("--rpc-endpoint is required")
	}
	if flag.NArg() != 1 {
		logger.Fatal("usage: analyze [flags] <wallet-address>")
	}
	wallet := flag.Arg(0)

	client := solana.NewHTTPClient(*rpcEndpoint)
	pipeline, err := analyzer.New(client, analyzer.Options{
		Population: memory.NewPopulationStore(),
		Timeout:    *timeout,
		Logger:     logger,
		Fetcher: history.NewFetcher(client, history.Options{
			MaxSignatures: *maxSignatures,
			Logger:        logger,
		}),
	})
	if err != nil {
		logger.Fatalf("Failed to create analyzer: %v", err)
	}

	profile, err := pipeline.Analyze(context.Background(), wallet)
	if err != nil {
		logger.Fatalf("Analysis failed: %v", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(profile); err != nil {
			logger.Fatalf("Encode profile: %v", err)
		}
		return
	}

	printSummary(profile)
}

func printSummary(p *domain.WalletProfile) {
	fmt.Printf("Wallet           %s\n", p.Wallet)
	fmt.Printf("Degen score      %d/100\n", p.DegenScore)
	for i, line := range p.Rationale {
		if i == 0 {
			fmt.Printf("Why              %s\n", line)
		} else {
			fmt.Printf("                 %s\n", line)
		}
	}
	if p.Percentile != nil {
		fmt.Printf("Percentile       %.1f\n", *p.Percentile)
	}

	fmt.Printf("Transactions     %d (%d failed)\n", p.TxCount, p.FailedTxCount)
	fmt.Printf("Swaps            %d across %d tokens\n", p.SwapCount, p.TokenCount)
	fmt.Printf("SOL balance      %.4f\n", p.SOLBalance)
	fmt.Printf("Estimated PnL    %+.2f SOL\n", p.EstimatedPnLSOL)
	if p.PartialHistory {
		fmt.Println("Note             profile based on partial history")
	}

	if p.JoinedDuring != nil {
		line := p.JoinedDuring.Month
		if p.JoinedDuring.Event != "" {
			line += " (" + p.JoinedDuring.Event + ")"
		}
		fmt.Printf("First active     %s\n", line)
	}
	if p.Features.GraveyardCount > 0 {
		fmt.Printf("Token graveyard  %d abandoned\n", p.Features.GraveyardCount)
	}
	if len(p.LossLedger) > 0 {
		fmt.Println("Biggest losses:")
		for _, e := range p.LossLedger {
			fmt.Printf("  %-12s %.3f SOL\n", e.Symbol, e.SOLLost)
		}
	}
	if len(p.InactivityGaps) > 0 {
		fmt.Println("Inactivity gaps:")
		for _, g := range p.InactivityGaps {
			line := fmt.Sprintf("  %s to %s (%d days)",
				time.Unix(g.Start, 0).UTC().Format("2006-01-02"),
				time.Unix(g.End, 0).UTC().Format("2006-01-02"),
				g.Days)
			if g.EventMissed != "" {
				line += " missed: " + g.EventMissed
			}
			fmt.Println(line)
		}
	}
	if len(p.Achievements) > 0 {
		labels := make([]string, 0, len(p.Achievements))
		for _, a := range p.Achievements {
			labels = append(labels, a.Label)
		}
		fmt.Printf("Achievements     %s\n", strings.Join(labels, "; "))
	}
}
