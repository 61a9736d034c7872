// Package main runs the wallet analysis HTTP service: analysis endpoints in
// front of the cached pipeline, plus leaderboard/stats endpoints over the
// score population.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"solana-wallet-lab/internal/analyzer"
	"solana-wallet-lab/internal/cache"
	"solana-wallet-lab/internal/history"
	"solana-wallet-lab/internal/observability"
	"solana-wallet-lab/internal/solana"
	"solana-wallet-lab/internal/storage"
	chstore "solana-wallet-lab/internal/storage/clickhouse"
	"solana-wallet-lab/internal/storage/memory"
	"solana-wallet-lab/internal/storage/migrations"
	pgstore "solana-wallet-lab/internal/storage/postgres"
	"solana-wallet-lab/internal/tokens"
)

// Server holds the wired components behind the HTTP surface.
type Server struct {
	cache      *cache.ProfileCache
	profiles   storage.ProfileStore
	population storage.PopulationStore
	logger     *log.Logger
}

func main() {
	loadEnvFile()

	// Parse flags (env vars as defaults)
	rpcEndpoint := flag.String("rpc-endpoint", os.Getenv("SOLANA_RPC_ENDPOINT"), "Solana RPC HTTP endpoint")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string (empty: in-memory stores)")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string for the score archive (optional)")
	listenAddr := flag.String("listen-addr", envOr("LISTEN_ADDR", ":8080"), "HTTP listen address")
	cacheTTL := flag.Duration("cache-ttl", cache.DefaultTTL, "Profile cache TTL")
	maxSignatures := flag.Int("max-signatures", history.DefaultMaxSignatures, "Signature fetch cap per wallet")
	workers := flag.Int("workers", history.DefaultWorkers, "Transaction resolution workers")
	analysisTimeout := flag.Duration("analysis-timeout", analyzer.DefaultTimeout, "Wall-clock budget per analysis")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags)

	if *rpcEndpoint == "" {
		logger.Fatal("--rpc-endpoint is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	profiles, population, archive, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, logger)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	resolver, err := tokens.NewResolver()
	if err != nil {
		logger.Fatalf("Failed to load token registry: %v", err)
	}
	logger.Printf("Token registry loaded: %d entries", resolver.Size())

	client := solana.NewHTTPClient(*rpcEndpoint)
	pipeline, err := analyzer.New(client, analyzer.Options{
		Resolver:   resolver,
		Population: population,
		Archive:    archive,
		Timeout:    *analysisTimeout,
		Logger:     logger,
		Fetcher: history.NewFetcher(client, history.Options{
			MaxSignatures: *maxSignatures,
			Workers:       *workers,
			Logger:        logger,
		}),
	})
	if err != nil {
		logger.Fatalf("Failed to create analyzer: %v", err)
	}

	server := &Server{
		cache:      cache.New(profiles, pipeline.Analyze, cache.Options{TTL: *cacheTTL, Logger: logger}),
		profiles:   profiles,
		population: population,
		logger:     logger,
	}

	httpServer := &http.Server{
		Addr:         *listenAddr,
		Handler:      server.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: *analysisTimeout + 5*time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}
		cancel()
	}()

	logger.Printf("Listening on %s", *listenAddr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server error: %v", err)
	}
	logger.Println("Shutdown complete")
}

// createStores wires profile and population stores. Postgres when a DSN is
// given, in-memory otherwise; the ClickHouse archive is optional either way.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, logger *log.Logger) (storage.ProfileStore, storage.PopulationStore, storage.ScoreArchive, func(), error) {
	var (
		profiles   storage.ProfileStore
		population storage.PopulationStore
		cleanups   []func()
	)

	if postgresDSN == "" {
		logger.Println("No postgres DSN, using in-memory stores")
		profiles = memory.NewProfileStore()
		population = memory.NewPopulationStore()
	} else {
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		cleanups = append(cleanups, pool.Close)

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, nil, fmt.Errorf("apply postgres migrations: %w", err)
		}
		profiles = pgstore.NewProfileStore(pool)
		population = pgstore.NewPopulationStore(pool)
	}

	var archive storage.ScoreArchive
	if clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			for _, c := range cleanups {
				c()
			}
			return nil, nil, nil, nil, fmt.Errorf("prepare clickhouse: %w", err)
		}
		cleanups = append(cleanups, func() { conn.Close() })
		archive = chstore.NewScoreEventStore(conn)
		logger.Println("ClickHouse score archive enabled")
	}

	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	return profiles, population, archive, cleanup, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())

	mux.HandleFunc("/api/analyze", s.handleAnalyzePost)
	mux.HandleFunc("/api/analyze/", s.handleAnalyzeGet)
	mux.HandleFunc("/api/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/recent", s.handleRecent)

	return mux
}

func (s *Server) handleAnalyzePost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req struct {
		Wallet string `json:"wallet"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.analyze(w, r, req.Wallet)
}

func (s *Server) handleAnalyzeGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	wallet := strings.TrimPrefix(r.URL.Path, "/api/analyze/")
	s.analyze(w, r, wallet)
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request, wallet string) {
	profile, cached, err := s.cache.Get(r.Context(), strings.TrimSpace(wallet))
	if err != nil {
		switch {
		case errors.Is(err, analyzer.ErrInvalidAddress):
			writeError(w, http.StatusBadRequest, "invalid wallet address")
		case errors.Is(err, analyzer.ErrAnalysisTimeout):
			writeError(w, http.StatusGatewayTimeout, "analysis timed out")
		case errors.Is(err, analyzer.ErrUpstreamUnavailable):
			writeError(w, http.StatusBadGateway, "upstream unavailable")
		default:
			s.logger.Printf("analyze %s: %v", wallet, err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	w.Header().Set("X-Cache", cacheHeader(cached))
	writeJSON(w, http.StatusOK, profile)
}

func cacheHeader(cached bool) string {
	if cached {
		return "HIT"
	}
	return "MISS"
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 10, 100)
	top, err := s.population.Top(r.Context(), limit)
	if err != nil {
		s.logger.Printf("leaderboard: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": top})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.population.Stats(r.Context())
	if err != nil {
		s.logger.Printf("stats: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	observability.UpdatePopulationSize(stats.Analyses)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"wallets":       stats.Wallets,
		"analyses":      stats.Analyses,
		"average_score": stats.AverageScore,
	})
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 10, 100)
	recent, err := s.profiles.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Printf("recent: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	type entry struct {
		Wallet     string    `json:"wallet"`
		DegenScore int       `json:"degen_score"`
		UpdatedAt  time.Time `json:"updated_at"`
	}
	out := make([]entry, 0, len(recent))
	for _, sp := range recent {
		out = append(out, entry{
			Wallet:     sp.Profile.Wallet,
			DegenScore: sp.Profile.DegenScore,
			UpdatedAt:  sp.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"recent": out})
}

func queryLimit(r *http.Request, def, max int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)
		if key != "" && os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
