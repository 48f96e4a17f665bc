// Package main provides the analysis HTTP service:
// - POST /v1/analyze runs a full token analysis
// - GET endpoints serve stored analyses
// - Prometheus metrics and health probes
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
	"sync"
	"syscall"
	"time"

	"token-migration-lab/internal/analyzer"
	"token-migration-lab/internal/bridges"
	"token-migration-lab/internal/domain"
	"token-migration-lab/internal/evm"
	"token-migration-lab/internal/holders"
	"token-migration-lab/internal/observability"
	"token-migration-lab/internal/storage"
	chstore "token-migration-lab/internal/storage/clickhouse"
	"token-migration-lab/internal/storage/memory"
	"token-migration-lab/internal/storage/migrations"
	pgstore "token-migration-lab/internal/storage/postgres"
	"token-migration-lab/internal/volume"
)

// reuseWindow is how long a stored analysis satisfies a new request
// before the token is re-analyzed.
const reuseWindow = time.Hour

// Server holds the analysis service and its collaborators.
type Server struct {
	analysisStore storage.AnalysisStore
	etherscanKey  string
	registryURL   string
	volumeSource  analyzer.VolumeSource
	logger        *log.Logger

	// rpcOverride replaces per-chain default endpoints when set.
	rpcOverride string

	// services caches one analyzer per chain.
	mu       sync.Mutex
	services map[domain.Chain]*analyzer.Service

	started time.Time
	// Stats
	analyses int
	failures int
}

func main() {
	loadEnvFile()

	addr := flag.String("addr", ":8080", "HTTP listen address")
	rpcURL := flag.String("rpc-url", os.Getenv("RPC_URL"), "JSON-RPC endpoint override (defaults to public endpoints per chain)")
	etherscanKey := flag.String("etherscan-key", os.Getenv("ETHERSCAN_API_KEY"), "Etherscan-family API key for holder and volume analysis")
	registryURL := flag.String("registry-url", "", "Bridge registry base URL for live wrapped-token lookups")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string for sample-based volume analysis")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Analysis store
	var analysisStore storage.AnalysisStore
	if *useMemory {
		analysisStore = memory.NewAnalysisStore()
	} else {
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("Failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatalf("Failed to run postgres migrations: %v", err)
		}
		analysisStore = pgstore.NewAnalysisStore(pool)
	}

	// Volume source: recorded samples when ClickHouse is available.
	var volumeSource analyzer.VolumeSource = volume.NewAnalyzer(*etherscanKey)
	if *clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("Failed to prepare clickhouse: %v", err)
		}
		defer conn.Close()
		sampleStore := chstore.NewTransferSampleStore(conn)
		volumeSource = volume.NewStoreSource(sampleStore, volume.NewAnalyzer(*etherscanKey))
	}

	server := &Server{
		analysisStore: analysisStore,
		etherscanKey:  *etherscanKey,
		registryURL:   *registryURL,
		volumeSource:  volumeSource,
		rpcOverride:   *rpcURL,
		logger:        logger,
		services:      make(map[domain.Chain]*analyzer.Service),
		started:       time.Now(),
	}

	httpServer := &http.Server{
		Addr:    *addr,
		Handler: server.routes(),
	}

	// Handle shutdown signals
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

	logger.Printf("Listening on %s", *addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server error: %v", err)
	}
	logger.Println("Shutdown complete")
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /v1/analyses", s.handleListAnalyses)
	mux.HandleFunc("GET /v1/analyses/{id}", s.handleGetAnalysis)
	mux.HandleFunc("GET /v1/tokens/{chain}/{address}", s.handleLatest)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", observability.Handler())
	mux.HandleFunc("GET /status", s.handleStatus)

	return mux
}

// serviceFor returns the analyzer for a chain, creating it on first use.
func (s *Server) serviceFor(chain domain.Chain) *analyzer.Service {
	s.mu.Lock()
	defer s.mu.Unlock()

	if svc, ok := s.services[chain]; ok {
		return svc
	}

	endpoint := s.rpcOverride
	if endpoint == "" {
		endpoint = chain.DefaultRPCURL()
	}

	var detectorOpts []bridges.DetectorOption
	if s.registryURL != "" {
		detectorOpts = append(detectorOpts, bridges.WithRegistry(bridges.NewHTTPRegistry(s.registryURL)))
	}

	svc := analyzer.New(analyzer.Options{
		RPC:           evm.NewHTTPClient(endpoint),
		Bridges:       bridges.NewDetector(detectorOpts...),
		Holders:       holders.NewAnalyzer(s.etherscanKey),
		Volume:        s.volumeSource,
		AnalysisStore: s.analysisStore,
	})
	s.services[chain] = svc
	return svc
}

// AnalyzeRequest is the POST /v1/analyze request body.
type AnalyzeRequest struct {
	Address string `json:"address"`
	Chain   string `json:"chain"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.Address == "" {
		writeError(w, http.StatusBadRequest, "address is required")
		return
	}
	if req.Chain == "" {
		req.Chain = string(domain.ChainEthereum)
	}

	chain, err := domain.ParseChain(req.Chain)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Serve a recent stored analysis unless a refresh is requested.
	refresh := r.URL.Query().Get("refresh") == "true"
	if !refresh {
		if addr, err := evm.NormalizeAddress(req.Address); err == nil {
			latest, err := s.analysisStore.Latest(r.Context(), chain, addr)
			if err == nil && time.Since(time.UnixMilli(latest.AnalyzedAt)) < reuseWindow {
				writeJSON(w, http.StatusOK, latest)
				return
			}
		}
	}

	analysis, err := s.serviceFor(chain).Analyze(r.Context(), req.Address, chain)
	if err != nil {
		s.mu.Lock()
		s.failures++
		s.mu.Unlock()
		s.logger.Printf("Analysis failed for %s on %s: %v", req.Address, chain, err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	s.analyses++
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	analyses, err := s.analysisStore.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, analyses)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.analysisStore.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "analysis not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	chain, err := domain.ParseChain(r.PathValue("chain"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	addr, err := evm.NormalizeAddress(r.PathValue("address"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	analysis, err := s.analysisStore.Latest(r.Context(), chain, addr)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no analysis for token")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Analyses int    `json:"analyses"`
	Failures int    `json:"failures"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, http.StatusOK, StatusResponse{
		Status:   "running",
		Uptime:   time.Since(s.started).String(),
		Analyses: s.analyses,
		Failures: s.failures,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
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
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
