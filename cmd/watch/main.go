// Package main subscribes to ERC-20 Transfer logs over WebSocket and
// records transfer volume samples for rate-limit analysis.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"token-migration-lab/internal/domain"
	"token-migration-lab/internal/evm"
	"token-migration-lab/internal/observability"
	"token-migration-lab/internal/storage"
	chstore "token-migration-lab/internal/storage/clickhouse"
	"token-migration-lab/internal/storage/memory"
	"token-migration-lab/internal/storage/migrations"
)

func main() {
	wsURL := flag.String("ws-url", os.Getenv("WS_URL"), "WebSocket JSON-RPC endpoint")
	rpcURL := flag.String("rpc-url", os.Getenv("RPC_URL"), "HTTP JSON-RPC endpoint for decimals lookup (defaults to a public endpoint)")
	tokens := flag.String("tokens", "", "Comma-separated token addresses to watch")
	chainName := flag.String("chain", "ethereum", "Source chain of the watched tokens")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string for sample storage")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of ClickHouse")
	flushInterval := flag.Duration("flush-interval", 30*time.Second, "Sample batch flush interval")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics HTTP address")
	flag.Parse()

	logger := log.New(os.Stdout, "[watch] ", log.LstdFlags)

	if *wsURL == "" {
		logger.Fatal("--ws-url is required")
	}
	if *tokens == "" {
		logger.Fatal("--tokens is required")
	}
	if !*useMemory && *clickhouseDSN == "" {
		logger.Fatal("--clickhouse-dsn is required (use --use-memory for in-memory storage)")
	}

	chain, err := domain.ParseChain(*chainName)
	if err != nil {
		logger.Fatalf("Invalid chain: %v", err)
	}

	addresses, err := parseAddresses(*tokens)
	if err != nil {
		logger.Fatalf("Invalid token list: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Sample store
	var sampleStore storage.TransferSampleStore
	if *useMemory {
		sampleStore = memory.NewTransferSampleStore()
	} else {
		conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("Failed to prepare clickhouse: %v", err)
		}
		defer conn.Close()
		sampleStore = chstore.NewTransferSampleStore(conn)
	}

	// Resolve token decimals up front so amounts can be stored in whole tokens.
	endpoint := *rpcURL
	if endpoint == "" {
		endpoint = chain.DefaultRPCURL()
	}
	decimals := resolveDecimals(ctx, endpoint, addresses, chain, logger)

	// Metrics endpoint
	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		})
		mux.Handle("/metrics", observability.Handler())
		logger.Printf("Metrics server on %s", *metricsAddr)
		if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
			logger.Printf("Metrics server error: %v", err)
		}
	}()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	ws, err := evm.NewWSClient(ctx, *wsURL, nil)
	if err != nil {
		logger.Fatalf("Failed to connect websocket: %v", err)
	}
	defer ws.Close()

	logs, err := ws.SubscribeTransfers(ctx, addresses)
	if err != nil {
		logger.Fatalf("Failed to subscribe: %v", err)
	}
	logger.Printf("Watching %d tokens on %s", len(addresses), chain)

	w := &watcher{
		chain:    chain,
		decimals: decimals,
		store:    sampleStore,
		logger:   logger,
	}
	if err := w.run(ctx, logs, *flushInterval); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("Watcher error: %v", err)
	}
	logger.Println("Shutdown complete")
}

// watcher buffers Transfer logs and flushes them to storage in batches.
type watcher struct {
	chain    domain.Chain
	decimals map[string]uint8
	store    storage.TransferSampleStore
	logger   *log.Logger

	buffer []*domain.TransferSample
}

func (w *watcher) run(ctx context.Context, logs <-chan evm.Log, flushInterval time.Duration) error {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.flush(context.Background())
			return ctx.Err()
		case <-ticker.C:
			w.flush(ctx)
		case lg, ok := <-logs:
			if !ok {
				w.flush(context.Background())
				return nil
			}
			if lg.Removed {
				continue
			}
			observability.RecordTransferObserved()
			sample, err := w.toSample(lg)
			if err != nil {
				w.logger.Printf("Skipping log %s/%s: %v", lg.TxHash, lg.LogIndex, err)
				continue
			}
			w.buffer = append(w.buffer, sample)
		}
	}
}

// toSample converts a Transfer log into a stored volume sample.
func (w *watcher) toSample(lg evm.Log) (*domain.TransferSample, error) {
	token := strings.ToLower(lg.Address)

	logIndex, err := parseHexUint(lg.LogIndex)
	if err != nil {
		return nil, fmt.Errorf("parse log index: %w", err)
	}
	blockNumber, err := parseHexUint(lg.BlockNumber)
	if err != nil {
		return nil, fmt.Errorf("parse block number: %w", err)
	}
	amount, err := parseAmount(lg.Data, w.decimals[token])
	if err != nil {
		return nil, fmt.Errorf("parse amount: %w", err)
	}

	return &domain.TransferSample{
		Chain:       w.chain,
		Token:       token,
		TxHash:      lg.TxHash,
		LogIndex:    uint32(logIndex),
		BlockNumber: blockNumber,
		Amount:      amount,
		TimestampMs: time.Now().UnixMilli(),
	}, nil
}

// flush writes the buffered samples. A duplicate batch (possible after a
// reconnect replays recent logs) retries sample by sample.
func (w *watcher) flush(ctx context.Context) {
	if len(w.buffer) == 0 {
		return
	}
	batch := w.buffer
	w.buffer = nil

	start := time.Now()
	err := w.store.InsertBulk(ctx, batch)
	observability.RecordDBQuery("clickhouse", "insert_samples", time.Since(start).Seconds(), err)

	if errors.Is(err, storage.ErrDuplicateKey) {
		var stored int
		for _, sample := range batch {
			if err := w.store.InsertBulk(ctx, []*domain.TransferSample{sample}); err == nil {
				stored++
			}
		}
		observability.RecordTransfersStored(stored)
		w.logger.Printf("Flushed %d/%d samples (duplicates skipped)", stored, len(batch))
		return
	}
	if err != nil {
		w.logger.Printf("Flush failed, dropping %d samples: %v", len(batch), err)
		return
	}

	observability.RecordTransfersStored(len(batch))
	w.logger.Printf("Flushed %d samples", len(batch))
}

// resolveDecimals fetches each token's decimals once. Lookup failures
// default to 18 with a warning.
func resolveDecimals(ctx context.Context, endpoint string, addresses []string, chain domain.Chain, logger *log.Logger) map[string]uint8 {
	resolver := evm.NewMetadataResolver(evm.NewHTTPClient(endpoint))
	out := make(map[string]uint8, len(addresses))

	for _, addr := range addresses {
		meta, err := resolver.Resolve(ctx, addr, chain)
		if err != nil {
			logger.Printf("Decimals lookup failed for %s, assuming 18: %v", addr, err)
			out[addr] = 18
			continue
		}
		out[addr] = meta.Decimals
	}
	return out
}

// parseAddresses normalizes the comma-separated watch list.
func parseAddresses(tokens string) ([]string, error) {
	var out []string
	for _, t := range strings.Split(tokens, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		addr, err := evm.NormalizeAddress(t)
		if err != nil {
			return nil, fmt.Errorf("token %q: %w", t, err)
		}
		out = append(out, addr)
	}
	return out, nil
}

func parseHexUint(s string) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 64)
}

// parseAmount converts a 32-byte transfer value into whole tokens.
func parseAmount(data string, decimals uint8) (float64, error) {
	hex := strings.TrimPrefix(data, "0x")
	if hex == "" {
		return 0, fmt.Errorf("empty transfer data")
	}

	raw, ok := new(big.Int).SetString(hex, 16)
	if !ok {
		return 0, fmt.Errorf("invalid transfer data %q", data)
	}

	scale := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	amount, _ := new(big.Float).Quo(new(big.Float).SetInt(raw), scale).Float64()
	return amount, nil
}
