// Package main analyzes a batch of candidate tokens and ranks them by
// migration risk. Candidates come from an explicit address list or live
// discovery with a curated fallback.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"token-migration-lab/internal/analyzer"
	"token-migration-lab/internal/bridges"
	"token-migration-lab/internal/discovery"
	"token-migration-lab/internal/domain"
	"token-migration-lab/internal/evm"
	"token-migration-lab/internal/holders"
	"token-migration-lab/internal/reporting"
	"token-migration-lab/internal/storage"
	"token-migration-lab/internal/storage/migrations"
	pgstore "token-migration-lab/internal/storage/postgres"
	"token-migration-lab/internal/volume"
)

// analyzePause spaces successive analyses to stay under public RPC rate limits.
const analyzePause = 500 * time.Millisecond

func main() {
	tokens := flag.String("tokens", "", "Comma-separated token addresses (empty means discover candidates)")
	chainName := flag.String("chain", "ethereum", "Source chain for all tokens")
	rpcURL := flag.String("rpc-url", os.Getenv("RPC_URL"), "JSON-RPC endpoint (defaults to a public endpoint for the chain)")
	etherscanKey := flag.String("etherscan-key", os.Getenv("ETHERSCAN_API_KEY"), "Etherscan-family API key for holder and volume analysis")
	limit := flag.Int("limit", 25, "Number of candidates to discover when --tokens is empty")
	outputDir := flag.String("output-dir", "output", "Output directory for ranking files")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string for persisting analyses")
	verbose := flag.Bool("verbose", false, "Verbose pipeline logging")
	flag.Parse()

	ctx := context.Background()

	chain, err := domain.ParseChain(*chainName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	endpoint := *rpcURL
	if endpoint == "" {
		endpoint = chain.DefaultRPCURL()
	}

	addresses := resolveAddresses(ctx, *tokens, *limit)
	if len(addresses) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no candidate tokens to scan")
		os.Exit(1)
	}
	fmt.Printf("Scanning %d tokens on %s...\n", len(addresses), chain)

	var analysisStore storage.AnalysisStore
	if *postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to postgres: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			fmt.Fprintf(os.Stderr, "Error running postgres migrations: %v\n", err)
			os.Exit(1)
		}
		analysisStore = pgstore.NewAnalysisStore(pool)
	}

	svc := analyzer.New(analyzer.Options{
		RPC:           evm.NewHTTPClient(endpoint),
		Bridges:       bridges.NewDetector(),
		Holders:       holders.NewAnalyzer(*etherscanKey),
		Volume:        volume.NewAnalyzer(*etherscanKey),
		AnalysisStore: analysisStore,
		Verbose:       *verbose,
	})

	var analyses []*domain.Analysis
	var failures []string

	for i, addr := range addresses {
		if i > 0 {
			time.Sleep(analyzePause)
		}
		analysis, err := svc.Analyze(ctx, addr, chain)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", addr, err))
			fmt.Printf("  [%d/%d] %s FAILED: %v\n", i+1, len(addresses), addr, err)
			continue
		}
		analyses = append(analyses, analysis)
		fmt.Printf("  [%d/%d] %s (%s) risk=%d/100 (%s)\n",
			i+1, len(addresses), analysis.Token.Symbol, addr,
			analysis.RiskScore.Total, analysis.RiskScore.Rating.DisplayName())
	}

	if len(analyses) == 0 {
		fmt.Fprintf(os.Stderr, "Error: all %d analyses failed\n", len(addresses))
		os.Exit(1)
	}

	ranked := reporting.RankByRisk(analyses)
	if err := writeOutputs(ranked, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing outputs: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nScan complete: %d analyzed, %d failed\n", len(analyses), len(failures))
	fmt.Printf("  - %s/TOKEN_RANKING.csv\n", *outputDir)
	fmt.Printf("  - %s/SCAN_REPORT.md\n", *outputDir)
}

// resolveAddresses parses the explicit token list or falls back to discovery.
func resolveAddresses(ctx context.Context, tokens string, limit int) []string {
	if tokens != "" {
		var out []string
		for _, t := range strings.Split(tokens, ",") {
			t = strings.TrimSpace(t)
			if t != "" {
				out = append(out, t)
			}
		}
		return out
	}

	candidates := discovery.New().Discover(ctx, limit)
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Address)
	}
	return out
}

// writeOutputs writes the CSV ranking and a markdown summary report.
func writeOutputs(ranked []*domain.Analysis, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	csv := reporting.RenderCSV(ranked)
	if err := os.WriteFile(filepath.Join(dir, "TOKEN_RANKING.csv"), []byte(csv), 0644); err != nil {
		return fmt.Errorf("write ranking CSV: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# Migration Candidate Scan\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().UTC().Format(time.RFC3339)))
	sb.WriteString("| Rank | Token | Risk | Compatible | Mode | Already Bridged |\n")
	sb.WriteString("|------|-------|------|------------|------|------------------|\n")
	for i, a := range ranked {
		sb.WriteString(fmt.Sprintf("| %d | %s (`%s`) | %d/100 (%s) | %s | %s | %s |\n",
			i+1, a.Token.Symbol, a.Token.Address,
			a.RiskScore.Total, a.RiskScore.Rating.DisplayName(),
			yesNo(a.Compatibility.IsCompatible),
			a.Compatibility.RecommendedMode.DisplayName(),
			yesNo(a.BridgeStatus.AlreadyOnDestination)))
	}
	sb.WriteString("\n")
	for _, a := range ranked {
		sb.WriteString("---\n\n")
		sb.WriteString(reporting.RenderMarkdown(a))
	}

	if err := os.WriteFile(filepath.Join(dir, "SCAN_REPORT.md"), []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("write scan report: %w", err)
	}
	return nil
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
