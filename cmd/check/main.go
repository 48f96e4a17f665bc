// Package main analyzes a single ERC-20 token for migration compatibility
// and renders the result as markdown or JSON.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"token-migration-lab/internal/analyzer"
	"token-migration-lab/internal/bridges"
	"token-migration-lab/internal/domain"
	"token-migration-lab/internal/evm"
	"token-migration-lab/internal/holders"
	"token-migration-lab/internal/reporting"
	"token-migration-lab/internal/storage"
	chstore "token-migration-lab/internal/storage/clickhouse"
	"token-migration-lab/internal/storage/migrations"
	pgstore "token-migration-lab/internal/storage/postgres"
	"token-migration-lab/internal/volume"
)

func main() {
	// Parse flags (env vars as defaults)
	address := flag.String("address", "", "Token contract address (0x...)")
	chainName := flag.String("chain", "ethereum", "Source chain (ethereum, polygon, arbitrum, optimism, base, avalanche, bsc)")
	rpcURL := flag.String("rpc-url", os.Getenv("RPC_URL"), "JSON-RPC endpoint (defaults to a public endpoint for the chain)")
	etherscanKey := flag.String("etherscan-key", os.Getenv("ETHERSCAN_API_KEY"), "Etherscan-family API key for holder and volume analysis")
	registryURL := flag.String("registry-url", "", "Bridge registry base URL for live wrapped-token lookups")
	format := flag.String("format", "markdown", "Output format: markdown or json")
	deploymentDir := flag.String("deployment-dir", "", "Write deployment.json to this directory")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string for persisting the analysis")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string for sample-based volume analysis")
	verbose := flag.Bool("verbose", false, "Verbose pipeline logging")
	flag.Parse()

	ctx := context.Background()

	if *address == "" {
		fmt.Fprintln(os.Stderr, "Error: --address is required")
		flag.Usage()
		os.Exit(1)
	}
	if *format != "markdown" && *format != "json" {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q (use markdown or json)\n", *format)
		os.Exit(1)
	}

	chain, err := domain.ParseChain(*chainName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	endpoint := *rpcURL
	if endpoint == "" {
		endpoint = chain.DefaultRPCURL()
	}

	// Optional persistence
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

	// Volume source: recorded samples when ClickHouse is available,
	// explorer API otherwise.
	var volumeSource analyzer.VolumeSource = volume.NewAnalyzer(*etherscanKey)
	if *clickhouseDSN != "" {
		conn, err := chstore.NewConn(ctx, *clickhouseDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to clickhouse: %v\n", err)
			os.Exit(1)
		}
		defer conn.Close()
		sampleStore := chstore.NewTransferSampleStore(conn)
		volumeSource = volume.NewStoreSource(sampleStore, volume.NewAnalyzer(*etherscanKey))
	}

	var detectorOpts []bridges.DetectorOption
	if *registryURL != "" {
		detectorOpts = append(detectorOpts, bridges.WithRegistry(bridges.NewHTTPRegistry(*registryURL)))
	}

	svc := analyzer.New(analyzer.Options{
		RPC:           evm.NewHTTPClient(endpoint),
		Bridges:       bridges.NewDetector(detectorOpts...),
		Holders:       holders.NewAnalyzer(*etherscanKey),
		Volume:        volumeSource,
		AnalysisStore: analysisStore,
		Verbose:       *verbose,
	})

	analysis, err := svc.Analyze(ctx, *address, chain)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analyzing %s: %v\n", *address, err)
		os.Exit(1)
	}

	switch *format {
	case "json":
		out, err := reporting.RenderJSON(analysis)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering JSON: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(out)
	default:
		fmt.Print(reporting.RenderMarkdown(analysis))
	}

	if *deploymentDir != "" {
		if err := writeDeployment(analysis, *deploymentDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing deployment config: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Deployment config written to %s/deployment.json\n", *deploymentDir)
	}
}

// writeDeployment writes deployment.json and a commands script next to it.
func writeDeployment(analysis *domain.Analysis, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	cfg, err := reporting.RenderDeploymentJSON(analysis)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "deployment.json"), []byte(cfg), 0644); err != nil {
		return fmt.Errorf("write deployment.json: %w", err)
	}

	commands := strings.Join(reporting.DeploymentCommands(analysis), "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, "deploy-commands.sh"), []byte(commands), 0644); err != nil {
		return fmt.Errorf("write deploy-commands.sh: %w", err)
	}
	return nil
}
