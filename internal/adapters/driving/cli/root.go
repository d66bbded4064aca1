// Package cli implements the ragweave command line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ragweave/ragweave/internal/adapters/driven/extractor"
	"github.com/ragweave/ragweave/internal/adapters/driven/factory"
	gitfetch "github.com/ragweave/ragweave/internal/adapters/driven/fetcher/git"
	"github.com/ragweave/ragweave/internal/chunker"
	"github.com/ragweave/ragweave/internal/config"
	"github.com/ragweave/ragweave/internal/core/ports/driving"
	"github.com/ragweave/ragweave/internal/core/services"
	"github.com/ragweave/ragweave/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	cfgPath string
	verbose bool
)

// Services used by the commands. Wired by ensureServices on first use;
// tests inject mocks directly.
var (
	searchService    driving.SearchService
	documentService  driving.DocumentService
	ingestionService driving.IngestionService

	// closeStore tears down the store connection after the command runs.
	closeStore func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "ragweave",
	Short: "Graph-backed retrieval over documents and code",
	Long: `ragweave ingests documents and git repositories into a chunk graph,
embeds every chunk, and answers semantic similarity queries over it.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.ragweave/config.toml)")
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if closeStore != nil {
			if err := closeStore(context.Background()); err != nil {
				logger.Warn("Failed to close store: %v", err)
			}
		}
	}()
	return rootCmd.Execute()
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// ensureServices wires the full service graph from configuration.
// A no-op when services are already set (tests inject their own).
func ensureServices(ctx context.Context) error {
	if searchService != nil && documentService != nil && ingestionService != nil {
		return nil
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Fail fast on an unreachable provider before touching the store.
	embedder, err := factory.NewValidatedEmbeddingService(cfg)
	if err != nil {
		return fmt.Errorf("creating embedding service: %w", err)
	}

	store, err := factory.NewGraphStore(ctx, cfg, embedder.Dimensions())
	if err != nil {
		embedder.Close() //nolint:errcheck
		return fmt.Errorf("opening store: %w", err)
	}
	closeStore = store.Close

	splitter, err := chunker.New(
		chunker.WithChunkSize(cfg.Chunking.Size),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)
	if err != nil {
		return fmt.Errorf("creating chunker: %w", err)
	}

	searchService = services.NewSearchService(store, embedder)
	documentService = services.NewDocumentService(store)
	ingestionService = services.NewIngestService(store, embedder, extractor.New(), gitfetch.New(), splitter,
		services.WithMaxFileSize(cfg.Ingestion.MaxFileSize))

	return nil
}
