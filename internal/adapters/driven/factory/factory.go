// Package factory constructs driven adapters from configuration.
package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/ragweave/ragweave/internal/adapters/driven/embedding/ollama"
	"github.com/ragweave/ragweave/internal/adapters/driven/embedding/openai"
	"github.com/ragweave/ragweave/internal/adapters/driven/graph/memory"
	"github.com/ragweave/ragweave/internal/adapters/driven/graph/neo4j"
	"github.com/ragweave/ragweave/internal/adapters/driven/graph/sqlite"
	"github.com/ragweave/ragweave/internal/config"
	"github.com/ragweave/ragweave/internal/core/domain"
	"github.com/ragweave/ragweave/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// NewEmbeddingService creates the configured embedding provider.
func NewEmbeddingService(cfg *config.Config) (driven.EmbeddingService, error) {
	switch cfg.Embedding.Provider {
	case config.ProviderOpenAI:
		return openai.NewEmbeddingService(openai.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		})
	case config.ProviderOllama:
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Embedding.Provider)
	}
}

// NewValidatedEmbeddingService creates the configured embedding provider
// and verifies it is reachable before handing it out.
func NewValidatedEmbeddingService(cfg *config.Config) (driven.EmbeddingService, error) {
	svc, err := NewEmbeddingService(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close() //nolint:errcheck
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// NewGraphStore creates the configured chunk graph backend. dims is the
// embedding dimensionality the store must enforce.
func NewGraphStore(ctx context.Context, cfg *config.Config, dims int) (driven.GraphStore, error) {
	switch cfg.Store.Backend {
	case config.StoreNeo4j:
		return neo4j.NewStore(ctx, neo4j.Config{
			URI:        cfg.Store.Neo4j.URI,
			Username:   cfg.Store.Neo4j.Username,
			Password:   cfg.Store.Neo4j.Password,
			Dimensions: dims,
		})
	case config.StoreSQLite:
		return sqlite.NewStore(cfg.Store.DataDir, dims)
	case config.StoreMemory:
		return memory.NewStore(dims), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}
