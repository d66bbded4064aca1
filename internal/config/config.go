// Package config loads ragweave configuration from a TOML file with an
// optional .env overlay for secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/ragweave/ragweave/internal/logger"
)

// Store backends.
const (
	StoreNeo4j  = "neo4j"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Embedding providers.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Config is the full application configuration.
type Config struct {
	Store     StoreConfig     `toml:"store"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Ingestion IngestionConfig `toml:"ingestion"`
}

// StoreConfig selects and configures the chunk graph backend.
type StoreConfig struct {
	// Backend is one of neo4j, sqlite, memory.
	Backend string `toml:"backend"`

	// DataDir holds the SQLite database. Empty means ~/.ragweave/data.
	DataDir string `toml:"data_dir"`

	Neo4j Neo4jConfig `toml:"neo4j"`
}

// Neo4jConfig holds Neo4j connection settings.
type Neo4jConfig struct {
	URI      string `toml:"uri"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	// Provider is one of openai, ollama.
	Provider string `toml:"provider"`

	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`

	// Dimensions overrides the model's default vector size.
	Dimensions int `toml:"dimensions"`
}

// ChunkingConfig controls the fixed-window splitter.
type ChunkingConfig struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// IngestionConfig controls repository ingestion.
type IngestionConfig struct {
	// MaxFileSize caps individual repository files, in bytes.
	MaxFileSize int64 `toml:"max_file_size"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: StoreSQLite,
			Neo4j: Neo4jConfig{
				URI:      "bolt://localhost:7687",
				Username: "neo4j",
			},
		},
		Embedding: EmbeddingConfig{
			Provider: ProviderOllama,
		},
		Chunking: ChunkingConfig{
			Size:    1000,
			Overlap: 200,
		},
		Ingestion: IngestionConfig{
			MaxFileSize: 1 << 20,
		},
	}
}

// Load reads the TOML file at path (default ~/.ragweave/config.toml when
// path is empty), overlays a .env file from the working directory if one
// exists, then applies environment variable overrides. A missing config
// file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".ragweave", "config.toml")
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		logger.Debug("No config file at %s, using defaults", path)
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	// Secrets commonly live in a .env next to where the CLI runs.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Debug("Skipping .env: %v", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv lets environment variables override file values, so API keys
// and passwords stay out of config files.
func (c *Config) applyEnv() {
	if v := os.Getenv("RAGWEAVE_STORE"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("NEO4J_URI"); v != "" {
		c.Store.Neo4j.URI = v
	}
	if v := os.Getenv("NEO4J_USERNAME"); v != "" {
		c.Store.Neo4j.Username = v
	}
	if v := os.Getenv("NEO4J_PASSWORD"); v != "" {
		c.Store.Neo4j.Password = v
	}
	if v := os.Getenv("RAGWEAVE_EMBEDDING_PROVIDER"); v != "" {
		c.Embedding.Provider = v
	}
	if v := os.Getenv("RAGWEAVE_EMBEDDING_MODEL"); v != "" {
		c.Embedding.Model = v
	}
	if v := os.Getenv("RAGWEAVE_EMBEDDING_BASE_URL"); v != "" {
		c.Embedding.BaseURL = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Embedding.APIKey = v
	}
}

// Validate rejects configurations the factories would choke on later.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreNeo4j, StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	switch c.Embedding.Provider {
	case ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider)
	}

	if c.Chunking.Size <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.Chunking.Size)
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("chunk overlap %d must be in [0, %d)", c.Chunking.Overlap, c.Chunking.Size)
	}
	if c.Ingestion.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive, got %d", c.Ingestion.MaxFileSize)
	}

	return nil
}
