package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, StoreSQLite, cfg.Store.Backend)
	assert.Equal(t, ProviderOllama, cfg.Embedding.Provider)
	assert.Equal(t, 1000, cfg.Chunking.Size)
	assert.Equal(t, 200, cfg.Chunking.Overlap)
	assert.Equal(t, int64(1<<20), cfg.Ingestion.MaxFileSize)
}

func TestLoad_ParsesTOML(t *testing.T) {
	path := writeConfig(t, `
[store]
backend = "neo4j"

[store.neo4j]
uri = "bolt://db.example.com:7687"
username = "graph"

[embedding]
provider = "openai"
model = "text-embedding-3-large"

[chunking]
size = 500
overlap = 50
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StoreNeo4j, cfg.Store.Backend)
	assert.Equal(t, "bolt://db.example.com:7687", cfg.Store.Neo4j.URI)
	assert.Equal(t, "graph", cfg.Store.Neo4j.Username)
	assert.Equal(t, ProviderOpenAI, cfg.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-large", cfg.Embedding.Model)
	assert.Equal(t, 500, cfg.Chunking.Size)
	assert.Equal(t, 50, cfg.Chunking.Overlap)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[embedding]
provider = "openai"
api_key = "from-file"
`)

	t.Setenv("OPENAI_API_KEY", "from-env")
	t.Setenv("NEO4J_PASSWORD", "s3cret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Embedding.APIKey)
	assert.Equal(t, "s3cret", cfg.Store.Neo4j.Password)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeConfig(t, "store = [broken")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"bad backend", func(c *Config) { c.Store.Backend = "postgres" }, "unknown store backend"},
		{"bad provider", func(c *Config) { c.Embedding.Provider = "cohere" }, "unknown embedding provider"},
		{"zero chunk size", func(c *Config) { c.Chunking.Size = 0 }, "chunk size"},
		{"overlap too large", func(c *Config) { c.Chunking.Overlap = c.Chunking.Size }, "overlap"},
		{"negative overlap", func(c *Config) { c.Chunking.Overlap = -1 }, "overlap"},
		{"zero max file size", func(c *Config) { c.Ingestion.MaxFileSize = 0 }, "max file size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
