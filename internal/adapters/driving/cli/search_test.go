package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute("search")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_PrintsResults(t *testing.T) {
	_, _, _, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("search", "how does chunking work")
	assert.NoError(t, err)
	assert.Contains(t, out, "notes.txt#0")
	assert.Contains(t, out, "matching content")
	assert.Contains(t, out, "0.8700")
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	_, _, _, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("search", "query", "--json")
	assert.NoError(t, err)
	assert.Contains(t, out, `"doc-1_chunk_0"`)
}

func TestSearchCmd_EmptyResults(t *testing.T) {
	search, _, _, cleanup := setupTestServices()
	defer cleanup()
	search.results = nil

	out, err := execute("search", "nothing matches")
	assert.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_PropagatesError(t *testing.T) {
	search, _, _, cleanup := setupTestServices()
	defer cleanup()
	search.err = errors.New("store unreachable")

	_, err := execute("search", "query")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
}
