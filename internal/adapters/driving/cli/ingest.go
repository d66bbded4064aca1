package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a document into the chunk graph",
	Long: `Extracts text from the file, splits it into overlapping chunks,
embeds every chunk and persists the result as a linked chunk graph.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]

	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}

	result, err := ingestionService.IngestDocument(cmd.Context(), path, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingested %s\n", result.Filename)
	cmd.Printf("  Document ID: %s\n", result.ID)
	cmd.Printf("  Size: %d bytes\n", result.Size)
	cmd.Printf("  Chunks: %d\n", result.ChunksCreated)
	return nil
}
