package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage ingested documents",
	Long:  `List documents, inspect their chunks, explore the graph, or delete them.`,
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all ingested documents",
	Args:  cobra.NoArgs,
	RunE:  runDocsList,
}

var docsChunksCmd = &cobra.Command{
	Use:   "chunks [doc-id]",
	Short: "Print a document's chunks in order",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsChunks,
}

var docsRelatedCmd = &cobra.Command{
	Use:   "related [chunk-id]",
	Short: "Show chunks connected to a chunk in the graph",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsRelated,
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document and all its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsDelete,
}

// relatedDepth is a flag for the related command.
var relatedDepth int

func init() {
	docsRelatedCmd.Flags().IntVarP(&relatedDepth, "depth", "d", 2, "maximum relationship hops")

	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsChunksCmd)
	docsCmd.AddCommand(docsRelatedCmd)
	docsCmd.AddCommand(docsDeleteCmd)
	rootCmd.AddCommand(docsCmd)
}

func runDocsList(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}

	stats, err := documentService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(stats) == 0 {
		cmd.Println("No documents ingested.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range stats {
		doc := stats[i].Document
		cmd.Printf("  %s\n", doc.ID)
		cmd.Printf("    Name: %s\n", doc.Filename)
		cmd.Printf("    Chunks: %d\n", stats[i].ChunkCount)
		cmd.Printf("    Status: %s\n", doc.Status)
		cmd.Printf("    Uploaded: %s\n", doc.UploadedAt.Format("2006-01-02 15:04:05"))
		if doc.RepoURL != "" {
			cmd.Printf("    Repository: %s (%d files)\n", doc.RepoURL, doc.FileCount)
		}
		cmd.Println()
	}
	return nil
}

func runDocsChunks(cmd *cobra.Command, args []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}

	chunks, err := documentService.Chunks(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get chunks: %w", err)
	}

	if len(chunks) == 0 {
		cmd.Printf("No chunks found for document: %s\n", args[0])
		return nil
	}

	for i := range chunks {
		cmd.Printf("[%d] %s\n", chunks[i].Index, chunks[i].ID)
		if chunks[i].FilePath != "" {
			cmd.Printf("    File: %s (%s)\n", chunks[i].FilePath, chunks[i].Language)
		}
		cmd.Printf("    %s\n", chunks[i].Content)
		cmd.Println()
	}
	return nil
}

func runDocsRelated(cmd *cobra.Command, args []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}

	related, err := searchService.Related(cmd.Context(), args[0], relatedDepth)
	if err != nil {
		return fmt.Errorf("failed to get related chunks: %w", err)
	}

	if len(related) == 0 {
		cmd.Printf("No related chunks for: %s\n", args[0])
		return nil
	}

	for i := range related {
		cmd.Printf("  [hop %d] %s\n", related[i].Distance, related[i].ChunkID)
		cmd.Printf("      %s\n", related[i].Content)
		cmd.Println()
	}
	return nil
}

func runDocsDelete(cmd *cobra.Command, args []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}

	if err := documentService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted document: %s\n", args[0])
	return nil
}
