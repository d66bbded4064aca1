// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - GraphStore: chunk graph persistence and similarity search primitives
//   - EmbeddingService: text to fixed-dimension vector conversion
//
// # Required for ingestion only
//
//   - TextExtractor: raw file to plain text
//   - RepoFetcher: repository URL to local working copy
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: any adapter package
package driven
