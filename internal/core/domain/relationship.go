package domain

import "regexp"

// Relationship types written by the ingestion pipeline.
const (
	// RelBelongsTo links a chunk to its owning document.
	RelBelongsTo = "BELONGS_TO"

	// RelNext links consecutive chunks of a plain document.
	RelNext = "NEXT"

	// RelNextInFile links consecutive chunks that originate from the same
	// file within one repository ingestion. Chunks from different files
	// are never linked.
	RelNextInFile = "NEXT_IN_FILE"
)

// relTypePattern constrains relationship types to Cypher-safe identifiers.
// Types are interpolated into queries, so anything else is rejected.
var relTypePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// ValidRelType reports whether t is an acceptable relationship type.
func ValidRelType(t string) bool {
	return relTypePattern.MatchString(t)
}

// Relationship is a typed, directed edge between two chunks. Properties
// must be flat scalar values.
type Relationship struct {
	SourceID   string
	TargetID   string
	Type       string
	Properties map[string]any
}
