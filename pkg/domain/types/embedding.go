package types

import "fmt"

// EmbeddingTask selects what the embedding provider optimizes the vector
// for. The values are the provider's task type identifiers; they change
// nothing in local processing.
type EmbeddingTask string

const (
	TaskSemanticSimilarity EmbeddingTask = "SEMANTIC_SIMILARITY"
	TaskRetrievalDocument  EmbeddingTask = "RETRIEVAL_DOCUMENT"
	TaskQuestionAnswering  EmbeddingTask = "QUESTION_ANSWERING"
)

// IsValid checks if the embedding task is valid
func (t EmbeddingTask) IsValid() bool {
	switch t {
	case TaskSemanticSimilarity, TaskRetrievalDocument, TaskQuestionAnswering:
		return true
	default:
		return false
	}
}

// String returns the string representation of the embedding task
func (t EmbeddingTask) String() string {
	return string(t)
}

// EmbeddingField names a stored vector field of a content node. Every node
// carries both fields; searches pick one.
type EmbeddingField string

const (
	FieldSemanticEmbedding  EmbeddingField = "semanticEmbedding"
	FieldRetrievalEmbedding EmbeddingField = "retrievalEmbedding"
)

// IsValid checks if the embedding field is valid
func (f EmbeddingField) IsValid() bool {
	return f == FieldSemanticEmbedding || f == FieldRetrievalEmbedding
}

// String returns the string representation of the embedding field
func (f EmbeddingField) String() string {
	return string(f)
}

// ParseEmbeddingField parses a string into an EmbeddingField
func ParseEmbeddingField(s string) (EmbeddingField, error) {
	f := EmbeddingField(s)
	if !f.IsValid() {
		return "", fmt.Errorf("invalid embedding field: %s", s)
	}
	return f, nil
}
