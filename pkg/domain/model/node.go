package model

import (
	"fmt"
	"time"

	"github.com/mnemo-lab/mnemosyne/pkg/domain/types"
)

// EmbeddingDimension is the dimension of every stored embedding vector.
// Raw provider vectors are truncated to this length before normalization.
const EmbeddingDimension = 1536

// ContentNode is the unit stored and searched: a full document, one of its
// sections, or a fine-grained chunk of a section. Node ids are derived from
// the document id and the positional indices, so re-ingesting a document
// overwrites its nodes instead of duplicating them.
type ContentNode struct {
	ID         string
	DocumentID string
	Type       types.NodeType
	Text       string
	Index      int

	// SemanticEmbedding and RetrievalEmbedding are unit-norm vectors of
	// EmbeddingDimension length, or nil for a node with empty text. A node
	// without embeddings is never returned by vector search.
	SemanticEmbedding  []float32
	RetrievalEmbedding []float32

	// ParentID references the owning section node for chunks. It is a
	// lookup key only; the section record is not owned by the chunk.
	ParentID string

	SourceTitle string
	AreaTag     string
	SubAreaTag  string
	OriginIDs   []string
	CreatedAt   time.Time
}

// RootNodeID returns the node id of the whole-document node
func RootNodeID(documentID string) string {
	return documentID
}

// SectionNodeID returns the deterministic id of a section node
func SectionNodeID(documentID string, sectionIndex int) string {
	return fmt.Sprintf("%s_section_%d", documentID, sectionIndex)
}

// ChunkNodeID returns the deterministic id of a chunk node
func ChunkNodeID(documentID string, sectionIndex, chunkIndex int) string {
	return fmt.Sprintf("%s_section_%d_chunk_%d", documentID, sectionIndex, chunkIndex)
}

// Searchable reports whether the node carries embeddings and may appear in
// vector search results.
func (n *ContentNode) Searchable() bool {
	return len(n.SemanticEmbedding) > 0 && len(n.RetrievalEmbedding) > 0
}

// Embedding returns the vector stored under the given field
func (n *ContentNode) Embedding(field types.EmbeddingField) []float32 {
	if field == types.FieldRetrievalEmbedding {
		return n.RetrievalEmbedding
	}
	return n.SemanticEmbedding
}
