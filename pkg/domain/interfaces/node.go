package interfaces

import (
	"context"
	"time"

	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/types"
)

// NodeQuery describes one nearest-neighbor query over the node collection.
// Distance is the dot product of unit-norm vectors; results below
// Threshold are excluded. An empty Types slice matches every node type.
type NodeQuery struct {
	Vector    []float32
	Field     types.EmbeddingField
	Types     []types.NodeType
	ParentIDs []string
	Limit     int
	Threshold float64
}

// NodeRepository defines the interface for content node persistence and
// vector search.
type NodeRepository interface {
	// PutHierarchy upserts all nodes of one document as a single atomic
	// batch within the given area namespace. Either every node persists or
	// none do.
	PutHierarchy(ctx context.Context, area string, nodes []*model.ContentNode) error

	// FindNearest runs a nearest-neighbor query, ordered by the store's
	// native distance metric. Nodes without embeddings never match.
	FindNearest(ctx context.Context, q NodeQuery) ([]*model.SearchHit, error)

	// GetByTitle returns every node whose source title matches exactly
	GetByTitle(ctx context.Context, title string) ([]*model.ContentNode, error)

	// LatestTimestampByTitle returns the newest ingestion timestamp among
	// nodes with the given title, or the zero time when none exist.
	LatestTimestampByTitle(ctx context.Context, title string) (time.Time, error)

	// DeleteByTitle removes every node sharing the title and reports how
	// many were deleted.
	DeleteByTitle(ctx context.Context, title string) (int, error)
}
