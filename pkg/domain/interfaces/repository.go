package interfaces

import (
	"context"

	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
)

// Repository defines the interface for data persistence
type Repository interface {
	Node() NodeRepository

	Close() error
}

// DocumentSource supplies pre-fetched help-center documents for ingestion.
// Fetching and pagination against the ticketing vendor happen outside this
// module.
type DocumentSource interface {
	ListDocuments(ctx context.Context) ([]*model.SourceDocument, error)
}
