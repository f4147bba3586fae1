package interfaces

import (
	"context"

	"github.com/mnemo-lab/mnemosyne/pkg/domain/types"
)

// EmbeddingClient is the raw provider call: one embedding per (text, task)
// pair. Implementations surface throttling as model.ErrRateLimited so the
// generator can back off and retry.
type EmbeddingClient interface {
	EmbedContent(ctx context.Context, text string, task types.EmbeddingTask) ([]float32, error)
}

// Embedder produces store-ready vectors: truncated to the fixed dimension,
// L2-normalized, with retry handling already applied.
type Embedder interface {
	Embed(ctx context.Context, text string, task types.EmbeddingTask) ([]float32, error)
}

// SizeEstimator estimates the provider-visible token count of a prompt.
// Used by the batch splitter to keep every sub-batch under the input limit.
type SizeEstimator interface {
	EstimateTokens(ctx context.Context, prompt string) (int, error)
}
