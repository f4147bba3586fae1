package gemini_test

import (
	"context"
	"os"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/types"
	"github.com/mnemo-lab/mnemosyne/pkg/service/gemini"
)

func newTestClient(t *testing.T) *gemini.Client {
	t.Helper()

	apiKey := os.Getenv("TEST_GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("TEST_GEMINI_API_KEY not set")
	}

	client, err := gemini.New(context.Background(), apiKey)
	gt.NoError(t, err).Required()
	return client
}

func TestEmbedContent_WithRealGemini(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	vec, err := client.EmbedContent(ctx, "How do I reset my password?", types.TaskQuestionAnswering)
	gt.NoError(t, err).Required()
	gt.Array(t, vec).Length(model.EmbeddingDimension)
}

func TestEstimateTokens_WithRealGemini(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	tokens, err := client.EstimateTokens(ctx, "a short prompt for counting")
	gt.NoError(t, err).Required()
	gt.Number(t, tokens).Greater(0)
}
