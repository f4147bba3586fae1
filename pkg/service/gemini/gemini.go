package gemini

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/types"
	"google.golang.org/genai"
)

const (
	// DefaultEmbeddingModel produces the vectors stored alongside nodes
	DefaultEmbeddingModel = "gemini-embedding-001"
	// DefaultGenerationModel backs token counting for batch sizing
	DefaultGenerationModel = "gemini-2.0-flash"
)

// Client wraps the Gemini API for embedding generation and token counting.
// Throttling responses are converted into model.ErrRateLimited carrying the
// provider-suggested retry delay so callers can back off precisely.
type Client struct {
	client          *genai.Client
	embeddingModel  string
	generationModel string
}

type Option func(*Client)

// WithEmbeddingModel overrides the embedding model name
func WithEmbeddingModel(name string) Option {
	return func(c *Client) {
		c.embeddingModel = name
	}
}

// WithGenerationModel overrides the model used for token counting
func WithGenerationModel(name string) Option {
	return func(c *Client) {
		c.generationModel = name
	}
}

func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client")
	}

	c := &Client{
		client:          gc,
		embeddingModel:  DefaultEmbeddingModel,
		generationModel: DefaultGenerationModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// EmbedContent generates one raw embedding for the text under the given
// task type. The vector comes back at the provider's native length; the
// caller truncates and normalizes it.
func (c *Client) EmbedContent(ctx context.Context, text string, task types.EmbeddingTask) ([]float32, error) {
	resp, err := c.client.Models.EmbedContent(ctx,
		c.embeddingModel,
		genai.Text(text),
		&genai.EmbedContentConfig{
			TaskType:             string(task),
			OutputDimensionality: genai.Ptr(int32(model.EmbeddingDimension)),
		},
	)
	if err != nil {
		return nil, convertError(err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, goerr.Wrap(model.ErrEmbeddingFailed, "empty embedding response",
			goerr.V("model", c.embeddingModel), goerr.V("task", task))
	}

	return resp.Embeddings[0].Values, nil
}

// EstimateTokens counts prompt tokens with the generation model's tokenizer
func (c *Client) EstimateTokens(ctx context.Context, prompt string) (int, error) {
	resp, err := c.client.Models.CountTokens(ctx, c.generationModel, genai.Text(prompt), nil)
	if err != nil {
		return 0, convertError(err)
	}
	return int(resp.TotalTokens), nil
}

// convertError maps provider throttling (HTTP 429) onto model.ErrRateLimited
// with the RetryInfo delay when the response carries one.
func convertError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return goerr.Wrap(err, "gemini request failed")
	}
	if apiErr.Code != 429 {
		return goerr.Wrap(err, "gemini request failed",
			goerr.V("status", apiErr.Status), goerr.V("code", apiErr.Code))
	}
	return model.NewRateLimitedError(retryDelay(apiErr), err)
}

// retryDelay extracts google.rpc.RetryInfo's retryDelay from error details
func retryDelay(apiErr genai.APIError) time.Duration {
	for _, detail := range apiErr.Details {
		typeURL, _ := detail["@type"].(string)
		if !strings.HasSuffix(typeURL, "google.rpc.RetryInfo") {
			continue
		}
		raw, _ := detail["retryDelay"].(string)
		if raw == "" {
			continue
		}
		if d, err := time.ParseDuration(raw); err == nil {
			return d
		}
	}
	return 0
}
