package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	llmgemini "github.com/m-mizutani/gollem/llm/gemini"
	"github.com/mnemo-lab/mnemosyne/pkg/service/gemini"
	"github.com/urfave/cli/v3"
)

// Gemini holds configuration for the Gemini clients: the embedding client
// keyed by API key, and the generation client bound to a Cloud project.
type Gemini struct {
	apiKey          string
	projectID       string
	location        string
	embeddingModel  string
	generationModel string
}

// Flags returns CLI flags for Gemini configuration
func (g *Gemini) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-api-key",
			Usage:       "API key for Gemini embedding and token counting",
			Sources:     cli.EnvVars("MNEMOSYNE_GEMINI_API_KEY"),
			Destination: &g.apiKey,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini generation",
			Sources:     cli.EnvVars("MNEMOSYNE_GEMINI_PROJECT"),
			Destination: &g.projectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini generation",
			Value:       "us-central1",
			Sources:     cli.EnvVars("MNEMOSYNE_GEMINI_LOCATION"),
			Destination: &g.location,
		},
		&cli.StringFlag{
			Name:        "gemini-embedding-model",
			Usage:       "Embedding model name",
			Value:       gemini.DefaultEmbeddingModel,
			Sources:     cli.EnvVars("MNEMOSYNE_GEMINI_EMBEDDING_MODEL"),
			Destination: &g.embeddingModel,
		},
		&cli.StringFlag{
			Name:        "gemini-generation-model",
			Usage:       "Generation model name",
			Value:       gemini.DefaultGenerationModel,
			Sources:     cli.EnvVars("MNEMOSYNE_GEMINI_GENERATION_MODEL"),
			Destination: &g.generationModel,
		},
	}
}

// LogValue returns the configuration as structured log attributes. The API
// key is never logged.
func (g Gemini) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("api_key_set", g.apiKey != ""),
		slog.String("project_id", g.projectID),
		slog.String("location", g.location),
		slog.String("embedding_model", g.embeddingModel),
		slog.String("generation_model", g.generationModel),
	)
}

// Configure creates the Gemini LLM client for article generation and
// question answering. Returns nil if projectID is not configured
// (generation features will be disabled).
func (g *Gemini) Configure(ctx context.Context) (gollem.LLMClient, error) {
	if g.projectID == "" {
		return nil, nil
	}

	client, err := llmgemini.New(ctx, g.projectID, g.location)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini LLM client")
	}

	return client, nil
}

// ConfigureEmbedding creates the embedding client. The API key is required
// because every command that reaches the store needs embeddings.
func (g *Gemini) ConfigureEmbedding(ctx context.Context) (*gemini.Client, error) {
	if g.apiKey == "" {
		return nil, goerr.New("gemini-api-key is required")
	}

	client, err := gemini.New(ctx, g.apiKey,
		gemini.WithEmbeddingModel(g.embeddingModel),
		gemini.WithGenerationModel(g.generationModel),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini embedding client")
	}

	return client, nil
}
