package usecase

import (
	"github.com/m-mizutani/gollem"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/mnemo-lab/mnemosyne/pkg/service/article"
	"github.com/mnemo-lab/mnemosyne/pkg/service/hierarchy"
)

type UseCases struct {
	repo      interfaces.Repository
	embedder  interfaces.Embedder
	estimator interfaces.SizeEstimator
	llmClient gollem.LLMClient
	builder   *hierarchy.Builder
	writer    *article.Writer

	Ingest   *IngestUseCase
	Search   *SearchUseCase
	Generate *GenerateUseCase
	Answer   *AnswerUseCase
}

type Option func(*UseCases)

// WithLLMClient enables article generation and question answering
func WithLLMClient(client gollem.LLMClient) Option {
	return func(uc *UseCases) {
		uc.llmClient = client
	}
}

// WithSizeEstimator sets the token estimator used for batch splitting
func WithSizeEstimator(est interfaces.SizeEstimator) Option {
	return func(uc *UseCases) {
		uc.estimator = est
	}
}

func New(repo interfaces.Repository, embedder interfaces.Embedder, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:     repo,
		embedder: embedder,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.builder = hierarchy.New(embedder)
	uc.Ingest = NewIngestUseCase(repo, uc.builder)
	uc.Search = NewSearchUseCase(repo, embedder)

	if uc.llmClient != nil {
		uc.writer = article.NewWriter(uc.llmClient)
		uc.Generate = NewGenerateUseCase(repo, embedder, uc.writer, uc.builder, uc.estimator)
		uc.Answer = NewAnswerUseCase(uc.Search, uc.llmClient)
	}

	return uc
}
