package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/types"
	"github.com/mnemo-lab/mnemosyne/pkg/service/article"
	"github.com/mnemo-lab/mnemosyne/pkg/service/hierarchy"
	"github.com/mnemo-lab/mnemosyne/pkg/utils/errutil"
	"github.com/mnemo-lab/mnemosyne/pkg/utils/logging"
)

// PrecheckThreshold filters generated articles whose content is already
// covered by the store: any hierarchical match at or above this semantic
// distance skips the article.
const PrecheckThreshold = 0.85

// GenerateUseCase runs the article pipeline: split tickets into
// prompt-sized batches, generate candidate articles per batch, embed them,
// collapse near-duplicates, drop articles the store already covers, and
// ingest the survivors as article hierarchies.
type GenerateUseCase struct {
	repo      interfaces.Repository
	embedder  interfaces.Embedder
	writer    *article.Writer
	builder   *hierarchy.Builder
	estimator interfaces.SizeEstimator

	inputLimit   int
	initialCount int
	now          func() time.Time
}

func NewGenerateUseCase(repo interfaces.Repository, embedder interfaces.Embedder, writer *article.Writer, builder *hierarchy.Builder, estimator interfaces.SizeEstimator) *GenerateUseCase {
	return &GenerateUseCase{
		repo:         repo,
		embedder:     embedder,
		writer:       writer,
		builder:      builder,
		estimator:    estimator,
		inputLimit:   article.DefaultInputLimit,
		initialCount: 1,
		now:          time.Now,
	}
}

// SetInputLimit overrides the prompt size cap used for batch splitting
func (uc *GenerateUseCase) SetInputLimit(limit int) {
	uc.inputLimit = limit
}

// Run executes the full generation pipeline and returns the articles that
// were ingested.
func (uc *GenerateUseCase) Run(ctx context.Context, tickets []*model.Ticket, docs []*model.SourceDocument) ([]*model.Article, error) {
	logger := logging.From(ctx)

	batches, err := article.SplitBatches(ctx, tickets, docs, uc.estimator, uc.inputLimit, uc.initialCount)
	if err != nil {
		return nil, err
	}

	var candidates []*model.Article
	for _, batch := range batches {
		generated, err := uc.writer.Generate(ctx, batch.Docs, batch.Tickets)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, generated...)
	}
	logger.Info("generated candidate articles",
		"batches", len(batches), "candidates", len(candidates))

	for _, a := range candidates {
		if err := uc.embedArticle(ctx, a); err != nil {
			_ = errutil.Handle(ctx, err, "failed to embed article, it will be dropped in dedup")
		}
	}

	unique := article.Dedupe(ctx, candidates)

	var ingested []*model.Article
	for _, a := range unique {
		covered, err := uc.alreadyCovered(ctx, a)
		if err != nil {
			return ingested, err
		}
		if covered {
			logger.Info("skipping article already covered by the store", "question", a.Question)
			continue
		}

		if err := uc.ingestArticle(ctx, a); err != nil {
			return ingested, err
		}
		ingested = append(ingested, a)
	}

	logger.Info("article generation completed",
		"candidates", len(candidates), "unique", len(unique), "ingested", len(ingested))
	return ingested, nil
}

func (uc *GenerateUseCase) embedArticle(ctx context.Context, a *model.Article) error {
	semantic, err := uc.embedder.Embed(ctx, a.FullText, types.TaskSemanticSimilarity)
	if err != nil {
		return goerr.Wrap(err, "failed to embed article", goerr.V("question", a.Question))
	}
	retrieval, err := uc.embedder.Embed(ctx, a.FullText, types.TaskRetrievalDocument)
	if err != nil {
		return goerr.Wrap(err, "failed to embed article", goerr.V("question", a.Question))
	}
	a.SemanticEmbedding = semantic
	a.RetrievalEmbedding = retrieval
	return nil
}

// alreadyCovered checks the store for content highly similar to the
// article via the hierarchical search at the precheck threshold.
func (uc *GenerateUseCase) alreadyCovered(ctx context.Context, a *model.Article) (bool, error) {
	search := NewSearchUseCase(uc.repo, uc.embedder)
	resp, err := search.Hierarchical(ctx, a.SemanticEmbedding, types.FieldSemanticEmbedding, PrecheckThreshold)
	if err != nil {
		return false, goerr.Wrap(err, "article precheck search failed", goerr.V("question", a.Question))
	}
	return len(resp.Results) > 0, nil
}

func (uc *GenerateUseCase) ingestArticle(ctx context.Context, a *model.Article) error {
	h, err := uc.builder.Build(ctx, &hierarchy.Input{
		DocumentID:         string(a.ID),
		Title:              a.Question,
		BodyHTML:           a.AnswerHTML,
		Kind:               types.KindArticle,
		AreaTag:            a.AreaTag,
		SubAreaTag:         a.SubAreaTag,
		OriginIDs:          a.TicketIDs,
		SemanticEmbedding:  a.SemanticEmbedding,
		RetrievalEmbedding: a.RetrievalEmbedding,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to build article hierarchy", goerr.V("question", a.Question))
	}

	if err := uc.repo.Node().PutHierarchy(ctx, a.AreaTag, h.Nodes(uc.now().UTC())); err != nil {
		return goerr.Wrap(err, "failed to store article hierarchy", goerr.V("question", a.Question))
	}
	return nil
}
