package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/types"
	"github.com/mnemo-lab/mnemosyne/pkg/service/hierarchy"
	"github.com/mnemo-lab/mnemosyne/pkg/utils/errutil"
	"github.com/mnemo-lab/mnemosyne/pkg/utils/logging"
	"golang.org/x/time/rate"
)

// defaultIngestInterval paces document processing so embedding calls for
// consecutive documents do not burst into the provider's rate limits.
const defaultIngestInterval = 15 * time.Second

// IngestUseCase turns source documents into stored node hierarchies,
// applying the freshness policy so unchanged documents are not reprocessed.
type IngestUseCase struct {
	repo    interfaces.Repository
	builder *hierarchy.Builder
	pacer   *rate.Limiter
	now     func() time.Time
}

func NewIngestUseCase(repo interfaces.Repository, builder *hierarchy.Builder) *IngestUseCase {
	return &IngestUseCase{
		repo:    repo,
		builder: builder,
		pacer:   rate.NewLimiter(rate.Every(defaultIngestInterval), 1),
		now:     time.Now,
	}
}

// SetPaceInterval overrides the inter-document pacing interval
func (uc *IngestUseCase) SetPaceInterval(d time.Duration) {
	if d <= 0 {
		uc.pacer = rate.NewLimiter(rate.Inf, 1)
		return
	}
	uc.pacer = rate.NewLimiter(rate.Every(d), 1)
}

// IngestDocument ingests one document according to the freshness policy:
// documents stored newer than the source revision are skipped, stale ones
// are deleted and re-inserted, absent ones inserted. force always replaces.
// It returns the decision that was applied.
func (uc *IngestUseCase) IngestDocument(ctx context.Context, doc *model.SourceDocument, force bool) (types.IngestDecision, error) {
	logger := logging.From(ctx)

	stored, err := uc.repo.Node().LatestTimestampByTitle(ctx, doc.Title)
	if err != nil {
		return "", goerr.Wrap(err, "failed to check stored document", goerr.V("title", doc.Title))
	}

	decision := types.Decide(types.FreshnessOf(stored, doc.UpdatedAt), force)
	switch decision {
	case types.DecisionSkip:
		logger.Info("document up to date, skipping", "title", doc.Title)
		return decision, nil

	case types.DecisionReplace:
		deleted, err := uc.repo.Node().DeleteByTitle(ctx, doc.Title)
		if err != nil {
			return "", goerr.Wrap(err, "failed to delete stale document", goerr.V("title", doc.Title))
		}
		logger.Info("replacing stored document", "title", doc.Title, "deletedNodes", deleted)
	}

	h, err := uc.builder.Build(ctx, &hierarchy.Input{
		DocumentID: doc.ID,
		Title:      doc.Title,
		BodyHTML:   doc.BodyHTML,
		Kind:       types.KindDocument,
		AreaTag:    doc.AreaTag,
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to build document hierarchy", goerr.V("title", doc.Title))
	}

	nodes := h.Nodes(uc.now().UTC())
	if err := uc.repo.Node().PutHierarchy(ctx, doc.AreaTag, nodes); err != nil {
		return "", goerr.Wrap(err, "failed to store document hierarchy", goerr.V("title", doc.Title))
	}

	logger.Info("document ingested",
		"title", doc.Title,
		"decision", decision,
		"sections", len(h.Sections),
		"nodes", len(nodes))
	return decision, nil
}

// IngestAll processes documents sequentially with pacing between provider
// calls. A failing document is logged and skipped; the run continues. It
// reports how many documents were stored (inserted or replaced).
func (uc *IngestUseCase) IngestAll(ctx context.Context, docs []*model.SourceDocument, force bool) (int, error) {
	logger := logging.From(ctx)
	stored := 0

	for _, doc := range docs {
		decision, err := uc.IngestDocument(ctx, doc, force)
		if err != nil {
			if ctx.Err() != nil {
				return stored, ctx.Err()
			}
			_ = errutil.Handle(ctx, err, "document ingestion failed, continuing")
			continue
		}
		if decision != types.DecisionSkip {
			stored++
			if err := uc.pacer.Wait(ctx); err != nil {
				return stored, err
			}
		}
	}

	logger.Info("ingestion run completed", "documents", len(docs), "stored", stored)
	return stored, nil
}
