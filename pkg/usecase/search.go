package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/types"
	"github.com/mnemo-lab/mnemosyne/pkg/utils/logging"
)

const (
	sectionSearchLimit = 10
	// SectionThreshold is the fixed stage-1 floor; only reasonably close
	// sections open their chunks for stage 2.
	SectionThreshold = 0.5

	chunkSearchLimit = 10
	flatSearchLimit  = 20
)

// SearchUseCase runs vector retrieval over the node store, either flat
// across every node type or hierarchically (sections first, then chunks of
// the matched sections).
type SearchUseCase struct {
	repo     interfaces.Repository
	embedder interfaces.Embedder
}

func NewSearchUseCase(repo interfaces.Repository, embedder interfaces.Embedder) *SearchUseCase {
	return &SearchUseCase{repo: repo, embedder: embedder}
}

// Query embeds the query text and searches. Flat mode searches every node
// type in one pass; hierarchical mode narrows chunks through their
// sections.
func (uc *SearchUseCase) Query(ctx context.Context, query string, field types.EmbeddingField, threshold float64, flat bool) (*model.SearchResponse, error) {
	vec, err := uc.embedder.Embed(ctx, query, types.TaskQuestionAnswering)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed search query")
	}

	if flat {
		return uc.Flat(ctx, vec, field, threshold)
	}
	return uc.Hierarchical(ctx, vec, field, threshold)
}

// Flat searches all node types in one query and aggregates the distinct
// origin ticket ids and document ids of the matched nodes.
func (uc *SearchUseCase) Flat(ctx context.Context, vec []float32, field types.EmbeddingField, threshold float64) (*model.SearchResponse, error) {
	hits, err := uc.repo.Node().FindNearest(ctx, interfaces.NodeQuery{
		Vector:    vec,
		Field:     field,
		Limit:     flatSearchLimit,
		Threshold: threshold,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "flat search failed")
	}

	resp := &model.SearchResponse{}
	ticketSeen := map[string]bool{}
	docSeen := map[string]bool{}
	for _, hit := range hits {
		resp.Results = append(resp.Results, model.ResultFromHit(hit))
		for _, id := range hit.Node.OriginIDs {
			if !ticketSeen[id] {
				ticketSeen[id] = true
				resp.TicketIDs = append(resp.TicketIDs, id)
			}
		}
		if id := hit.Node.DocumentID; id != "" && !docSeen[id] {
			docSeen[id] = true
			resp.DocumentIDs = append(resp.DocumentIDs, id)
		}
	}
	return resp, nil
}

// Hierarchical runs the two-stage retrieval: sections above the fixed
// stage-1 floor first, then chunks restricted to the matched sections with
// the caller's threshold. No matching section short-circuits to an empty
// response; finding nothing relevant is a valid outcome, not an error.
func (uc *SearchUseCase) Hierarchical(ctx context.Context, vec []float32, field types.EmbeddingField, threshold float64) (*model.SearchResponse, error) {
	logger := logging.From(ctx)

	sections, err := uc.repo.Node().FindNearest(ctx, interfaces.NodeQuery{
		Vector:    vec,
		Field:     field,
		Types:     types.SectionTypes(),
		Limit:     sectionSearchLimit,
		Threshold: SectionThreshold,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "section search failed")
	}
	if len(sections) == 0 {
		logger.Info("no relevant sections found")
		return &model.SearchResponse{}, nil
	}

	sectionIDs := make([]string, len(sections))
	for i, s := range sections {
		sectionIDs[i] = s.Node.ID
	}
	logger.Debug("section stage matched", "sections", len(sectionIDs))

	chunks, err := uc.repo.Node().FindNearest(ctx, interfaces.NodeQuery{
		Vector:    vec,
		Field:     field,
		Types:     types.ChunkTypes(),
		ParentIDs: sectionIDs,
		Limit:     chunkSearchLimit,
		Threshold: threshold,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "chunk search failed")
	}

	resp := &model.SearchResponse{}
	for _, hit := range chunks {
		resp.Results = append(resp.Results, model.ResultFromHit(hit))
	}
	return resp, nil
}
