package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/types"
	"github.com/mnemo-lab/mnemosyne/pkg/repository/memory"
	"github.com/mnemo-lab/mnemosyne/pkg/usecase"
)

func storedNode(id, docID string, nodeType types.NodeType, parentID string, vec []float32, originIDs ...string) *model.ContentNode {
	return &model.ContentNode{
		ID:                 id,
		DocumentID:         docID,
		Type:               nodeType,
		Text:               "text of " + id,
		ParentID:           parentID,
		SourceTitle:        "doc " + docID,
		OriginIDs:          originIDs,
		SemanticEmbedding:  model.NormalizeVector(vec),
		RetrievalEmbedding: model.NormalizeVector(vec),
		CreatedAt:          time.Now().UTC(),
	}
}

func seedStore(t *testing.T, repo *memory.Repository) {
	t.Helper()
	ctx := context.Background()

	nodes := []*model.ContentNode{
		storedNode("d1", "d1", types.NodeTypeFullDoc, "", []float32{1, 0, 0}, "T1", "T2"),
		storedNode("d1_section_0", "d1", types.NodeTypeDocSection, "", []float32{1, 0.1, 0}),
		storedNode("d1_section_0_chunk_0", "d1", types.NodeTypeDocChunk, "d1_section_0", []float32{1, 0.2, 0}),
		storedNode("d1_section_0_chunk_1", "d1", types.NodeTypeDocChunk, "d1_section_0", []float32{0, 0, 1}),
		storedNode("d1_section_1", "d1", types.NodeTypeDocSection, "", []float32{0, 1, 0}),
		storedNode("d1_section_1_chunk_0", "d1", types.NodeTypeDocChunk, "d1_section_1", []float32{1, 0, 0}),
		storedNode("a1", "a1", types.NodeTypeFullArticle, "", []float32{0.9, 0.1, 0}, "T2", "T3"),
	}
	gt.NoError(t, repo.Node().PutHierarchy(ctx, "platform", nodes))
}

func TestHierarchicalSearch(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	seedStore(t, repo)

	search := usecase.NewSearchUseCase(repo, &stubEmbedder{})
	query := model.NormalizeVector([]float32{1, 0, 0})

	resp := gt.R1(search.Hierarchical(ctx, query, types.FieldSemanticEmbedding, 0.6)).NoError(t)

	// section_1 is orthogonal to the query, so its chunk (which itself
	// matches the query perfectly) must not appear: chunk candidates come
	// only from matched sections.
	gt.Array(t, resp.Results).Length(1)
	gt.Value(t, resp.Results[0].NodeID).Equal("d1_section_0_chunk_0")
	gt.Value(t, resp.Results[0].ParentID).Equal("d1_section_0")
	gt.Bool(t, resp.Results[0].Type.IsChunk()).True()

	// hierarchical mode carries no aggregation
	gt.Array(t, resp.TicketIDs).Length(0)
}

func TestHierarchicalSearchNoSections(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	seedStore(t, repo)

	search := usecase.NewSearchUseCase(repo, &stubEmbedder{})

	// orthogonal to every section: stage 1 finds nothing, which is a
	// valid empty result rather than an error
	query := model.NormalizeVector([]float32{0, 0, -1})
	resp := gt.R1(search.Hierarchical(ctx, query, types.FieldSemanticEmbedding, 0.1)).NoError(t)
	gt.Array(t, resp.Results).Length(0)
}

func TestFlatSearchAggregation(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	seedStore(t, repo)

	search := usecase.NewSearchUseCase(repo, &stubEmbedder{})
	query := model.NormalizeVector([]float32{1, 0, 0})

	resp := gt.R1(search.Flat(ctx, query, types.FieldSemanticEmbedding, 0.5)).NoError(t)
	gt.Number(t, len(resp.Results)).Greater(1)

	// origin ids are deduplicated across hits (T2 appears on two nodes)
	gt.Array(t, resp.TicketIDs).Equal([]string{"T1", "T2", "T3"})

	docSeen := map[string]int{}
	for _, id := range resp.DocumentIDs {
		docSeen[id]++
		gt.Number(t, docSeen[id]).Equal(1)
	}
}

func TestQueryEmbedsAndSearches(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	seedStore(t, repo)

	embedder := &stubEmbedder{vectors: map[string][]float32{
		"how do I set up?": {1, 0, 0},
	}}
	search := usecase.NewSearchUseCase(repo, embedder)

	resp := gt.R1(search.Query(ctx, "how do I set up?", types.FieldSemanticEmbedding, 0.6, false)).NoError(t)
	gt.Array(t, resp.Results).Length(1)
	gt.Value(t, resp.Results[0].NodeID).Equal("d1_section_0_chunk_0")
}

func TestAlreadyCovered(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	seedStore(t, repo)

	embedder := &stubEmbedder{}
	gen := usecase.NewGenerateUseCase(repo, embedder, nil, nil, nil)

	near := &model.Article{
		Question:          "duplicate question",
		SemanticEmbedding: model.NormalizeVector([]float32{1, 0.15, 0}),
	}
	covered := gt.R1(usecase.AlreadyCovered(gen, ctx, near)).NoError(t)
	gt.Bool(t, covered).True()

	far := &model.Article{
		Question:          "novel question",
		SemanticEmbedding: model.NormalizeVector([]float32{0, 0, 1}),
	}
	covered = gt.R1(usecase.AlreadyCovered(gen, ctx, far)).NoError(t)
	gt.Bool(t, covered).False()
}
