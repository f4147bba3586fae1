package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/types"
	"github.com/mnemo-lab/mnemosyne/pkg/repository/memory"
)

func node(id, title string, nodeType types.NodeType, parentID string, vec []float32) *model.ContentNode {
	return &model.ContentNode{
		ID:                 id,
		DocumentID:         "doc",
		Type:               nodeType,
		Text:               "text of " + id,
		ParentID:           parentID,
		SourceTitle:        title,
		SemanticEmbedding:  model.NormalizeVector(vec),
		RetrievalEmbedding: model.NormalizeVector(vec),
		CreatedAt:          time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestFindNearestOrdering(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	nodes := []*model.ContentNode{
		node("n1", "doc A", types.NodeTypeDocSection, "", []float32{1, 0}),
		node("n2", "doc A", types.NodeTypeDocSection, "", []float32{0.9, 0.1}),
		node("n3", "doc A", types.NodeTypeDocSection, "", []float32{0, 1}),
	}
	gt.NoError(t, repo.Node().PutHierarchy(ctx, "platform", nodes))

	hits := gt.R1(repo.Node().FindNearest(ctx, interfaces.NodeQuery{
		Vector: model.NormalizeVector([]float32{1, 0}),
		Field:  types.FieldSemanticEmbedding,
		Types:  []types.NodeType{types.NodeTypeDocSection},
		Limit:  10,
	})).NoError(t)

	gt.Array(t, hits).Length(3)
	gt.Value(t, hits[0].Node.ID).Equal("n1")
	gt.Value(t, hits[1].Node.ID).Equal("n2")
	gt.Number(t, hits[0].Distance).Greater(hits[1].Distance)
}

func TestFindNearestThresholdAndFilters(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	nodes := []*model.ContentNode{
		node("s0", "doc A", types.NodeTypeDocSection, "", []float32{1, 0}),
		node("c1", "doc A", types.NodeTypeDocChunk, "s0", []float32{1, 0.1}),
		node("c2", "doc A", types.NodeTypeDocChunk, "s0", []float32{0, 1}),
		node("c3", "doc A", types.NodeTypeDocChunk, "other", []float32{1, 0}),
	}
	gt.NoError(t, repo.Node().PutHierarchy(ctx, "platform", nodes))

	hits := gt.R1(repo.Node().FindNearest(ctx, interfaces.NodeQuery{
		Vector:    model.NormalizeVector([]float32{1, 0}),
		Field:     types.FieldSemanticEmbedding,
		Types:     []types.NodeType{types.NodeTypeDocChunk},
		ParentIDs: []string{"s0"},
		Limit:     10,
		Threshold: 0.5,
	})).NoError(t)

	// c2 is orthogonal (below threshold), c3 has the wrong parent
	gt.Array(t, hits).Length(1)
	gt.Value(t, hits[0].Node.ID).Equal("c1")
}

func TestFindNearestSkipsEmbeddinglessNodes(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	bare := node("n1", "doc A", types.NodeTypeDocSection, "", nil)
	// one vector alone does not make a node searchable
	half := node("n2", "doc A", types.NodeTypeDocSection, "", []float32{1, 0})
	half.RetrievalEmbedding = nil
	gt.Bool(t, half.Searchable()).False()

	gt.NoError(t, repo.Node().PutHierarchy(ctx, "platform", []*model.ContentNode{bare, half}))

	hits := gt.R1(repo.Node().FindNearest(ctx, interfaces.NodeQuery{
		Vector: []float32{1, 0},
		Field:  types.FieldSemanticEmbedding,
		Limit:  10,
	})).NoError(t)
	gt.Array(t, hits).Length(0)
}

func TestTitleOperations(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	older := node("a", "doc A", types.NodeTypeFullDoc, "", []float32{1, 0})
	newer := node("b", "doc A", types.NodeTypeDocSection, "", []float32{1, 0})
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)
	other := node("c", "doc B", types.NodeTypeFullDoc, "", []float32{1, 0})

	gt.NoError(t, repo.Node().PutHierarchy(ctx, "platform", []*model.ContentNode{older, newer, other}))

	byTitle := gt.R1(repo.Node().GetByTitle(ctx, "doc A")).NoError(t)
	gt.Array(t, byTitle).Length(2)

	latest := gt.R1(repo.Node().LatestTimestampByTitle(ctx, "doc A")).NoError(t)
	gt.Value(t, latest).Equal(newer.CreatedAt)

	missing := gt.R1(repo.Node().LatestTimestampByTitle(ctx, "doc Z")).NoError(t)
	gt.Bool(t, missing.IsZero()).True()

	deleted := gt.R1(repo.Node().DeleteByTitle(ctx, "doc A")).NoError(t)
	gt.Number(t, deleted).Equal(2)

	remaining := gt.R1(repo.Node().GetByTitle(ctx, "doc B")).NoError(t)
	gt.Array(t, remaining).Length(1)
}

func TestPutHierarchyOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	first := node("n1", "doc A", types.NodeTypeFullDoc, "", []float32{1, 0})
	gt.NoError(t, repo.Node().PutHierarchy(ctx, "platform", []*model.ContentNode{first}))

	updated := node("n1", "doc A", types.NodeTypeFullDoc, "", []float32{0, 1})
	updated.Text = "updated text"
	gt.NoError(t, repo.Node().PutHierarchy(ctx, "platform", []*model.ContentNode{updated}))

	nodes := gt.R1(repo.Node().GetByTitle(ctx, "doc A")).NoError(t)
	gt.Array(t, nodes).Length(1)
	gt.Value(t, nodes[0].Text).Equal("updated text")
}

func TestStoredNodesAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	original := node("n1", "doc A", types.NodeTypeFullDoc, "", []float32{1, 0})
	gt.NoError(t, repo.Node().PutHierarchy(ctx, "platform", []*model.ContentNode{original}))

	original.Text = "mutated after store"

	nodes := gt.R1(repo.Node().GetByTitle(ctx, "doc A")).NoError(t)
	gt.Value(t, nodes[0].Text).Equal("text of n1")
}
