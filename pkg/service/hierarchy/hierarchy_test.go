package hierarchy_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/types"
	"github.com/mnemo-lab/mnemosyne/pkg/service/hierarchy"
)

type stubEmbedder struct {
	mu    sync.Mutex
	calls int
	fail  func(text string, task types.EmbeddingTask) bool
}

func (s *stubEmbedder) Embed(ctx context.Context, text string, task types.EmbeddingTask) ([]float32, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.fail != nil && s.fail(text, task) {
		return nil, model.ErrEmbeddingFailed
	}
	return model.NormalizeVector([]float32{1, 2, 3}), nil
}

func TestBuildHierarchy(t *testing.T) {
	embedder := &stubEmbedder{}
	builder := hierarchy.New(embedder)

	body := `<h2>Setup</h2><p>install and configure</p><h2>Usage</h2><p>run the binary</p>`
	h := gt.R1(builder.Build(context.Background(), &hierarchy.Input{
		DocumentID: "doc-1",
		Title:      "Guide",
		BodyHTML:   body,
		Kind:       types.KindDocument,
		AreaTag:    "platform",
	})).NoError(t)

	gt.Value(t, h.DocumentID).Equal("doc-1")
	gt.Array(t, h.Sections).Length(2)
	gt.Value(t, h.Sections[0].Title).Equal("Setup")
	gt.Number(t, h.Sections[0].Index).Equal(0)
	gt.Number(t, h.Sections[1].Index).Equal(1)
	gt.Array(t, h.SemanticEmbedding).Length(3)
	gt.Array(t, h.RetrievalEmbedding).Length(3)

	// short sections produce exactly one chunk each
	for _, s := range h.Sections {
		gt.Array(t, s.Chunks).Length(1)
		gt.Value(t, s.Chunks[0].Text).Equal(s.Text)
	}
}

func TestBuildNoHeadings(t *testing.T) {
	embedder := &stubEmbedder{}
	builder := hierarchy.New(embedder)

	text := strings.TrimSpace(strings.Repeat("word ", 240))
	h := gt.R1(builder.Build(context.Background(), &hierarchy.Input{
		DocumentID: "doc-2",
		Title:      "Flat doc",
		BodyHTML:   "<p>" + text + "</p>",
		Kind:       types.KindDocument,
	})).NoError(t)

	gt.Array(t, h.Sections).Length(1)
	gt.Value(t, h.Sections[0].Title).Equal("Flat doc")
	gt.Number(t, len(h.Sections[0].Chunks)).Greater(1)
}

func TestBuildReusesSuppliedEmbeddings(t *testing.T) {
	embedder := &stubEmbedder{}
	builder := hierarchy.New(embedder)

	supplied := model.NormalizeVector([]float32{9, 9})
	h := gt.R1(builder.Build(context.Background(), &hierarchy.Input{
		DocumentID:         "art-1",
		Title:              "How do I log in?",
		BodyHTML:           "<p>use the portal</p>",
		Kind:               types.KindArticle,
		SemanticEmbedding:  supplied,
		RetrievalEmbedding: supplied,
	})).NoError(t)

	gt.Array(t, h.SemanticEmbedding).Equal(supplied)

	// 1 section + 1 chunk, two tasks each; no whole-document calls
	gt.Number(t, embedder.calls).Equal(4)
}

func TestBuildSkipsFailedSection(t *testing.T) {
	embedder := &stubEmbedder{
		fail: func(text string, task types.EmbeddingTask) bool {
			return text == "broken content"
		},
	}
	builder := hierarchy.New(embedder)

	body := `<h2>Good</h2><p>fine content</p><h2>Bad</h2><p>broken content</p>`
	h := gt.R1(builder.Build(context.Background(), &hierarchy.Input{
		DocumentID: "doc-3",
		Title:      "Mixed",
		BodyHTML:   body,
		Kind:       types.KindDocument,
	})).NoError(t)

	gt.Array(t, h.Sections).Length(1)
	gt.Value(t, h.Sections[0].Title).Equal("Good")
	gt.Number(t, h.Sections[0].Index).Equal(0)
}

func TestBuildEmptyDocumentFails(t *testing.T) {
	builder := hierarchy.New(&stubEmbedder{})
	_, err := builder.Build(context.Background(), &hierarchy.Input{
		DocumentID: "doc-4",
		BodyHTML:   "",
	})
	gt.Error(t, err)
}
