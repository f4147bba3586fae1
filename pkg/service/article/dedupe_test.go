package article_test

import (
	"context"
	"math"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
	"github.com/mnemo-lab/mnemosyne/pkg/service/article"
)

// unitVec builds a 2D unit vector at the given angle so cosine similarity
// between two of them is cos(a-b).
func unitVec(angle float64) []float32 {
	return []float32{float32(math.Cos(angle)), float32(math.Sin(angle))}
}

func newArticle(question string, vec []float32, ticketIDs ...string) *model.Article {
	return &model.Article{
		ID:                model.NewArticleID(),
		Question:          question,
		AnswerHTML:        "<p>answer</p>",
		TicketIDs:         ticketIDs,
		SemanticEmbedding: vec,
	}
}

func TestDedupeMergesNearDuplicates(t *testing.T) {
	ctx := context.Background()

	// cos(0.2) ~ 0.98, well above the threshold; cos(1.2) ~ 0.36
	a := newArticle("How do I reset my password?", unitVec(0), "T1")
	b := newArticle("Resetting my password", unitVec(0.2), "T2")
	c := newArticle("Billing cycle question", unitVec(1.2), "T3")

	out := article.Dedupe(ctx, []*model.Article{a, b, c})
	gt.Array(t, out).Length(2)
	gt.Value(t, out[0].Question).Equal("How do I reset my password?")
	gt.Array(t, out[0].TicketIDs).Equal([]string{"T1", "T2"})
	gt.Value(t, out[1].Question).Equal("Billing cycle question")
}

func TestDedupeTicketIDsStaySet(t *testing.T) {
	ctx := context.Background()

	a := newArticle("q1", unitVec(0), "T1", "T2")
	b := newArticle("q2", unitVec(0.1), "T2", "T3")

	out := article.Dedupe(ctx, []*model.Article{a, b})
	gt.Array(t, out).Length(1)
	gt.Array(t, out[0].TicketIDs).Equal([]string{"T1", "T2", "T3"})
}

func TestDedupeIdempotent(t *testing.T) {
	ctx := context.Background()

	in := []*model.Article{
		newArticle("q1", unitVec(0), "T1"),
		newArticle("q2", unitVec(1.2), "T2"),
		newArticle("q3", unitVec(2.4), "T3"),
	}

	once := article.Dedupe(ctx, in)
	twice := article.Dedupe(ctx, once)
	gt.Array(t, twice).Length(len(once))
	for i := range once {
		gt.Value(t, twice[i].ID).Equal(once[i].ID)
	}
}

func TestDedupeSkipsEmbeddingless(t *testing.T) {
	ctx := context.Background()

	a := newArticle("with embedding", unitVec(0), "T1")
	b := &model.Article{ID: model.NewArticleID(), Question: "no embedding"}

	out := article.Dedupe(ctx, []*model.Article{b, a})
	gt.Array(t, out).Length(1)
	gt.Value(t, out[0].Question).Equal("with embedding")
}

func TestDedupeAtExactThreshold(t *testing.T) {
	ctx := context.Background()

	// identical vectors score exactly 1.0; the boundary case of >= applies
	a := newArticle("q1", unitVec(0), "T1")
	b := newArticle("q2", unitVec(0), "T2")

	out := article.Dedupe(ctx, []*model.Article{a, b})
	gt.Array(t, out).Length(1)
}

func TestDedupeEmpty(t *testing.T) {
	gt.Array(t, article.Dedupe(context.Background(), nil)).Length(0)
}
