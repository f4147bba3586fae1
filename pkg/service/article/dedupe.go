package article

import (
	"context"

	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
	"github.com/mnemo-lab/mnemosyne/pkg/utils/logging"
)

// DuplicateThreshold is the cosine similarity above which two articles are
// considered the same issue.
const DuplicateThreshold = 0.85

// Dedupe collapses near-duplicate articles by greedy clustering: each
// article joins the first already-kept article whose semantic embedding
// scores at or above the threshold, otherwise it becomes a new
// representative. When an article merges into a representative, its ticket
// ids extend the representative's set. Articles without embeddings are
// dropped with a warning. Output preserves first-seen order, so the result
// is stable for an already-deduplicated input.
func Dedupe(ctx context.Context, articles []*model.Article) []*model.Article {
	logger := logging.From(ctx)

	unique := make([]*model.Article, 0, len(articles))
	for _, a := range articles {
		if !a.HasEmbedding() {
			logger.Warn("skipping article without embedding", "question", a.Question)
			continue
		}

		rep := findDuplicate(unique, a)
		if rep == nil {
			unique = append(unique, a)
			continue
		}

		mergeTicketIDs(rep, a)
		logger.Info("merged duplicate article",
			"question", a.Question,
			"into", rep.Question)
	}
	return unique
}

// findDuplicate returns the first representative within the threshold, not
// the best-scoring one.
func findDuplicate(unique []*model.Article, a *model.Article) *model.Article {
	for _, u := range unique {
		if model.CosineSimilarity(a.SemanticEmbedding, u.SemanticEmbedding) >= DuplicateThreshold {
			return u
		}
	}
	return nil
}

func mergeTicketIDs(rep, dup *model.Article) {
	seen := make(map[string]bool, len(rep.TicketIDs))
	for _, id := range rep.TicketIDs {
		seen[id] = true
	}
	for _, id := range dup.TicketIDs {
		if !seen[id] {
			rep.TicketIDs = append(rep.TicketIDs, id)
			seen[id] = true
		}
	}
}
