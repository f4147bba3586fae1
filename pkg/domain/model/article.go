package model

import "github.com/google/uuid"

// ArticleID is a UUID-based identifier for a generated article
type ArticleID string

// NewArticleID generates a new UUID v4 ArticleID
func NewArticleID() ArticleID {
	return ArticleID(uuid.New().String())
}

// Article is one generated knowledge base article: a single question with a
// single HTML answer, consolidated from a batch of support tickets.
type Article struct {
	ID         ArticleID
	Question   string
	AnswerHTML string
	// Count is the model's estimate of how many tickets in the batch hit
	// this issue. Kept as reported, not validated.
	Count      string
	AreaTag    string
	SubAreaTag string

	// TicketIDs are the origin ids of the tickets that contributed to this
	// article. Deduplication merges these sets.
	TicketIDs []string

	// FullText is the plain-text form of question and answer, the input of
	// the article's embeddings.
	FullText           string
	SemanticEmbedding  []float32
	RetrievalEmbedding []float32
}

// HasEmbedding reports whether the article carries a semantic embedding
// and can take part in similarity comparison.
func (a *Article) HasEmbedding() bool {
	return len(a.SemanticEmbedding) > 0
}
