package article

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
	"github.com/mnemo-lab/mnemosyne/pkg/service/segment"
	"github.com/mnemo-lab/mnemosyne/pkg/utils/jsonx"
)

// Writer generates knowledge base articles from a batch of tickets with the
// existing documentation as context.
type Writer struct {
	llmClient gollem.LLMClient
}

func NewWriter(llmClient gollem.LLMClient) *Writer {
	return &Writer{llmClient: llmClient}
}

// generatedArticle is the JSON structure the model is asked to produce
type generatedArticle struct {
	TicketIDs []string `json:"ticket_ids"`
	Question  string   `json:"question"`
	Answer    string   `json:"answer"`
	Count     string   `json:"count"`
	Area      string   `json:"area"`
	SubArea   string   `json:"sub_area"`
}

// Generate runs one generation call over a ticket batch and parses the
// response into articles. Model output that is not valid JSON goes through
// best-effort repair first; unrecoverable output fails with
// model.ErrMalformedResponse.
func (w *Writer) Generate(ctx context.Context, docs []*model.SourceDocument, tickets []*model.Ticket) ([]*model.Article, error) {
	prompt, err := renderPrompt(docs, tickets)
	if err != nil {
		return nil, err
	}

	session, err := w.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(articleSchema()),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create article generation session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return nil, goerr.Wrap(err, "article generation failed",
			goerr.V("tickets", len(tickets)))
	}
	if len(resp.Texts) == 0 {
		return nil, goerr.Wrap(model.ErrMalformedResponse, "article generation returned no text")
	}

	return parseArticles(strings.Join(resp.Texts, ""))
}

// parseArticles decodes the model response, repairing malformed JSON when
// possible, and converts it into domain articles.
func parseArticles(raw string) ([]*model.Article, error) {
	var generated []generatedArticle
	if err := jsonx.Repair(raw, &generated); err != nil {
		return nil, goerr.Wrap(model.ErrMalformedResponse, "failed to parse generated articles",
			goerr.V("cause", err.Error()))
	}

	articles := make([]*model.Article, 0, len(generated))
	for _, g := range generated {
		if g.Question == "" || g.Answer == "" {
			continue
		}
		articles = append(articles, &model.Article{
			ID:         model.NewArticleID(),
			Question:   g.Question,
			AnswerHTML: g.Answer,
			Count:      g.Count,
			AreaTag:    g.Area,
			SubAreaTag: g.SubArea,
			TicketIDs:  g.TicketIDs,
			FullText:   articleText(g.Question, g.Answer),
		})
	}
	return articles, nil
}

// articleText renders the embedding input of an article: the question plus
// the answer as plain text.
func articleText(question, answerHTML string) string {
	answer := segment.HTMLToText(answerHTML)
	if answer == "" {
		return question
	}
	return question + "\n\n" + answer
}
