package usecase

import (
	"bytes"
	"context"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/types"
	"github.com/mnemo-lab/mnemosyne/pkg/utils/logging"
)

// AnswerThreshold is the flat-search floor for question answering
const AnswerThreshold = 0.7

// Answer is a grounded response to a question: the generated text plus the
// origin identifiers of the content it was grounded on.
type Answer struct {
	Text        string
	TicketIDs   []string
	DocumentIDs []string
}

// AnswerUseCase answers a free-form question over the stored content: the
// question is embedded, matched flat against retrieval embeddings, and the
// matched texts are handed to the model as the only allowed source.
type AnswerUseCase struct {
	search    *SearchUseCase
	llmClient gollem.LLMClient
}

func NewAnswerUseCase(search *SearchUseCase, llmClient gollem.LLMClient) *AnswerUseCase {
	return &AnswerUseCase{search: search, llmClient: llmClient}
}

var answerPrompt = template.Must(template.New("answer").Parse(
	`You are an expert support engineer for our product. Your task is to answer questions from other support engineers using the provided documentation. Follow these instructions carefully:

1. Review the following documents related to our product:
<documents>
{{.Documents}}
</documents>

2. You will be answering this question from another support engineer:
<question>
{{.Question}}
</question>

3. Analyze the documents: read through each one, identify key information relevant to the question, and note any specific features, troubleshooting steps, or technical details that may be useful.

4. Formulate your answer:
   - Use only information found in the provided documents.
   - If the exact answer is not in the documents, return "No Answer Found".
   - If there is not enough information to answer the question, state this clearly.
   - Maintain a professional and knowledgeable tone.

Your goal is to provide accurate, helpful information based solely on the provided documents. Do not include information from external sources or personal knowledge outside of what is given in the documents.`))

// Ask answers the question grounded on stored content. An empty search
// result yields a "no answer" response without a generation call.
func (uc *AnswerUseCase) Ask(ctx context.Context, question string) (*Answer, error) {
	logger := logging.From(ctx)

	resp, err := uc.search.Query(ctx, question, types.FieldRetrievalEmbedding, AnswerThreshold, true)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to retrieve context for question")
	}
	if len(resp.Results) == 0 {
		logger.Info("no stored content matched the question")
		return &Answer{Text: "No Answer Found"}, nil
	}

	texts := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.Text != "" {
			texts = append(texts, r.Text)
		}
	}

	var buf bytes.Buffer
	if err := answerPrompt.Execute(&buf, map[string]string{
		"Documents": strings.Join(texts, "\n\n---\n\n"),
		"Question":  question,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to render answer prompt")
	}

	session, err := uc.llmClient.NewSession(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create answer session")
	}

	generated, err := session.GenerateContent(ctx, gollem.Text(buf.String()))
	if err != nil {
		return nil, goerr.Wrap(err, "answer generation failed")
	}
	if len(generated.Texts) == 0 {
		return nil, goerr.Wrap(model.ErrMalformedResponse, "answer generation returned no text")
	}

	logger.Info("answered question",
		"matches", len(resp.Results),
		"tickets", len(resp.TicketIDs),
		"documents", len(resp.DocumentIDs))

	return &Answer{
		Text:        strings.Join(generated.Texts, "\n"),
		TicketIDs:   resp.TicketIDs,
		DocumentIDs: resp.DocumentIDs,
	}, nil
}
