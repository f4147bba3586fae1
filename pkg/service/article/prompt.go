package article

import (
	"bytes"
	"encoding/json"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
)

var generatePrompt = template.Must(template.New("generate").Parse(
	`You are a specialist in generating consolidated knowledge base articles based on a list of related support tickets. Your task is to analyze the provided documentation and support tickets, identify common issues or themes, and create comprehensive knowledge base articles summarizing the information.

First, review the current documentation:

<documentation>
{{.Docs}}
</documentation>

Next, analyze the content of the support tickets:

<tickets>
{{.Tickets}}
</tickets>

To complete this task, follow these steps:

1. Carefully review the documentation and ticket content.
2. Identify common issues, themes, or questions that are not adequately addressed in the current documentation.
3. Create an array of JSON objects that represent complete knowledge base articles summarizing the provided tickets.

Important notes on the structure:
- "ticket_ids": the ticket id(s) that provided the information source for the article, always an array of strings.
- "area" and "sub_area": every ticket carries these fields and tickets are grouped by them. Do not edit them, just return the values.
- "count": how many times the issue the article solves was present in the tickets.

When generating the articles:
1. For each distinct question or sub-topic identified from the tickets, create a separate object.
2. Formulate clear, concise questions for the "question" field of each object.
3. Provide step-by-step solutions or explanations in HTML format for the "answer" field. Make the answer concise and easy to understand.
4. Do not consolidate multiple questions into one article. Each article is a single question with a single answer.
5. Use clear, concise, easy-to-understand, professional, and friendly language.
6. Ensure that the content of a question and answer is not repeated in another object of the output.
7. Do not include any references to a specific ticket number or area code in the question or answer.

The "answer" value must contain valid, well-formed HTML. The entire output must be valid, parsable JSON with no surrounding formatting.`))

type promptData struct {
	Docs    string
	Tickets string
}

// renderPrompt builds the generation prompt for one batch. The same text is
// used for token estimation during batch splitting and for the actual
// generation call.
func renderPrompt(docs []*model.SourceDocument, tickets []*model.Ticket) (string, error) {
	docsJSON, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return "", goerr.Wrap(err, "failed to encode documents for prompt")
	}
	ticketsJSON, err := json.MarshalIndent(tickets, "", "  ")
	if err != nil {
		return "", goerr.Wrap(err, "failed to encode tickets for prompt")
	}

	var buf bytes.Buffer
	if err := generatePrompt.Execute(&buf, promptData{
		Docs:    string(docsJSON),
		Tickets: string(ticketsJSON),
	}); err != nil {
		return "", goerr.Wrap(err, "failed to render generation prompt")
	}
	return buf.String(), nil
}

// articleSchema constrains the model output to the article array shape
func articleSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "KnowledgeBaseArticles",
		Description: "Knowledge base articles providing information not included in the documentation",
		Type:        gollem.TypeArray,
		Items: &gollem.Parameter{
			Type: gollem.TypeObject,
			Properties: map[string]*gollem.Parameter{
				"ticket_ids": {
					Type:        gollem.TypeArray,
					Description: "The original ticket id(s) associated with this article, as an array of strings. Empty array if no specific id is known.",
					Items:       &gollem.Parameter{Type: gollem.TypeString},
					Required:    true,
				},
				"question": {
					Type:        gollem.TypeString,
					Description: "A concise question that this article answers.",
					Required:    true,
				},
				"answer": {
					Type:        gollem.TypeString,
					Description: "The full answer content in HTML format. This string MUST be valid, well-formed HTML.",
					Required:    true,
				},
				"count": {
					Type:        gollem.TypeString,
					Description: "How many times this issue was present in the tickets.",
					Required:    true,
				},
				"area": {
					Type:        gollem.TypeString,
					Description: "Area category for ticket grouping, returned unchanged.",
				},
				"sub_area": {
					Type:        gollem.TypeString,
					Description: "Sub-area category for ticket grouping, returned unchanged.",
				},
			},
		},
	}
}
