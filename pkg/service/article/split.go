package article

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
	"github.com/mnemo-lab/mnemosyne/pkg/utils/logging"
)

// DefaultInputLimit is the provider's hard prompt size in tokens
const DefaultInputLimit = 1048576

// Batch is one generation-sized slice of the ticket set. Every batch
// carries the full documentation context.
type Batch struct {
	Docs    []*model.SourceDocument
	Tickets []*model.Ticket
}

// SplitBatches divides tickets into batches whose rendered prompts all fit
// under hardLimit tokens. It starts from initial batch count, estimates
// every candidate batch's prompt, and grows the count until all fit. The
// growth step is max(1, ceil(largestEstimate/hardLimit)). A single ticket
// whose prompt alone exceeds the limit cannot be split further and fails
// with model.ErrOversizedItem.
func SplitBatches(ctx context.Context, tickets []*model.Ticket, docs []*model.SourceDocument, est interfaces.SizeEstimator, hardLimit, initial int) ([]Batch, error) {
	if len(tickets) == 0 {
		return nil, nil
	}
	if hardLimit <= 0 {
		hardLimit = DefaultInputLimit
	}
	if initial < 1 {
		initial = 1
	}

	logger := logging.From(ctx)
	count := initial

	for {
		batches := sliceBatches(tickets, docs, count)

		allFit := true
		maxEstimate := 0
		for _, b := range batches {
			prompt, err := renderPrompt(b.Docs, b.Tickets)
			if err != nil {
				return nil, err
			}
			estimate, err := est.EstimateTokens(ctx, prompt)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to estimate batch prompt size")
			}
			if estimate > maxEstimate {
				maxEstimate = estimate
			}
			if estimate > hardLimit {
				allFit = false
				if len(b.Tickets) == 1 {
					return nil, goerr.Wrap(model.ErrOversizedItem,
						"single ticket exceeds the prompt size limit",
						goerr.V("ticketID", b.Tickets[0].ID),
						goerr.V("estimate", estimate),
						goerr.V("limit", hardLimit))
				}
			}
		}

		if allFit {
			logger.Info("split tickets into batches",
				"tickets", len(tickets), "batches", len(batches), "maxTokens", maxEstimate)
			return batches, nil
		}

		grow := ceilDiv(maxEstimate, hardLimit)
		if grow < 1 {
			grow = 1
		}
		count += grow
		logger.Info("batch over the size limit, splitting further",
			"maxTokens", maxEstimate, "limit", hardLimit, "nextCount", count)
	}
}

// sliceBatches cuts tickets into count contiguous slices
func sliceBatches(tickets []*model.Ticket, docs []*model.SourceDocument, count int) []Batch {
	size := ceilDiv(len(tickets), count)
	if size < 1 {
		size = 1
	}

	var batches []Batch
	for i := 0; i < len(tickets); i += size {
		end := i + size
		if end > len(tickets) {
			end = len(tickets)
		}
		batches = append(batches, Batch{Docs: docs, Tickets: tickets[i:end]})
	}
	return batches
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
