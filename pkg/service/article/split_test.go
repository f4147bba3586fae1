package article_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
	"github.com/mnemo-lab/mnemosyne/pkg/service/article"
)

// charEstimator counts one token per character, which makes batch sizes
// easy to reason about in tests.
type charEstimator struct {
	calls int
}

func (e *charEstimator) EstimateTokens(ctx context.Context, prompt string) (int, error) {
	e.calls++
	return len(prompt), nil
}

type failEstimator struct{}

func (failEstimator) EstimateTokens(ctx context.Context, prompt string) (int, error) {
	return 0, errors.New("count failed")
}

func makeTickets(n int, commentLen int) []*model.Ticket {
	tickets := make([]*model.Ticket, n)
	for i := range tickets {
		tickets[i] = &model.Ticket{
			ID:       string(rune('A' + i)),
			Subject:  "login problem",
			Comments: strings.Repeat("x", commentLen),
			AreaTag:  "platform",
		}
	}
	return tickets
}

func TestSplitBatchesAllFitInOne(t *testing.T) {
	est := &charEstimator{}
	tickets := makeTickets(4, 10)

	batches := gt.R1(article.SplitBatches(context.Background(), tickets, nil, est, 1_000_000, 1)).NoError(t)
	gt.Array(t, batches).Length(1)
	gt.Array(t, batches[0].Tickets).Length(4)
}

func TestSplitBatchesGrowsUntilFit(t *testing.T) {
	est := &charEstimator{}
	tickets := makeTickets(8, 2000)

	// one batch renders far over the limit, so the count must grow
	batches := gt.R1(article.SplitBatches(context.Background(), tickets, nil, est, 8000, 1)).NoError(t)
	gt.Number(t, len(batches)).Greater(1)

	total := 0
	for _, b := range batches {
		total += len(b.Tickets)
		gt.Number(t, len(b.Tickets)).Greater(0)
	}
	gt.Number(t, total).Equal(len(tickets))
}

func TestSplitBatchesOversizedSingleTicket(t *testing.T) {
	est := &charEstimator{}
	tickets := makeTickets(2, 50_000)

	_, err := article.SplitBatches(context.Background(), tickets, nil, est, 10_000, 1)
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, model.ErrOversizedItem)).True()
}

func TestSplitBatchesEmptyTickets(t *testing.T) {
	batches := gt.R1(article.SplitBatches(context.Background(), nil, nil, &charEstimator{}, 1000, 1)).NoError(t)
	gt.Array(t, batches).Length(0)
}

func TestSplitBatchesEstimatorFailure(t *testing.T) {
	_, err := article.SplitBatches(context.Background(), makeTickets(2, 10), nil, failEstimator{}, 1000, 1)
	gt.Error(t, err)
}
