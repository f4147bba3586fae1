package embedding

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/types"
	"github.com/mnemo-lab/mnemosyne/pkg/service/ratelimit"
	"github.com/mnemo-lab/mnemosyne/pkg/utils/logging"
)

const (
	defaultMaxAttempts = 5
	defaultBaseDelay   = time.Second
)

// Generator turns text into store-ready vectors: provider call, truncation
// to the fixed dimension, then L2 normalization. Throttling responses are
// retried with the provider-suggested delay when present, exponential
// backoff otherwise.
type Generator struct {
	client      interfaces.EmbeddingClient
	limiter     *ratelimit.Limiter
	inputLimit  int
	rpmLimit    int
	maxAttempts int
	baseDelay   time.Duration
}

type Option func(*Generator)

// WithLimiter gates every provider call through the admission limiter.
// inputLimit and rpmLimit are passed through to the limiter's checks.
func WithLimiter(l *ratelimit.Limiter, inputLimit, rpmLimit int) Option {
	return func(g *Generator) {
		g.limiter = l
		g.inputLimit = inputLimit
		g.rpmLimit = rpmLimit
	}
}

// WithMaxAttempts overrides the retry budget for throttled calls
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		g.maxAttempts = n
	}
}

// WithBaseDelay overrides the first backoff interval
func WithBaseDelay(d time.Duration) Option {
	return func(g *Generator) {
		g.baseDelay = d
	}
}

func New(client interfaces.EmbeddingClient, opts ...Option) *Generator {
	g := &Generator{
		client:      client,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Embed generates one unit-norm vector of model.EmbeddingDimension for the
// text under the given task type. Empty text yields nil without a provider
// call.
func (g *Generator) Embed(ctx context.Context, text string, task types.EmbeddingTask) ([]float32, error) {
	if text == "" {
		return nil, nil
	}

	logger := logging.From(ctx)
	delay := g.baseDelay

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if err := g.admit(ctx, text); err != nil {
			return nil, err
		}

		vec, err := g.client.EmbedContent(ctx, text, task)
		if err == nil {
			vec = model.TruncateVector(vec, model.EmbeddingDimension)
			return model.NormalizeVector(vec), nil
		}
		if !errors.Is(err, model.ErrRateLimited) {
			return nil, goerr.Wrap(err, "embedding request failed", goerr.V("task", task))
		}
		if attempt == g.maxAttempts {
			break
		}

		wait := delay
		if hint := model.RetryAfterHint(err); hint > 0 {
			wait = hint
		} else {
			delay *= 2
		}
		logger.Warn("embedding rate limited, retrying",
			"attempt", attempt, "wait", wait.String(), "task", task)

		if err := sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	return nil, goerr.Wrap(model.ErrMaxAttemptsExceeded, "embedding generation gave up",
		goerr.V("attempts", g.maxAttempts), goerr.V("task", task))
}

// admit blocks until the local limiter accepts the request. An oversized
// request is terminal: retrying cannot shrink it.
func (g *Generator) admit(ctx context.Context, text string) error {
	if g.limiter == nil {
		return nil
	}

	tokens := approxTokens(text)
	for {
		d := g.limiter.TryAcquire(tokens, g.inputLimit, g.rpmLimit)
		if d.Allowed {
			return nil
		}
		if d.AcceptableChunkSize > 0 {
			return goerr.Wrap(model.ErrOversizedItem, "text too large to embed",
				goerr.V("tokens", tokens), goerr.V("limit", g.inputLimit))
		}
		logging.From(ctx).Debug("embedding call deferred by limiter", "reason", d.Reason)
		if err := sleep(ctx, g.baseDelay); err != nil {
			return err
		}
	}
}

// approxTokens estimates provider tokens at four characters per token
func approxTokens(text string) int {
	return len(text)/4 + 1
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
