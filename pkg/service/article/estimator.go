package article

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pkoukk/tiktoken-go"
)

// LocalEstimator counts prompt tokens with a local BPE tokenizer. The count
// is approximate for Gemini models but close enough for batch sizing, and
// it costs no API quota.
type LocalEstimator struct {
	encoder *tiktoken.Tiktoken
}

func NewLocalEstimator() (*LocalEstimator, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load tokenizer encoding")
	}
	return &LocalEstimator{encoder: enc}, nil
}

func (e *LocalEstimator) EstimateTokens(ctx context.Context, prompt string) (int, error) {
	return len(e.encoder.Encode(prompt, nil, nil)), nil
}
