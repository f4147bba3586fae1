package config

import (
	"log/slog"

	"github.com/mnemo-lab/mnemosyne/pkg/service/article"
	"github.com/mnemo-lab/mnemosyne/pkg/service/ratelimit"
	"github.com/urfave/cli/v3"
)

// Default provider quotas. They match the published free-tier limits of
// gemini-embedding-001 and can be raised per deployment.
const (
	DefaultEmbedInputLimit = 2048
	DefaultEmbedRPM        = 100
)

// Limits holds the provider quota configuration for embedding calls and
// the prompt size cap for article generation.
type Limits struct {
	embedInputLimit int
	embedRPM        int
	dailyLimit      int
	promptLimit     int
}

// Flags returns CLI flags for quota configuration
func (l *Limits) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "embed-input-limit",
			Usage:       "Maximum tokens of a single embedding request",
			Value:       DefaultEmbedInputLimit,
			Sources:     cli.EnvVars("MNEMOSYNE_EMBED_INPUT_LIMIT"),
			Destination: &l.embedInputLimit,
		},
		&cli.IntFlag{
			Name:        "embed-rpm",
			Usage:       "Maximum embedding requests per minute",
			Value:       DefaultEmbedRPM,
			Sources:     cli.EnvVars("MNEMOSYNE_EMBED_RPM"),
			Destination: &l.embedRPM,
		},
		&cli.IntFlag{
			Name:        "requests-per-day",
			Usage:       "Maximum provider requests per calendar day",
			Value:       ratelimit.DefaultDailyLimit,
			Sources:     cli.EnvVars("MNEMOSYNE_REQUESTS_PER_DAY"),
			Destination: &l.dailyLimit,
		},
		&cli.IntFlag{
			Name:        "prompt-input-limit",
			Usage:       "Maximum tokens of a single generation prompt",
			Value:       article.DefaultInputLimit,
			Sources:     cli.EnvVars("MNEMOSYNE_PROMPT_INPUT_LIMIT"),
			Destination: &l.promptLimit,
		},
	}
}

// LogValue returns the configuration as structured log attributes
func (l Limits) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("embed_input_limit", l.embedInputLimit),
		slog.Int("embed_rpm", l.embedRPM),
		slog.Int("requests_per_day", l.dailyLimit),
		slog.Int("prompt_input_limit", l.promptLimit),
	)
}

// EmbedInputLimit returns the per-request embedding token cap
func (l *Limits) EmbedInputLimit() int {
	return l.embedInputLimit
}

// EmbedRPM returns the embedding requests-per-minute cap
func (l *Limits) EmbedRPM() int {
	return l.embedRPM
}

// PromptLimit returns the generation prompt token cap
func (l *Limits) PromptLimit() int {
	return l.promptLimit
}

// Configure builds the shared rate limiter for provider calls
func (l *Limits) Configure() *ratelimit.Limiter {
	return ratelimit.New(ratelimit.WithDailyLimit(l.dailyLimit))
}
