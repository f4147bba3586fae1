package cli

import (
	"context"

	"github.com/mnemo-lab/mnemosyne/pkg/cli/config"
	"github.com/mnemo-lab/mnemosyne/pkg/service/embedding"
	"github.com/mnemo-lab/mnemosyne/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, args []string, version string) error {
	var loggerCfg config.Logger
	var closer func()

	app := &cli.Command{
		Name:    "mnemosyne",
		Usage:   "Hierarchical knowledge store with two-stage vector retrieval",
		Version: version,
		Flags:   loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closer = f

			logging.Default().Info("Starting mnemosyne", "logger", loggerCfg)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if closer != nil {
				closer()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdIngest(),
			cmdGenerate(),
			cmdSearch(),
			cmdAsk(),
			cmdWatch(),
			cmdMigrate(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}

// newEmbedder wires the Gemini embedding client behind the shared rate
// limiter. Every command that touches the store goes through this.
func newEmbedder(ctx context.Context, geminiCfg *config.Gemini, limitsCfg *config.Limits) (*embedding.Generator, error) {
	client, err := geminiCfg.ConfigureEmbedding(ctx)
	if err != nil {
		return nil, err
	}

	return embedding.New(client,
		embedding.WithLimiter(limitsCfg.Configure(), limitsCfg.EmbedInputLimit(), limitsCfg.EmbedRPM()),
	), nil
}
