package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mnemo-lab/mnemosyne/pkg/cli/config"
	"github.com/mnemo-lab/mnemosyne/pkg/service/source"
	"github.com/mnemo-lab/mnemosyne/pkg/service/worker"
	"github.com/mnemo-lab/mnemosyne/pkg/usecase"
	"github.com/mnemo-lab/mnemosyne/pkg/utils/logging"
	"github.com/mnemo-lab/mnemosyne/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdWatch() *cli.Command {
	var input string
	var interval time.Duration
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var limitsCfg config.Limits

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Path to the documents JSON file to watch",
			Required:    true,
			Sources:     cli.EnvVars("MNEMOSYNE_WATCH_INPUT"),
			Destination: &input,
		},
		&cli.DurationFlag{
			Name:        "interval",
			Usage:       "Time between re-ingestion cycles",
			Value:       time.Hour,
			Sources:     cli.EnvVars("MNEMOSYNE_WATCH_INTERVAL"),
			Destination: &interval,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, limitsCfg.Flags()...)

	return &cli.Command{
		Name:  "watch",
		Usage: "Periodically re-ingest the document source until interrupted",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer safe.Close(ctx, repo)

			embedder, err := newEmbedder(ctx, &geminiCfg, &limitsCfg)
			if err != nil {
				return err
			}

			ucs := usecase.New(repo, embedder)
			w := worker.NewRefreshWorker(source.NewFileSource(input), ucs.Ingest, interval)

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := w.Start(ctx); err != nil {
				return err
			}

			<-ctx.Done()
			logger.Info("shutdown signal received")
			w.Stop()
			return nil
		},
	}
}
