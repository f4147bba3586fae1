package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mnemo-lab/mnemosyne/pkg/cli/config"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
	"github.com/mnemo-lab/mnemosyne/pkg/service/article"
	"github.com/mnemo-lab/mnemosyne/pkg/service/embedding"
	"github.com/mnemo-lab/mnemosyne/pkg/service/source"
	"github.com/mnemo-lab/mnemosyne/pkg/usecase"
	"github.com/mnemo-lab/mnemosyne/pkg/utils/logging"
	"github.com/mnemo-lab/mnemosyne/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdGenerate() *cli.Command {
	var ticketsPath string
	var docsPath string
	var localTokenCount bool
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var limitsCfg config.Limits

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "tickets",
			Aliases:     []string{"t"},
			Usage:       "Path to the tickets JSON file",
			Required:    true,
			Sources:     cli.EnvVars("MNEMOSYNE_GENERATE_TICKETS"),
			Destination: &ticketsPath,
		},
		&cli.StringFlag{
			Name:        "docs",
			Aliases:     []string{"d"},
			Usage:       "Path to a documents JSON file used as generation context (optional)",
			Sources:     cli.EnvVars("MNEMOSYNE_GENERATE_DOCS"),
			Destination: &docsPath,
		},
		&cli.BoolFlag{
			Name:        "local-token-count",
			Usage:       "Estimate prompt size locally instead of calling the provider",
			Sources:     cli.EnvVars("MNEMOSYNE_LOCAL_TOKEN_COUNT"),
			Destination: &localTokenCount,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, limitsCfg.Flags()...)

	return &cli.Command{
		Name:  "generate",
		Usage: "Generate Q&A articles from resolved tickets and store them",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer safe.Close(ctx, repo)

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return err
			}
			if llmClient == nil {
				return goerr.New("gemini-project is required for article generation")
			}

			embedClient, err := geminiCfg.ConfigureEmbedding(ctx)
			if err != nil {
				return err
			}

			var estimator interfaces.SizeEstimator = embedClient
			if localTokenCount {
				local, err := article.NewLocalEstimator()
				if err != nil {
					return err
				}
				estimator = local
			}

			embedder := embedding.New(embedClient,
				embedding.WithLimiter(limitsCfg.Configure(), limitsCfg.EmbedInputLimit(), limitsCfg.EmbedRPM()),
			)

			tickets, err := source.LoadTickets(ctx, ticketsPath)
			if err != nil {
				return err
			}

			var docs []*model.SourceDocument
			if docsPath != "" {
				if docs, err = source.NewFileSource(docsPath).ListDocuments(ctx); err != nil {
					return err
				}
			}

			ucs := usecase.New(repo, embedder,
				usecase.WithLLMClient(llmClient),
				usecase.WithSizeEstimator(estimator),
			)
			ucs.Generate.SetInputLimit(limitsCfg.PromptLimit())

			ingested, err := ucs.Generate.Run(ctx, tickets, docs)
			if err != nil {
				return err
			}

			logger.Info("article generation finished",
				"tickets", len(tickets), "ingested", len(ingested))
			return nil
		},
	}
}
