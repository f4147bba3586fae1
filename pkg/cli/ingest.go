package cli

import (
	"context"
	"log/slog"

	"github.com/mnemo-lab/mnemosyne/pkg/cli/config"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
	"github.com/mnemo-lab/mnemosyne/pkg/service/source"
	"github.com/mnemo-lab/mnemosyne/pkg/usecase"
	"github.com/mnemo-lab/mnemosyne/pkg/utils/logging"
	"github.com/mnemo-lab/mnemosyne/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdIngest() *cli.Command {
	var input string
	var force bool
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var limitsCfg config.Limits
	var areasCfg config.Areas

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Path to the documents JSON file",
			Required:    true,
			Sources:     cli.EnvVars("MNEMOSYNE_INGEST_INPUT"),
			Destination: &input,
		},
		&cli.BoolFlag{
			Name:        "force",
			Usage:       "Re-ingest documents even if the stored copy is fresh",
			Destination: &force,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, limitsCfg.Flags()...)
	flags = append(flags, areasCfg.Flags()...)

	return &cli.Command{
		Name:  "ingest",
		Usage: "Ingest source documents into the hierarchical store",
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

			catalog, err := areasCfg.Load()
			if err != nil {
				return err
			}

			docs, err := source.NewFileSource(input).ListDocuments(ctx)
			if err != nil {
				return err
			}
			normalizeAreaTags(docs, catalog, logger)

			ucs := usecase.New(repo, embedder)
			stored, err := ucs.Ingest.IngestAll(ctx, docs, force)
			if err != nil {
				return err
			}

			logger.Info("ingestion finished", "listed", len(docs), "stored", stored)
			return nil
		},
	}
}

// normalizeAreaTags clears tags the catalog does not know, so the store
// files those documents under the default area.
func normalizeAreaTags(docs []*model.SourceDocument, catalog *config.AreaCatalog, logger *slog.Logger) {
	if catalog == nil {
		return
	}
	for _, doc := range docs {
		if doc.AreaTag != "" && !catalog.Contains(doc.AreaTag) {
			logger.Warn("unknown area tag, using default area",
				"document", doc.Title, "area", doc.AreaTag)
			doc.AreaTag = ""
		}
	}
}
