package cli

import (
	"context"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
	"github.com/mnemo-lab/mnemosyne/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var projectID string
	var databaseID string
	var collectionPrefix string
	var dryRun bool

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Migrate Firestore indexes for the node store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "firestore-project-id",
				Usage:       "Firestore Project ID (required)",
				Required:    true,
				Sources:     cli.EnvVars("MNEMOSYNE_FIRESTORE_PROJECT_ID"),
				Destination: &projectID,
			},
			&cli.StringFlag{
				Name:        "firestore-database-id",
				Usage:       "Firestore Database ID",
				Sources:     cli.EnvVars("MNEMOSYNE_FIRESTORE_DATABASE_ID"),
				Destination: &databaseID,
			},
			&cli.StringFlag{
				Name:        "firestore-collection-prefix",
				Usage:       "Prefix for Firestore collection names",
				Sources:     cli.EnvVars("MNEMOSYNE_FIRESTORE_COLLECTION_PREFIX"),
				Destination: &collectionPrefix,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Preview changes without applying",
				Destination: &dryRun,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			logger.Info("Migrate configuration",
				"projectID", projectID,
				"databaseID", databaseID,
				"collectionPrefix", collectionPrefix,
				"dryRun", dryRun)

			indexConfig := getIndexConfig(collectionPrefix)

			client, err := fireconf.NewClient(ctx, projectID, databaseID)
			if err != nil {
				return goerr.Wrap(err, "failed to create fireconf client")
			}
			defer func() {
				if err := client.Close(); err != nil {
					logger.Error("failed to close fireconf client", "error", err.Error())
				}
			}()

			if dryRun {
				logger.Info("Dry run mode - previewing changes")
				plan, err := client.GetMigrationPlan(ctx, indexConfig)
				if err != nil {
					return goerr.Wrap(err, "failed to create migration plan")
				}

				if len(plan.Steps) == 0 {
					logger.Info("No changes required")
					return nil
				}

				for _, step := range plan.Steps {
					logger.Info("Migration step",
						"collection", step.Collection,
						"operation", step.Operation,
						"description", step.Description,
						"destructive", step.Destructive)
				}
			} else {
				logger.Info("Applying migrations")
				if err := client.Migrate(ctx, indexConfig); err != nil {
					return goerr.Wrap(err, "failed to apply migrations")
				}
				logger.Info("Migrations applied successfully")
			}

			return nil
		},
	}
}

// getIndexConfig returns the Firestore index configuration for the node
// collection. All node queries run over the collection group, so every
// index carries collection-group scope. Flat search issues an unfiltered
// FindNearest, hierarchical search filters by node type (stage 2 also by
// parent), so each embedding field needs a bare vector index plus the two
// filtered composites.
func getIndexConfig(collectionPrefix string) *fireconf.Config {
	name := "nodes"
	if collectionPrefix != "" {
		name = collectionPrefix + "_nodes"
	}

	var indexes []fireconf.Index
	for _, field := range []string{"semanticEmbedding", "retrievalEmbedding"} {
		indexes = append(indexes,
			fireconf.Index{
				QueryScope: fireconf.QueryScopeCollectionGroup,
				Fields: []fireconf.IndexField{
					{Path: field, Vector: &fireconf.VectorConfig{Dimension: model.EmbeddingDimension}},
				},
			},
			fireconf.Index{
				QueryScope: fireconf.QueryScopeCollectionGroup,
				Fields: []fireconf.IndexField{
					{Path: "Type", Order: fireconf.OrderAscending},
					{Path: field, Vector: &fireconf.VectorConfig{Dimension: model.EmbeddingDimension}},
				},
			},
			fireconf.Index{
				QueryScope: fireconf.QueryScopeCollectionGroup,
				Fields: []fireconf.IndexField{
					{Path: "Type", Order: fireconf.OrderAscending},
					{Path: "ParentID", Order: fireconf.OrderAscending},
					{Path: field, Vector: &fireconf.VectorConfig{Dimension: model.EmbeddingDimension}},
				},
			},
		)
	}

	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name:    name,
				Indexes: indexes,
			},
		},
	}
}
