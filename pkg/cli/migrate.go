package cli

import (
	"context"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/celokit/celokit-assist/pkg/domain/model"
	"github.com/celokit/celokit-assist/pkg/repository/firestore"
	"github.com/celokit/celokit-assist/pkg/utils/logging"
	"github.com/celokit/celokit-assist/pkg/utils/safe"
)

func cmdMigrate() *cli.Command {
	var projectID string
	var databaseID string
	var chatCollection string
	var knowledgeCollection string
	var dryRun bool

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Migrate Firestore indexes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "firestore-project-id",
				Usage:       "Firestore Project ID (required)",
				Required:    true,
				Sources:     cli.EnvVars("CELOKIT_FIRESTORE_PROJECT_ID"),
				Destination: &projectID,
			},
			&cli.StringFlag{
				Name:        "firestore-database-id",
				Usage:       "Firestore Database ID",
				Sources:     cli.EnvVars("CELOKIT_FIRESTORE_DATABASE_ID"),
				Destination: &databaseID,
			},
			&cli.StringFlag{
				Name:        "chat-collection",
				Usage:       "Firestore collection for chat messages",
				Value:       firestore.DefaultChatCollection,
				Sources:     cli.EnvVars("CELOKIT_CHAT_COLLECTION"),
				Destination: &chatCollection,
			},
			&cli.StringFlag{
				Name:        "knowledge-collection",
				Usage:       "Firestore collection for knowledge documents",
				Value:       firestore.DefaultKnowledgeCollection,
				Sources:     cli.EnvVars("CELOKIT_KNOWLEDGE_COLLECTION"),
				Destination: &knowledgeCollection,
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
				"chatCollection", chatCollection,
				"knowledgeCollection", knowledgeCollection,
				"dryRun", dryRun)

			cfg := indexConfig(chatCollection, knowledgeCollection)

			client, err := fireconf.NewClient(ctx, projectID, databaseID)
			if err != nil {
				return goerr.Wrap(err, "failed to create fireconf client")
			}
			defer safe.Close(ctx, client)

			if dryRun {
				logger.Info("Dry run mode - previewing changes")
				plan, err := client.GetMigrationPlan(ctx, cfg)
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
				if err := client.Migrate(ctx, cfg); err != nil {
					return goerr.Wrap(err, "failed to apply migrations")
				}
				logger.Info("Migrations applied successfully")
			}

			return nil
		},
	}
}

// indexConfig returns the Firestore index configuration. The chat composite
// index backs the history query (equality on ChatID, descending CreatedAt);
// without it Firestore rejects the query with FailedPrecondition.
func indexConfig(chatCollection, knowledgeCollection string) *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: chatCollection,
				Indexes: []fireconf.Index{
					{
						Fields: []fireconf.IndexField{
							{Path: "ChatID", Order: fireconf.OrderAscending},
							{Path: "CreatedAt", Order: fireconf.OrderDescending},
						},
					},
				},
			},
			{
				Name: knowledgeCollection,
				Indexes: []fireconf.Index{
					{
						Fields: []fireconf.IndexField{
							{
								Path: "Embedding",
								Vector: &fireconf.VectorConfig{
									Dimension: model.EmbeddingDimension,
								},
							},
						},
					},
				},
			},
		},
	}
}
