package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/celokit/celokit-assist/pkg/cli/config"
	"github.com/celokit/celokit-assist/pkg/service/llm"
	"github.com/celokit/celokit-assist/pkg/usecase"
	"github.com/celokit/celokit-assist/pkg/utils/logging"
	"github.com/celokit/celokit-assist/pkg/utils/safe"
)

func cmdSeed() *cli.Command {
	var input string
	var repoCfg config.Repository
	var geminiCfg config.Gemini

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Usage:       "Path to a JSON corpus file (uses the built-in Celo corpus when omitted)",
			Sources:     cli.EnvVars("CELOKIT_SEED_INPUT"),
			Destination: &input,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:  "seed",
		Usage: "Embed and store the knowledge corpus",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			var docs []usecase.SeedDocument
			var err error
			if input != "" {
				data, readErr := os.ReadFile(input) // #nosec G304 - path comes from the operator
				if readErr != nil {
					return goerr.Wrap(readErr, "failed to read corpus file", goerr.V("path", input))
				}
				docs, err = usecase.ParseCorpus(data)
			} else {
				docs, err = usecase.BuiltinCorpus()
			}
			if err != nil {
				return goerr.Wrap(err, "failed to load corpus")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}

			embedder, err := llm.NewEmbedder(llmClient)
			if err != nil {
				return goerr.Wrap(err, "failed to create embedder")
			}
			generator, err := llm.NewGenerator(llmClient)
			if err != nil {
				return goerr.Wrap(err, "failed to create generator")
			}

			uc := usecase.New(repo, embedder, generator)

			inserted, err := uc.Seed.Seed(ctx, docs)
			if err != nil {
				return goerr.Wrap(err, "failed to seed knowledge base")
			}

			logging.Default().Info("Seeded knowledge base",
				"documents", len(docs),
				"chunks", inserted,
			)
			return nil
		},
	}
}
