package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mnemo-lab/mnemosyne/pkg/cli/config"
	"github.com/mnemo-lab/mnemosyne/pkg/usecase"
	"github.com/mnemo-lab/mnemosyne/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdAsk() *cli.Command {
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var limitsCfg config.Limits

	flags := append([]cli.Flag{}, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, limitsCfg.Flags()...)

	return &cli.Command{
		Name:      "ask",
		Usage:     "Answer a question grounded on the stored content",
		ArgsUsage: "<question>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if question == "" {
				return goerr.New("question argument is required")
			}

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
				return goerr.New("gemini-project is required for question answering")
			}

			embedder, err := newEmbedder(ctx, &geminiCfg, &limitsCfg)
			if err != nil {
				return err
			}

			ucs := usecase.New(repo, embedder, usecase.WithLLMClient(llmClient))
			answer, err := ucs.Answer.Ask(ctx, question)
			if err != nil {
				return err
			}

			w := os.Stdout
			fmt.Fprintln(w, answer.Text)
			if len(answer.TicketIDs) > 0 {
				fmt.Fprintf(w, "\ntickets: %s\n", strings.Join(answer.TicketIDs, ", "))
			}
			if len(answer.DocumentIDs) > 0 {
				fmt.Fprintf(w, "documents: %s\n", strings.Join(answer.DocumentIDs, ", "))
			}
			return nil
		},
	}
}
