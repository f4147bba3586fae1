package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mnemo-lab/mnemosyne/pkg/cli/config"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/types"
	"github.com/mnemo-lab/mnemosyne/pkg/usecase"
	"github.com/mnemo-lab/mnemosyne/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func parseFieldFlag(name string) (types.EmbeddingField, error) {
	switch name {
	case "semantic":
		return types.FieldSemanticEmbedding, nil
	case "retrieval":
		return types.FieldRetrievalEmbedding, nil
	default:
		return types.ParseEmbeddingField(name)
	}
}

func cmdSearch() *cli.Command {
	var fieldName string
	var threshold float64
	var flat bool
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var limitsCfg config.Limits

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "field",
			Usage:       "Embedding field to search (semantic, retrieval)",
			Value:       "semantic",
			Sources:     cli.EnvVars("MNEMOSYNE_SEARCH_FIELD"),
			Destination: &fieldName,
		},
		&cli.FloatFlag{
			Name:        "threshold",
			Usage:       "Minimum similarity of returned matches",
			Value:       usecase.SectionThreshold,
			Destination: &threshold,
		},
		&cli.BoolFlag{
			Name:        "flat",
			Usage:       "Search all node levels at once instead of coarse-to-fine",
			Destination: &flat,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, limitsCfg.Flags()...)

	return &cli.Command{
		Name:      "search",
		Usage:     "Search the store for content matching a query",
		ArgsUsage: "<query>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if query == "" {
				return goerr.New("query argument is required")
			}

			field, err := parseFieldFlag(fieldName)
			if err != nil {
				return err
			}

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
			resp, err := ucs.Search.Query(ctx, query, field, threshold, flat)
			if err != nil {
				return err
			}

			w := os.Stdout
			if len(resp.Results) == 0 {
				fmt.Fprintln(w, "no matches")
				return nil
			}

			for i, r := range resp.Results {
				fmt.Fprintf(w, "%2d. %.4f  [%s] %s\n", i+1, r.Distance, r.Type, r.SourceTitle)
				fmt.Fprintf(w, "    %s\n", snippet(r.Text, 160))
			}
			if len(resp.TicketIDs) > 0 {
				fmt.Fprintf(w, "tickets: %s\n", strings.Join(resp.TicketIDs, ", "))
			}
			if len(resp.DocumentIDs) > 0 {
				fmt.Fprintf(w, "documents: %s\n", strings.Join(resp.DocumentIDs, ", "))
			}
			return nil
		},
	}
}

func snippet(text string, limit int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
