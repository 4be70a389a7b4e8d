package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"quiz-frontend/internal/app"
	"quiz-frontend/internal/config"
)

var errNoResultLedger = errors.New("postgres url not configured: results are only kept in the postgres ledger")

// NewResultsCmd lists recorded attempts of a quiz.
func NewResultsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "results <quizId>",
		Short: "List recorded attempt results of a quiz",
		Long:  "List recorded attempt results of a quiz. Requires postgres.url; attempts taken without Postgres are not kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quizID, err := app.ParseQuizID(args[0])
			if err != nil {
				return err
			}
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return errNoResultLedger
			}
			d, err := buildDeps(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer d.Close()
			return printResults(cmd.Context(), d.ledger, quizID, cmd.OutOrStdout())
		},
	}
}

func printResults(ctx context.Context, ledger resultStore, quizID int, out io.Writer) error {
	results, err := ledger.List(ctx, quizID)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintf(out, "No results for quiz %d.\n", quizID)
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STUDENT\tNAME\tCOURSE\tSCORE\tTRIGGER\tSUBMITTED")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%d/%d\t%s\t%s\n",
			r.Identity.StudentNumber,
			r.Identity.FirstName,
			r.Identity.LastName,
			r.Identity.CourseNumber,
			r.Score,
			r.Total,
			r.Trigger,
			r.SubmittedAt.Format(time.RFC3339),
		)
	}
	return tw.Flush()
}
