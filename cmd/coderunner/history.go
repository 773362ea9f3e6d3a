package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"coderunner/internal/app"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show run totals and the most recent runs",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}
	cmd.Flags().IntP("limit", "n", 10, "Number of recent runs to show")
	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := app.OpenStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	sum, err := store.GetSummary(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "runs: %d  succeeded: %d  failed: %d  languages: %d\n", sum.Runs, sum.Succeeded, sum.Failed, sum.Languages)
	if sum.Runs == 0 {
		return nil
	}

	runs, err := store.RecentRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tLANG\tOUTCOME\tDURATION\tMESSAGE")
	for _, r := range runs {
		d := time.Duration(r.DurationMS) * time.Millisecond
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.StartTS.Local().Format(time.DateTime), r.LanguageID, r.Outcome, d, r.Message)
	}
	return w.Flush()
}
