package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent pipeline runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			tbl := launcherTable{
				columns: []column{
					{title: "Started"},
					{title: "Kind"},
					{title: "Outcome"},
					{title: "Cancelled"},
					{title: "Aborted"},
					{title: "Ran", kind: countColumn},
					{title: "Total", kind: countColumn},
					{title: "Failed", kind: countColumn},
					{title: "Duration", kind: numberColumn},
				},
				totalsLabel: fmt.Sprintf("%d runs", len(runs)),
			}
			for _, run := range runs {
				tbl.add(
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					string(run.Kind),
					run.Outcome.String(),
					yesNo(run.Cancelled),
					yesNo(run.Aborted),
					strconv.Itoa(run.Started),
					strconv.Itoa(run.Counts.Total),
					strconv.Itoa(run.Counts.Failed),
					run.Duration().Round(time.Millisecond).String(),
				)
			}
			fmt.Fprintln(out, tbl.render())
			return nil
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 for all)")

	var keep int
	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the most recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			removed, err := store.PruneRuns(cmd.Context(), keep)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d runs\n", removed)
			return nil
		},
	}
	pruneCmd.Flags().IntVar(&keep, "keep", 0, "Runs to keep")
	historyCmd.AddCommand(pruneCmd)

	return historyCmd
}
