package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/datallboy/gotube/internal/domain"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recent runs, or the jobs of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, err := bootstrap(ctx, bootOptions{history: true})
			if err != nil {
				return err
			}
			defer svc.Close()

			if svc.app.Store == nil {
				return errors.New("history is disabled (store.driver is none)")
			}

			out := cmd.OutOrStdout()

			if len(args) == 1 {
				run, err := svc.app.Store.GetRun(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Run %s  %s  %s\n", run.ID, run.Status, run.OutputDir)
				if run.Error != "" {
					fmt.Fprintf(out, "Error: %s\n", run.Error)
				}
				fmt.Fprintln(out, jobsTable(run.Jobs))
				return nil
			}

			runs, err := svc.app.Store.ListRuns(ctx, limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, runsTable(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")
	return cmd
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

func runsTable(runs []*domain.Run) string {
	t := newTable("ID", "STARTED", "STATUS", "TARGETS", "OK", "FAILED", "SKIPPED")
	for _, r := range runs {
		t.Row(
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			string(r.Status),
			strconv.Itoa(r.Targets),
			strconv.Itoa(r.Summary.OK),
			strconv.Itoa(r.Summary.Failed),
			strconv.Itoa(r.Summary.Skipped),
		)
	}
	return t.String()
}

func jobsTable(jobs []domain.JobResult) string {
	t := newTable("#", "OUTCOME", "TITLE", "URL", "ERROR")
	for _, j := range jobs {
		tag := "-"
		if j.Total > 0 {
			tag = j.Tag()
		}
		t.Row(tag, string(j.Outcome), j.Title, j.URL, j.Error)
	}
	return t.String()
}
