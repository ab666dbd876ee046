package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ascesc/internal/store"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List consolidation runs, or the extracts of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.requireStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if len(args) == 1 {
				run, err := st.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if run == nil {
					return fmt.Errorf("run %s not found", args[0])
				}
				extracts, err := st.ListExtracts(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				payload := struct {
					Run      store.Run       `json:"run"`
					Extracts []store.Extract `json:"extracts"`
				}{*run, extracts}
				return emit(cmd, ctx, payload, func() string { return renderRunDetail(*run, extracts) })
			}

			runs, err := st.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return emit(cmd, ctx, runs, func() string { return renderRuns(runs) })
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum runs to list (0 for all)")
	return cmd
}

func renderRuns(runs []store.Run) string {
	if len(runs) == 0 {
		return "No runs recorded."
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.ID,
			string(r.Status),
			r.StartedAt.Local().Format(time.DateTime),
			runDuration(r),
			strconv.Itoa(r.Extracts),
			strconv.Itoa(r.Rejected),
			strconv.Itoa(r.Duplicates),
			strconv.Itoa(r.Survivors),
			strconv.Itoa(r.Anomalies),
		})
	}
	return renderTable(
		[]string{"Run", "Status", "Started", "Took", "Extracts", "Rejected", "Duplicates", "Incidents", "Anomalies"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
	)
}

func renderRunDetail(run store.Run, extracts []store.Extract) string {
	out := renderRuns([]store.Run{run})
	if run.ErrorMessage != "" {
		out += "\nError: " + run.ErrorMessage
	}
	if len(extracts) == 0 {
		return out
	}
	rows := make([][]string, 0, len(extracts))
	for _, e := range extracts {
		status := string(e.Status)
		if e.Reason != "" {
			status += " (" + e.Reason + ")"
		}
		rows = append(rows, []string{
			e.Period,
			e.Path,
			e.Profile,
			status,
			strconv.Itoa(e.RowsRead),
			strconv.Itoa(e.Incidents),
			strconv.Itoa(e.Dropped),
			shortSum(e.SHA256),
		})
	}
	out += "\n" + renderTable(
		[]string{"Period", "Path", "Profile", "Status", "Rows", "Incidents", "Dropped", "SHA-256"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
	)
	for _, path := range run.Outputs {
		out += "\nOutput: " + path
	}
	return out
}

func runDuration(r store.Run) string {
	if r.FinishedAt == nil {
		return "-"
	}
	return r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
}

func shortSum(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}

func newAnomaliesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "anomalies [run-id]",
		Short: "List anomalies flagged by a run (default: the latest successful run)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.requireStore()
			if err != nil {
				return err
			}
			defer st.Close()

			runID := ""
			if len(args) == 1 {
				runID = args[0]
			} else {
				run, err := st.LatestRun(cmd.Context(), store.RunSucceeded)
				if err != nil {
					return err
				}
				if run == nil {
					return errors.New("no successful run recorded; run `ascesc run` first")
				}
				runID = run.ID
			}

			anomalies, err := st.ListAnomalies(cmd.Context(), runID)
			if err != nil {
				return err
			}
			views := make([]anomalyView, 0, len(anomalies))
			for _, a := range anomalies {
				views = append(views, newStoredAnomalyView(a))
			}
			return emit(cmd, ctx, views, func() string { return renderAnomalies(runID, views) })
		},
	}
}

func renderAnomalies(runID string, anomalies []anomalyView) string {
	if len(anomalies) == 0 {
		return fmt.Sprintf("No anomalies flagged by run %s.", runID)
	}
	rows := make([][]string, 0, len(anomalies))
	for _, a := range anomalies {
		rows = append(rows, []string{a.Kind, a.StartDate, a.EquipmentCode, strings.Join(a.Periods, ", "), a.Detail})
	}
	return renderTable(
		[]string{"Kind", "Start", "Equipment", "Periods", "Detail"},
		rows,
		nil,
	)
}
