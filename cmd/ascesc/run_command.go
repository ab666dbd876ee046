package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"ascesc/internal/pipeline"
	"ascesc/internal/services"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	flags := &extractFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Consolidate extracts into the canonical incident set",
		Long: `Ingest every extract, merge the periods and write the canonical set.

Extracts come from the configuration unless --extract is given. When the same
incident (start date and equipment code) appears in several extracts, the
record with the latest end date is kept.`,
		Example: `  ascesc run
  ascesc run --extract 2024-02=feb.xlsx --extract alertes=alertes.csv:alertes_tcl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			extracts, err := flags.resolve(cfg)
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close()
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, runErr := pipeline.New(cfg, st, logger).Run(runCtx, extracts)
			if err := emit(cmd, ctx, newRunView(report), func() string { return renderRunReport(report) }); err != nil {
				return err
			}
			return runErr
		},
	}

	addExtractFlags(cmd, flags)
	return cmd
}

func addExtractFlags(cmd *cobra.Command, flags *extractFlags) {
	cmd.Flags().StringArrayVarP(&flags.specs, "extract", "e", nil, "Extract as period=path[:profile]; repeat in precedence order")
	cmd.Flags().StringVar(&flags.sheet, "sheet", "", "Workbook sheet for --extract values (\"*\" reads every sheet)")
	cmd.Flags().StringVar(&flags.encoding, "encoding", "", "CSV encoding for --extract values (utf-8 or latin1)")
}

func renderRunReport(report *pipeline.Report) string {
	out := renderOutcomes(report.Outcomes)
	out += "\n" + renderTable(
		[]string{"Metric", "Value"},
		[][]string{
			{"Run", report.RunID},
			{"Rows read", strconv.Itoa(report.RowsRead())},
			{"Incidents ingested", strconv.Itoa(report.Ingested())},
			{"Rows dropped", strconv.Itoa(report.Dropped())},
			{"Field errors", strconv.Itoa(report.FieldErrors())},
			{"Extracts rejected", strconv.Itoa(report.Rejected())},
			{"Duplicates removed", strconv.Itoa(len(report.Merge.Duplicates))},
			{"Canonical incidents", strconv.Itoa(report.Survivors())},
			{"Anomalies", strconv.Itoa(len(report.Merge.Anomalies))},
		},
		[]columnAlignment{alignLeft, alignRight},
	)
	for _, path := range report.Outputs {
		out += "\nWrote " + path
	}
	for _, path := range report.NormalizedOutputs {
		out += "\nWrote " + path
	}
	if report.LogPath != "" {
		out += "\nRun log: " + report.LogPath
	}
	return out
}

func renderOutcomes(outcomes []pipeline.Outcome) string {
	if len(outcomes) == 0 {
		return "No extracts."
	}
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		status := "accepted"
		note := ""
		if !o.Accepted() {
			status = "rejected (" + services.RejectionReason(o.Err) + ")"
			note = o.Err.Error()
		}
		rows = append(rows, []string{
			o.Period,
			o.Profile,
			status,
			strconv.Itoa(o.Result.RowsRead),
			strconv.Itoa(len(o.Result.Incidents)),
			strconv.Itoa(len(o.Result.Dropped)),
			strconv.Itoa(len(o.Result.FieldErrors)),
			note,
		})
	}
	return renderTable(
		[]string{"Period", "Profile", "Status", "Rows", "Incidents", "Dropped", "Field errors", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
	)
}

func newIngestCommand(ctx *commandContext) *cobra.Command {
	flags := &extractFlags{}

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Read extracts and report what a run would consume",
		Long:  "Ingest extracts without merging, exporting or storing anything.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			extracts, err := flags.resolve(cfg)
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			outcomes, err := pipeline.New(cfg, nil, logger).Ingest(runCtx, extracts)
			if err != nil {
				return err
			}
			views := make([]outcomeView, 0, len(outcomes))
			rejected := 0
			for _, o := range outcomes {
				views = append(views, newOutcomeView(o))
				if !o.Accepted() {
					rejected++
				}
			}
			if err := emit(cmd, ctx, views, func() string { return renderOutcomes(outcomes) }); err != nil {
				return err
			}
			if rejected > 0 {
				return fmt.Errorf("%d of %d extracts rejected", rejected, len(outcomes))
			}
			return nil
		},
	}

	addExtractFlags(cmd, flags)
	return cmd
}
