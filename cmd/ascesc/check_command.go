package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ascesc/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify directories, database and extracts before a run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)

			// JSON mode still walks the results to count failures.
			out := cmd.OutOrStdout()
			if ctx.jsonOutput() {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
				out = io.Discard
			}
			status := newStatusWriter(out)
			status.section("Configuration")
			status.line("Config", statusInfo, configLabel(ctx))
			status.blank()
			status.section("Checks")
			for _, r := range results {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				status.line(r.Name, kind, r.Detail)
			}

			if status.failures > 0 {
				return fmt.Errorf("%d of %d checks failed", status.failures, len(results))
			}
			return nil
		},
	}
}

func configLabel(ctx *commandContext) string {
	if ctx.configPath == "" {
		return "defaults"
	}
	return ctx.configPath
}
