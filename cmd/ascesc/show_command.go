package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ascesc/internal/incident"
	"ascesc/internal/store"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var filter store.IncidentFilter

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display the stored canonical incident set",
		Example: `  ascesc show --line A --type elevator
  ascesc show --year 2024 --limit 0 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter.Type = strings.ToLower(strings.TrimSpace(filter.Type))
			st, err := ctx.requireStore()
			if err != nil {
				return err
			}
			defer st.Close()

			incidents, err := st.ListIncidents(cmd.Context(), filter)
			if err != nil {
				return err
			}
			views := make([]map[string]any, 0, len(incidents))
			for _, inc := range incidents {
				views = append(views, incidentView(inc))
			}
			return emit(cmd, ctx, views, func() string { return renderIncidents(incidents) })
		},
	}

	cmd.Flags().StringVar(&filter.Line, "line", "", "Only incidents on this line")
	cmd.Flags().StringVar(&filter.EquipmentCode, "code", "", "Only incidents for this equipment code")
	cmd.Flags().IntVar(&filter.Year, "year", 0, "Only incidents starting in this year")
	cmd.Flags().StringVar(&filter.Type, "type", "", "Only elevator or escalator incidents")
	cmd.Flags().IntVarP(&filter.Limit, "limit", "n", 50, "Maximum incidents to display (0 for all)")
	return cmd
}

func renderIncidents(incidents []incident.Incident) string {
	if len(incidents) == 0 {
		return "No incidents stored."
	}
	rows := make([][]string, 0, len(incidents))
	for _, inc := range incidents {
		end := ""
		if inc.EndDate != nil {
			end = strings.TrimSpace(inc.EndDate.Format(incident.DateLayout) + " " + inc.EndTime)
		}
		hours := ""
		if inc.HasDuration() {
			hours = strconv.FormatFloat(*inc.DurationHours, 'f', 2, 64)
		}
		rows = append(rows, []string{
			strings.TrimSpace(inc.StartDate.Format(incident.DateLayout) + " " + inc.StartTime),
			end,
			inc.Line,
			inc.Station,
			inc.EquipmentCode,
			inc.EquipmentType().Label(),
			hours,
			inc.Reason,
			inc.SourcePeriod,
		})
	}
	return renderTable(
		[]string{"Start", "End", "Line", "Station", "Equipment", "Type", "Hours", "Reason", "Period"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
		"", "", "", "", "", "", "", "", fmt.Sprintf("%d shown", len(incidents)),
	)
}
