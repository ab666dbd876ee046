package main

import (
	"time"

	"ascesc/internal/export"
	"ascesc/internal/incident"
	"ascesc/internal/pipeline"
	"ascesc/internal/services"
	"ascesc/internal/store"
)

type outcomeView struct {
	Period      string `json:"period"`
	Path        string `json:"path"`
	Profile     string `json:"profile"`
	SHA256      string `json:"sha256,omitempty"`
	Accepted    bool   `json:"accepted"`
	Reason      string `json:"reason,omitempty"`
	Error       string `json:"error,omitempty"`
	RowsRead    int    `json:"rows_read"`
	Incidents   int    `json:"incidents"`
	Dropped     int    `json:"dropped"`
	FieldErrors int    `json:"field_errors"`
}

func newOutcomeView(o pipeline.Outcome) outcomeView {
	v := outcomeView{
		Period:      o.Period,
		Path:        o.Path,
		Profile:     o.Profile,
		SHA256:      o.SHA256,
		Accepted:    o.Accepted(),
		RowsRead:    o.Result.RowsRead,
		Incidents:   len(o.Result.Incidents),
		Dropped:     len(o.Result.Dropped),
		FieldErrors: len(o.Result.FieldErrors),
	}
	if o.Err != nil {
		v.Reason = services.RejectionReason(o.Err)
		v.Error = o.Err.Error()
	}
	return v
}

type anomalyView struct {
	Kind          string   `json:"kind"`
	StartDate     string   `json:"start_date"`
	EquipmentCode string   `json:"equipment_code"`
	Periods       []string `json:"periods"`
	Detail        string   `json:"detail"`
}

type runView struct {
	RunID             string        `json:"run_id"`
	StartedAt         time.Time     `json:"started_at"`
	FinishedAt        time.Time     `json:"finished_at"`
	LogPath           string        `json:"log_path,omitempty"`
	Extracts          []outcomeView `json:"extracts"`
	RowsRead          int           `json:"rows_read"`
	Ingested          int           `json:"ingested"`
	Dropped           int           `json:"dropped"`
	FieldErrors       int           `json:"field_errors"`
	Rejected          int           `json:"rejected"`
	Duplicates        int           `json:"duplicates"`
	Survivors         int           `json:"survivors"`
	Anomalies         []anomalyView `json:"anomalies"`
	Outputs           []string      `json:"outputs"`
	NormalizedOutputs []string      `json:"normalized_outputs,omitempty"`
	Stored            bool          `json:"stored"`
}

func newRunView(r *pipeline.Report) runView {
	v := runView{
		RunID:             r.RunID,
		StartedAt:         r.StartedAt,
		FinishedAt:        r.FinishedAt,
		LogPath:           r.LogPath,
		RowsRead:          r.RowsRead(),
		Ingested:          r.Ingested(),
		Dropped:           r.Dropped(),
		FieldErrors:       r.FieldErrors(),
		Rejected:          r.Rejected(),
		Duplicates:        len(r.Merge.Duplicates),
		Survivors:         r.Survivors(),
		Outputs:           r.Outputs,
		NormalizedOutputs: r.NormalizedOutputs,
		Stored:            r.Stored,
		Extracts:          make([]outcomeView, 0, len(r.Outcomes)),
		Anomalies:         make([]anomalyView, 0, len(r.Merge.Anomalies)),
	}
	for _, o := range r.Outcomes {
		v.Extracts = append(v.Extracts, newOutcomeView(o))
	}
	for _, a := range r.Merge.Anomalies {
		v.Anomalies = append(v.Anomalies, anomalyView{
			Kind:          string(a.Kind),
			StartDate:     a.Key.StartDate.Format(incident.DateLayout),
			EquipmentCode: a.Key.EquipmentCode,
			Periods:       a.Periods,
			Detail:        a.Detail,
		})
	}
	return v
}

func newStoredAnomalyView(a store.Anomaly) anomalyView {
	return anomalyView{
		Kind:          a.Kind,
		StartDate:     a.StartDate.Format(incident.DateLayout),
		EquipmentCode: a.EquipmentCode,
		Periods:       a.Periods,
		Detail:        a.Detail,
	}
}

// incidentView maps an incident onto the export column names.
func incidentView(inc incident.Incident) map[string]any {
	values := export.Values(inc)
	out := make(map[string]any, len(values))
	for i, col := range export.Columns {
		out[col] = values[i]
	}
	return out
}
