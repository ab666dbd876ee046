package pipeline

import (
	"time"

	"ascesc/internal/ingest"
	"ascesc/internal/merge"
	"ascesc/internal/services"
	"ascesc/internal/store"
)

// Outcome is the ingestion result of one extract.
type Outcome struct {
	Position int
	Period   string
	Path     string
	Profile  string
	SHA256   string
	Result   ingest.Result
	Err      error
}

// Accepted reports whether the extract takes part in the merge.
func (o Outcome) Accepted() bool {
	return o.Err == nil
}

func (o Outcome) record(runID string) store.Extract {
	e := store.Extract{
		RunID:       runID,
		Position:    o.Position,
		Period:      o.Period,
		Path:        o.Path,
		Profile:     o.Profile,
		SHA256:      o.SHA256,
		Status:      store.ExtractAccepted,
		RowsRead:    o.Result.RowsRead,
		Incidents:   len(o.Result.Incidents),
		Dropped:     len(o.Result.Dropped),
		FieldErrors: len(o.Result.FieldErrors),
	}
	if o.Err != nil {
		e.Status = store.ExtractRejected
		e.Reason = services.RejectionReason(o.Err)
		e.Detail = o.Err.Error()
	}
	return e
}

// Report summarizes a run.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	LogPath    string

	Outcomes []Outcome
	Merge    merge.Result

	Outputs           []string
	NormalizedOutputs []string
	Stored            bool
}

// RowsRead is the number of non-blank data rows read across accepted extracts.
func (r *Report) RowsRead() int {
	n := 0
	for _, o := range r.Outcomes {
		n += o.Result.RowsRead
	}
	return n
}

// Ingested is the number of incidents produced by accepted extracts.
func (r *Report) Ingested() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Accepted() {
			n += len(o.Result.Incidents)
		}
	}
	return n
}

// Dropped is the number of rows excluded for lacking an identity field.
func (r *Report) Dropped() int {
	n := 0
	for _, o := range r.Outcomes {
		n += len(o.Result.Dropped)
	}
	return n
}

// FieldErrors is the number of cells that could not be coerced.
func (r *Report) FieldErrors() int {
	n := 0
	for _, o := range r.Outcomes {
		n += len(o.Result.FieldErrors)
	}
	return n
}

// Rejected is the number of extracts excluded from the merge.
func (r *Report) Rejected() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.Accepted() {
			n++
		}
	}
	return n
}

// Survivors is the size of the canonical set.
func (r *Report) Survivors() int {
	return len(r.Merge.Incidents)
}

func (r *Report) run(status store.RunStatus, runErr error) store.Run {
	finished := r.FinishedAt
	run := store.Run{
		ID:         r.RunID,
		Status:     status,
		StartedAt:  r.StartedAt,
		FinishedAt: &finished,
		Extracts:   len(r.Outcomes),
		RowsRead:   r.RowsRead(),
		Ingested:   r.Ingested(),
		Dropped:    r.Dropped(),
		Rejected:   r.Rejected(),
		Duplicates: len(r.Merge.Duplicates),
		Survivors:  r.Survivors(),
		Anomalies:  len(r.Merge.Anomalies),
		Outputs:    append([]string(nil), r.Outputs...),
	}
	if runErr != nil {
		run.ErrorMessage = runErr.Error()
	}
	return run
}

func storeAnomalies(anomalies []merge.Anomaly) []store.Anomaly {
	out := make([]store.Anomaly, 0, len(anomalies))
	for _, a := range anomalies {
		out = append(out, store.Anomaly{
			Kind:          string(a.Kind),
			StartDate:     a.Key.StartDate,
			EquipmentCode: a.Key.EquipmentCode,
			Periods:       append([]string(nil), a.Periods...),
			Detail:        a.Detail,
		})
	}
	return out
}
