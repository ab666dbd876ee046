package store

import "time"

// RunStatus is the lifecycle state of a consolidation run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// ExtractStatus records whether an extract took part in the merge.
type ExtractStatus string

const (
	ExtractAccepted ExtractStatus = "accepted"
	ExtractRejected ExtractStatus = "rejected"
)

// Run is one consolidation run and its counters.
type Run struct {
	ID           string     `json:"id"`
	Status       RunStatus  `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	Extracts     int        `json:"extracts"`
	RowsRead     int        `json:"rows_read"`
	Ingested     int        `json:"ingested"`
	Dropped      int        `json:"dropped"`
	Rejected     int        `json:"rejected"`
	Duplicates   int        `json:"duplicates"`
	Survivors    int        `json:"survivors"`
	Anomalies    int        `json:"anomalies"`
	Outputs      []string   `json:"outputs,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// Extract is the outcome of one extract within a run.
type Extract struct {
	RunID       string        `json:"run_id"`
	Position    int           `json:"position"`
	Period      string        `json:"period"`
	Path        string        `json:"path"`
	Profile     string        `json:"profile"`
	SHA256      string        `json:"sha256,omitempty"`
	Status      ExtractStatus `json:"status"`
	Reason      string        `json:"reason,omitempty"`
	Detail      string        `json:"detail,omitempty"`
	RowsRead    int           `json:"rows_read"`
	Incidents   int           `json:"incidents"`
	Dropped     int           `json:"dropped"`
	FieldErrors int           `json:"field_errors"`
}

// Anomaly is a flagged condition stored with the run that found it.
type Anomaly struct {
	RunID         string
	Kind          string
	StartDate     time.Time
	EquipmentCode string
	Periods       []string
	Detail        string
}

// IncidentFilter narrows ListIncidents. Zero values match everything.
type IncidentFilter struct {
	Line          string
	EquipmentCode string
	Year          int
	// Type is "elevator" or "escalator".
	Type  string
	Limit int
}
