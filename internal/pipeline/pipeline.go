package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"ascesc/internal/config"
	"ascesc/internal/duration"
	"ascesc/internal/export"
	"ascesc/internal/incident"
	"ascesc/internal/logging"
	"ascesc/internal/merge"
	"ascesc/internal/services"
	"ascesc/internal/store"
)

// LockFileName is the lock file held in the output directory during a run.
const LockFileName = ".ascesc.lock"

// keepRuns bounds the run history kept in the store.
const keepRuns = 100

// ErrRunInProgress is returned when another run holds the output lock.
var ErrRunInProgress = errors.New("another run holds the output lock")

// Runner executes consolidation runs against one configuration.
type Runner struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures optional Runner behavior.
type Option func(*Runner)

// WithClock overrides the time source used for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithRunIDs overrides run identifier generation.
func WithRunIDs(newID func() string) Option {
	return func(r *Runner) {
		if newID != nil {
			r.newID = newID
		}
	}
}

// New constructs a Runner. A nil store disables persistence even when the
// configuration enables it.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		store:  st,
		logger: logging.NewComponentLogger(logger, "pipeline"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run consolidates extracts, or the configured extracts when none are given.
// The returned report is never nil, including on failure. When no usable
// input remains the error wraps services.ErrNoUsableInput, no export file is
// written and the stored canonical set is left untouched.
func (r *Runner) Run(ctx context.Context, extracts []config.Extract) (*Report, error) {
	if extracts == nil {
		extracts = r.cfg.Extracts
	}
	report := &Report{RunID: r.newID(), StartedAt: r.now().UTC()}

	if err := r.cfg.EnsureDirectories(); err != nil {
		return report, services.Wrap(services.ErrConfiguration, "run", "ensure directories", "", err)
	}

	lock := flock.New(filepath.Join(r.cfg.Paths.OutputDir, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return report, fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return report, ErrRunInProgress
	}
	defer func() {
		_ = lock.Unlock()
	}()

	ctx = services.WithRunID(ctx, report.RunID)
	base := r.logger
	handler, closer, logPath, err := logging.NewRunLogHandler(r.cfg.Paths.LogDir, report.RunID, r.cfg.Logging.Level, report.StartedAt)
	if err != nil {
		logging.WarnWithContext(base, "run log unavailable; logging to console only", "run_log_unavailable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "no per-run log file for this run"),
		)
	} else {
		defer closer.Close()
		base = logging.TeeLogger(base, handler)
		report.LogPath = logPath
	}
	logger := logging.WithContext(ctx, base)

	logger.Info("run started",
		logging.Int("extracts", len(extracts)),
		logging.String("output_dir", r.cfg.Paths.OutputDir),
		logging.String(logging.FieldEventType, "run_started"),
	)

	// Run bookkeeping is written even when ctx is cancelled.
	storeCtx := context.WithoutCancel(ctx)
	if r.store != nil {
		if err := r.store.BeginRun(storeCtx, report.RunID, report.StartedAt); err != nil {
			return report, services.Wrap(services.ErrStore, "run", "begin", "", err)
		}
	}

	runErr := r.execute(ctx, base, report, extracts)
	report.FinishedAt = r.now().UTC()

	status := store.RunSucceeded
	if runErr != nil {
		status = store.RunFailed
		logging.ErrorWithContext(logger, "run failed", "run_failed",
			logging.Error(runErr),
			logging.String(logging.FieldErrorHint, errorHint(runErr)),
		)
	} else {
		logger.Info("run completed",
			logging.Int("rows_read", report.RowsRead()),
			logging.Int("ingested", report.Ingested()),
			logging.Int("dropped", report.Dropped()),
			logging.Int("rejected_extracts", report.Rejected()),
			logging.Int("duplicates", len(report.Merge.Duplicates)),
			logging.Int("survivors", report.Survivors()),
			logging.Int("anomalies", len(report.Merge.Anomalies)),
			logging.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
			logging.String(logging.FieldEventType, "run_completed"),
		)
	}

	if r.store != nil {
		if err := r.store.FinishRun(storeCtx, report.run(status, runErr)); err != nil && runErr == nil {
			runErr = services.Wrap(services.ErrStore, "run", "finish", "", err)
		}
		if runErr == nil {
			if _, err := r.store.PruneRuns(storeCtx, keepRuns); err != nil {
				logging.WarnWithContext(logger, "run history pruning failed", "run_prune_failed", logging.Error(err))
			}
		}
	}

	logging.PruneRunLogs(logger, r.cfg.Paths.LogDir, r.cfg.Logging.RetentionDays, report.FinishedAt, report.LogPath)
	return report, runErr
}

func (r *Runner) execute(ctx context.Context, base *slog.Logger, report *Report, extracts []config.Extract) error {
	logger := logging.WithContext(ctx, base)
	if len(extracts) == 0 {
		return services.Wrap(services.ErrNoUsableInput, "run", "extracts", "no extracts configured", nil)
	}

	outcomes, err := r.ingestAll(ctx, base, extracts)
	report.Outcomes = outcomes
	if err != nil {
		return err
	}

	periods := make([][]incident.Incident, 0, len(outcomes))
	for _, o := range outcomes {
		if r.store != nil {
			if err := r.store.RecordExtract(ctx, o.record(report.RunID)); err != nil {
				return services.Wrap(services.ErrStore, "run", "record extract", o.Period, err)
			}
		}
		if !o.Accepted() {
			continue
		}
		annotated := duration.Annotate(o.Result.Incidents)
		report.Outcomes[o.Position].Result.Incidents = annotated
		periods = append(periods, annotated)
	}

	switch {
	case len(periods) == 0:
		return services.Wrap(services.ErrNoUsableInput, "run", "ingest", "every extract was rejected", nil)
	case report.Ingested() == 0:
		return services.Wrap(services.ErrNoUsableInput, "run", "ingest", "no incident survived ingestion", nil)
	}

	if r.cfg.Output.WriteNormalized {
		writer := export.NewWriter(r.cfg)
		for _, o := range report.Outcomes {
			if !o.Accepted() {
				continue
			}
			paths, err := writer.Write(export.PeriodName(r.cfg.Output.BaseName, o.Period), o.Result.Incidents)
			if err != nil {
				return err
			}
			report.NormalizedOutputs = append(report.NormalizedOutputs, paths...)
		}
	}

	mergeCtx := services.WithStage(ctx, "merge")
	report.Merge = merge.Merge(periods...)
	r.logMerge(logging.WithContext(mergeCtx, base), report.Merge)

	if err := ctx.Err(); err != nil {
		return err
	}

	outputs, err := export.NewWriter(r.cfg).Write(r.cfg.Output.BaseName, report.Merge.Incidents)
	report.Outputs = outputs
	if err != nil {
		return err
	}
	for _, path := range outputs {
		logger.Info("canonical set exported",
			logging.String("path", path),
			logging.Int("incidents", report.Survivors()),
			logging.String(logging.FieldEventType, "export_written"),
		)
	}

	if r.store != nil {
		if err := r.store.ReplaceCanonical(ctx, report.RunID, report.Merge.Incidents, storeAnomalies(report.Merge.Anomalies)); err != nil {
			return services.Wrap(services.ErrStore, "run", "replace canonical", "", err)
		}
		report.Stored = true
	}
	return nil
}

func (r *Runner) logMerge(logger *slog.Logger, result merge.Result) {
	for _, d := range result.Rejected {
		logging.WarnWithContext(logger, "incident discarded; identity incomplete", "merge_rejected",
			logging.String(logging.FieldPeriod, d.Incident.SourcePeriod),
			logging.Int(logging.FieldRow, d.Incident.SourceRow),
			logging.String("reason", d.Reason),
			logging.String(logging.FieldImpact, "incident excluded from the canonical set"),
		)
	}
	for _, d := range result.Duplicates {
		logger.Info("duplicate discarded",
			logging.String("key", d.Survivor.String()),
			logging.String(logging.FieldPeriod, d.Incident.SourcePeriod),
			logging.Int(logging.FieldRow, d.Incident.SourceRow),
			logging.String("start_time", d.Incident.StartTime),
			logging.String("reason", d.Reason),
			logging.String(logging.FieldEventType, "merge_duplicate"),
		)
	}
	for _, a := range result.Anomalies {
		logging.WarnWithContext(logger, "anomaly flagged for review", "merge_anomaly",
			logging.String("kind", string(a.Kind)),
			logging.String("key", a.Key.String()),
			logging.Any("periods", a.Periods),
			logging.String("detail", a.Detail),
			logging.Alert(string(a.Kind)),
			logging.String(logging.FieldErrorHint, "review the source extracts for this equipment"),
			logging.String(logging.FieldImpact, "record kept unchanged in the canonical set"),
		)
	}
	logger.Info("periods merged",
		logging.Int("input", result.Input()),
		logging.Int("survivors", len(result.Incidents)),
		logging.Int("duplicates", len(result.Duplicates)),
		logging.Int("anomalies", len(result.Anomalies)),
		logging.String(logging.FieldEventType, "merge_completed"),
	)
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, services.ErrNoUsableInput):
		return "check extract paths and column headers with `ascesc check`"
	case errors.Is(err, services.ErrExport):
		return "check output_dir permissions and free space"
	case errors.Is(err, services.ErrStore):
		return "check database_path permissions"
	case errors.Is(err, services.ErrConfiguration):
		return "run `ascesc config validate`"
	case errors.Is(err, context.Canceled):
		return "run interrupted; rerun to produce outputs"
	default:
		return "check logs for details"
	}
}
