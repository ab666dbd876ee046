package pipeline

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"ascesc/internal/config"
	"ascesc/internal/fileutil"
	"ascesc/internal/ingest"
	"ascesc/internal/logging"
	"ascesc/internal/services"
)

// Ingest reads extracts without merging, exporting or persisting them. It
// backs the ingest command, which previews what a run would consume.
func (r *Runner) Ingest(ctx context.Context, extracts []config.Extract) ([]Outcome, error) {
	if extracts == nil {
		extracts = r.cfg.Extracts
	}
	return r.ingestAll(ctx, r.logger, extracts)
}

// ingestAll ingests extracts concurrently, bounded by the configured worker
// count. Outcomes keep the extract order. Only cancellation is returned as an
// error; extract failures are recorded on their outcome.
func (r *Runner) ingestAll(ctx context.Context, logger *slog.Logger, extracts []config.Extract) ([]Outcome, error) {
	outcomes := make([]Outcome, len(extracts))
	ingestor := ingest.New(logger, r.cfg.Normalize.LineAliases)

	g, gctx := errgroup.WithContext(ctx)
	workers := r.cfg.Ingest.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for idx, extract := range extracts {
		g.Go(func() error {
			outcome := r.ingestOne(gctx, ingestor, idx, extract)
			outcomes[idx] = outcome
			if gctx.Err() != nil {
				return gctx.Err()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return outcomes, err
	}

	for _, o := range outcomes {
		periodLogger := logging.WithContext(services.WithStage(services.WithPeriod(ctx, o.Period), "ingest"), logger)
		if o.Accepted() {
			periodLogger.Info("extract accepted",
				logging.String("path", o.Path),
				logging.Int("rows_read", o.Result.RowsRead),
				logging.Int("incidents", len(o.Result.Incidents)),
				logging.Int("dropped", len(o.Result.Dropped)),
				logging.Int("field_errors", len(o.Result.FieldErrors)),
				logging.String(logging.FieldEventType, "extract_accepted"),
			)
			continue
		}
		logging.ErrorWithContext(periodLogger, "extract rejected", "extract_rejected",
			logging.String("path", o.Path),
			logging.String("reason", services.RejectionReason(o.Err)),
			logging.Error(o.Err),
			logging.String(logging.FieldErrorHint, rejectionHint(o.Err)),
			logging.String(logging.FieldImpact, "every row of this extract is excluded from the merge"),
		)
	}
	return outcomes, nil
}

func (r *Runner) ingestOne(ctx context.Context, ingestor *ingest.Ingestor, idx int, extract config.Extract) Outcome {
	outcome := Outcome{
		Position: idx,
		Period:   extract.Period,
		Path:     extract.Path,
		Profile:  extract.Profile,
	}
	if outcome.Profile == "" {
		outcome.Profile = r.cfg.Ingest.DefaultProfile
	}

	ex, err := ingest.FromConfig(r.cfg, extract)
	if err != nil {
		outcome.Err = services.Wrap(services.ErrConfiguration, "ingest", "extract", extract.Period, err)
		return outcome
	}
	outcome.Path = ex.Path

	if sum, err := fileutil.SHA256File(ex.Path); err == nil {
		outcome.SHA256 = sum
	}

	result, err := ingestor.Ingest(ctx, ex)
	outcome.Result = result
	outcome.Err = err
	return outcome
}

func rejectionHint(err error) string {
	switch services.RejectionReason(err) {
	case services.RejectionSchema:
		return "compare the extract header with the profile columns"
	case services.RejectionUnreadable:
		return "check the extract path, sheet name and encoding"
	default:
		return "check the extract configuration"
	}
}
