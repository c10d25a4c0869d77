// Package ingest drives a multi-target extraction run: each target is retried
// on its own budget and all records are written to the store in one batch at
// the end.
package ingest

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Ayushprasai11/Valorant/internal/extract"
	"github.com/Ayushprasai11/Valorant/internal/model"
	"github.com/Ayushprasai11/Valorant/internal/render"
	"github.com/Ayushprasai11/Valorant/internal/resilience"
	"github.com/Ayushprasai11/Valorant/internal/store"
)

// Options tunes a Runner. Zero values fall back to 5 attempts and a 5s fixed
// backoff.
type Options struct {
	MaxAttempts int
	Backoff     time.Duration

	// Sleep replaces the backoff timer. Tests use it to observe waits.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Runner executes ingestion runs against a spec registry, a renderer and a
// store.
type Runner struct {
	reg      *extract.Registry
	renderer render.Renderer
	open     store.Opener
	retry    resilience.RetryConfig
}

// NewRunner creates a Runner. The registry is read-only for the lifetime of
// the runner.
func NewRunner(reg *extract.Registry, renderer render.Renderer, open store.Opener, opts Options) *Runner {
	cfg := resilience.FromRunConfig(opts.MaxAttempts, 0)
	if opts.Backoff > 0 {
		cfg.Backoff = opts.Backoff
	}
	cfg.Sleep = opts.Sleep
	return &Runner{reg: reg, renderer: renderer, open: open, retry: cfg}
}

// MaxAttempts is the per-target attempt budget.
func (r *Runner) MaxAttempts() int {
	return r.retry.MaxAttempts
}

// Run processes targets in order and then persists every accumulated record
// with a single store write. Per-target failures are recorded in the report,
// never returned. The returned error is non-nil only when ctx is cancelled or
// the final write fails; the report is returned in both cases and still holds
// the accumulated records.
func (r *Runner) Run(ctx context.Context, targets []model.Target) (*model.RunReport, error) {
	log := zap.L().With(zap.String("component", "ingest.runner"))
	report := &model.RunReport{StartedAt: time.Now().UTC()}

	log.Info("starting run",
		zap.Int("targets", len(targets)),
		zap.Int("max_attempts", r.retry.MaxAttempts),
		zap.Duration("backoff", r.retry.Backoff),
	)

	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			report.FinishedAt = time.Now().UTC()
			return report, err
		}

		res, fields, records := r.runTarget(ctx, log, t)
		report.Targets = append(report.Targets, res)
		report.Records = append(report.Records, records...)
		report.AddFields(fields)
	}
	if err := ctx.Err(); err != nil {
		report.FinishedAt = time.Now().UTC()
		return report, err
	}

	log.Info("extraction finished",
		zap.Int("succeeded", report.Count(model.TargetStatusSucceeded)),
		zap.Int("exhausted", report.Count(model.TargetStatusExhausted)),
		zap.Int("skipped", report.Count(model.TargetStatusSkipped)),
		zap.Int("records", report.RecordCount()),
	)

	if report.RecordCount() == 0 {
		log.Info("no records extracted, nothing to store")
		report.FinishedAt = time.Now().UTC()
		return report, nil
	}

	ids, err := r.Persist(ctx, report.Fields, report.Records)
	report.FinishedAt = time.Now().UTC()
	if err != nil {
		log.Error("store write failed, records kept in report",
			zap.Int("records", report.RecordCount()),
			zap.Error(err),
		)
		return report, err
	}
	report.InsertedIDs = ids
	return report, nil
}

// Persist opens the store, writes records in one batch and closes the store
// whatever the outcome. fields orders document keys. Store errors are returned
// unwrapped so callers can match ConnectionError and WriteError.
func (r *Runner) Persist(ctx context.Context, fields []string, records []model.Record) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}
	log := zap.L().With(zap.String("component", "ingest.runner"))

	st, err := r.open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Warn("close store", zap.Error(cerr))
		}
	}()

	ids, err := st.InsertMany(ctx, fields, records)
	if err != nil {
		return nil, err
	}
	log.Info("stored records", zap.Int("count", len(ids)), zap.Strings("ids", ids))
	return ids, nil
}

// runTarget returns the target's result and, on success, the spec's field
// order and the extracted records.
func (r *Runner) runTarget(ctx context.Context, log *zap.Logger, t model.Target) (model.TargetResult, []string, []model.Record) {
	tLog := log.With(
		zap.String("url", t.URL),
		zap.String("label", t.Label),
		zap.String("spec", t.Spec),
	)
	res := model.TargetResult{Target: t}
	start := time.Now()

	spec, err := r.reg.Lookup(t.Spec)
	if err == nil {
		err = spec.Validate()
	}
	if err != nil {
		tLog.Warn("skipping target", zap.Error(err))
		res.Status = model.TargetStatusSkipped
		res.Error = err.Error()
		res.Duration = time.Since(start).Milliseconds()
		return res, nil, nil
	}

	cfg := r.retry
	cfg.OnRetry = resilience.RetryLogger(tLog, cfg.MaxAttempts)

	records, attempts, err := resilience.DoCounted(ctx, cfg, func(ctx context.Context) ([]model.Record, error) {
		return r.attempt(ctx, t, spec)
	})
	res.Attempts = attempts
	res.Duration = time.Since(start).Milliseconds()

	if err != nil {
		res.Status = model.TargetStatusExhausted
		res.Error = err.Error()
		tLog.Warn("target exhausted, giving up",
			zap.Int("attempt", attempts),
			zap.Int("remaining", 0),
			zap.String("error_class", resilience.ClassifyError(err)),
			zap.Error(err),
		)
		return res, nil, nil
	}

	res.Status = model.TargetStatusSucceeded
	res.Rows = len(records)
	if len(records) == 0 {
		tLog.Info("table had no data rows", zap.Int("attempts", attempts))
	} else {
		tLog.Info("target extracted", zap.Int("rows", len(records)), zap.Int("attempts", attempts))
	}
	return res, spec.Fields(), records
}

// attempt runs one navigate-and-extract cycle on a fresh session. The session
// is closed on every return path.
func (r *Runner) attempt(ctx context.Context, t model.Target, spec extract.Spec) ([]model.Record, error) {
	sess, err := r.renderer.NewSession(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open session")
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			zap.L().Debug("close session", zap.String("url", t.URL), zap.Error(cerr))
		}
	}()

	if err := sess.Navigate(ctx, t.URL); err != nil {
		return nil, err
	}

	return extract.Extract(ctx, sess, spec, t.Label)
}
