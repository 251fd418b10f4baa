// Package pipeline drives catalog processors over a set of locations and
// writes the accepted entities to a sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cloudcatalog/ingester/internal/catalog"
	"github.com/cloudcatalog/ingester/internal/sink"
)

var (
	// ErrLocationNotHandled is returned for a required location no processor claims.
	ErrLocationNotHandled = errors.New("no processor handled location")

	// ErrLocationFailed wraps a processor's failure to read a location.
	ErrLocationFailed = errors.New("failed to read location")

	// ErrSinkWrite wraps a failed sink write.
	ErrSinkWrite = errors.New("failed to write entity")
)

// RunSummary counts what a single Run did.
type RunSummary struct {
	RunID     string
	Locations int // claimed by a processor
	Entities  int // written to the sink
	Rejected  int // dropped by hooks or validation
	Errors    int // error results plus failed sink writes
	Duration  time.Duration
}

// Runner reads locations through its processors and sinks the results.
// A Runner is not safe for concurrent Run calls.
type Runner struct {
	processors []catalog.Processor
	sink       sink.Sink
	validator  *catalog.Validator
	metrics    *Metrics
	logger     *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithValidator checks entities that no processor validates itself.
func WithValidator(v *catalog.Validator) Option {
	return func(r *Runner) { r.validator = v }
}

// WithMetrics sets the collectors the runner reports to.
func WithMetrics(m *Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithLogger sets the runner's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// NewRunner asks processors, in order, to read each location.
func NewRunner(processors []catalog.Processor, s sink.Sink, opts ...Option) *Runner {
	r := &Runner{
		processors: processors,
		sink:       s,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.metrics == nil {
		r.metrics = NewMetrics(prometheus.NewRegistry())
	}

	return r
}

// Run reads every location once. A failed location does not stop the others;
// all failures are joined into the returned error.
func (r *Runner) Run(ctx context.Context, locations []LocationSpec) (RunSummary, error) {
	start := time.Now()
	summary := RunSummary{RunID: uuid.NewString()}
	logger := r.logger.With(slog.String("run_id", summary.RunID))

	logger.Info("Run started", slog.Int("locations", len(locations)))

	var errs []error

	for _, loc := range locations {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)

			break
		}

		if err := r.readLocation(ctx, logger, loc, &summary); err != nil {
			errs = append(errs, err)
		}
	}

	summary.Duration = time.Since(start)
	err := errors.Join(errs...)
	r.metrics.observeRun(summary.Duration, err == nil)

	attrs := []any{
		slog.Int("locations", summary.Locations),
		slog.Int("entities", summary.Entities),
		slog.Int("rejected", summary.Rejected),
		slog.Int("errors", summary.Errors),
		slog.Duration("duration", summary.Duration),
	}

	if err != nil {
		logger.Error("Run finished with errors", append(attrs, slog.String("error", err.Error()))...)
	} else {
		logger.Info("Run finished", attrs...)
	}

	return summary, err
}

// Loop runs immediately and then every interval until ctx is done.
// Run errors are logged, not returned. A non-positive interval runs once and
// returns that run's error.
func (r *Runner) Loop(ctx context.Context, locations []LocationSpec, interval time.Duration) error {
	_, err := r.Run(ctx, locations)
	if interval <= 0 {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Run loop stopped", slog.String("reason", context.Cause(ctx).Error()))

			return nil
		case <-ticker.C:
			_, _ = r.Run(ctx, locations)
		}
	}
}

func (r *Runner) readLocation(ctx context.Context, logger *slog.Logger, loc LocationSpec, summary *RunSummary) error {
	logger = logger.With(slog.String("location_type", loc.Type), slog.String("location_target", loc.Target))

	for _, p := range r.processors {
		hooks := catalog.HooksFor(p)

		var sinkErrs []error

		emit := func(res catalog.Result) {
			if err := r.handleResult(ctx, logger, hooks, res, summary); err != nil {
				sinkErrs = append(sinkErrs, err)
			}
		}

		claimed, err := p.ReadLocation(ctx, loc.Location, loc.Optional, emit)
		if err != nil {
			r.metrics.locations.WithLabelValues(locationFailed).Inc()
			logger.Error("Failed to read location", slog.String("error", err.Error()))

			return fmt.Errorf("%w %s %q: %w", ErrLocationFailed, loc.Type, loc.Target, err)
		}

		if !claimed {
			continue
		}

		summary.Locations++

		if len(sinkErrs) > 0 {
			r.metrics.locations.WithLabelValues(locationFailed).Inc()

			return errors.Join(sinkErrs...)
		}

		r.metrics.locations.WithLabelValues(locationRead).Inc()

		return nil
	}

	if loc.Optional {
		r.metrics.locations.WithLabelValues(locationSkipped).Inc()
		logger.Info("Optional location not handled by any processor, skipping")

		return nil
	}

	r.metrics.locations.WithLabelValues(locationUnclaimed).Inc()
	logger.Error("Location not handled by any processor")

	return fmt.Errorf("%w: %s %q", ErrLocationNotHandled, loc.Type, loc.Target)
}

// handleResult runs one emitted result through the hooks, validation and the
// sink. Only sink failures are returned; rejections are counted and logged.
func (r *Runner) handleResult(
	ctx context.Context,
	logger *slog.Logger,
	hooks catalog.Hooks,
	res catalog.Result,
	summary *RunSummary,
) error {
	if res.Type == catalog.ResultError {
		if res.Err == nil {
			res.Err = catalog.ErrUnspecified
		}

		summary.Errors++
		r.metrics.errors.Inc()
		logger.Warn("Processor reported an error", slog.String("error", res.Err.Error()))

		if err := hooks.HandleError(ctx, res.Err, res.Location); err != nil {
			logger.Warn("Error hook failed", slog.String("error", err.Error()))
		}

		return nil
	}

	entity, err := r.prepare(ctx, hooks, res)
	if err != nil {
		summary.Rejected++
		r.metrics.rejected.Inc()
		logger.Warn("Entity rejected",
			slog.String("entity", res.Entity.Ref()),
			slog.String("error", err.Error()))

		return nil
	}

	if err := r.sink.Write(ctx, entity); err != nil {
		summary.Errors++
		r.metrics.errors.Inc()
		logger.Error("Failed to write entity",
			slog.String("entity", entity.Ref()),
			slog.String("error", err.Error()))

		return fmt.Errorf("%w %s: %w", ErrSinkWrite, entity.Ref(), err)
	}

	summary.Entities++
	r.metrics.entities.Inc()

	return nil
}

func (r *Runner) prepare(ctx context.Context, hooks catalog.Hooks, res catalog.Result) (catalog.Entity, error) {
	entity, err := hooks.PreProcessEntity(ctx, res.Entity, res.Location)
	if err != nil {
		return catalog.Entity{}, fmt.Errorf("pre-process: %w", err)
	}

	validated, err := hooks.ValidateEntityKind(ctx, entity)
	if err != nil {
		return catalog.Entity{}, fmt.Errorf("validate kind: %w", err)
	}

	if !validated && r.validator != nil {
		if err := r.validator.Validate(entity); err != nil {
			return catalog.Entity{}, err
		}
	}

	entity, err = hooks.PostProcessEntity(ctx, entity, res.Location)
	if err != nil {
		return catalog.Entity{}, fmt.Errorf("post-process: %w", err)
	}

	return entity, nil
}
