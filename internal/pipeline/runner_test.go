package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudcatalog/ingester/internal/catalog"
)

const orgType = "aws-organization"

func required(t string) LocationSpec {
	return LocationSpec{Location: catalog.Location{Type: t}}
}

func newTestRunner(s *memorySink, processors ...catalog.Processor) (*Runner, *Metrics) {
	metrics := NewMetrics(prometheus.NewRegistry())

	return NewRunner(processors, s,
		WithValidator(catalog.NewValidator("example.com/id")),
		WithMetrics(metrics),
		WithLogger(quietLogger()),
	), metrics
}

func TestRun_WritesEntitiesInOrder(t *testing.T) {
	p := &fakeProcessor{
		locationType: orgType,
		results:      []catalog.Result{entityResult("alpha"), entityResult("beta"), entityResult("gamma")},
	}
	s := &memorySink{}
	runner, metrics := newTestRunner(s, p)

	summary, err := runner.Run(context.Background(), []LocationSpec{required(orgType)})
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "beta", "gamma"}, s.names())
	assert.Equal(t, 1, summary.Locations)
	assert.Equal(t, 3, summary.Entities)
	assert.Zero(t, summary.Rejected)
	assert.Zero(t, summary.Errors)

	_, parseErr := uuid.Parse(summary.RunID)
	assert.NoError(t, parseErr)

	assert.InDelta(t, 3, testutil.ToFloat64(metrics.entities), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.locations.WithLabelValues(locationRead)), 0)
}

func TestRun_NewRunIDPerRun(t *testing.T) {
	runner, _ := newTestRunner(&memorySink{}, &fakeProcessor{locationType: orgType})

	first, err := runner.Run(context.Background(), []LocationSpec{required(orgType)})
	require.NoError(t, err)

	second, err := runner.Run(context.Background(), []LocationSpec{required(orgType)})
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRun_FirstClaimingProcessorWins(t *testing.T) {
	other := &fakeProcessor{locationType: "github-org"}
	first := &fakeProcessor{locationType: orgType, results: []catalog.Result{entityResult("from-first")}}
	second := &fakeProcessor{locationType: orgType, results: []catalog.Result{entityResult("from-second")}}
	s := &memorySink{}
	runner, _ := newTestRunner(s, other, first, second)

	_, err := runner.Run(context.Background(), []LocationSpec{required(orgType)})
	require.NoError(t, err)

	assert.Equal(t, []string{"from-first"}, s.names())
	assert.Zero(t, other.reads)
	assert.Equal(t, 1, first.reads)
	assert.Zero(t, second.reads)
}

func TestRun_UnclaimedLocations(t *testing.T) {
	runner, metrics := newTestRunner(&memorySink{}, &fakeProcessor{locationType: orgType})

	t.Run("required", func(t *testing.T) {
		_, err := runner.Run(context.Background(), []LocationSpec{required("url")})
		assert.ErrorIs(t, err, ErrLocationNotHandled)
	})

	t.Run("optional", func(t *testing.T) {
		loc := required("url")
		loc.Optional = true

		summary, err := runner.Run(context.Background(), []LocationSpec{loc})
		require.NoError(t, err)
		assert.Zero(t, summary.Locations)
		assert.InDelta(t, 1, testutil.ToFloat64(metrics.locations.WithLabelValues(locationSkipped)), 0)
	})
}

func TestRun_FailedLocationDoesNotStopOthers(t *testing.T) {
	apiErr := errors.New("AccessDeniedException")
	broken := &fakeProcessor{locationType: "broken", err: apiErr}
	healthy := &fakeProcessor{locationType: orgType, results: []catalog.Result{entityResult("alpha")}}
	s := &memorySink{}
	runner, _ := newTestRunner(s, broken, healthy)

	summary, err := runner.Run(context.Background(), []LocationSpec{required("broken"), required(orgType)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLocationFailed)
	assert.ErrorIs(t, err, apiErr)

	assert.Equal(t, []string{"alpha"}, s.names())
	assert.Equal(t, 1, summary.Locations)
}

func TestRun_ValidationRejects(t *testing.T) {
	invalid := entityResult("Not A Slug")
	missingAnnotation := entityResult("bare")
	missingAnnotation.Entity.Metadata.Annotations = nil

	p := &fakeProcessor{
		locationType: orgType,
		results:      []catalog.Result{invalid, entityResult("ok"), missingAnnotation},
	}
	s := &memorySink{}
	runner, metrics := newTestRunner(s, p)

	summary, err := runner.Run(context.Background(), []LocationSpec{required(orgType)})
	require.NoError(t, err)

	assert.Equal(t, []string{"ok"}, s.names())
	assert.Equal(t, 2, summary.Rejected)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.rejected), 0)
}

func TestRun_ErrorResultsGoToHandleError(t *testing.T) {
	recordErr := errors.New("malformed record")
	p := &hookedProcessor{fakeProcessor: fakeProcessor{
		locationType: orgType,
		results: []catalog.Result{
			entityResult("alpha"),
			catalog.ErrorResult(catalog.Location{}, recordErr),
		},
	}}
	s := &memorySink{}
	runner, _ := newTestRunner(s, p)

	summary, err := runner.Run(context.Background(), []LocationSpec{required(orgType)})
	require.NoError(t, err)

	assert.Equal(t, []error{recordErr}, p.handled)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 1, summary.Entities)
}

func TestRun_HookOrder(t *testing.T) {
	p := &hookedProcessor{fakeProcessor: fakeProcessor{
		locationType: orgType,
		results:      []catalog.Result{entityResult("alpha")},
	}}
	s := &memorySink{}
	runner, _ := newTestRunner(s, p)

	_, err := runner.Run(context.Background(), []LocationSpec{required(orgType)})
	require.NoError(t, err)

	assert.Equal(t, []string{"pre:alpha", "post:alpha"}, p.calls)
	require.Len(t, s.entities, 1)
	assert.Equal(t, "team-from-hook", s.entities[0].Spec.Owner)
}

func TestRun_PreProcessErrorRejects(t *testing.T) {
	p := &hookedProcessor{
		fakeProcessor: fakeProcessor{locationType: orgType, results: []catalog.Result{entityResult("alpha")}},
		preErr:        errors.New("enrichment failed"),
	}
	s := &memorySink{}
	runner, _ := newTestRunner(s, p)

	summary, err := runner.Run(context.Background(), []LocationSpec{required(orgType)})
	require.NoError(t, err)

	assert.Empty(t, s.names())
	assert.Equal(t, 1, summary.Rejected)
	assert.Equal(t, []string{"pre:alpha"}, p.calls)
}

func TestRun_ProcessorValidatesOwnKind(t *testing.T) {
	// The name fails the default validator; the processor vouches for it.
	p := &hookedProcessor{
		fakeProcessor: fakeProcessor{locationType: orgType, results: []catalog.Result{entityResult("Upper")}},
		validatesKind: true,
	}
	s := &memorySink{}
	runner, _ := newTestRunner(s, p)

	_, err := runner.Run(context.Background(), []LocationSpec{required(orgType)})
	require.NoError(t, err)

	assert.Equal(t, []string{"Upper"}, s.names())
}

func TestRun_SinkFailures(t *testing.T) {
	p := &fakeProcessor{
		locationType: orgType,
		results:      []catalog.Result{entityResult("alpha"), entityResult("beta")},
	}
	s := &memorySink{fail: map[string]bool{"alpha": true}}
	runner, metrics := newTestRunner(s, p)

	summary, err := runner.Run(context.Background(), []LocationSpec{required(orgType)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSinkWrite)
	assert.ErrorIs(t, err, errSinkDown)

	assert.Equal(t, []string{"beta"}, s.names())
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 1, summary.Entities)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.locations.WithLabelValues(locationFailed)), 0)
}

func TestRun_CancelledContext(t *testing.T) {
	p := &fakeProcessor{locationType: orgType}
	runner, _ := newTestRunner(&memorySink{}, p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, []LocationSpec{required(orgType)})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, p.reads)
}

func TestLoop_RunsOnceWithoutInterval(t *testing.T) {
	p := &fakeProcessor{locationType: orgType}
	runner, _ := newTestRunner(&memorySink{}, p)

	err := runner.Loop(context.Background(), []LocationSpec{required("unclaimed")}, 0)
	assert.ErrorIs(t, err, ErrLocationNotHandled)
}

func TestLoop_RepeatsUntilCancelled(t *testing.T) {
	p := &fakeProcessor{locationType: orgType}
	s := &memorySink{}
	runner, metrics := newTestRunner(s, p)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := runner.Loop(ctx, []LocationSpec{required(orgType)}, 20*time.Millisecond)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, testutil.ToFloat64(metrics.locations.WithLabelValues(locationRead)), float64(2))
}

func TestRun_NilErrorResult(t *testing.T) {
	p := &hookedProcessor{fakeProcessor: fakeProcessor{
		locationType: orgType,
		results: []catalog.Result{
			catalog.ErrorResult(catalog.Location{}, nil),
			{Type: catalog.ResultError},
			entityResult("alpha"),
		},
	}}
	s := &memorySink{}
	runner, metrics := newTestRunner(s, p)

	var (
		summary RunSummary
		err     error
	)

	require.NotPanics(t, func() {
		summary, err = runner.Run(context.Background(), []LocationSpec{required(orgType)})
	})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Errors)
	assert.Equal(t, []string{"alpha"}, s.names())
	require.Len(t, p.handled, 2)

	for _, handled := range p.handled {
		assert.ErrorIs(t, handled, catalog.ErrUnspecified)
	}

	assert.InDelta(t, 2, testutil.ToFloat64(metrics.errors), 0)
}
