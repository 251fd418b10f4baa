package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/cloudcatalog/ingester/internal/catalog"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeProcessor claims locations of its type and emits the configured results.
type fakeProcessor struct {
	catalog.NopHooks

	locationType string
	results      []catalog.Result
	err          error
	reads        int
}

func (p *fakeProcessor) ReadLocation(
	_ context.Context,
	location catalog.Location,
	_ bool,
	emit catalog.Emit,
) (bool, error) {
	if location.Type != p.locationType {
		return false, nil
	}

	p.reads++

	if p.err != nil {
		return false, p.err
	}

	for _, res := range p.results {
		res.Location = location
		emit(res)
	}

	return true, nil
}

// hookedProcessor overrides the hooks to observe the runner's call order.
type hookedProcessor struct {
	fakeProcessor

	validatesKind bool
	preErr        error
	handled       []error
	calls         []string
}

func (p *hookedProcessor) PreProcessEntity(_ context.Context, e catalog.Entity, _ catalog.Location) (catalog.Entity, error) {
	p.calls = append(p.calls, "pre:"+e.Metadata.Name)
	if p.preErr != nil {
		return catalog.Entity{}, p.preErr
	}

	e.Spec.Owner = "team-from-hook"

	return e, nil
}

func (p *hookedProcessor) PostProcessEntity(_ context.Context, e catalog.Entity, _ catalog.Location) (catalog.Entity, error) {
	p.calls = append(p.calls, "post:"+e.Metadata.Name)

	return e, nil
}

func (p *hookedProcessor) HandleError(_ context.Context, err error, _ catalog.Location) error {
	p.handled = append(p.handled, err)

	return nil
}

func (p *hookedProcessor) ValidateEntityKind(context.Context, catalog.Entity) (bool, error) {
	return p.validatesKind, nil
}

// memorySink records written entities; writes of names in fail are refused.
type memorySink struct {
	mu       sync.Mutex
	entities []catalog.Entity
	fail     map[string]bool
	closed   bool
}

var errSinkDown = errors.New("sink unavailable")

func (s *memorySink) Write(_ context.Context, e catalog.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail[e.Metadata.Name] {
		return errSinkDown
	}

	s.entities = append(s.entities, e)

	return nil
}

func (s *memorySink) Close() error {
	s.closed = true

	return nil
}

func (s *memorySink) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.entities))
	for _, e := range s.entities {
		names = append(names, e.Metadata.Name)
	}

	return names
}

func entity(name string) catalog.Entity {
	return catalog.Entity{
		APIVersion: catalog.APIVersionV1Alpha1,
		Kind:       catalog.KindComponent,
		Metadata: catalog.Metadata{
			Name:        name,
			Namespace:   catalog.DefaultNamespace,
			Annotations: map[string]string{"example.com/id": name},
		},
		Spec: catalog.ComponentSpec{Type: "cloud-account", Lifecycle: catalog.Unknown, Owner: catalog.Unknown},
	}
}

func entityResult(name string) catalog.Result {
	return catalog.Result{Type: catalog.ResultEntity, Entity: entity(name)}
}
