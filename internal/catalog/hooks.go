package catalog

import "context"

// Hooks are the optional lifecycle callbacks the pipeline invokes around each
// emitted entity. Processors that have nothing to do embed NopHooks.
type Hooks interface {
	// PreProcessEntity runs before validation.
	PreProcessEntity(ctx context.Context, entity Entity, location Location) (Entity, error)

	// PostProcessEntity runs after validation, before the entity is stored.
	PostProcessEntity(ctx context.Context, entity Entity, location Location) (Entity, error)

	// HandleError is told about error results emitted by the processor.
	HandleError(ctx context.Context, err error, location Location) error

	// ValidateEntityKind reports whether the processor takes responsibility for
	// validating entities of this kind. Declining falls back to the pipeline Validator.
	ValidateEntityKind(ctx context.Context, entity Entity) (bool, error)
}

// NopHooks implements Hooks as pass-through.
type NopHooks struct{}

var _ Hooks = NopHooks{}

// PreProcessEntity returns entity unchanged.
func (NopHooks) PreProcessEntity(_ context.Context, entity Entity, _ Location) (Entity, error) {
	return entity, nil
}

// PostProcessEntity returns entity unchanged.
func (NopHooks) PostProcessEntity(_ context.Context, entity Entity, _ Location) (Entity, error) {
	return entity, nil
}

// HandleError does nothing.
func (NopHooks) HandleError(context.Context, error, Location) error {
	return nil
}

// ValidateEntityKind declines every kind.
func (NopHooks) ValidateEntityKind(context.Context, Entity) (bool, error) {
	return false, nil
}

// HooksFor returns p's hooks, or NopHooks when p does not implement Hooks.
func HooksFor(p Processor) Hooks {
	if h, ok := p.(Hooks); ok {
		return h
	}

	return NopHooks{}
}
