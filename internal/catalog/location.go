package catalog

import (
	"context"
	"errors"
)

type (
	// Location describes a source to ingest. Type routes the location to the
	// processor that owns it; Target is processor-specific and may be empty.
	Location struct {
		Type   string `json:"type"             yaml:"type"`
		Target string `json:"target,omitempty" yaml:"target,omitempty"`
	}

	// ResultType discriminates the variants of Result.
	ResultType string

	// Result is one item emitted by a processor while reading a location.
	// Exactly one of Entity (ResultEntity) or Err (ResultError) is meaningful.
	Result struct {
		Type     ResultType
		Location Location
		Entity   Entity
		Err      error
	}

	// Emit receives results in the order the processor produced them.
	Emit func(Result)
)

const (
	// ResultEntity carries a successfully mapped entity.
	ResultEntity ResultType = "entity"

	// ResultError reports a record that could not be turned into an entity.
	// The read continues; the error is handed to Hooks.HandleError.
	ResultError ResultType = "error"
)

// EntityResult wraps an entity discovered at location.
func EntityResult(location Location, entity Entity) Result {
	return Result{Type: ResultEntity, Location: location, Entity: entity}
}

// ErrUnspecified stands in for a nil error in an error result.
var ErrUnspecified = errors.New("processor reported an unspecified error")

// ErrorResult wraps a per-record failure at location. A nil err is replaced
// by ErrUnspecified.
func ErrorResult(location Location, err error) Result {
	if err == nil {
		err = ErrUnspecified
	}

	return Result{Type: ResultError, Location: location, Err: err}
}

// Processor reads locations it owns and emits catalog results.
type Processor interface {
	// ReadLocation returns false, without emitting, when the processor does not
	// own location. When it does, every result is emitted before it returns true.
	// A returned error means the read failed as a whole.
	ReadLocation(ctx context.Context, location Location, optional bool, emit Emit) (bool, error)
}
