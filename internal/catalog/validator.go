package catalog

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
)

// MaxNameLength is the longest metadata.name the catalog accepts.
const MaxNameLength = 63

// Sentinel errors for entity validation failures.
var (
	ErrMissingAPIVersion    = errors.New("apiVersion is required")
	ErrMissingKind          = errors.New("kind is required")
	ErrMissingName          = errors.New("metadata.name is required")
	ErrInvalidName          = errors.New("metadata.name must match [a-z0-9-]+")
	ErrNameTooLong          = errors.New("metadata.name is too long")
	ErrMissingNamespace     = errors.New("metadata.namespace is required")
	ErrMissingAnnotation    = errors.New("required annotation is missing")
	ErrUnexpectedAnnotation = errors.New("annotation is not allowed")
)

var namePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Validator checks entities before they leave the pipeline.
//
// The zero value checks only the envelope and metadata.name. NewValidator adds
// an exact annotation key set: every listed key must be present and no other key
// is allowed.
type Validator struct {
	annotations map[string]struct{}
	required    []string // sorted keys of annotations
}

// NewValidator returns a Validator that requires exactly the given annotation keys.
// With no keys, annotations are not checked.
func NewValidator(annotationKeys ...string) *Validator {
	v := &Validator{}
	if len(annotationKeys) == 0 {
		return v
	}

	v.annotations = make(map[string]struct{}, len(annotationKeys))
	for _, key := range annotationKeys {
		v.annotations[key] = struct{}{}
	}

	v.required = slices.Sorted(maps.Keys(v.annotations))

	return v
}

// Validate returns nil when entity is acceptable, otherwise the first violation found.
func (v *Validator) Validate(entity Entity) error {
	if strings.TrimSpace(entity.APIVersion) == "" {
		return ErrMissingAPIVersion
	}

	if strings.TrimSpace(entity.Kind) == "" {
		return ErrMissingKind
	}

	if err := ValidateName(entity.Metadata.Name); err != nil {
		return err
	}

	if entity.Metadata.Namespace == "" {
		return ErrMissingNamespace
	}

	if v == nil || v.annotations == nil {
		return nil
	}

	for _, key := range v.required {
		if _, ok := entity.Metadata.Annotations[key]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingAnnotation, key)
		}
	}

	for _, key := range slices.Sorted(maps.Keys(entity.Metadata.Annotations)) {
		if _, ok := v.annotations[key]; !ok {
			return fmt.Errorf("%w: %s", ErrUnexpectedAnnotation, key)
		}
	}

	return nil
}

// ValidateName checks a metadata.name slug.
func ValidateName(name string) error {
	if name == "" {
		return ErrMissingName
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: %d > %d", ErrNameTooLong, len(name), MaxNameLength)
	}

	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w, got: %q", ErrInvalidName, name)
	}

	return nil
}
