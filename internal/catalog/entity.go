// Package catalog provides the normalized catalog entity model and the
// processor contract that ingestion adapters implement.
//
// Entities follow the Backstage descriptor format:
// https://backstage.io/docs/features/software-catalog/descriptor-format
package catalog

type (
	// Entity is a normalized catalog record.
	// It is built fresh per source record and handed to the caller on emit;
	// processors keep no reference to it afterwards.
	Entity struct {
		// APIVersion is the descriptor schema version, e.g. "backstage.io/v1alpha1".
		APIVersion string `json:"apiVersion" yaml:"apiVersion"`

		// Kind is the entity kind, e.g. "Component".
		Kind string `json:"kind" yaml:"kind"`

		Metadata Metadata      `json:"metadata" yaml:"metadata"`
		Spec     ComponentSpec `json:"spec"     yaml:"spec"`
	}

	// Metadata identifies an entity within the catalog.
	Metadata struct {
		// Name is a slug restricted to [a-z0-9-].
		Name string `json:"name" yaml:"name"`

		// Namespace scopes Name. Entities from this service always use DefaultNamespace.
		Namespace string `json:"namespace" yaml:"namespace"`

		// Annotations carry non-identifying, tool-specific metadata.
		Annotations map[string]string `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	}

	// ComponentSpec is the spec block of a Component entity.
	ComponentSpec struct {
		Type      string `json:"type"      yaml:"type"`
		Lifecycle string `json:"lifecycle" yaml:"lifecycle"`
		Owner     string `json:"owner"     yaml:"owner"`
	}
)

const (
	// APIVersionV1Alpha1 is the only descriptor version this service produces.
	APIVersionV1Alpha1 = "backstage.io/v1alpha1"

	// KindComponent is the kind used for discovered cloud accounts.
	KindComponent = "Component"

	// DefaultNamespace is the namespace assigned to every emitted entity.
	DefaultNamespace = "default"

	// Unknown is the placeholder for spec fields that are enriched downstream.
	Unknown = "unknown"
)

// Ref returns the entity reference in "kind:namespace/name" form.
func (e Entity) Ref() string {
	return e.Kind + ":" + e.Metadata.Namespace + "/" + e.Metadata.Name
}
