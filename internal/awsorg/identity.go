package awsorg

import "strings"

const arnPathSeparator = "/"

// IdentityKind describes how much of an account identity an ARN yielded.
type IdentityKind int

const (
	// IdentityEmpty means the ARN was empty.
	IdentityEmpty IdentityKind = iota

	// IdentityPartial means the ARN had a single path segment: it is taken as the
	// account id and the organization id is empty.
	IdentityPartial

	// IdentityComplete means the ARN had at least two path segments.
	IdentityComplete
)

func (k IdentityKind) String() string {
	switch k {
	case IdentityEmpty:
		return "empty"
	case IdentityPartial:
		return "partial"
	case IdentityComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Identity is the account and organization id carried in an account ARN,
// e.g. arn:aws:organizations::123:account/o-abc123/111122223333.
type Identity struct {
	AccountID      string
	OrganizationID string
	Kind           IdentityKind
}

// Valid reports whether both ids are present.
func (i Identity) Valid() bool {
	return i.Kind == IdentityComplete && i.AccountID != "" && i.OrganizationID != ""
}

// ParseIdentity splits arn on "/" and takes the last segment as the account id
// and the one before it as the organization id. It never fails; positions that
// do not exist come back empty and Kind records which case applied.
func ParseIdentity(arn string) Identity {
	if arn == "" {
		return Identity{Kind: IdentityEmpty}
	}

	parts := strings.Split(arn, arnPathSeparator)
	last := len(parts) - 1

	if last == 0 {
		return Identity{AccountID: parts[0], Kind: IdentityPartial}
	}

	return Identity{
		AccountID:      parts[last],
		OrganizationID: parts[last-1],
		Kind:           IdentityComplete,
	}
}
