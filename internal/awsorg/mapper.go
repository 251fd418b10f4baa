package awsorg

import "github.com/cloudcatalog/ingester/internal/catalog"

const (
	// LocationType is the location type this package owns.
	LocationType = "aws-organization"

	// ComponentType is spec.type of every account entity.
	ComponentType = "cloud-account"

	AnnotationARN            = "amazonaws.com/arn"
	AnnotationAccountID      = "amazonaws.com/account-id"
	AnnotationOrganizationID = "amazonaws.com/organization-id"
)

// Annotations lists the keys set on every account entity.
func Annotations() []string {
	return []string{AnnotationARN, AnnotationAccountID, AnnotationOrganizationID}
}

// MapAccount converts an account to a Component entity. It never fails:
// a missing name yields an empty metadata.name and a malformed ARN yields
// empty id annotations.
func MapAccount(account Account) catalog.Entity {
	entity, _ := mapAccount(account)

	return entity
}

func mapAccount(account Account) (catalog.Entity, Identity) {
	identity := ParseIdentity(account.ARN)

	return catalog.Entity{
		APIVersion: catalog.APIVersionV1Alpha1,
		Kind:       catalog.KindComponent,
		Metadata: catalog.Metadata{
			Name:      NormalizeName(account.Name),
			Namespace: catalog.DefaultNamespace,
			Annotations: map[string]string{
				AnnotationARN:            account.ARN,
				AnnotationAccountID:      identity.AccountID,
				AnnotationOrganizationID: identity.OrganizationID,
			},
		},
		Spec: catalog.ComponentSpec{
			Type:      ComponentType,
			Lifecycle: catalog.Unknown,
			Owner:     catalog.Unknown,
		},
	}, identity
}
