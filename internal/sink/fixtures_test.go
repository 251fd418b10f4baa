package sink

import "github.com/cloudcatalog/ingester/internal/catalog"

func accountEntity(name string) catalog.Entity {
	return catalog.Entity{
		APIVersion: catalog.APIVersionV1Alpha1,
		Kind:       catalog.KindComponent,
		Metadata: catalog.Metadata{
			Name:      name,
			Namespace: catalog.DefaultNamespace,
			Annotations: map[string]string{
				"amazonaws.com/arn":             "arn:aws:organizations::123:account/o-abc123/111122223333",
				"amazonaws.com/account-id":      "111122223333",
				"amazonaws.com/organization-id": "o-abc123",
			},
		},
		Spec: catalog.ComponentSpec{Type: "cloud-account", Lifecycle: catalog.Unknown, Owner: catalog.Unknown},
	}
}
