package storage

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/cloudcatalog/ingester/internal/catalog"
)

// Fingerprint returns a hex BLAKE2b-256 digest of entity's content.
//
// The digest covers the JSON encoding of the whole entity. encoding/json
// sorts map keys, so annotation order does not affect it.
func Fingerprint(entity catalog.Entity) (string, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", entity.Ref(), err)
	}

	sum := blake2b.Sum256(data)

	return hex.EncodeToString(sum[:]), nil
}
