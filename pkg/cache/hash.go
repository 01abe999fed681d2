package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// keyVersion is mixed into every derived key. Bump it when the layout
// engine changes results for unchanged documents.
const keyVersion = 1

// hashKey returns "<kind>:<sha256>" over the JSON encoding of parts.
func hashKey(kind string, parts ...any) string {
	h := sha256.New()
	fmt.Fprintf(h, "poolkit/v%d/%s\n", keyVersion, kind)
	_ = json.NewEncoder(h).Encode(parts)
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON hashes the canonical JSON encoding of v. Struct fields are
// encoded in declaration order, so equal values always hash equally.
func HashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return Hash(data), nil
}
