package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey returns "prefix:" followed by the SHA-256 of the JSON-encoded parts.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data (64 characters).
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
