package catalog

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashHex returns the lowercase hex SHA-256 of data.
// The manifest hash is HashHex over the exact artifact bytes on disk.
func HashHex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
