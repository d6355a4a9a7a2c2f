package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey builds a cache key of the form "prefix:<sha256 hex>" from the
// JSON encoding of parts. Hashing keeps keys fixed-length and safe to use
// as file names no matter what the parts contain; the prefix survives in
// the clear so key types stay greppable in a cache directory listing.
func hashKey(prefix string, parts ...any) string {
	encoded, _ := json.Marshal(parts)
	sum := sha256.Sum256(encoded)
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// Hash computes the SHA-256 content hash of data as a 64-character hex
// string. The server and CLI hash the serialized scene document with it,
// so any change to the scene yields a different artifact key.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
