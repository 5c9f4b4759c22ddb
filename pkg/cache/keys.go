package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Key joins a namespace and its parts with ':'.
func Key(namespace string, parts ...string) string {
	if len(parts) == 0 {
		return namespace
	}
	return namespace + ":" + strings.Join(parts, ":")
}

// Digest returns a short hex digest of fields. Fields are separated by a NUL
// byte so ("ab", "c") and ("a", "bc") differ.
func Digest(fields ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(fields, "\x00")))
	return hex.EncodeToString(sum[:12])
}

// Pattern is a glob matching every key under Key(namespace, parts...).
func Pattern(namespace string, parts ...string) string {
	return Key(namespace, parts...) + ":*"
}
