// Package cache provides content-addressed caching of rendered recipe
// artifacts. Identity is a fingerprint over the inputs that affect the
// rendered output; the store is a single JSON file persisted atomically.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint derives the cache identity for a rendered card. It hashes the
// creator handle, the source caption and the layout version, each
// whitespace-trimmed, so cosmetic edge whitespace never splits the cache.
// The rendered image is deliberately not part of the identity: the caption
// names the dish, and re-fetching the same post yields a new image file for
// identical content.
func Fingerprint(creatorHandle, caption, layoutVersion string) string {
	h := sha256.New()
	h.Write([]byte(strings.TrimSpace(creatorHandle)))
	h.Write([]byte(strings.TrimSpace(caption)))
	h.Write([]byte(strings.TrimSpace(layoutVersion)))
	return hex.EncodeToString(h.Sum(nil))
}
