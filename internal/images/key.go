package images

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// normalizeQuery collapses whitespace and lowercases a query so equivalent
// spellings address the same cache slot.
func normalizeQuery(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

// CacheKey derives the content address for (query, width, height). It is a
// pure function: identical inputs always produce the same key.
func CacheKey(query string, width, height int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%d", normalizeQuery(query), width, height)))
	return hex.EncodeToString(sum[:])[:24]
}
