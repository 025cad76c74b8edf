// Package fingerprint produces stable digests of card content so repeated
// imports of the same source material do not duplicate cards.
package fingerprint

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
)

// Normalize joins a card's content after cleaning each part: lowercased,
// whitespace-trimmed, line endings normalized. Tags are sorted so their
// order in the source never changes the result.
func Normalize(front, back string, tags []string) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.TrimSpace(p)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return p
	}

	sorted := make([]string, len(tags))
	for i, tag := range tags {
		sorted[i] = normalizePart(tag)
	}
	sort.Strings(sorted)

	// Fields are newline-joined so adjacent fields cannot run together
	// and collide, e.g. "ab"+"c" vs "a"+"bc".
	parts := []string{normalizePart(front), normalizePart(back)}
	parts = append(parts, sorted...)
	return strings.Join(parts, "\n")
}

// Fingerprint returns the SHA-256 of the normalized card content as a hex
// string.
func Fingerprint(front, back string, tags []string) string {
	normalized := Normalize(front, back, tags)
	sum := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", sum)
}
