package engine

import "strings"

// Normalize lower-cases and trims an utterance into the canonical matching
// key. It is total and idempotent; no locale folding, no whitespace
// collapsing beyond the trim.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
