package engine

import (
	"regexp"
	"strings"
)

// slotPatterns extract a candidate animal name from question phrasings. The
// list is evaluated left-to-right and the first match wins, so the ordering
// is part of the contract; the patterns are kept separate rather than
// combined into one expression to make that explicit.
var slotPatterns = []*regexp.Regexp{
	regexp.MustCompile(`tell me about\s+([a-z\s-]+)`),
	regexp.MustCompile(`details of\s+([a-z\s-]+)`),
	regexp.MustCompile(`full details of\s+([a-z\s-]+)`),
	regexp.MustCompile(`info on\s+([a-z\s-]+)`),
	regexp.MustCompile(`information on\s+([a-z\s-]+)`),
	regexp.MustCompile(`what is\s+([a-z\s-]+)`),
	regexp.MustCompile(`about\s+([a-z\s-]+)`),
}

// extractRequestedName pulls a candidate animal name out of an
// already-normalized question. Candidates are letters, spaces, and hyphens
// only, with any trailing question mark stripped; anything shorter than two
// characters is ignored. Leading articles are deliberately not stripped.
func extractRequestedName(text string) (string, bool) {
	for _, pattern := range slotPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		candidate := strings.TrimSpace(m[1])
		candidate = strings.TrimSpace(strings.TrimSuffix(candidate, "?"))
		if len(candidate) >= 2 {
			return candidate, true
		}
	}
	return "", false
}
