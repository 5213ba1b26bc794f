// Package transcript persists conversation transcripts for the interactive
// host. The reply engine never reads this store; it exists so the front-end
// can reload, export, and import past conversations.
package transcript

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Role identifies the author of a turn.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// MaxTextLength bounds a single turn's text on import.
const MaxTextLength = 10000

// Turn is one utterance in a conversation transcript.
type Turn struct {
	ID        string    `json:"id,omitempty"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"timestamp"`
}

// ValidationError describes why an imported turn was rejected.
type ValidationError struct {
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) String() string {
	return fmt.Sprintf("turn %d: %s %s", e.Index, e.Field, e.Message)
}

// ValidateTurn checks one imported turn. Invalid turns are filtered out of
// an import rather than aborting it; the index ties errors back to the
// source position.
func ValidateTurn(index int, turn Turn) []ValidationError {
	var errs []ValidationError

	switch turn.Role {
	case RoleUser, RoleBot:
	default:
		errs = append(errs, ValidationError{index, "role", "must be one of: user, bot"})
	}

	text := turn.Text
	switch {
	case strings.TrimSpace(text) == "":
		errs = append(errs, ValidationError{index, "text", "is required"})
	case !utf8.ValidString(text):
		errs = append(errs, ValidationError{index, "text", "must be valid UTF-8"})
	case strings.Contains(text, "\x00"):
		errs = append(errs, ValidationError{index, "text", "must not contain null bytes"})
	case utf8.RuneCountInString(text) > MaxTextLength:
		errs = append(errs, ValidationError{index, "text",
			fmt.Sprintf("exceeds maximum length of %d characters", MaxTextLength)})
	}

	return errs
}
