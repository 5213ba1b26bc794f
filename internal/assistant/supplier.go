// Package assistant answers user prompts for the interactive host. It
// prefers a remote model supplier when one is configured and always falls
// back to the local rule engine, so a transport failure is never visible as
// an error to the user.
package assistant

import "context"

// Supplier produces a model-generated reply for a prompt. Implementations
// wrap one remote provider; any transport or protocol failure is returned as
// an error and handled by the Service's local fallback.
type Supplier interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
