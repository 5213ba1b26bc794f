package assistant

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Madhan-Sampath-Nexgile/telebot/internal/engine"
	"github.com/Madhan-Sampath-Nexgile/telebot/internal/knowledge"
)

// localAnswerNote marks replies that were answered by the rule engine after
// the remote supplier failed, so users can tell a degraded answer apart from
// a deliberate one.
const localAnswerNote = "\n\n(answered from the local dataset)"

// datasetShortcuts always take the rule engine path even when a supplier is
// configured: their answers are exact renderings of the dataset and a model
// adds nothing but latency.
var datasetShortcuts = []string{"list animals", "animal list", "/list", "random animal", "/random"}

// Service answers prompts for the interactive host. With no supplier it is a
// thin wrapper over the engine; with one, the engine is the unconditional
// fallback for every supplier failure.
type Service struct {
	engine   *engine.Engine
	catalog  knowledge.Catalog
	supplier Supplier
}

// NewService creates a Service. supplier may be nil for engine-only mode.
func NewService(eng *engine.Engine, catalog knowledge.Catalog, supplier Supplier) *Service {
	return &Service{
		engine:   eng,
		catalog:  catalog,
		supplier: supplier,
	}
}

// Reply produces exactly one reply for the prompt. It never fails: supplier
// errors are logged, recovered through the local engine, and annotated so
// the user knows a local answer was substituted.
func (s *Service) Reply(ctx context.Context, prompt string) string {
	if s.supplier == nil {
		return s.engine.Reply(prompt)
	}

	normalized := engine.Normalize(prompt)
	for _, shortcut := range datasetShortcuts {
		if strings.Contains(normalized, shortcut) {
			return s.engine.Reply(prompt)
		}
	}

	matched := s.catalog.FindInText(normalized)
	reply, err := s.supplier.Complete(ctx, BuildPrompt(prompt, matched, s.catalog))
	if err != nil {
		slog.Warn("remote supplier failed, answering locally", "error", err)
		return s.engine.Reply(prompt) + localAnswerNote
	}
	if strings.TrimSpace(reply) == "" {
		slog.Warn("remote supplier returned an empty reply, answering locally")
		return s.engine.Reply(prompt) + localAnswerNote
	}
	return reply
}
