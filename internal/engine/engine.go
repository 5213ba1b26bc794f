// Package engine is the reply resolution engine shared by both runtime
// hosts: the interactive HTTP API and the Telegram relay. It classifies one
// utterance against the loaded knowledge (Resolve), then formats the chosen
// outcome into final text (Render). Both steps are stateless with respect to
// the conversation; every call depends only on the utterance and the
// immutable knowledge loaded at startup.
package engine

import (
	"math/rand"
	"sync"
	"time"

	"github.com/Madhan-Sampath-Nexgile/telebot/internal/knowledge"
)

// Engine resolves utterances against a fixed bot configuration and animal
// catalog. The only mutable state is the random source used to vary
// phrasings, which is injectable for deterministic tests. One Engine is
// shared by every concurrent request, and *rand.Rand is not safe for
// concurrent use, so rngMu guards it.
type Engine struct {
	cfg     knowledge.BotConfig
	catalog knowledge.Catalog
	rngMu   sync.Mutex
	rng     *rand.Rand
}

// Option configures an Engine.
type Option func(*Engine)

// WithRandSource replaces the default time-seeded random source. Tests use a
// fixed seed to make Render deterministic.
func WithRandSource(src rand.Source) Option {
	return func(e *Engine) {
		e.rng = rand.New(src)
	}
}

// New creates an Engine over the given configuration and catalog. Both are
// treated as immutable; the Engine never modifies them.
func New(cfg knowledge.BotConfig, catalog knowledge.Catalog, opts ...Option) *Engine {
	e := &Engine{
		cfg:     cfg,
		catalog: catalog,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reply resolves an utterance and renders the outcome in one step.
func (e *Engine) Reply(utterance string) string {
	return e.Render(e.Resolve(utterance))
}

// pick returns a uniformly random element, or empty text for an empty list.
func (e *Engine) pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	e.rngMu.Lock()
	n := e.rng.Intn(len(options))
	e.rngMu.Unlock()
	return options[n]
}
