package engine

import (
	"fmt"
	"strings"

	"github.com/Madhan-Sampath-Nexgile/telebot/internal/knowledge"
)

// emptyDatasetNotice is the literal reply for catalog-dependent strategies
// when no catalog was loaded. It names the expected data source so users
// know where entries belong.
const emptyDatasetNotice = "Animal dataset is empty. Add entries to " + knowledge.CatalogSource + "."

// fallbackHint is appended to every fallback reply.
const fallbackHint = "\n\nTry: \"list animals\", \"random animal\", or \"tell me about bengal tiger\"."

// maxSuggestions caps the catalog names offered when a requested animal is
// missing.
const maxSuggestions = 8

// Render formats a resolved intent into final reply text. It is pure
// formatting and never fails; degenerate inputs (empty greeting list, empty
// catalog) produce the documented degenerate outputs. Randomized selection
// among alternative phrasings draws from the Engine's injectable source.
func (e *Engine) Render(intent ReplyIntent) string {
	switch intent.Kind {
	case KindGreeting:
		return e.pick(e.cfg.Greetings)
	case KindAnimalList:
		return e.renderAnimalList()
	case KindRandomAnimal:
		if len(e.catalog) == 0 {
			return emptyDatasetNotice
		}
		return renderAnimalDetail(e.catalog[e.rng.Intn(len(e.catalog))])
	case KindCategory:
		return renderCategory(intent.Category, intent.Matches)
	case KindAnimalDetail:
		return renderAnimalDetail(*intent.Animal)
	case KindMissingAnimal:
		return renderMissingAnimal(intent.Requested, e.catalog)
	case KindIntent:
		return e.pick(intent.Rule.Responses)
	default:
		return e.pick(e.cfg.Fallback) + fallbackHint
	}
}

func (e *Engine) renderAnimalList() string {
	if len(e.catalog) == 0 {
		return emptyDatasetNotice
	}
	return fmt.Sprintf("I can share full details for %d animals:\n%s\n\nTry: tell me about %s",
		len(e.catalog),
		strings.Join(e.catalog.Names(), ", "),
		strings.ToLower(e.catalog[0].CommonName),
	)
}

// renderAnimalDetail emits the full profile as twelve labelled lines in
// fixed field order.
func renderAnimalDetail(animal knowledge.AnimalProfile) string {
	lines := []string{
		"Animal: " + animal.CommonName,
		"Scientific Name: " + animal.ScientificName,
		"Classification: " + animal.Classification,
		"Habitat: " + animal.Habitat,
		"Diet: " + animal.Diet,
		"Average Lifespan: " + animal.AverageLifespan,
		"Average Weight: " + animal.AverageWeight,
		"Top Speed: " + animal.TopSpeed,
		"Conservation Status: " + animal.ConservationStatus,
		"Regions: " + strings.Join(animal.Regions, ", "),
		"Traits: " + strings.Join(animal.Traits, "; "),
		"Facts: " + strings.Join(animal.Facts, " | "),
	}
	return strings.Join(lines, "\n")
}

func renderCategory(category *Category, matches []knowledge.AnimalProfile) string {
	entries := make([]string, len(matches))
	for i, animal := range matches {
		entries[i] = fmt.Sprintf("- %s: %s; diet: %s; status: %s",
			animal.CommonName, animal.Habitat, animal.Diet, animal.ConservationStatus)
	}

	heading := strings.ToUpper(category.Key[:1]) + category.Key[1:] + " entries in my dataset:"
	ask := fmt.Sprintf("Ask: \"tell me about %s\".", strings.ToLower(matches[0].CommonName))

	parts := make([]string, 0, 4)
	if category.Overview != "" {
		parts = append(parts, category.Overview)
	}
	parts = append(parts, heading, strings.Join(entries, "\n"), ask)
	return strings.Join(parts, "\n")
}

func renderMissingAnimal(requested string, catalog knowledge.Catalog) string {
	limit := len(catalog)
	if limit > maxSuggestions {
		limit = maxSuggestions
	}
	suggestions := strings.Join(catalog[:limit].Names(), ", ")
	return fmt.Sprintf("I do not have full data for %q yet.\nYou can add it in %s.\nAvailable examples: %s.",
		requested, knowledge.CatalogSource, suggestions)
}
