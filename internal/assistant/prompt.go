package assistant

import (
	"encoding/json"
	"strings"

	"github.com/Madhan-Sampath-Nexgile/telebot/internal/knowledge"
)

// maxPromptCatalogNames caps the catalog names embedded in the prompt when
// no specific profiles matched the question.
const maxPromptCatalogNames = 40

// BuildPrompt assembles the instruction prompt sent to the remote supplier.
// Matched profiles are embedded as focused JSON context; when nothing
// matched, a capped list of available names is embedded instead so the model
// can steer users back to the dataset.
func BuildPrompt(userPrompt string, matched []knowledge.AnimalProfile, catalog knowledge.Catalog) string {
	var focused []byte
	if len(matched) > 0 {
		focused, _ = json.MarshalIndent(matched, "", "  ")
	} else {
		limit := len(catalog)
		if limit > maxPromptCatalogNames {
			limit = maxPromptCatalogNames
		}
		focused, _ = json.MarshalIndent(map[string][]string{
			"availableAnimals": catalog[:limit].Names(),
		}, "", "  ")
	}

	lines := []string{
		"You are WildFact, an animal expert assistant.",
		"Rules:",
		"- Prefer the provided dataset when available.",
		"- If requested animal is missing from dataset, you may answer from general zoology knowledge.",
		"- Clearly mention when an answer is from general knowledge, not local dataset.",
		"- Be concise, accurate, and engaging.",
		"",
		"Available animals: " + strings.Join(catalog.Names(), ", "),
		"",
		"Focused dataset context:",
		string(focused),
		"",
		"User question: " + userPrompt,
		"Return a direct helpful answer.",
	}
	return strings.Join(lines, "\n")
}
