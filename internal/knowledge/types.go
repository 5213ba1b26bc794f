package knowledge

import "strings"

// IntentRule maps conversational trigger keywords to canned responses.
// A rule with no triggers is never eligible; a rule with no responses
// renders as empty text and callers are expected to guard that case.
type IntentRule struct {
	Triggers  []string `json:"triggers"`
	Responses []string `json:"responses"`
}

// BotConfig is the conversational configuration loaded once at startup.
// It is read-only after Load returns and safe for concurrent reads.
type BotConfig struct {
	DisplayName string       `json:"displayName"`
	Greetings   []string     `json:"greetings"`
	Fallback    []string     `json:"fallback"`
	Intents     []IntentRule `json:"intents"`
}

// AnimalProfile is one immutable catalog entry. Uniqueness of CommonName is
// assumed but not enforced; when duplicates exist the first entry in catalog
// order wins.
type AnimalProfile struct {
	CommonName         string   `json:"commonName"`
	ScientificName     string   `json:"scientificName"`
	Classification     string   `json:"classification"`
	Habitat            string   `json:"habitat"`
	Diet               string   `json:"diet"`
	AverageLifespan    string   `json:"averageLifespan"`
	AverageWeight      string   `json:"averageWeight"`
	TopSpeed           string   `json:"topSpeed"`
	ConservationStatus string   `json:"conservationStatus"`
	Regions            []string `json:"regions"`
	Traits             []string `json:"traits"`
	Facts              []string `json:"facts"`
}

// Catalog is the ordered animal catalog.
type Catalog []AnimalProfile

// Names returns every CommonName in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, animal := range c {
		names[i] = animal.CommonName
	}
	return names
}

// FindInText returns every profile whose common or scientific name appears
// as a substring of the already-normalized text, in catalog order.
func (c Catalog) FindInText(normalized string) []AnimalProfile {
	var matches []AnimalProfile
	for _, animal := range c {
		common := strings.ToLower(animal.CommonName)
		scientific := strings.ToLower(animal.ScientificName)
		if common == "" {
			continue
		}
		if strings.Contains(normalized, common) ||
			(scientific != "" && strings.Contains(normalized, scientific)) {
			matches = append(matches, animal)
		}
	}
	return matches
}
