package engine

import "github.com/Madhan-Sampath-Nexgile/telebot/internal/knowledge"

// Kind tags the variant of a ReplyIntent. The values mirror the matcher
// pipeline's strategies in priority order.
type Kind int

const (
	KindGreeting Kind = iota
	KindAnimalList
	KindRandomAnimal
	KindCategory
	KindAnimalDetail
	KindMissingAnimal
	KindIntent
	KindFallback
)

var kindNames = map[Kind]string{
	KindGreeting:      "greeting",
	KindAnimalList:    "animal_list",
	KindRandomAnimal:  "random_animal",
	KindCategory:      "category",
	KindAnimalDetail:  "animal_detail",
	KindMissingAnimal: "missing_animal",
	KindIntent:        "intent",
	KindFallback:      "fallback",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ReplyIntent is the outcome of Resolve. Kind selects the variant; the
// remaining fields are populated only for their corresponding kind.
type ReplyIntent struct {
	Kind Kind

	// Category and Matches are set for KindCategory. Matches is never empty:
	// a category whose predicate matches nothing is a pipeline miss, not a
	// CategoryMatch.
	Category *Category
	Matches  []knowledge.AnimalProfile

	// Animal is set for KindAnimalDetail.
	Animal *knowledge.AnimalProfile

	// Requested is set for KindMissingAnimal: the extracted name that has no
	// catalog entry.
	Requested string

	// Rule is set for KindIntent.
	Rule *knowledge.IntentRule
}
