package engine

import (
	"strings"

	"github.com/Madhan-Sampath-Nexgile/telebot/internal/knowledge"
)

// Category maps a conversational group word to a classification test over
// the catalog. Overview, when set, is prepended to the category reply.
type Category struct {
	Key      string
	Aliases  []string
	Overview string
	Matches  func(knowledge.AnimalProfile) bool
}

// snakeOverview is the fixed biological overview shown before snake listings.
const snakeOverview = "Snakes are legless reptiles (suborder Serpentes).\n" +
	"They are carnivorous and swallow prey whole because their jaws are highly flexible.\n" +
	"Most species are non-venomous; some use venom for hunting and defense."

// categories is evaluated in order: the first category whose alias appears in
// the utterance wins, so earlier rows shadow later ones when aliases of both
// are present.
var categories = []Category{
	{
		Key:      "snake",
		Aliases:  []string{"snake", "snakes"},
		Overview: snakeOverview,
		Matches:  isSnake,
	},
	{
		Key:     "bird",
		Aliases: []string{"bird", "birds"},
		Matches: classificationIs("bird"),
	},
	{
		Key:     "mammal",
		Aliases: []string{"mammal", "mammals"},
		Matches: classificationIs("mammal"),
	},
	{
		Key:     "reptile",
		Aliases: []string{"reptile", "reptiles"},
		Matches: classificationIs("reptile"),
	},
	{
		Key:     "amphibian",
		Aliases: []string{"amphibian", "amphibians", "frog", "frogs"},
		Matches: classificationIs("amphibian"),
	},
	{
		Key:     "fish",
		Aliases: []string{"fish", "fishes", "shark", "sharks"},
		Matches: func(a knowledge.AnimalProfile) bool {
			return classificationIs("fish")(a) ||
				strings.Contains(strings.ToLower(a.CommonName), "shark")
		},
	},
	{
		Key:     "insect",
		Aliases: []string{"insect", "insects", "bee", "bees"},
		Matches: classificationIs("insect"),
	},
}

// snakeNameMarkers covers catalog entries whose classification reads
// "Reptile" but which belong in the snake group.
var snakeNameMarkers = []string{"snake", "cobra", "python", "viper", "mamba", "anaconda"}

func isSnake(a knowledge.AnimalProfile) bool {
	name := strings.ToLower(a.CommonName)
	for _, marker := range snakeNameMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(a.ScientificName), "serpentes")
}

func classificationIs(want string) func(knowledge.AnimalProfile) bool {
	return func(a knowledge.AnimalProfile) bool {
		return strings.EqualFold(a.Classification, want)
	}
}

// matchCategory returns the first category with an alias contained in the
// normalized text, or nil when none applies.
func matchCategory(text string) *Category {
	for i := range categories {
		if containsAny(text, categories[i].Aliases) {
			return &categories[i]
		}
	}
	return nil
}
