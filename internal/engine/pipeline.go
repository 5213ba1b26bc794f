package engine

import (
	"strings"

	"github.com/Madhan-Sampath-Nexgile/telebot/internal/knowledge"
)

// Trigger phrase sets for the conversational strategies. Matching is
// substring containment over the normalized utterance, so the bare command
// words also cover their slash-command forms ("start" covers "/start").
var (
	greetingWords = []string{"hello", "hi", "hey", "start"}
	listPhrases   = []string{"list animals", "animal list", "show animals", "/list"}
	randomPhrases = []string{"random animal", "suggest an animal", "/random"}
)

// Resolve classifies an utterance into exactly one ReplyIntent.
//
// Strategies run in fixed priority order and the first hit wins. The order
// is a contract, not an implementation detail: inputs routinely satisfy
// several strategies at once ("tell me about snake" is both a category query
// and a slot-extraction candidate), and conversational strategies always
// outrank the animal domain so a greeting that happens to contain an animal
// name stays a greeting.
func (e *Engine) Resolve(utterance string) ReplyIntent {
	text := Normalize(utterance)

	if containsAny(text, greetingWords) {
		return ReplyIntent{Kind: KindGreeting}
	}
	if containsAny(text, listPhrases) {
		return ReplyIntent{Kind: KindAnimalList}
	}
	if containsAny(text, randomPhrases) {
		return ReplyIntent{Kind: KindRandomAnimal}
	}

	if category := matchCategory(text); category != nil {
		matches := e.filterCatalog(category.Matches)
		if len(matches) > 0 {
			return ReplyIntent{Kind: KindCategory, Category: category, Matches: matches}
		}
		// Alias present but nothing in the catalog qualifies: treat as a
		// miss and let the later strategies have a go.
	}

	if matches := e.catalog.FindInText(text); len(matches) > 0 {
		animal := matches[0]
		return ReplyIntent{Kind: KindAnimalDetail, Animal: &animal}
	}

	if requested, ok := extractRequestedName(text); ok {
		return ReplyIntent{Kind: KindMissingAnimal, Requested: requested}
	}

	for i := range e.cfg.Intents {
		rule := &e.cfg.Intents[i]
		if len(rule.Triggers) == 0 {
			continue
		}
		if triggerMatches(text, rule.Triggers) {
			return ReplyIntent{Kind: KindIntent, Rule: rule}
		}
	}

	return ReplyIntent{Kind: KindFallback}
}

func (e *Engine) filterCatalog(match func(knowledge.AnimalProfile) bool) []knowledge.AnimalProfile {
	var matches []knowledge.AnimalProfile
	for _, animal := range e.catalog {
		if match(animal) {
			matches = append(matches, animal)
		}
	}
	return matches
}

func containsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

// triggerMatches reports whether any trigger appears in the normalized text.
// Triggers are lowered here so config authors need not pre-normalize them.
func triggerMatches(text string, triggers []string) bool {
	for _, trigger := range triggers {
		if trigger == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(trigger)) {
			return true
		}
	}
	return false
}
