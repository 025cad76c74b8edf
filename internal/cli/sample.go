package cli

import (
	"time"

	"github.com/conorfennell/flashdeck/internal/domain"
)

// SampleDeckName is the deck seeded into an empty collection so a first run
// has something to study.
const SampleDeckName = "English Vocabulary"

var sampleCards = []struct {
	front string
	back  string
	tags  []string
}{
	{"abandon", "to give up or leave behind", []string{"verb", "high-frequency"}},
	{"ability", "skill or talent", []string{"noun", "basic"}},
	{"absence", "the state of being away", []string{"noun", "basic"}},
	{"absolute", "complete or total", []string{"adjective", "intermediate"}},
	{"academic", "relating to education or scholarship", []string{"adjective", "academic"}},
	{"accelerate", "to speed up or increase", []string{"verb", "intermediate"}},
	{"acceptable", "satisfactory or adequate", []string{"adjective", "intermediate"}},
	{"access", "the ability to enter or approach", []string{"noun", "verb", "basic"}},
	{"accident", "an unexpected event", []string{"noun", "basic"}},
	{"accompany", "to go with someone", []string{"verb", "intermediate"}},
}

// EnsureSampleDeck seeds the sample deck into an empty collection. A
// collection that already has decks is left alone.
func EnsureSampleDeck(decks map[string]*domain.Deck, now time.Time) error {
	if len(decks) > 0 {
		return nil
	}
	deck, err := domain.NewDeck(SampleDeckName)
	if err != nil {
		return err
	}
	for _, c := range sampleCards {
		if _, err := deck.AddCard(c.front, c.back, c.tags, domain.MinDifficulty, now); err != nil {
			return err
		}
	}
	decks[SampleDeckName] = deck
	return nil
}
