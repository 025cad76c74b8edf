package domain

import (
	"sort"
	"time"
)

// Deck is a named ordered collection of cards. Cards are addressed by
// position; an index is only valid until the next insert or remove on the
// same deck.
type Deck struct {
	Name  string
	Cards []*Card
}

// NewDeck creates an empty deck with the given name.
func NewDeck(name string) (*Deck, error) {
	if name == "" {
		return nil, ErrEmptyDeckName
	}
	return &Deck{Name: name, Cards: []*Card{}}, nil
}

// AddCard constructs a card and appends it to the deck, returning the new
// card's index. The error cases are NewCard's.
func (d *Deck) AddCard(front, back string, tags []string, difficulty int, now time.Time) (int, error) {
	card, err := NewCard(front, back, tags, difficulty, now)
	if err != nil {
		return -1, err
	}
	d.Cards = append(d.Cards, card)
	return len(d.Cards) - 1, nil
}

// CardEdit describes a partial card update. Nil fields keep the current
// value; review state is never touched by an edit.
type CardEdit struct {
	Front *string
	Back  *string
	Tags  []string
}

// EditCard applies a partial update to the card at index. It reports whether
// the index was in range; out of range is a no-op.
func (d *Deck) EditCard(index int, edit CardEdit) bool {
	if index < 0 || index >= len(d.Cards) {
		return false
	}
	card := d.Cards[index]
	if edit.Front != nil {
		card.Front = *edit.Front
	}
	if edit.Back != nil {
		card.Back = *edit.Back
	}
	if edit.Tags != nil {
		card.Tags = edit.Tags
	}
	return true
}

// RemoveCard removes and returns the card at index, shifting later cards
// down by one. The second value is false when the index is out of range.
func (d *Deck) RemoveCard(index int) (*Card, bool) {
	if index < 0 || index >= len(d.Cards) {
		return nil, false
	}
	removed := d.Cards[index]
	d.Cards = append(d.Cards[:index], d.Cards[index+1:]...)
	return removed, true
}

// CardsForReview returns the cards due at the given time, in deck order.
// The slice is fresh but shares card pointers with the deck.
func (d *Deck) CardsForReview(now time.Time) []*Card {
	due := []*Card{}
	for _, card := range d.Cards {
		if card.NeedsReview(now) {
			due = append(due, card)
		}
	}
	return due
}

// DifficultCards returns the cards at or above DifficultThreshold, in deck
// order.
func (d *Deck) DifficultCards() []*Card {
	difficult := []*Card{}
	for _, card := range d.Cards {
		if card.Difficulty >= DifficultThreshold {
			difficult = append(difficult, card)
		}
	}
	return difficult
}

// CardsByTag returns the cards carrying the given tag, in deck order.
func (d *Deck) CardsByTag(tag string) []*Card {
	tagged := []*Card{}
	for _, card := range d.Cards {
		if card.HasTag(tag) {
			tagged = append(tagged, card)
		}
	}
	return tagged
}

// AllCards returns a copy of the deck's card sequence. Mutating the slice
// does not affect the deck; the cards themselves are shared.
func (d *Deck) AllCards() []*Card {
	cards := make([]*Card, len(d.Cards))
	copy(cards, d.Cards)
	return cards
}

// Tags returns the distinct tags used across the deck, sorted.
func (d *Deck) Tags() []string {
	seen := map[string]bool{}
	for _, card := range d.Cards {
		for _, tag := range card.Tags {
			seen[tag] = true
		}
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// DeckStats summarises a deck's review state at a point in time.
type DeckStats struct {
	TotalCards     int
	ReviewedCards  int
	DueCards       int
	DifficultCards int
	TotalReviews   int
	TotalCorrect   int
	TagCounts      map[string]int
}

// OverallAccuracy returns the deck-wide correct percentage across all
// recorded reviews, 0 when nothing has been reviewed.
func (s DeckStats) OverallAccuracy() float64 {
	if s.TotalReviews == 0 {
		return 0
	}
	return float64(s.TotalCorrect) / float64(s.TotalReviews) * 100
}

// Stats computes the deck's statistics at the given time.
func (d *Deck) Stats(now time.Time) DeckStats {
	stats := DeckStats{
		TotalCards: len(d.Cards),
		TagCounts:  map[string]int{},
	}
	for _, card := range d.Cards {
		if card.ReviewCount > 0 {
			stats.ReviewedCards++
		}
		if card.NeedsReview(now) {
			stats.DueCards++
		}
		if card.Difficulty >= DifficultThreshold {
			stats.DifficultCards++
		}
		stats.TotalReviews += card.ReviewCount
		stats.TotalCorrect += card.CorrectCount
		for _, tag := range card.Tags {
			stats.TagCounts[tag]++
		}
	}
	return stats
}
