// Package session selects and walks a shuffled subset of a deck's cards,
// applying reviewer-supplied outcomes card by card. The blocking prompt for
// each outcome belongs to the caller; the session itself never waits.
package session

import (
	"math/rand"
	"time"

	"github.com/conorfennell/flashdeck/internal/domain"
)

// Mode selects which of a deck's cards a session draws from.
type Mode string

const (
	ModeReview    Mode = "review"
	ModeDifficult Mode = "difficult"
	ModeAll       Mode = "all"
	ModeTag       Mode = "tag"
)

// Rating is the qualitative tier for a completed session's accuracy.
type Rating string

const (
	RatingHigh   Rating = "high"
	RatingMedium Rating = "medium"
	RatingLow    Rating = "low"
)

// Select returns the deck's candidate cards for the given mode, in deck
// order. The tag argument is only consulted for ModeTag.
func Select(deck *domain.Deck, mode Mode, tag string, now time.Time) []*domain.Card {
	switch mode {
	case ModeReview:
		return deck.CardsForReview(now)
	case ModeDifficult:
		return deck.DifficultCards()
	case ModeTag:
		return deck.CardsByTag(tag)
	default:
		return deck.AllCards()
	}
}

// Session is one pass through a shuffled card sequence. Reviews are applied
// as outcomes arrive; abandoning a session keeps the reviews already
// recorded.
type Session struct {
	cards   []*domain.Card
	pos     int
	correct int
}

// New shuffles the candidate cards and returns a session over them. A nil
// rng falls back to a time-seeded source, so each session's order is
// independent; tests inject a seeded one.
func New(cards []*domain.Card, rng *rand.Rand) *Session {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	shuffled := make([]*domain.Card, len(cards))
	copy(shuffled, cards)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return &Session{cards: shuffled}
}

// Total returns the number of cards in the session.
func (s *Session) Total() int {
	return len(s.cards)
}

// Cards returns the session's cards in presentation order.
func (s *Session) Cards() []*domain.Card {
	cards := make([]*domain.Card, len(s.cards))
	copy(cards, s.cards)
	return cards
}

// Next returns the next card to present, or false when the session is
// exhausted.
func (s *Session) Next() (*domain.Card, bool) {
	if s.pos >= len(s.cards) {
		return nil, false
	}
	card := s.cards[s.pos]
	s.pos++
	return card, true
}

// Answer records the outcome for the card most recently returned by Next,
// updating its review state immediately. Calling Answer before any Next is
// a no-op.
func (s *Session) Answer(correct bool, now time.Time) {
	if s.pos == 0 {
		return
	}
	s.cards[s.pos-1].UpdateReview(correct, now)
	if correct {
		s.correct++
	}
}

// Summary reports the session's running result. It is only meaningful as a
// final report once every card has been answered; an abandoned session
// simply never asks for it.
func (s *Session) Summary() Summary {
	return Summary{Correct: s.correct, Total: len(s.cards)}
}

// Summary is a completed session's result.
type Summary struct {
	Correct int
	Total   int
}

// Accuracy returns the percentage of cards answered correctly.
func (s Summary) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total) * 100
}

// Rating tiers the accuracy: at least 80% is high, at least 60% medium,
// anything below is low.
func (s Summary) Rating() Rating {
	switch acc := s.Accuracy(); {
	case acc >= 80:
		return RatingHigh
	case acc >= 60:
		return RatingMedium
	default:
		return RatingLow
	}
}
