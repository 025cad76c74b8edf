// Package deckfile encodes and decodes the JSON interchange format: a map
// of deck name to card records, with ISO-8601 timestamps and an explicit
// null for cards that have never been reviewed. The shape matches the
// original study tool's flashcards_data.json, so files move both ways.
package deckfile

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/conorfennell/flashdeck/internal/domain"
)

type cardRecord struct {
	Front        string   `json:"front"`
	Back         string   `json:"back"`
	Tags         []string `json:"tags"`
	Difficulty   *int     `json:"difficulty"`
	ReviewCount  int      `json:"review_count"`
	CorrectCount int      `json:"correct_count"`
	LastReviewed *string  `json:"last_reviewed"`
	CreatedDate  string   `json:"created_date"`
}

// Marshal encodes the deck collection as indented JSON.
func Marshal(decks map[string]*domain.Deck) ([]byte, error) {
	out := make(map[string][]cardRecord, len(decks))
	for name, deck := range decks {
		records := make([]cardRecord, 0, len(deck.Cards))
		for _, card := range deck.Cards {
			difficulty := card.Difficulty
			rec := cardRecord{
				Front:        card.Front,
				Back:         card.Back,
				Tags:         card.Tags,
				Difficulty:   &difficulty,
				ReviewCount:  card.ReviewCount,
				CorrectCount: card.CorrectCount,
				CreatedDate:  card.CreatedDate.Format(time.RFC3339Nano),
			}
			if card.LastReviewed != nil {
				s := card.LastReviewed.Format(time.RFC3339Nano)
				rec.LastReviewed = &s
			}
			records = append(records, rec)
		}
		out[name] = records
	}
	return json.MarshalIndent(out, "", "  ")
}

// Unmarshal decodes a deck collection. Missing tags default to an empty
// list; a missing difficulty, an unparsable timestamp, or counters that
// break the card invariants are hard errors.
func Unmarshal(data []byte) (map[string]*domain.Deck, error) {
	var raw map[string][]cardRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode deck file: %w", err)
	}

	decks := make(map[string]*domain.Deck, len(raw))
	for name, records := range raw {
		deck, err := domain.NewDeck(name)
		if err != nil {
			return nil, fmt.Errorf("deck name: %w", err)
		}
		for i, rec := range records {
			card, err := restoreRecord(rec)
			if err != nil {
				return nil, fmt.Errorf("deck %q, card %d: %w", name, i, err)
			}
			deck.Cards = append(deck.Cards, card)
		}
		decks[name] = deck
	}
	return decks, nil
}

func restoreRecord(rec cardRecord) (*domain.Card, error) {
	if rec.Difficulty == nil {
		return nil, fmt.Errorf("missing difficulty")
	}

	created, err := parseTimestamp(rec.CreatedDate)
	if err != nil {
		return nil, fmt.Errorf("created_date: %w", err)
	}

	var lastReviewed *time.Time
	if rec.LastReviewed != nil {
		t, err := parseTimestamp(*rec.LastReviewed)
		if err != nil {
			return nil, fmt.Errorf("last_reviewed: %w", err)
		}
		lastReviewed = &t
	}

	return domain.RestoreCard(
		rec.Front,
		rec.Back,
		rec.Tags,
		*rec.Difficulty,
		lastReviewed,
		rec.ReviewCount,
		rec.CorrectCount,
		created,
	)
}

// naiveLayout covers timestamps without a zone offset, which is what the
// original tool's isoformat() writes. They are read as local time.
const naiveLayout = "2006-01-02T15:04:05.999999999"

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(naiveLayout, s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", s)
}
