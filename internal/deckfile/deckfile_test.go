package deckfile

import (
	"strings"
	"testing"
	"time"

	"github.com/conorfennell/flashdeck/internal/domain"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 123456000, time.UTC)

func TestRoundTrip(t *testing.T) {
	deck, err := domain.NewDeck("English Vocabulary")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := deck.AddCard("abandon", "to give up", []string{"verb", "high-frequency"}, 2, testNow); err != nil {
		t.Fatal(err)
	}
	if _, err := deck.AddCard("ability", "skill or talent", nil, 1, testNow); err != nil {
		t.Fatal(err)
	}
	deck.Cards[0].UpdateReview(true, testNow.Add(3*time.Hour))

	data, err := Marshal(map[string]*domain.Deck{deck.Name: deck})
	if err != nil {
		t.Fatalf("Marshal returned an unexpected error: %v", err)
	}

	decks, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal returned an unexpected error: %v", err)
	}
	got, ok := decks["English Vocabulary"]
	if !ok {
		t.Fatal("Expected the deck to survive the round trip")
	}
	if len(got.Cards) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(got.Cards))
	}

	first, want := got.Cards[0], deck.Cards[0]
	if first.Front != want.Front || first.Back != want.Back {
		t.Errorf("Content changed: got %q/%q", first.Front, first.Back)
	}
	if len(first.Tags) != 2 || first.Tags[0] != "verb" || first.Tags[1] != "high-frequency" {
		t.Errorf("Tags changed: got %v", first.Tags)
	}
	if first.Difficulty != want.Difficulty {
		t.Errorf("Difficulty changed: expected %d, got %d", want.Difficulty, first.Difficulty)
	}
	if first.ReviewCount != 1 || first.CorrectCount != 1 {
		t.Errorf("Counters changed: got %d/%d", first.CorrectCount, first.ReviewCount)
	}
	if first.LastReviewed == nil || !first.LastReviewed.Equal(*want.LastReviewed) {
		t.Errorf("Last reviewed changed: expected %v, got %v", want.LastReviewed, first.LastReviewed)
	}
	if !first.CreatedDate.Equal(want.CreatedDate) {
		t.Errorf("Created date changed: expected %v, got %v", want.CreatedDate, first.CreatedDate)
	}

	second := got.Cards[1]
	if second.LastReviewed != nil {
		t.Error("Expected null last_reviewed to come back as nil")
	}
	if second.Tags == nil || len(second.Tags) != 0 {
		t.Errorf("Expected empty tags, got %v", second.Tags)
	}
}

func TestMarshalWritesExplicitNull(t *testing.T) {
	deck, err := domain.NewDeck("d")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := deck.AddCard("q", "a", nil, 1, testNow); err != nil {
		t.Fatal(err)
	}

	data, err := Marshal(map[string]*domain.Deck{"d": deck})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"last_reviewed": null`) {
		t.Errorf("Expected an explicit null last_reviewed, got:\n%s", data)
	}
}

func TestUnmarshalErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{
			name: "missing difficulty",
			input: `{"d": [{"front": "q", "back": "a", "tags": [], "review_count": 0,
				"correct_count": 0, "last_reviewed": null, "created_date": "2025-06-01T12:00:00Z"}]}`,
		},
		{
			name: "difficulty out of range",
			input: `{"d": [{"front": "q", "back": "a", "tags": [], "difficulty": 9, "review_count": 0,
				"correct_count": 0, "last_reviewed": null, "created_date": "2025-06-01T12:00:00Z"}]}`,
		},
		{
			name: "unparsable created date",
			input: `{"d": [{"front": "q", "back": "a", "tags": [], "difficulty": 1, "review_count": 0,
				"correct_count": 0, "last_reviewed": null, "created_date": "yesterday"}]}`,
		},
		{
			name: "unparsable last reviewed",
			input: `{"d": [{"front": "q", "back": "a", "tags": [], "difficulty": 1, "review_count": 1,
				"correct_count": 1, "last_reviewed": "not-a-time", "created_date": "2025-06-01T12:00:00Z"}]}`,
		},
		{
			name: "correct count exceeds review count",
			input: `{"d": [{"front": "q", "back": "a", "tags": [], "difficulty": 1, "review_count": 1,
				"correct_count": 2, "last_reviewed": null, "created_date": "2025-06-01T12:00:00Z"}]}`,
		},
		{
			name: "empty front",
			input: `{"d": [{"front": "", "back": "a", "tags": [], "difficulty": 1, "review_count": 0,
				"correct_count": 0, "last_reviewed": null, "created_date": "2025-06-01T12:00:00Z"}]}`,
		},
		{
			name:  "not json",
			input: `not json at all`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Unmarshal([]byte(tc.input)); err == nil {
				t.Error("Expected Unmarshal to fail, but it succeeded")
			}
		})
	}
}

func TestUnmarshalDefaults(t *testing.T) {
	// Tags absent entirely: default to an empty list, not an error.
	input := `{"d": [{"front": "q", "back": "a", "difficulty": 3, "review_count": 0,
		"correct_count": 0, "last_reviewed": null, "created_date": "2025-06-01T12:00:00Z"}]}`

	decks, err := Unmarshal([]byte(input))
	if err != nil {
		t.Fatalf("Unmarshal returned an unexpected error: %v", err)
	}
	card := decks["d"].Cards[0]
	if card.Tags == nil || len(card.Tags) != 0 {
		t.Errorf("Expected missing tags to default to an empty list, got %v", card.Tags)
	}
}

func TestUnmarshalAcceptsNaiveTimestamps(t *testing.T) {
	// The original tool writes isoformat() without a zone offset.
	input := `{"d": [{"front": "q", "back": "a", "tags": ["verb"], "difficulty": 2, "review_count": 3,
		"correct_count": 2, "last_reviewed": "2025-05-30T09:15:00.123456", "created_date": "2025-05-01T08:00:00"}]}`

	decks, err := Unmarshal([]byte(input))
	if err != nil {
		t.Fatalf("Unmarshal returned an unexpected error: %v", err)
	}
	card := decks["d"].Cards[0]
	if card.LastReviewed == nil {
		t.Fatal("Expected last reviewed to be set")
	}
	if card.LastReviewed.Second() != 0 || card.LastReviewed.Minute() != 15 || card.LastReviewed.Hour() != 9 {
		t.Errorf("Unexpected last reviewed time: %v", card.LastReviewed)
	}
	if card.CreatedDate.Year() != 2025 || card.CreatedDate.Month() != time.May {
		t.Errorf("Unexpected created date: %v", card.CreatedDate)
	}
}
