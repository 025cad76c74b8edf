package domain

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func mustCard(t *testing.T, front, back string, tags []string, difficulty int) *Card {
	t.Helper()
	card, err := NewCard(front, back, tags, difficulty, testNow)
	if err != nil {
		t.Fatalf("NewCard(%q, %q) returned an unexpected error: %v", front, back, err)
	}
	return card
}

func TestNewCard(t *testing.T) {
	testCases := []struct {
		name        string
		front       string
		back        string
		difficulty  int
		wantErr     error
		wantDiff    int
	}{
		{name: "valid", front: "abandon", back: "to give up", difficulty: 2, wantDiff: 2},
		{name: "difficulty clamped low", front: "q", back: "a", difficulty: 0, wantDiff: 1},
		{name: "difficulty clamped high", front: "q", back: "a", difficulty: 9, wantDiff: 5},
		{name: "empty front", front: "", back: "a", difficulty: 1, wantErr: ErrEmptyFront},
		{name: "empty back", front: "q", back: "", difficulty: 1, wantErr: ErrEmptyBack},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			card, err := NewCard(tc.front, tc.back, nil, tc.difficulty, testNow)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Expected error %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewCard returned an unexpected error: %v", err)
			}
			if card.Difficulty != tc.wantDiff {
				t.Errorf("Expected difficulty %d, got %d", tc.wantDiff, card.Difficulty)
			}
			if card.Tags == nil {
				t.Error("Expected nil tags to become an empty slice")
			}
			if card.LastReviewed != nil {
				t.Error("Expected a new card to have no last reviewed time")
			}
			if !card.CreatedDate.Equal(testNow) {
				t.Errorf("Expected created date %v, got %v", testNow, card.CreatedDate)
			}
		})
	}
}

func TestUpdateReviewDifficultyBounds(t *testing.T) {
	t.Run("correct answers never drop below the floor", func(t *testing.T) {
		for start := MinDifficulty; start <= MaxDifficulty; start++ {
			card := mustCard(t, "q", "a", nil, start)
			for i := 0; i < 10; i++ {
				card.UpdateReview(true, testNow)
				if card.Difficulty < MinDifficulty {
					t.Fatalf("Difficulty dropped to %d starting from %d", card.Difficulty, start)
				}
			}
			if card.Difficulty != MinDifficulty {
				t.Errorf("Expected difficulty to settle at %d from %d, got %d", MinDifficulty, start, card.Difficulty)
			}
		}
	})

	t.Run("incorrect answers never exceed the ceiling", func(t *testing.T) {
		for start := MinDifficulty; start <= MaxDifficulty; start++ {
			card := mustCard(t, "q", "a", nil, start)
			for i := 0; i < 10; i++ {
				card.UpdateReview(false, testNow)
				if card.Difficulty > MaxDifficulty {
					t.Fatalf("Difficulty rose to %d starting from %d", card.Difficulty, start)
				}
			}
			if card.Difficulty != MaxDifficulty {
				t.Errorf("Expected difficulty to settle at %d from %d, got %d", MaxDifficulty, start, card.Difficulty)
			}
		}
	})

	t.Run("moves one step per review", func(t *testing.T) {
		card := mustCard(t, "q", "a", nil, 3)
		card.UpdateReview(false, testNow)
		if card.Difficulty != 4 {
			t.Errorf("Expected difficulty 4 after one miss, got %d", card.Difficulty)
		}
		card.UpdateReview(true, testNow)
		if card.Difficulty != 3 {
			t.Errorf("Expected difficulty 3 after one hit, got %d", card.Difficulty)
		}
	})
}

func TestUpdateReviewCounters(t *testing.T) {
	card := mustCard(t, "q", "a", nil, 3)
	outcomes := []bool{true, false, true, true, false}

	wantCorrect := 0
	for i, correct := range outcomes {
		card.UpdateReview(correct, testNow)
		if correct {
			wantCorrect++
		}
		if card.ReviewCount != i+1 {
			t.Fatalf("Expected review count %d, got %d", i+1, card.ReviewCount)
		}
		if card.CorrectCount != wantCorrect {
			t.Fatalf("Expected correct count %d, got %d", wantCorrect, card.CorrectCount)
		}
		if card.CorrectCount > card.ReviewCount {
			t.Fatalf("Correct count %d exceeds review count %d", card.CorrectCount, card.ReviewCount)
		}
	}

	if card.LastReviewed == nil || !card.LastReviewed.Equal(testNow) {
		t.Errorf("Expected last reviewed %v, got %v", testNow, card.LastReviewed)
	}
}

func TestNeedsReview(t *testing.T) {
	t.Run("fresh card is always due", func(t *testing.T) {
		card := mustCard(t, "q", "a", nil, 1)
		if !card.NeedsReview(testNow) {
			t.Error("Expected a never-reviewed card to need review")
		}
	})

	t.Run("idempotent between reviews", func(t *testing.T) {
		card := mustCard(t, "q", "a", nil, 3)
		card.UpdateReview(true, testNow)
		at := testNow.Add(24 * time.Hour)
		first := card.NeedsReview(at)
		for i := 0; i < 5; i++ {
			if card.NeedsReview(at) != first {
				t.Fatal("NeedsReview changed without an intervening review")
			}
		}
	})

	t.Run("interval follows the new difficulty", func(t *testing.T) {
		// Difficulty 3 answered correctly becomes 2, so the card is due
		// after 5 days, not 3.
		card := mustCard(t, "q", "a", nil, 3)
		card.UpdateReview(true, testNow)
		if card.Difficulty != 2 {
			t.Fatalf("Expected difficulty 2, got %d", card.Difficulty)
		}
		if card.NeedsReview(testNow.Add(3 * 24 * time.Hour)) {
			t.Error("Expected card not to be due after 3 days at difficulty 2")
		}
		if card.NeedsReview(testNow.Add(4 * 24 * time.Hour)) {
			t.Error("Expected card not to be due after 4 days at difficulty 2")
		}
		if !card.NeedsReview(testNow.Add(5 * 24 * time.Hour)) {
			t.Error("Expected card to be due after 5 days at difficulty 2")
		}
	})

	t.Run("due exactly at the interval boundary", func(t *testing.T) {
		card := mustCard(t, "q", "a", nil, 5)
		card.UpdateReview(false, testNow) // stays at 5, 1-day interval
		if card.NeedsReview(testNow.Add(23 * time.Hour)) {
			t.Error("Expected card not to be due before a full day has passed")
		}
		if !card.NeedsReview(testNow.Add(24 * time.Hour)) {
			t.Error("Expected card to be due exactly one day after review")
		}
	})
}

func TestReviewInterval(t *testing.T) {
	wantDays := map[int]int{1: 7, 2: 5, 3: 3, 4: 2, 5: 1}
	for difficulty, days := range wantDays {
		card := mustCard(t, "q", "a", nil, difficulty)
		want := time.Duration(days) * 24 * time.Hour
		if got := card.ReviewInterval(); got != want {
			t.Errorf("Difficulty %d: expected interval %v, got %v", difficulty, want, got)
		}
	}
}

func TestSuccessRate(t *testing.T) {
	card := mustCard(t, "q", "a", nil, 3)
	if rate := card.SuccessRate(); rate != 0 {
		t.Errorf("Expected success rate 0 with no reviews, got %.1f", rate)
	}

	// 3 correct out of 4.
	card.UpdateReview(true, testNow)
	card.UpdateReview(true, testNow)
	card.UpdateReview(false, testNow)
	card.UpdateReview(true, testNow)
	if rate := card.SuccessRate(); rate != 75.0 {
		t.Errorf("Expected success rate 75.0, got %.1f", rate)
	}
}

func TestHasTag(t *testing.T) {
	card := mustCard(t, "run", "to move fast", []string{"verb", "basic"}, 1)
	if !card.HasTag("verb") || !card.HasTag("basic") {
		t.Error("Expected card to match its own tags")
	}
	if card.HasTag("noun") {
		t.Error("Expected card not to match an absent tag")
	}
	if card.HasTag("Verb") {
		t.Error("Expected tag matching to be case-sensitive")
	}
}

func TestRestoreCard(t *testing.T) {
	reviewed := testNow.Add(-48 * time.Hour)

	testCases := []struct {
		name         string
		front        string
		back         string
		difficulty   int
		reviewCount  int
		correctCount int
		wantErr      error
	}{
		{name: "valid", front: "q", back: "a", difficulty: 3, reviewCount: 4, correctCount: 3},
		{name: "empty front", front: "", back: "a", difficulty: 3, wantErr: ErrEmptyFront},
		{name: "empty back", front: "q", back: "", difficulty: 3, wantErr: ErrEmptyBack},
		{name: "difficulty too low", front: "q", back: "a", difficulty: 0, wantErr: ErrDifficultyRange},
		{name: "difficulty too high", front: "q", back: "a", difficulty: 6, wantErr: ErrDifficultyRange},
		{name: "correct exceeds reviews", front: "q", back: "a", difficulty: 3, reviewCount: 1, correctCount: 2, wantErr: ErrCountMismatch},
		{name: "negative counter", front: "q", back: "a", difficulty: 3, reviewCount: -1, wantErr: ErrCountMismatch},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			card, err := RestoreCard(tc.front, tc.back, nil, tc.difficulty, &reviewed, tc.reviewCount, tc.correctCount, testNow)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Expected error %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("RestoreCard returned an unexpected error: %v", err)
			}
			if card.ReviewCount != tc.reviewCount || card.CorrectCount != tc.correctCount {
				t.Errorf("Counters not restored: got %d/%d", card.CorrectCount, card.ReviewCount)
			}
			if card.LastReviewed == nil || !card.LastReviewed.Equal(reviewed) {
				t.Errorf("Expected last reviewed %v, got %v", reviewed, card.LastReviewed)
			}
		})
	}
}
