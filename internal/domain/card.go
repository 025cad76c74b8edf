package domain

import "time"

// Difficulty bounds. 1 is the easiest a card can get, 5 the hardest.
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// DifficultThreshold is the difficulty at which a card counts as difficult.
const DifficultThreshold = 4

// reviewIntervalDays maps a difficulty level to the number of days between
// reviews. Harder cards come back sooner.
var reviewIntervalDays = map[int]int{1: 7, 2: 5, 3: 3, 4: 2, 5: 1}

// Card is a single question/answer unit with its difficulty and review
// history. Cards have no identity of their own; they are addressed by
// position within their owning deck.
type Card struct {
	Front        string
	Back         string
	Tags         []string
	Difficulty   int
	LastReviewed *time.Time // nil until the first review
	ReviewCount  int
	CorrectCount int
	CreatedDate  time.Time
}

// NewCard creates a card with the given content. Difficulty is clamped to
// [MinDifficulty, MaxDifficulty]; empty front or back is rejected.
func NewCard(front, back string, tags []string, difficulty int, now time.Time) (*Card, error) {
	if front == "" {
		return nil, ErrEmptyFront
	}
	if back == "" {
		return nil, ErrEmptyBack
	}
	if tags == nil {
		tags = []string{}
	}
	return &Card{
		Front:       front,
		Back:        back,
		Tags:        tags,
		Difficulty:  clampDifficulty(difficulty),
		CreatedDate: now,
	}, nil
}

// RestoreCard rebuilds a card from persisted fields. Unlike NewCard it does
// not clamp: a persisted difficulty outside the valid range, or counters
// that contradict each other, mean the record is corrupt and the load fails.
func RestoreCard(
	front, back string,
	tags []string,
	difficulty int,
	lastReviewed *time.Time,
	reviewCount, correctCount int,
	createdDate time.Time,
) (*Card, error) {
	if front == "" {
		return nil, ErrEmptyFront
	}
	if back == "" {
		return nil, ErrEmptyBack
	}
	if difficulty < MinDifficulty || difficulty > MaxDifficulty {
		return nil, ErrDifficultyRange
	}
	if reviewCount < 0 || correctCount < 0 || correctCount > reviewCount {
		return nil, ErrCountMismatch
	}
	if tags == nil {
		tags = []string{}
	}
	return &Card{
		Front:        front,
		Back:         back,
		Tags:         tags,
		Difficulty:   difficulty,
		LastReviewed: lastReviewed,
		ReviewCount:  reviewCount,
		CorrectCount: correctCount,
		CreatedDate:  createdDate,
	}, nil
}

// UpdateReview records one review outcome. A correct answer makes the card
// one step easier, an incorrect one a step harder; difficulty never leaves
// [MinDifficulty, MaxDifficulty]. The adjustment looks only at the current
// difficulty, never at earlier history.
func (c *Card) UpdateReview(correct bool, now time.Time) {
	c.ReviewCount++
	if correct {
		c.CorrectCount++
		if c.Difficulty > MinDifficulty {
			c.Difficulty--
		}
	} else if c.Difficulty < MaxDifficulty {
		c.Difficulty++
	}
	t := now
	c.LastReviewed = &t
}

// ReviewInterval returns how long after a review the card becomes due again.
func (c *Card) ReviewInterval() time.Duration {
	return time.Duration(reviewIntervalDays[clampDifficulty(c.Difficulty)]) * 24 * time.Hour
}

// NeedsReview reports whether the card is due at the given time. A card that
// has never been reviewed is always due. The check never mutates the card.
func (c *Card) NeedsReview(now time.Time) bool {
	if c.LastReviewed == nil {
		return true
	}
	return now.Sub(*c.LastReviewed) >= c.ReviewInterval()
}

// SuccessRate returns the percentage of reviews answered correctly, in
// [0, 100]. A card with no reviews yet rates 0.
func (c *Card) SuccessRate() float64 {
	if c.ReviewCount == 0 {
		return 0
	}
	return float64(c.CorrectCount) / float64(c.ReviewCount) * 100
}

// HasTag reports whether tag appears in the card's tag list. Matching is
// case-sensitive and exact.
func (c *Card) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func clampDifficulty(d int) int {
	if d < MinDifficulty {
		return MinDifficulty
	}
	if d > MaxDifficulty {
		return MaxDifficulty
	}
	return d
}
