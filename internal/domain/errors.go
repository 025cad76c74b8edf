package domain

import "errors"

// Construction and restore errors. These signal invariant violations, not
// user-recoverable conditions; callers validating user input should do so
// before constructing cards.
var (
	// ErrEmptyFront is returned when a card's front text is empty.
	ErrEmptyFront = errors.New("card front cannot be empty")

	// ErrEmptyBack is returned when a card's back text is empty.
	ErrEmptyBack = errors.New("card back cannot be empty")

	// ErrEmptyDeckName is returned when a deck is created with an empty name.
	ErrEmptyDeckName = errors.New("deck name cannot be empty")

	// ErrDifficultyRange is returned when a persisted difficulty falls
	// outside [MinDifficulty, MaxDifficulty].
	ErrDifficultyRange = errors.New("difficulty out of range")

	// ErrCountMismatch is returned when persisted review counters are
	// negative or the correct count exceeds the review count.
	ErrCountMismatch = errors.New("invalid review counters")
)
