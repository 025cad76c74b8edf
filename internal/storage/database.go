// Package storage persists the deck collection in a local SQLite database.
// The core never touches the database; callers load the whole collection,
// work on it in memory, and save it back.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/conorfennell/flashdeck/internal/domain"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// DB represents a wrapper around the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to
// date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// LoadDecks reads the whole deck collection, keyed by deck name. A record
// that fails to parse fails the load; the store never hands back a deck
// with broken invariants.
func (db *DB) LoadDecks() (map[string]*domain.Deck, error) {
	rows, err := db.conn.Query(`SELECT id, name FROM decks`)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer rows.Close()

	type deckRow struct {
		id   int64
		name string
	}
	var deckRows []deckRow
	for rows.Next() {
		var dr deckRow
		if err := rows.Scan(&dr.id, &dr.name); err != nil {
			return nil, fmt.Errorf("failed to scan deck row: %w", err)
		}
		deckRows = append(deckRows, dr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read deck rows: %w", err)
	}

	decks := make(map[string]*domain.Deck, len(deckRows))
	for _, dr := range deckRows {
		deck, err := domain.NewDeck(dr.name)
		if err != nil {
			return nil, fmt.Errorf("deck %d: %w", dr.id, err)
		}
		if err := db.loadCards(dr.id, deck); err != nil {
			return nil, fmt.Errorf("deck %q: %w", dr.name, err)
		}
		decks[dr.name] = deck
	}
	return decks, nil
}

func (db *DB) loadCards(deckID int64, deck *domain.Deck) error {
	rows, err := db.conn.Query(`
		SELECT front, back, tags, difficulty, last_reviewed, review_count, correct_count, created_date
		FROM cards WHERE deck_id = ? ORDER BY position
	`, deckID)
	if err != nil {
		return fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			front, back, tagsJSON, createdRaw string
			lastReviewedRaw                   sql.NullString
			difficulty, reviews, correct      int
		)
		if err := rows.Scan(&front, &back, &tagsJSON, &difficulty, &lastReviewedRaw, &reviews, &correct, &createdRaw); err != nil {
			return fmt.Errorf("failed to scan card row: %w", err)
		}

		var tags []string
		if err := json.Unmarshal([]byte(tagsJSON), &tags); err != nil {
			return fmt.Errorf("failed to decode tags %q: %w", tagsJSON, err)
		}

		created, err := time.Parse(time.RFC3339Nano, createdRaw)
		if err != nil {
			return fmt.Errorf("failed to parse created date %q: %w", createdRaw, err)
		}

		var lastReviewed *time.Time
		if lastReviewedRaw.Valid {
			t, err := time.Parse(time.RFC3339Nano, lastReviewedRaw.String)
			if err != nil {
				return fmt.Errorf("failed to parse last reviewed %q: %w", lastReviewedRaw.String, err)
			}
			lastReviewed = &t
		}

		card, err := domain.RestoreCard(front, back, tags, difficulty, lastReviewed, reviews, correct, created)
		if err != nil {
			return fmt.Errorf("invalid card %q: %w", front, err)
		}
		deck.Cards = append(deck.Cards, card)
	}
	return rows.Err()
}

// SaveDecks replaces the stored collection with the given one. The write is
// transactional: either the whole collection is saved or nothing changes.
func (db *DB) SaveDecks(decks map[string]*domain.Deck) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cards`); err != nil {
		return fmt.Errorf("failed to clear cards: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM decks`); err != nil {
		return fmt.Errorf("failed to clear decks: %w", err)
	}

	names := make([]string, 0, len(decks))
	for name := range decks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		deck := decks[name]
		res, err := tx.Exec(`INSERT INTO decks (name) VALUES (?)`, name)
		if err != nil {
			return fmt.Errorf("failed to insert deck %q: %w", name, err)
		}
		deckID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get deck ID for %q: %w", name, err)
		}

		for position, card := range deck.Cards {
			tagsJSON, err := json.Marshal(card.Tags)
			if err != nil {
				return fmt.Errorf("failed to encode tags for card %q: %w", card.Front, err)
			}

			var lastReviewed any
			if card.LastReviewed != nil {
				lastReviewed = card.LastReviewed.Format(time.RFC3339Nano)
			}

			_, err = tx.Exec(`
				INSERT INTO cards (deck_id, position, front, back, tags, difficulty, last_reviewed, review_count, correct_count, created_date)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
				deckID,
				position,
				card.Front,
				card.Back,
				string(tagsJSON),
				card.Difficulty,
				lastReviewed,
				card.ReviewCount,
				card.CorrectCount,
				card.CreatedDate.Format(time.RFC3339Nano),
			)
			if err != nil {
				return fmt.Errorf("failed to insert card %q: %w", card.Front, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}
