// Package cli implements the interactive menu loop. It is deliberately thin
// glue: all card and deck behavior lives in the domain and session packages,
// and every prompt reads from an injected reader so flows can be scripted.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/session"
)

// App drives the interactive menus over a deck collection. The caller owns
// the collection and persists it after Run returns.
type App struct {
	Decks map[string]*domain.Deck

	in  *bufio.Scanner
	out io.Writer
	rng *rand.Rand
	now func() time.Time
}

// New creates an App reading prompts from in and writing to out. A nil rng
// leaves session shuffling unseeded; tests inject a seeded source and a
// fixed clock.
func New(decks map[string]*domain.Deck, in io.Reader, out io.Writer, rng *rand.Rand, now func() time.Time) *App {
	if now == nil {
		now = time.Now
	}
	return &App{
		Decks: decks,
		in:    bufio.NewScanner(in),
		out:   out,
		rng:   rng,
		now:   now,
	}
}

// Run shows the main menu until the user exits or input runs out.
func (a *App) Run() {
	for {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, strings.Repeat("=", 50))
		fmt.Fprintln(a.out, "Flashdeck Study System")
		fmt.Fprintln(a.out, strings.Repeat("=", 50))

		names := a.deckNames()
		if len(names) == 0 {
			fmt.Fprintln(a.out, "No decks available. Create one to start studying!")
			fmt.Fprintln(a.out, "1. Create Deck")
			fmt.Fprintln(a.out, "0. Exit")
		} else {
			fmt.Fprintln(a.out, "Available Decks:")
			for i, name := range names {
				deck := a.Decks[name]
				stats := deck.Stats(a.now())
				fmt.Fprintf(a.out, "%d. %s (%d cards, %d due, %d difficult)\n",
					i+1, name, stats.TotalCards, stats.DueCards, stats.DifficultCards)
			}
			fmt.Fprintf(a.out, "\n%d. Create New Deck\n", len(names)+1)
			fmt.Fprintln(a.out, "0. Exit")
		}

		choice, ok := a.prompt("\nSelect option: ")
		if !ok || choice == "0" {
			return
		}
		if choice == strconv.Itoa(len(names)+1) || (len(names) == 0 && choice == "1") {
			a.createDeck()
			continue
		}
		index, err := strconv.Atoi(choice)
		if err != nil {
			fmt.Fprintln(a.out, "Please enter a number")
			continue
		}
		if index < 1 || index > len(names) {
			fmt.Fprintln(a.out, "Invalid selection")
			continue
		}
		a.deckMenu(names[index-1])
	}
}

func (a *App) createDeck() {
	fmt.Fprintln(a.out, "\n--- Create New Deck ---")
	name, ok := a.prompt("Enter deck name: ")
	if !ok {
		return
	}
	if name == "" {
		fmt.Fprintln(a.out, "Name cannot be empty")
		return
	}
	if _, exists := a.Decks[name]; exists {
		fmt.Fprintln(a.out, "Deck already exists")
		return
	}
	deck, err := domain.NewDeck(name)
	if err != nil {
		fmt.Fprintln(a.out, "Invalid name")
		return
	}
	a.Decks[name] = deck
	fmt.Fprintf(a.out, "Created deck: %s\n", name)
}

func (a *App) deckMenu(name string) {
	for {
		deck, exists := a.Decks[name]
		if !exists {
			return // renamed or deleted
		}
		fmt.Fprintf(a.out, "\n--- %s ---\n", name)
		fmt.Fprintf(a.out, "Total Cards: %d\n", len(deck.Cards))

		if len(deck.Cards) > 0 {
			stats := deck.Stats(a.now())
			fmt.Fprintf(a.out, "Due for Review: %d\n", stats.DueCards)
			fmt.Fprintf(a.out, "Difficult Cards: %d\n", stats.DifficultCards)
			fmt.Fprintln(a.out, "\n1. Start Study Session")
		} else {
			fmt.Fprintln(a.out, "Deck is empty")
		}
		fmt.Fprintln(a.out, "2. Manage Cards")
		fmt.Fprintln(a.out, "3. Deck Settings")
		fmt.Fprintln(a.out, "0. Back to Main Menu")

		choice, ok := a.prompt("\nSelect option: ")
		if !ok || choice == "0" {
			return
		}
		switch choice {
		case "1":
			if len(deck.Cards) > 0 {
				a.studyMenu(deck)
			} else {
				fmt.Fprintln(a.out, "Invalid selection")
			}
		case "2":
			a.manageCards(deck)
		case "3":
			if a.settingsMenu(name) {
				return // deck renamed or deleted
			}
		default:
			fmt.Fprintln(a.out, "Invalid selection")
		}
	}
}

func (a *App) studyMenu(deck *domain.Deck) {
	for {
		stats := deck.Stats(a.now())
		fmt.Fprintf(a.out, "\n--- Study %s ---\n", deck.Name)
		fmt.Fprintf(a.out, "1. Review Due Cards (%d cards)\n", stats.DueCards)
		fmt.Fprintf(a.out, "2. Practice Difficult Cards (%d cards)\n", stats.DifficultCards)
		fmt.Fprintf(a.out, "3. Review All Cards (%d cards)\n", stats.TotalCards)
		fmt.Fprintln(a.out, "4. Study by Tag")
		fmt.Fprintln(a.out, "0. Back")

		choice, ok := a.prompt("\nSelect option: ")
		if !ok || choice == "0" {
			return
		}
		switch choice {
		case "1":
			a.runSession(session.Select(deck, session.ModeReview, "", a.now()))
		case "2":
			a.runSession(session.Select(deck, session.ModeDifficult, "", a.now()))
		case "3":
			a.runSession(session.Select(deck, session.ModeAll, "", a.now()))
		case "4":
			a.studyByTag(deck)
		default:
			fmt.Fprintln(a.out, "Invalid selection")
		}
	}
}

func (a *App) studyByTag(deck *domain.Deck) {
	tags := deck.Tags()
	if len(tags) == 0 {
		fmt.Fprintln(a.out, "No tagged cards found")
		return
	}

	fmt.Fprintln(a.out, "\n--- Study by Tag ---")
	for i, tag := range tags {
		fmt.Fprintf(a.out, "%d. %s (%d cards)\n", i+1, tag, len(deck.CardsByTag(tag)))
	}
	fmt.Fprintln(a.out, "0. Back")

	choice, ok := a.prompt("\nSelect tag: ")
	if !ok || choice == "0" {
		return
	}
	index, err := strconv.Atoi(choice)
	if err != nil {
		fmt.Fprintln(a.out, "Please enter a number")
		return
	}
	if index < 1 || index > len(tags) {
		fmt.Fprintln(a.out, "Invalid selection")
		return
	}
	a.runSession(session.Select(deck, session.ModeTag, tags[index-1], a.now()))
}

func (a *App) runSession(cards []*domain.Card) {
	if len(cards) == 0 {
		fmt.Fprintln(a.out, "No cards match the criteria!")
		return
	}

	s := session.New(cards, a.rng)
	fmt.Fprintf(a.out, "\nStarting Study Session - %d cards\n", s.Total())
	fmt.Fprintln(a.out, strings.Repeat("=", 50))

	shown := 0
	for {
		card, ok := s.Next()
		if !ok {
			break
		}
		shown++
		fmt.Fprintf(a.out, "\nCard %d/%d\n", shown, s.Total())
		if len(card.Tags) > 0 {
			fmt.Fprintf(a.out, "Tags: %s\n", strings.Join(card.Tags, ", "))
		}
		fmt.Fprintf(a.out, "Question: %s\n", card.Front)

		if _, ok := a.prompt("Press Enter to reveal answer..."); !ok {
			return
		}
		fmt.Fprintf(a.out, "Answer: %s\n", card.Back)

		for {
			response, ok := a.prompt("Did you get it right? (y/n/q to quit): ")
			if !ok {
				return
			}
			response = strings.ToLower(response)
			if response == "y" || response == "yes" {
				s.Answer(true, a.now())
				fmt.Fprintln(a.out, "Great!")
				break
			}
			if response == "n" || response == "no" {
				s.Answer(false, a.now())
				fmt.Fprintln(a.out, "Keep practicing!")
				break
			}
			if response == "q" || response == "quit" {
				fmt.Fprintln(a.out, "Study session ended")
				return
			}
			fmt.Fprintln(a.out, "Please enter y (yes) or n (no)")
		}
	}

	summary := s.Summary()
	fmt.Fprintln(a.out, "\nStudy Session Complete!")
	fmt.Fprintf(a.out, "Accuracy: %d/%d (%.1f%%)\n", summary.Correct, summary.Total, summary.Accuracy())
	switch summary.Rating() {
	case session.RatingHigh:
		fmt.Fprintln(a.out, "Excellent performance! Keep it up!")
	case session.RatingMedium:
		fmt.Fprintln(a.out, "Good work! Keep practicing!")
	default:
		fmt.Fprintln(a.out, "Need more practice. You've got this!")
	}
}

func (a *App) manageCards(deck *domain.Deck) {
	for {
		fmt.Fprintf(a.out, "\n--- Manage Cards - %s ---\n", deck.Name)
		fmt.Fprintln(a.out, "1. Add Card")
		if len(deck.Cards) > 0 {
			fmt.Fprintln(a.out, "2. View All Cards")
			fmt.Fprintln(a.out, "3. Edit Card")
			fmt.Fprintln(a.out, "4. Delete Card")
		}
		fmt.Fprintln(a.out, "0. Back")

		choice, ok := a.prompt("\nSelect option: ")
		if !ok || choice == "0" {
			return
		}
		switch {
		case choice == "1":
			a.addCard(deck)
		case choice == "2" && len(deck.Cards) > 0:
			a.listCards(deck, false)
		case choice == "3" && len(deck.Cards) > 0:
			a.editCard(deck)
		case choice == "4" && len(deck.Cards) > 0:
			a.deleteCard(deck)
		default:
			fmt.Fprintln(a.out, "Invalid selection")
		}
	}
}

func (a *App) addCard(deck *domain.Deck) {
	fmt.Fprintf(a.out, "\n--- Add Card to %s ---\n", deck.Name)
	front, ok := a.prompt("Front (question/term): ")
	if !ok {
		return
	}
	if front == "" {
		fmt.Fprintln(a.out, "Front cannot be empty")
		return
	}
	back, ok := a.prompt("Back (answer/definition): ")
	if !ok {
		return
	}
	if back == "" {
		fmt.Fprintln(a.out, "Back cannot be empty")
		return
	}
	tagsInput, ok := a.prompt("Tags (comma-separated, optional): ")
	if !ok {
		return
	}
	tags := splitTags(tagsInput)

	difficulty := domain.MinDifficulty
	if raw, ok := a.prompt("Difficulty level (1-5, default 1): "); ok && raw != "" {
		if d, err := strconv.Atoi(raw); err == nil {
			difficulty = d // AddCard clamps out-of-range values
		}
	}

	if _, err := deck.AddCard(front, back, tags, difficulty, a.now()); err != nil {
		fmt.Fprintf(a.out, "Could not add card: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "Card added successfully!")
}

func (a *App) listCards(deck *domain.Deck, showIndex bool) {
	if len(deck.Cards) == 0 {
		fmt.Fprintln(a.out, "Deck is empty")
		return
	}
	fmt.Fprintf(a.out, "\n--- %s Card List ---\n", deck.Name)
	now := a.now()
	for i, card := range deck.Cards {
		prefix := "- "
		if showIndex {
			prefix = fmt.Sprintf("%d. ", i+1)
		}
		status := "Learned"
		if card.NeedsReview(now) {
			status = "Due"
		}
		tagsStr := ""
		if len(card.Tags) > 0 {
			tagsStr = fmt.Sprintf(" [%s]", strings.Join(card.Tags, ", "))
		}
		fmt.Fprintf(a.out, "%s%s -> %s%s\n", prefix, card.Front, card.Back, tagsStr)
		fmt.Fprintf(a.out, "   Difficulty: %d/5 | Success Rate: %.1f%% | %s\n",
			card.Difficulty, card.SuccessRate(), status)
	}
}

func (a *App) editCard(deck *domain.Deck) {
	a.listCards(deck, true)

	index, ok := a.promptIndex("\nSelect card number to edit: ", len(deck.Cards))
	if !ok {
		return
	}
	card := deck.Cards[index]
	fmt.Fprintf(a.out, "\nEditing Card #%d\n", index+1)
	fmt.Fprintf(a.out, "Current Front: %s\n", card.Front)
	fmt.Fprintf(a.out, "Current Back: %s\n", card.Back)
	fmt.Fprintf(a.out, "Current Tags: %s\n", strings.Join(card.Tags, ", "))

	front, ok := a.prompt("New Front (press Enter to keep current): ")
	if !ok {
		return
	}
	back, ok := a.prompt("New Back (press Enter to keep current): ")
	if !ok {
		return
	}
	tagsInput, ok := a.prompt("New Tags (comma-separated, press Enter to keep current): ")
	if !ok {
		return
	}

	var edit domain.CardEdit
	if front != "" {
		edit.Front = &front
	}
	if back != "" {
		edit.Back = &back
	}
	if tagsInput != "" {
		edit.Tags = splitTags(tagsInput)
	}

	if deck.EditCard(index, edit) {
		fmt.Fprintln(a.out, "Card updated successfully!")
	} else {
		fmt.Fprintln(a.out, "Invalid card number")
	}
}

func (a *App) deleteCard(deck *domain.Deck) {
	a.listCards(deck, true)

	index, ok := a.promptIndex("\nSelect card number to delete: ", len(deck.Cards))
	if !ok {
		return
	}
	card := deck.Cards[index]
	confirm, ok := a.prompt(fmt.Sprintf("Delete card '%s'? (y/n): ", card.Front))
	if !ok {
		return
	}
	confirm = strings.ToLower(confirm)
	if confirm != "y" && confirm != "yes" {
		fmt.Fprintln(a.out, "Deletion cancelled")
		return
	}
	if _, removed := deck.RemoveCard(index); removed {
		fmt.Fprintln(a.out, "Card deleted successfully!")
	} else {
		fmt.Fprintln(a.out, "Invalid card number")
	}
}

// settingsMenu returns true when the deck was renamed or deleted and the
// caller's name is stale.
func (a *App) settingsMenu(name string) bool {
	for {
		fmt.Fprintf(a.out, "\n--- %s Settings ---\n", name)
		fmt.Fprintln(a.out, "1. Rename Deck")
		fmt.Fprintln(a.out, "2. View Statistics")
		fmt.Fprintln(a.out, "3. Delete Deck")
		fmt.Fprintln(a.out, "0. Back")

		choice, ok := a.prompt("\nSelect option: ")
		if !ok || choice == "0" {
			return false
		}
		switch choice {
		case "1":
			if a.renameDeck(name) {
				return true
			}
		case "2":
			a.showStatistics(a.Decks[name])
		case "3":
			if a.deleteDeck(name) {
				return true
			}
		default:
			fmt.Fprintln(a.out, "Invalid selection")
		}
	}
}

func (a *App) renameDeck(oldName string) bool {
	newName, ok := a.prompt(fmt.Sprintf("Enter new name (current: %s): ", oldName))
	if !ok {
		return false
	}
	if newName == "" || newName == oldName {
		fmt.Fprintln(a.out, "Invalid name or no change made")
		return false
	}
	if _, exists := a.Decks[newName]; exists {
		fmt.Fprintln(a.out, "Name already exists")
		return false
	}
	deck := a.Decks[oldName]
	delete(a.Decks, oldName)
	deck.Name = newName
	a.Decks[newName] = deck
	fmt.Fprintf(a.out, "Deck renamed to: %s\n", newName)
	return true
}

func (a *App) deleteDeck(name string) bool {
	deck := a.Decks[name]
	fmt.Fprintf(a.out, "Deck '%s' contains %d cards\n", name, len(deck.Cards))
	confirm, ok := a.prompt("Delete entire deck? This cannot be undone! (type 'DELETE' to confirm): ")
	if !ok {
		return false
	}
	if confirm != "DELETE" {
		fmt.Fprintln(a.out, "Deletion cancelled")
		return false
	}
	delete(a.Decks, name)
	fmt.Fprintln(a.out, "Deck deleted")
	return true
}

func (a *App) showStatistics(deck *domain.Deck) {
	if len(deck.Cards) == 0 {
		fmt.Fprintln(a.out, "Deck is empty")
		return
	}
	stats := deck.Stats(a.now())

	fmt.Fprintf(a.out, "\n=== %s Statistics ===\n", deck.Name)
	fmt.Fprintf(a.out, "Total Cards: %d\n", stats.TotalCards)
	fmt.Fprintf(a.out, "Cards Reviewed: %d\n", stats.ReviewedCards)
	fmt.Fprintf(a.out, "Due for Review: %d\n", stats.DueCards)
	fmt.Fprintf(a.out, "Difficult Cards: %d\n", stats.DifficultCards)
	fmt.Fprintf(a.out, "Total Reviews: %d\n", stats.TotalReviews)
	fmt.Fprintf(a.out, "Overall Accuracy: %.1f%%\n", stats.OverallAccuracy())

	if len(stats.TagCounts) > 0 {
		fmt.Fprintln(a.out, "\nTag Distribution:")
		tags := make([]string, 0, len(stats.TagCounts))
		for tag := range stats.TagCounts {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		for _, tag := range tags {
			fmt.Fprintf(a.out, "  %s: %d cards\n", tag, stats.TagCounts[tag])
		}
	}
}

// prompt writes the prompt text and reads one trimmed line. The second
// value is false when input is exhausted.
func (a *App) prompt(text string) (string, bool) {
	fmt.Fprint(a.out, text)
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

// promptIndex reads a 1-based card number and converts it to a 0-based
// index, reporting false on bad input.
func (a *App) promptIndex(text string, count int) (int, bool) {
	raw, ok := a.prompt(text)
	if !ok {
		return 0, false
	}
	number, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Fprintln(a.out, "Please enter a valid number")
		return 0, false
	}
	if number < 1 || number > count {
		fmt.Fprintln(a.out, "Invalid card number")
		return 0, false
	}
	return number - 1, true
}

func (a *App) deckNames() []string {
	names := make([]string, 0, len(a.Decks))
	for name := range a.Decks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func splitTags(input string) []string {
	if input == "" {
		return nil
	}
	tags := []string{}
	for _, part := range strings.Split(input, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
