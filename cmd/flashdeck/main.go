package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/conorfennell/flashdeck/internal/cli"
	"github.com/conorfennell/flashdeck/internal/config"
	"github.com/conorfennell/flashdeck/internal/deckfile"
	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/importer"
	"github.com/conorfennell/flashdeck/internal/storage"
	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("flashdeck", pflag.ExitOnError)
	config.RegisterFlags(flags)
	exportPath := flags.String("export", "", "Export all decks to a JSON deck file and exit")
	importJSON := flags.String("import-json", "", "Merge decks from a JSON deck file and exit")
	importPath := flags.String("import", "", "Import markdown card files into --deck and exit")
	pullURL := flags.String("pull", "", "Clone or update a git deck repository, import into --deck, and exit")
	deckName := flags.String("deck", "", "Target deck for --import and --pull")
	if err := flags.Parse(os.Args[1:]); err != nil {
		fatal("Failed to parse flags", err)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fatal("Failed to load configuration", err)
	}
	setupLogging(cfg.LogLevel)

	db, err := storage.Open(cfg.DB)
	if err != nil {
		fatal("Failed to open database", err)
	}
	defer db.Close()

	decks, err := db.LoadDecks()
	if err != nil {
		fatal("Failed to load decks", err)
	}
	slog.Debug("Decks loaded", "db", cfg.DB, "decks", len(decks))

	switch {
	case *exportPath != "":
		runExport(decks, *exportPath)
	case *importJSON != "":
		runImportJSON(db, decks, *importJSON)
	case *importPath != "":
		runImport(db, decks, *deckName, func(deck *domain.Deck) (importer.Report, error) {
			return importDiskPath(deck, *importPath)
		})
	case *pullURL != "":
		runImport(db, decks, *deckName, func(deck *domain.Deck) (importer.Report, error) {
			return importer.ImportRepo(deck, *pullURL, cfg.Repos, time.Now())
		})
	default:
		runInteractive(db, decks)
	}
}

func runInteractive(db *storage.DB, decks map[string]*domain.Deck) {
	if err := cli.EnsureSampleDeck(decks, time.Now()); err != nil {
		fatal("Failed to seed sample deck", err)
	}

	app := cli.New(decks, os.Stdin, os.Stdout, nil, nil)
	app.Run()

	if err := db.SaveDecks(decks); err != nil {
		fatal("Failed to save decks", err)
	}
	fmt.Println("Data saved. Goodbye!")
}

func runExport(decks map[string]*domain.Deck, path string) {
	data, err := deckfile.Marshal(decks)
	if err != nil {
		fatal("Failed to encode decks", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fatal("Failed to write deck file", err)
	}
	slog.Info("Export complete", "path", path, "decks", len(decks))
}

func runImportJSON(db *storage.DB, decks map[string]*domain.Deck, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fatal("Failed to read deck file", err)
	}
	imported, err := deckfile.Unmarshal(data)
	if err != nil {
		fatal("Failed to decode deck file", err)
	}
	for name, deck := range imported {
		if _, exists := decks[name]; exists {
			slog.Warn("Replacing existing deck", "deck", name)
		}
		decks[name] = deck
	}
	if err := db.SaveDecks(decks); err != nil {
		fatal("Failed to save decks", err)
	}
	slog.Info("Import complete", "path", path, "decks", len(imported))
}

func runImport(db *storage.DB, decks map[string]*domain.Deck, deckName string, run func(*domain.Deck) (importer.Report, error)) {
	if deckName == "" {
		fatal("Missing --deck", fmt.Errorf("imports need a target deck name"))
	}
	deck, exists := decks[deckName]
	if !exists {
		var err error
		deck, err = domain.NewDeck(deckName)
		if err != nil {
			fatal("Invalid deck name", err)
		}
		decks[deckName] = deck
	}

	report, err := run(deck)
	if err != nil {
		fatal("Import failed", err)
	}
	for _, importErr := range report.Errors {
		slog.Warn("Import problem", "error", importErr)
	}

	if err := db.SaveDecks(decks); err != nil {
		fatal("Failed to save decks", err)
	}
}

// importDiskPath imports a single file or, for a directory, every markdown
// file under it.
func importDiskPath(deck *domain.Deck, path string) (importer.Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return importer.Report{}, err
	}
	if info.IsDir() {
		return importer.ImportDir(deck, path, time.Now())
	}
	return importer.ImportFile(deck, path, time.Now())
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
