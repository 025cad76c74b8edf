// Package importer reconciles markdown card files into a deck. Cards are
// matched by a normalized content fingerprint, so re-importing the same
// material is a no-op rather than a duplication.
package importer

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/fingerprint"
	"github.com/conorfennell/flashdeck/internal/gitsource"
	"github.com/conorfennell/flashdeck/internal/parser"
)

// Report summarises one import run.
type Report struct {
	Added   int
	Skipped int
	Errors  []error
}

// ImportFile parses a single markdown card file into the deck.
func ImportFile(deck *domain.Deck, path string, now time.Time) (Report, error) {
	var report Report
	known := knownFingerprints(deck)

	entries, err := parser.ParseFile(path)
	if err != nil {
		return report, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	addEntries(deck, entries, known, now, &report)

	slog.Info("Import complete",
		"path", path,
		"added", report.Added,
		"skipped", report.Skipped,
		"errors", len(report.Errors),
	)
	return report, nil
}

// ImportDir walks dir and imports every markdown file found. Files that
// fail to parse are recorded in the report; the walk continues.
func ImportDir(deck *domain.Deck, dir string, now time.Time) (Report, error) {
	var report Report
	known := knownFingerprints(deck)

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		entries, parseErr := parser.ParseFile(path)
		if parseErr != nil {
			report.Errors = append(report.Errors, fmt.Errorf("parsing %s: %w", path, parseErr))
			return nil
		}
		addEntries(deck, entries, known, now, &report)
		return nil
	})
	if walkErr != nil {
		return report, fmt.Errorf("failed to walk %s: %w", dir, walkErr)
	}

	slog.Info("Import complete",
		"dir", dir,
		"added", report.Added,
		"skipped", report.Skipped,
		"errors", len(report.Errors),
	)
	return report, nil
}

// ImportRepo clones or updates the repository at repoURL under reposDir,
// then imports its markdown files.
func ImportRepo(deck *domain.Deck, repoURL, reposDir string, now time.Time) (Report, error) {
	localPath, err := repoLocalPath(reposDir, repoURL)
	if err != nil {
		return Report{}, err
	}
	if err := gitsource.Fetch(repoURL, localPath); err != nil {
		return Report{}, err
	}
	return ImportDir(deck, localPath, now)
}

func addEntries(deck *domain.Deck, entries []parser.Entry, known map[string]bool, now time.Time, report *Report) {
	for _, entry := range entries {
		fp := fingerprint.Fingerprint(entry.Front, entry.Back, entry.Tags)
		if known[fp] {
			report.Skipped++
			continue
		}
		if _, err := deck.AddCard(entry.Front, entry.Back, entry.Tags, entry.Difficulty, now); err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("card %q: %w", entry.Front, err))
			continue
		}
		known[fp] = true
		report.Added++
	}
}

func knownFingerprints(deck *domain.Deck) map[string]bool {
	known := make(map[string]bool, len(deck.Cards))
	for _, card := range deck.Cards {
		known[fingerprint.Fingerprint(card.Front, card.Back, card.Tags)] = true
	}
	return known
}

// repoLocalPath maps a repository URL to a stable path under baseDir, so
// repeated pulls of the same URL reuse the same clone.
func repoLocalPath(baseDir, repoURL string) (string, error) {
	parsed, err := url.Parse(repoURL)
	if err == nil && (parsed.Scheme == "https" || parsed.Scheme == "http") {
		cleaned := strings.TrimSuffix(parsed.Path, ".git")
		return filepath.Join(baseDir, parsed.Host, cleaned), nil
	}

	// scp-style syntax: git@host:user/repo.git
	if strings.Contains(repoURL, "@") {
		parts := strings.SplitN(repoURL, ":", 2)
		if len(parts) == 2 {
			hostParts := strings.SplitN(parts[0], "@", 2)
			if len(hostParts) == 2 {
				repoPath := strings.TrimSuffix(parts[1], ".git")
				return filepath.Join(baseDir, hostParts[1], repoPath), nil
			}
		}
	}

	return "", fmt.Errorf("could not parse repository URL: %s", repoURL)
}
