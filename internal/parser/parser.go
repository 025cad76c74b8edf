// Package parser extracts card entries from markdown card files.
//
// A card is a block of the form:
//
//	Q: What is the capital of France?
//	A: Paris
//	T: geography, basic
//	D: 2
//
// Q: and A: bodies may span multiple lines; T: lists comma-separated tags
// and D: a difficulty level, both optional and single-line. Cards are
// separated by a new Q: line or an explicit "---" line.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/conorfennell/flashdeck/internal/domain"
)

const (
	frontPrefix      = "Q:"
	backPrefix       = "A:"
	tagsPrefix       = "T:"
	difficultyPrefix = "D:"
	separator        = "---"
)

// Entry is one card parsed from a file, before it is added to a deck.
type Entry struct {
	Front      string
	Back       string
	Tags       []string
	Difficulty int
}

type section int

const (
	seeking section = iota
	readingFront
	readingBack
)

// ParseFile reads the file at path and extracts all card entries.
func ParseFile(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads from r and extracts all card entries. Entries without a front
// are discarded; a malformed difficulty line fails the whole parse.
func Parse(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	var entries []Entry
	var current Entry
	var block []string
	sec := seeking
	lineNo := 0

	closeBlock := func() {
		if len(block) == 0 {
			return
		}
		content := strings.TrimSpace(strings.Join(block, "\n"))
		switch sec {
		case readingFront:
			current.Front = content
		case readingBack:
			current.Back = content
		}
		block = nil
	}

	finishEntry := func() {
		closeBlock()
		if current.Front != "" {
			if current.Difficulty == 0 {
				current.Difficulty = domain.MinDifficulty
			}
			if current.Tags == nil {
				current.Tags = []string{}
			}
			entries = append(entries, current)
		}
		current = Entry{}
		sec = seeking
	}

	for scanner.Scan() {
		line := scanner.Text()
		lineNo++

		switch {
		case line == separator:
			finishEntry()
		case strings.HasPrefix(line, frontPrefix):
			if sec != seeking {
				finishEntry()
			}
			sec = readingFront
			block = append(block, trimPrefix(line, frontPrefix))
		case strings.HasPrefix(line, backPrefix):
			closeBlock()
			sec = readingBack
			block = append(block, trimPrefix(line, backPrefix))
		case strings.HasPrefix(line, tagsPrefix):
			closeBlock()
			current.Tags = splitTags(trimPrefix(line, tagsPrefix))
		case strings.HasPrefix(line, difficultyPrefix):
			closeBlock()
			raw := strings.TrimSpace(trimPrefix(line, difficultyPrefix))
			d, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid difficulty %q", lineNo, raw)
			}
			if d < domain.MinDifficulty || d > domain.MaxDifficulty {
				return nil, fmt.Errorf("line %d: difficulty %d out of range [%d, %d]",
					lineNo, d, domain.MinDifficulty, domain.MaxDifficulty)
			}
			current.Difficulty = d
		case sec != seeking:
			block = append(block, line)
		}
	}

	finishEntry() // flush the last card in the file

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func trimPrefix(line, prefix string) string {
	content := line[len(prefix):]
	if strings.HasPrefix(content, " ") {
		content = content[1:]
	}
	return content
}

func splitTags(raw string) []string {
	tags := []string{}
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
