package ui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	ansiBold  = "\x1b[1m"
	ansiCyan  = "\x1b[36m"
	ansiReset = "\x1b[0m"
)

var (
	// ErrNoIDMatch is returned when no ID starts with the given prefix.
	ErrNoIDMatch = errors.New("no todo matches id")

	// ErrAmbiguousID is returned when several IDs start with the given prefix.
	ErrAmbiguousID = errors.New("ambiguous todo id")
)

// HighlightID returns id with its first prefixLen bytes emphasized when
// stdout is a color terminal.
func HighlightID(id string, prefixLen int) string {
	if id == "" || prefixLen <= 0 || prefixLen > len(id) || !ansiEnabled() {
		return id
	}
	return ansiBold + ansiCyan + id[:prefixLen] + ansiReset + id[prefixLen:]
}

func ansiEnabled() bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// UniqueIDPrefixLengths returns the shortest unique prefix length for each
// ID, keyed by the lowercased ID.
func UniqueIDPrefixLengths(ids []string) map[string]int {
	unique := dedupeIDs(ids)
	lengths := make(map[string]int, len(unique))
	for _, id := range unique {
		lengths[id] = uniquePrefixLength(id, unique)
	}
	return lengths
}

// ResolveIDPrefix returns the single ID in ids that equals or starts with
// prefix, compared case-insensitively.
func ResolveIDPrefix(prefix string, ids []string) (string, error) {
	needle := strings.ToLower(strings.TrimSpace(prefix))
	if needle == "" {
		return "", fmt.Errorf("%w: empty id", ErrNoIDMatch)
	}

	var matches []string
	for _, id := range ids {
		lowered := strings.ToLower(id)
		if lowered == needle {
			return id, nil
		}
		if strings.HasPrefix(lowered, needle) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w %q", ErrNoIDMatch, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w %q: matches %s", ErrAmbiguousID, prefix, strings.Join(matches, ", "))
	}
}

func dedupeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		lowered := strings.ToLower(id)
		if lowered == "" || seen[lowered] {
			continue
		}
		seen[lowered] = true
		out = append(out, lowered)
	}
	return out
}

func uniquePrefixLength(id string, ids []string) int {
	for length := 1; length <= len(id); length++ {
		prefix := id[:length]
		unique := true
		for _, other := range ids {
			if other != id && strings.HasPrefix(other, prefix) {
				unique = false
				break
			}
		}
		if unique {
			return length
		}
	}
	return len(id)
}
