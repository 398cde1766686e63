package search

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var ErrUnknownPolicy = errors.New("unknown normalization policy")

// Policy selects how terms and cell text are normalized before comparison.
type Policy string

const (
	// PolicyLower trims the term and lowercases both sides.
	PolicyLower Policy = "lower"
	// PolicyAlnum lowercases and drops every rune that is not a letter or digit,
	// so "A-12" matches "a12".
	PolicyAlnum Policy = "alnum"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyLower:
		return PolicyLower, nil
	case PolicyAlnum:
		return PolicyAlnum, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

func (p Policy) normalizer() func(string) string {
	if p == PolicyAlnum {
		return normalizeAlnum
	}
	return normalizeLower
}

func normalizeLower(s string) string {
	return strings.ToLower(s)
}

func normalizeAlnum(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, s)
}
