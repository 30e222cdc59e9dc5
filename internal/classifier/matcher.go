// Package classifier implements the email classification engine.
// matcher.go provides Aho-Corasick based keyword matching with exact
// word-boundary occurrence counting.
package classifier

import (
	"strings"
	"unicode"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jonesrussell/mail-triage/internal/config"
)

// Matcher matches one axis's weighted keyword patterns against email text.
// Matching is case-insensitive, diacritic-insensitive, and word-boundary
// exact: "down" never matches inside "download". Every occurrence of a
// pattern adds its weight to the owning label, so repeated keywords
// accumulate.
//
// A Matcher is immutable after construction. Rebuilding on snapshot reload
// is the engine's job.
type Matcher struct {
	automaton *ahocorasick.Matcher
	entries   [][]patternEntry // dictionary index -> label contributions
	tokens    [][]string       // dictionary index -> normalized keyword tokens
}

// patternEntry is one label's stake in a dictionary keyword. The same
// keyword may carry weight for several labels.
type patternEntry struct {
	label  string
	weight float64
}

// NewMatcher compiles the label->patterns map of one axis.
func NewMatcher(patterns map[string][]config.Pattern) *Matcher {
	m := &Matcher{}

	index := make(map[string]int) // normalized keyword -> dictionary index
	var dictionary []string

	for label, list := range patterns {
		for _, p := range list {
			toks := Tokenize(p.Keyword)
			if len(toks) == 0 {
				continue
			}
			normalized := strings.Join(toks, " ")

			i, ok := index[normalized]
			if !ok {
				i = len(dictionary)
				index[normalized] = i
				dictionary = append(dictionary, normalized)
				m.entries = append(m.entries, nil)
				m.tokens = append(m.tokens, toks)
			}
			m.entries[i] = append(m.entries[i], patternEntry{label: label, weight: p.Weight})
		}
	}

	if len(dictionary) > 0 {
		m.automaton = ahocorasick.NewStringMatcher(dictionary)
	}
	return m
}

// Match tokenizes text and accumulates pattern weights per label.
// Empty text yields an empty map, never an error.
func (m *Matcher) Match(text string) map[string]float64 {
	return m.MatchTokens(Tokenize(text))
}

// MatchTokens is Match for pre-tokenized text, letting callers tokenize
// once and share the result across matchers.
//
// The automaton reports which dictionary keywords occur as substrings of
// the joined token text; each candidate is then counted exactly against
// the token slice, which enforces word boundaries and yields per-occurrence
// totals (the automaton alone reports each keyword at most once).
func (m *Matcher) MatchTokens(tokens []string) map[string]float64 {
	weights := make(map[string]float64)
	if m == nil || m.automaton == nil || len(tokens) == 0 {
		return weights
	}

	joined := strings.Join(tokens, " ")
	for _, idx := range m.automaton.Match([]byte(joined)) {
		if idx >= len(m.tokens) {
			continue
		}
		occurrences := countOccurrences(tokens, m.tokens[idx])
		if occurrences == 0 {
			continue
		}
		for _, e := range m.entries[idx] {
			weights[e.label] += float64(occurrences) * e.weight
		}
	}
	return weights
}

// KeywordCount returns the number of distinct dictionary keywords.
func (m *Matcher) KeywordCount() int {
	return len(m.tokens)
}

// countOccurrences counts token windows equal to pattern.
func countOccurrences(tokens, pattern []string) int {
	if len(pattern) == 0 || len(pattern) > len(tokens) {
		return 0
	}
	count := 0
	for i := 0; i+len(pattern) <= len(tokens); i++ {
		matched := true
		for j, p := range pattern {
			if tokens[i+j] != p {
				matched = false
				break
			}
		}
		if matched {
			count++
		}
	}
	return count
}

// hasOccurrence reports whether pattern occurs in tokens on word boundaries.
func hasOccurrence(tokens, pattern []string) bool {
	if len(pattern) == 0 {
		return false
	}
	for i := 0; i+len(pattern) <= len(tokens); i++ {
		matched := true
		for j, p := range pattern {
			if tokens[i+j] != p {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

// Tokenize lowercases text, strips diacritical marks, and splits on every
// non-alphanumeric rune. Both patterns and email text go through it, so
// "Café CRASHED!" and "cafe crashed" match identically.
func Tokenize(text string) []string {
	text = removeAccents(strings.ToLower(text))

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Fields(b.String())
}

// removeAccents strips diacritical marks from a string.
func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}
