package service

import (
	"regexp"
	"strings"
)

// stopWords is the shared classification vocabulary, loaded once at process
// start and never mutated. Mixed Russian/English to match the knowledge base.
var stopWords = map[string]struct{}{
	"что": {}, "как": {}, "какие": {}, "для": {}, "чего": {}, "это": {},
	"про": {}, "или": {}, "его": {}, "мне": {}, "можно": {}, "нужно": {},
	"если": {}, "меня": {}, "при": {}, "был": {}, "была": {}, "были": {},
	"the": {}, "and": {}, "for": {}, "can": {}, "how": {}, "what": {},
	"with": {}, "does": {}, "are": {}, "was": {}, "you": {}, "your": {},
}

// wordPattern matches alphanumeric runs in Latin or Cyrillic script.
var wordPattern = regexp.MustCompile(`[a-zа-яё0-9]+`)

// ExtractCoreTerms tokenizes text into a set of normalized terms: case-folded
// alphanumeric runs of length >= 3, minus stop words. An empty input yields an
// empty set, which callers must treat as "no constraint" rather than "nothing
// matches".
func ExtractCoreTerms(text string) map[string]struct{} {
	terms := make(map[string]struct{})
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if len([]rune(w)) < 3 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		terms[w] = struct{}{}
	}
	return terms
}

// ContextSupportsTerms reports whether the content contains at least
// minMatches of the given terms as case-insensitive substrings. An empty term
// set passes unconditionally.
func ContextSupportsTerms(content string, terms map[string]struct{}, minMatches int) bool {
	if len(terms) == 0 {
		return true
	}
	if minMatches < 1 {
		minMatches = 1
	}
	contentLower := strings.ToLower(content)
	matched := 0
	for term := range terms {
		if strings.Contains(contentLower, term) {
			matched++
			if matched >= minMatches {
				return true
			}
		}
	}
	return false
}
