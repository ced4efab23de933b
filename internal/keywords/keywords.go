// ABOUTME: Keyword extraction from article text for topic clustering
// ABOUTME: Lowercase token scan with stopword filtering and optional snowball stemming

package keywords

import (
	"strings"

	"github.com/kljensen/snowball/english"
)

// DefaultMinLength is the shortest token the extractor keeps.
const DefaultMinLength = 3

// stopWords are filler tokens that never count as topic keywords.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"from": {}, "as": {}, "is": {}, "was": {}, "are": {}, "were": {},
	"been": {}, "be": {}, "have": {}, "has": {}, "had": {}, "do": {},
	"does": {}, "did": {}, "will": {}, "would": {}, "should": {},
	"could": {}, "may": {}, "might": {}, "can": {}, "this": {}, "that": {},
	"these": {}, "those": {}, "i": {}, "you": {}, "he": {}, "she": {},
	"it": {}, "we": {}, "they": {}, "what": {}, "which": {}, "who": {},
	"when": {}, "where": {}, "why": {}, "how": {}, "all": {}, "each": {},
	"every": {}, "both": {}, "few": {}, "more": {}, "most": {}, "other": {},
	"some": {}, "such": {}, "no": {}, "nor": {}, "not": {}, "only": {},
	"own": {}, "same": {}, "so": {}, "than": {}, "too": {}, "very": {},
	"just": {}, "now": {}, "new": {},
}

// Extractor derives keyword sets from article text. Extraction is
// deterministic: the same text always yields the same set.
type Extractor struct {
	minLength int
	stem      bool
}

// NewExtractor builds an Extractor. A minLength below 1 falls back to
// DefaultMinLength. When stem is true, tokens are reduced to their
// English snowball stems before entering the set.
func NewExtractor(minLength int, stem bool) *Extractor {
	if minLength < 1 {
		minLength = DefaultMinLength
	}
	return &Extractor{minLength: minLength, stem: stem}
}

// Extract tokenizes all given texts into a single keyword set. Tokens
// are maximal lowercase letter/digit runs containing at least one
// letter, at least minLength characters long, and not stopwords.
// Empty or whitespace-only input yields an empty set.
func (e *Extractor) Extract(texts ...string) Set {
	set := make(Set)
	for _, text := range texts {
		e.scan(text, set)
	}
	return set
}

func (e *Extractor) scan(text string, set Set) {
	lower := strings.ToLower(text)
	start := -1
	hasLetter := false

	flush := func(end int) {
		if start < 0 {
			return
		}
		tok := lower[start:end]
		start = -1
		if !hasLetter || len(tok) < e.minLength {
			return
		}
		if _, stop := stopWords[tok]; stop {
			return
		}
		if e.stem {
			tok = english.Stem(tok, true)
			if tok == "" || english.IsStopWord(tok) {
				return
			}
		}
		set.Add(tok)
	}

	for i := 0; i < len(lower); i++ {
		c := lower[i]
		switch {
		case c >= 'a' && c <= 'z':
			if start < 0 {
				start = i
				hasLetter = false
			}
			hasLetter = true
		case c >= '0' && c <= '9':
			if start < 0 {
				start = i
				hasLetter = false
			}
		default:
			flush(i)
		}
	}
	flush(len(lower))
}
