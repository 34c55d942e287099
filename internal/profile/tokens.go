package profile

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/surgebase/porter2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TokenizeOptions controls how raw document text becomes full-text tokens.
type TokenizeOptions struct {
	Stem            bool `mapstructure:"stem"`
	RemoveStopwords bool `mapstructure:"stopwords"`
}

const minStemLength = 4

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"for": {}, "from": {}, "has": {}, "have": {}, "in": {}, "is": {}, "it": {}, "its": {},
	"of": {}, "on": {}, "or": {}, "that": {}, "the": {}, "this": {}, "to": {}, "was": {},
	"we": {}, "were": {}, "will": {}, "with": {}, "you": {}, "your": {}, "our": {},
}

// Tokenize lowercases text, strips diacritics and splits it into word tokens.
func Tokenize(text string, opts TokenizeOptions) []string {
	words := wordPattern.FindAllString(fold(text), -1)
	if len(words) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if opts.RemoveStopwords {
			if _, ok := stopwords[word]; ok {
				continue
			}
		}
		if opts.Stem && len(word) >= minStemLength {
			word = porter2.Stem(word)
		}
		tokens = append(tokens, word)
	}
	return tokens
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	return strings.ToLower(result)
}
