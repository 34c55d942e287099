package scoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/hbollon/go-edlib"
)

// Similarity scores the semantic closeness of two texts. Implementations
// must be safe for concurrent use.
type Similarity interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// FuzzyRatio scores the character-level closeness of two strings in [0,1].
type FuzzyRatio func(a, b string) float64

var fuzzyAlgorithms = map[string]edlib.Algorithm{
	"levenshtein":   edlib.Levenshtein,
	"damerau":       edlib.DamerauLevenshtein,
	"jaro":          edlib.Jaro,
	"jaro-winkler":  edlib.JaroWinkler,
	"lcs":           edlib.Lcs,
	"sorensen-dice": edlib.SorensenDice,
}

// NewFuzzyRatio returns a FuzzyRatio backed by the named go-edlib algorithm.
// An empty name selects Levenshtein.
func NewFuzzyRatio(algorithm string) (FuzzyRatio, error) {
	name := strings.ToLower(strings.TrimSpace(algorithm))
	if name == "" {
		name = "levenshtein"
	}

	algo, ok := fuzzyAlgorithms[name]
	if !ok {
		return nil, fmt.Errorf("unsupported fuzzy algorithm: %s", algorithm)
	}

	return func(a, b string) float64 {
		if a == b {
			return 1
		}
		if a == "" || b == "" {
			return 0
		}
		score, err := edlib.StringsSimilarity(a, b, algo)
		if err != nil {
			return 0
		}
		return clamp(float64(score))
	}, nil
}

// LevenshteinRatio is the default FuzzyRatio.
var LevenshteinRatio FuzzyRatio = func() FuzzyRatio {
	f, _ := NewFuzzyRatio("levenshtein")
	return f
}()
