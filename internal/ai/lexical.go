package ai

import (
	"context"
	"math"

	"github.com/spigell/resume-matcher/internal/profile"
)

// Lexical scores texts by the cosine of their term-frequency vectors. It
// needs no network and never fails on non-empty input.
type Lexical struct {
	opts profile.TokenizeOptions
}

func NewLexical(opts profile.TokenizeOptions) *Lexical {
	return &Lexical{opts: opts}
}

func (l *Lexical) Similarity(ctx context.Context, a, b string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	ta := termFrequencies(profile.Tokenize(a, l.opts))
	tb := termFrequencies(profile.Tokenize(b, l.opts))
	if len(ta) == 0 || len(tb) == 0 {
		return 0, ErrEmptyText
	}

	var dot, na, nb float64
	for term, x := range ta {
		na += x * x
		dot += x * tb[term]
	}
	for _, y := range tb {
		nb += y * y
	}
	return clamp(dot / (math.Sqrt(na) * math.Sqrt(nb))), nil
}

func termFrequencies(tokens []string) map[string]float64 {
	tf := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		tf[token]++
	}
	return tf
}
