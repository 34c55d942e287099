package scoring

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/logger"
)

const (
	strongDegreeMatch   = 0.9
	strongDegreeBonus   = 1.2
	hierarchyBlend      = 0.5
	fuzzyBlend          = 0.3
	semanticDegreeBlend = 0.2
)

// MatchEducation averages, over every requirement, the best match any
// resume degree achieves. When all requirements match strongly the mean
// earns a 20% bonus capped at 1.0.
func (s *Scorer) MatchEducation(ctx context.Context, resume, jd []string) float64 {
	if len(jd) == 0 {
		return 0
	}

	candidates := make([]DegreeLevel, 0, len(resume))
	for _, degree := range resume {
		candidates = append(candidates, s.degrees.Normalize(degree))
	}

	sum := 0.0
	allStrong := true
	for _, req := range jd {
		required := s.degrees.Normalize(req)

		best := 0.0
		for _, candidate := range candidates {
			best = math.Max(best, s.DegreeMatch(ctx, candidate, required))
		}

		sum += best
		if best < strongDegreeMatch {
			allStrong = false
		}
	}

	mean := sum / float64(len(jd))
	if allStrong {
		mean = math.Min(mean*strongDegreeBonus, 1)
	}
	return clamp(mean)
}

// DegreeMatch scores one candidate level against one required level. Equal
// levels score 1.0. Otherwise the hierarchical comparison is blended with
// fuzzy and semantic similarity of the level names when a similarity
// provider is configured; a failing provider falls back to the
// hierarchical score alone.
func (s *Scorer) DegreeMatch(ctx context.Context, candidate, required DegreeLevel) float64 {
	if candidate == required {
		return 1
	}

	hierarchical := s.degrees.Compare(candidate, required)
	if s.similarity == nil {
		return hierarchical
	}

	a, b := candidate.String(), required.String()
	semantic, err := s.similarity.Similarity(ctx, a, b)
	if err != nil {
		s.logger.Warn("semantic degree similarity failed, using hierarchy only",
			zap.String(logger.FieldDimension, DimensionEducation),
			zap.String("candidate_degree", a),
			zap.String("required_degree", b),
			zap.Error(err),
		)
		return hierarchical
	}

	blended := hierarchyBlend*hierarchical + fuzzyBlend*s.fuzzy(a, b) + semanticDegreeBlend*clamp(semantic)
	return clamp(math.Min(blended, 1))
}
