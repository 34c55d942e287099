package scoring

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/utils"
)

const (
	semanticTextBlend = 0.7
	keywordBlend      = 0.3
)

// MatchFullText blends document-level semantic similarity with the share of
// job-description tokens that also appear in the resume.
func (s *Scorer) MatchFullText(ctx context.Context, resume, jd []string) float64 {
	if len(resume) == 0 || len(jd) == 0 {
		return 0
	}

	semantic := s.documentSimilarity(ctx, strings.Join(resume, " "), strings.Join(jd, " "))
	overlap := KeywordOverlap(resume, jd)
	return clamp(math.Min(semanticTextBlend*semantic+keywordBlend*overlap, 1))
}

// KeywordOverlap is |resume ∩ jd| / |jd| over distinct tokens, 0 when jd has none.
func KeywordOverlap(resume, jd []string) float64 {
	want := make(map[string]struct{}, len(jd))
	for _, token := range jd {
		want[token] = struct{}{}
	}
	if len(want) == 0 {
		return 0
	}

	have := make(map[string]struct{}, len(resume))
	for _, token := range resume {
		have[token] = struct{}{}
	}

	shared := 0
	for token := range want {
		if _, ok := have[token]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(want))
}

func (s *Scorer) documentSimilarity(ctx context.Context, resume, jd string) float64 {
	if s.similarity == nil {
		return 0
	}

	score, err := s.similarity.Similarity(ctx, resume, jd)
	if err != nil {
		s.logger.Warn("full text similarity failed, scoring keywords only",
			zap.String(logger.FieldDimension, DimensionFullText),
			zap.String("resume_preview", utils.TruncateForLog(resume, s.maxLogLen)),
			zap.Error(err),
		)
		return 0
	}
	return clamp(score)
}
