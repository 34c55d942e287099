package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/profile"
)

var ErrInvalidWeights = errors.New("invalid dimension weights")

const weightTolerance = 1e-6

// Weights are the per-dimension coefficients of the total score.
type Weights struct {
	Skills     float64 `mapstructure:"skills"`
	Experience float64 `mapstructure:"experience"`
	Education  float64 `mapstructure:"education"`
	JobTitle   float64 `mapstructure:"job-title"`
	FullText   float64 `mapstructure:"full-text"`
}

func DefaultWeights() Weights {
	return Weights{Skills: 0.6, Experience: 0.1, Education: 0.1, JobTitle: 0.1, FullText: 0.1}
}

// Validate requires non-negative weights summing to one.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		DimensionSkills:     w.Skills,
		DimensionExperience: w.Experience,
		DimensionEducation:  w.Education,
		DimensionJobTitle:   w.JobTitle,
		DimensionFullText:   w.FullText,
	} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: %s weight is %v", ErrInvalidWeights, name, v)
		}
	}

	sum := w.Skills + w.Experience + w.Education + w.JobTitle + w.FullText
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%w: weights sum to %v, want 1", ErrInvalidWeights, sum)
	}
	return nil
}

// Scorer evaluates resumes against job descriptions. It holds no per-call
// state and is safe for concurrent use when its Similarity is.
type Scorer struct {
	weights    Weights
	similarity Similarity
	fuzzy      FuzzyRatio
	degrees    *DegreeHierarchy
	durations  *DurationCalculator
	logger     *zap.Logger
	maxLogLen  int
}

type Option func(*Scorer)

// WithSimilarity enables semantic scoring. A nil provider disables it.
func WithSimilarity(sim Similarity) Option {
	return func(s *Scorer) { s.similarity = sim }
}

func WithFuzzyRatio(f FuzzyRatio) Option {
	return func(s *Scorer) {
		if f != nil {
			s.fuzzy = f
		}
	}
}

// WithClock fixes the reference date used to resolve "Present".
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) { s.durations = NewDurationCalculator(now) }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Scorer) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithDegreeHierarchy(h *DegreeHierarchy) Option {
	return func(s *Scorer) {
		if h != nil {
			s.degrees = h
		}
	}
}

func WithWeights(w Weights) Option {
	return func(s *Scorer) { s.weights = w }
}

// WithMaxLogLength bounds text previews written to logs.
func WithMaxLogLength(n int) Option {
	return func(s *Scorer) { s.maxLogLen = n }
}

func New(opts ...Option) (*Scorer, error) {
	s := &Scorer{
		weights:   DefaultWeights(),
		fuzzy:     LevenshteinRatio,
		degrees:   DefaultDegreeHierarchy(),
		durations: NewDurationCalculator(nil),
		logger:    zap.NewNop(),
		maxLogLen: 200,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.weights.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scorer) Weights() Weights { return s.weights }

// Score computes every dimension and the weighted total. Nil profiles are
// scored as empty ones. Similarity failures degrade the affected dimension
// and are never returned.
func (s *Scorer) Score(ctx context.Context, resume, jd *profile.ExtractedProfile) MatchResult {
	if resume == nil {
		resume = &profile.ExtractedProfile{}
	}
	if jd == nil {
		jd = &profile.ExtractedProfile{}
	}

	skills := MatchSkills(resume.Skills, jd.Skills)
	result := MatchResult{
		SkillsMatch:       skills.Score,
		MatchingSkills:    skills.Matching,
		MissingSkills:     skills.Missing,
		ExperienceMatch:   s.MatchExperience(resume.Experience, jd.ExperienceRequirements),
		EducationMatch:    s.MatchEducation(ctx, resume.Education, jd.Education),
		JobTitleRelevance: MatchJobTitles(resume.JobTitles, jd.JobTitles),
		OverallSimilarity: s.MatchFullText(ctx, resume.FullTextTokens, jd.FullTextTokens),
	}
	result.TotalScore = s.total(result)

	s.logger.Debug("scored resume",
		logger.ScoreFields(
			logger.Score{Name: DimensionSkills, Value: result.SkillsMatch},
			logger.Score{Name: DimensionExperience, Value: result.ExperienceMatch},
			logger.Score{Name: DimensionEducation, Value: result.EducationMatch},
			logger.Score{Name: DimensionJobTitle, Value: result.JobTitleRelevance},
			logger.Score{Name: DimensionFullText, Value: result.OverallSimilarity},
			logger.Score{Name: "total", Value: result.TotalScore},
		)...,
	)
	return result
}

func (s *Scorer) total(r MatchResult) float64 {
	w := s.weights
	return clamp(w.Skills*r.SkillsMatch +
		w.Experience*r.ExperienceMatch +
		w.Education*r.EducationMatch +
		w.JobTitle*r.JobTitleRelevance +
		w.FullText*r.OverallSimilarity)
}
