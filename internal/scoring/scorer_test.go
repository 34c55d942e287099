package scoring

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/spigell/resume-matcher/internal/profile"
)

func TestWeightsValidate(t *testing.T) {
	t.Parallel()

	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("default weights invalid: %v", err)
	}

	bad := []Weights{
		{Skills: 0.5, Experience: 0.1, Education: 0.1, JobTitle: 0.1, FullText: 0.1},
		{Skills: 1.2, Experience: -0.2},
		{Skills: math.NaN(), Experience: 1},
	}
	for _, w := range bad {
		if err := w.Validate(); !errors.Is(err, ErrInvalidWeights) {
			t.Fatalf("expected ErrInvalidWeights for %+v, got %v", w, err)
		}
	}

	if _, err := New(WithWeights(bad[0])); !errors.Is(err, ErrInvalidWeights) {
		t.Fatalf("New accepted invalid weights: %v", err)
	}
}

func sampleProfiles() (*profile.ExtractedProfile, *profile.ExtractedProfile) {
	resume := &profile.ExtractedProfile{
		Skills:    []string{"Python", "AWS", "Docker"},
		Education: []string{"Master of Science in Computer Science"},
		Experience: []profile.ExperienceRecord{
			{Role: "Software Engineer", Company: "Acme", StartDate: "January 2020", EndDate: "January 2023"},
		},
		JobTitles:      []string{"Senior Software Engineer"},
		FullTextTokens: []string{"python", "aws", "docker", "engineer"},
	}
	jd := &profile.ExtractedProfile{
		Skills:                 []string{"Python", "AWS", "Kubernetes", "Terraform"},
		Education:              []string{"Bachelor's degree"},
		ExperienceRequirements: []string{"5 years of experience"},
		JobTitles:              []string{"Software Engineer"},
		FullTextTokens:         []string{"python", "aws", "kubernetes", "terraform"},
	}
	return resume, jd
}

func TestScore(t *testing.T) {
	t.Parallel()

	s, err := New(WithClock(fixedClock))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	resume, jd := sampleProfiles()
	got := s.Score(context.Background(), resume, jd)

	checks := map[string][2]float64{
		"skills":     {got.SkillsMatch, 0.5},
		"experience": {got.ExperienceMatch, 0.6},
		"education":  {got.EducationMatch, 1},
		"job title":  {got.JobTitleRelevance, 1},
		"full text":  {got.OverallSimilarity, 0.15},
		"total":      {got.TotalScore, 0.6*0.5 + 0.1*0.6 + 0.1*1 + 0.1*1 + 0.1*0.15},
	}
	for name, pair := range checks {
		if math.Abs(pair[0]-pair[1]) > 1e-9 {
			t.Errorf("%s: expected %v, got %v", name, pair[1], pair[0])
		}
	}

	if len(got.MatchingSkills) != 2 || len(got.MissingSkills) != 2 {
		t.Fatalf("unexpected skill lists: %v / %v", got.MatchingSkills, got.MissingSkills)
	}
}

func TestScoreTotalIsConvexCombination(t *testing.T) {
	t.Parallel()

	weights := Weights{Skills: 0.2, Experience: 0.2, Education: 0.2, JobTitle: 0.2, FullText: 0.2}
	s, err := New(WithWeights(weights), WithClock(fixedClock), WithSimilarity(&stubSimilarity{score: 0.4}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	resume, jd := sampleProfiles()
	r := s.Score(context.Background(), resume, jd)

	scores := []float64{r.SkillsMatch, r.ExperienceMatch, r.EducationMatch, r.JobTitleRelevance, r.OverallSimilarity}
	lo, hi, sum := 1.0, 0.0, 0.0
	for _, v := range scores {
		if v < 0 || v > 1 {
			t.Fatalf("dimension score %v out of range", v)
		}
		lo, hi = math.Min(lo, v), math.Max(hi, v)
		sum += 0.2 * v
	}
	if math.Abs(r.TotalScore-sum) > 1e-9 {
		t.Fatalf("expected total %v, got %v", sum, r.TotalScore)
	}
	if r.TotalScore < lo-1e-9 || r.TotalScore > hi+1e-9 {
		t.Fatalf("total %v outside [%v, %v]", r.TotalScore, lo, hi)
	}
}

func TestScoreEmptyProfiles(t *testing.T) {
	t.Parallel()

	s, _ := New()
	r := s.Score(context.Background(), nil, nil)
	if r.TotalScore != 0 {
		t.Fatalf("expected zero total, got %v", r.TotalScore)
	}
	if r.MatchingSkills == nil || r.MissingSkills == nil {
		t.Fatal("skill lists must not be nil")
	}
}

func TestScoreSurvivesProviderFailure(t *testing.T) {
	t.Parallel()

	s, _ := New(WithClock(fixedClock), WithSimilarity(&stubSimilarity{err: errProviderDown}))
	resume, jd := sampleProfiles()
	r := s.Score(context.Background(), resume, jd)
	if math.Abs(r.OverallSimilarity-0.15) > 1e-9 {
		t.Fatalf("expected keyword-only full text score, got %v", r.OverallSimilarity)
	}
}
