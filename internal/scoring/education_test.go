package scoring

import (
	"context"
	"math"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMatchEducationHierarchyOnly(t *testing.T) {
	t.Parallel()

	s, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name   string
		resume []string
		jd     []string
		expect float64
	}{
		{name: "lower degree", resume: []string{"bachelors"}, jd: []string{"masters"}, expect: 0},
		{name: "identical", resume: []string{"PhD"}, jd: []string{"PhD"}, expect: 1},
		{name: "overqualified", resume: []string{"Master of Science"}, jd: []string{"Bachelor's degree"}, expect: 1},
		{name: "best of several", resume: []string{"Diploma", "MBA"}, jd: []string{"Master's"}, expect: 1},
		{name: "no requirement", resume: []string{"PhD"}, expect: 0},
		{name: "no resume degrees", jd: []string{"bachelors"}, expect: 0},
		{name: "mixed requirements", resume: []string{"bachelors"}, jd: []string{"bachelors", "doctorate"}, expect: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := s.MatchEducation(context.Background(), tt.resume, tt.jd); math.Abs(got-tt.expect) > 1e-9 {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestDegreeMatchBlendsSimilarity(t *testing.T) {
	t.Parallel()

	sim := &stubSimilarity{score: 1}
	s, err := New(WithSimilarity(sim), WithFuzzyRatio(func(_, _ string) float64 { return 0.5 }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := s.DegreeMatch(context.Background(), DegreeBachelors, DegreeMasters)
	want := 0.5*0 + 0.3*0.5 + 0.2*1
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if got := s.DegreeMatch(context.Background(), DegreeMasters, DegreeMasters); got != 1 {
		t.Fatalf("equal levels should score 1, got %v", got)
	}
	if sim.Calls() != 1 {
		t.Fatalf("expected provider to be consulted once, got %d", sim.Calls())
	}
}

func TestDegreeMatchFallsBackOnProviderError(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	s, err := New(WithSimilarity(&stubSimilarity{err: errProviderDown}), WithLogger(zap.New(core)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := s.DegreeMatch(context.Background(), DegreeDoctoral, DegreeMasters)
	if got != 1 {
		t.Fatalf("expected hierarchy score 1, got %v", got)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected 1 warning, got %d", logs.Len())
	}
	if field := logs.All()[0].ContextMap()["dimension"]; field != DimensionEducation {
		t.Fatalf("expected dimension field %q, got %v", DimensionEducation, field)
	}
}
