package filtering

import (
	"context"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-matcher/internal/ranking"
	"github.com/spigell/resume-matcher/internal/scoring"
)

func results() *ranking.Results {
	items := []struct {
		id     string
		total  float64
		skills []string
	}{
		{id: "ann", total: 0.9, skills: []string{"Go", "AWS"}},
		{id: "ben", total: 0.7, skills: []string{"Go"}},
		{id: "cat", total: 0.4, skills: []string{"AWS"}},
		{id: "dan", total: 0.2, skills: []string{"Go", "AWS"}},
	}

	r := &ranking.Results{JobID: "job:test"}
	for idx, item := range items {
		r.Items = append(r.Items, &ranking.Ranked{
			CandidateID: item.id,
			Rank:        idx + 1,
			Result:      scoring.MatchResult{TotalScore: item.total, MatchingSkills: item.skills},
		})
	}
	return r
}

func TestRunDefaultChain(t *testing.T) {
	excludePath := filepath.Join(t.TempDir(), "exclude.json")
	excluded := &ranking.ExcludedCandidates{Items: []*ranking.ExcludedCandidate{{ID: "ann", ExcludedAt: time.Now()}}}
	if err := excluded.ToFile(excludePath); err != nil {
		t.Fatalf("write exclude file: %v", err)
	}

	cfg := &Config{
		MinimumScore:   0.3,
		RequiredSkills: []string{"aws"},
		ExcludeFile:    excludePath,
		Top:            1,
	}

	core, logs := observer.New(zap.InfoLevel)
	got, err := Run(context.Background(), cfg, Deps{Logger: zap.New(core)}, Default(), results())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !slices.Equal(got.IDs(), []string{"cat"}) {
		t.Fatalf("expected [cat], got %v", got.IDs())
	}
	if got.Items[0].Rank != 1 {
		t.Fatalf("expected renumbered rank 1, got %d", got.Items[0].Rank)
	}
	if n := logs.FilterMessage("filter step").Len(); n != 4 {
		t.Fatalf("expected 4 filter step logs, got %d", n)
	}
}

func TestRunSkipsDisabledFilters(t *testing.T) {
	steps := Default()
	DisableByName(steps, "minimum_score", "requested")

	got, err := Run(context.Background(), &Config{MinimumScore: 0.8}, Deps{}, steps, results())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got.Len() != 4 {
		t.Fatalf("expected all candidates, got %v", got.IDs())
	}

	for _, status := range Describe(steps) {
		if status.Name == "minimum_score" && (status.Enabled || status.Reason != "requested") {
			t.Fatalf("unexpected status %+v", status)
		}
	}
}

func TestRunValidatesConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{name: "threshold above one", cfg: &Config{MinimumScore: 1.5}},
		{name: "negative top", cfg: &Config{Top: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := results()
			if _, err := Run(context.Background(), tt.cfg, Deps{}, Default(), r); err == nil {
				t.Fatal("expected validation error")
			}
			if r.Len() != 4 {
				t.Fatal("no filter may run when validation fails")
			}
		})
	}
}

func TestRunMissingExcludeFileIsEmpty(t *testing.T) {
	cfg := &Config{ExcludeFile: filepath.Join(t.TempDir(), "absent.json")}
	got, err := Run(context.Background(), cfg, Deps{}, []Filter{NewExcludeFile()}, results())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got.Len() != 4 {
		t.Fatalf("expected nothing excluded, got %v", got.IDs())
	}
}

func TestExcludeFileHonoursJobID(t *testing.T) {
	excludePath := filepath.Join(t.TempDir(), "exclude.json")
	excluded := &ranking.ExcludedCandidates{Items: []*ranking.ExcludedCandidate{
		{ID: "ann", JobID: "job:other"},
		{ID: "ben", JobID: "job:test"},
		{ID: "dan"},
	}}
	if err := excluded.ToFile(excludePath); err != nil {
		t.Fatalf("write exclude file: %v", err)
	}

	got, err := Run(context.Background(), &Config{ExcludeFile: excludePath}, Deps{}, []Filter{NewExcludeFile()}, results())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !slices.Equal(got.IDs(), []string{"ann", "cat"}) {
		t.Fatalf("expected [ann cat], got %v", got.IDs())
	}
}

func TestRequiredSkillsIsCaseInsensitive(t *testing.T) {
	got, err := Run(context.Background(), &Config{RequiredSkills: []string{"go", " AWS "}}, Deps{}, []Filter{NewRequiredSkills()}, results())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !slices.Equal(got.IDs(), []string{"ann", "dan"}) {
		t.Fatalf("expected [ann dan], got %v", got.IDs())
	}
}
