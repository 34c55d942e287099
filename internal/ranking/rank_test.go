package ranking

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/spigell/resume-matcher/internal/profile"
	"github.com/spigell/resume-matcher/internal/scoring"
)

// fixedScorer scores each resume by its first skill, looked up in totals.
type fixedScorer struct {
	totals map[string]float64
	calls  atomic.Int32
	cancel context.CancelFunc
}

func (f *fixedScorer) Score(_ context.Context, resume, _ *profile.ExtractedProfile) scoring.MatchResult {
	f.calls.Add(1)
	if f.cancel != nil {
		f.cancel()
	}
	return scoring.MatchResult{TotalScore: f.totals[resume.Skills[0]]}
}

func candidate(id, key string) Candidate {
	return Candidate{ID: id, Profile: &profile.ExtractedProfile{Skills: []string{key}}}
}

func TestRankOrdersByScoreThenID(t *testing.T) {
	scorer := &fixedScorer{totals: map[string]float64{"low": 0.2, "high": 0.9, "mid": 0.5}}
	r := New(scorer, 2, nil)

	results, err := r.Rank(context.Background(), "job:1", &profile.ExtractedProfile{}, []Candidate{
		candidate("carol", "mid"),
		candidate("alice", "low"),
		candidate("bob", "high"),
		candidate("dave", "mid"),
	})
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}

	if want := []string{"bob", "carol", "dave", "alice"}; !slices.Equal(results.IDs(), want) {
		t.Fatalf("expected order %v, got %v", want, results.IDs())
	}
	for idx, item := range results.Items {
		if item.Rank != idx+1 {
			t.Fatalf("item %s has rank %d, want %d", item.CandidateID, item.Rank, idx+1)
		}
	}
	if results.JobID != "job:1" {
		t.Fatalf("unexpected job id %q", results.JobID)
	}
}

func TestRankNamesAnonymousCandidates(t *testing.T) {
	scorer := &fixedScorer{totals: map[string]float64{"a": 0.1}}
	results, err := New(scorer, 0, nil).Rank(context.Background(), "", nil, []Candidate{candidate("", "a"), candidate("", "a")})
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if want := []string{"candidate-1", "candidate-2"}; !slices.Equal(results.IDs(), want) {
		t.Fatalf("expected %v, got %v", want, results.IDs())
	}
}

func TestRankRejectsDuplicates(t *testing.T) {
	scorer := &fixedScorer{totals: map[string]float64{}}
	_, err := New(scorer, 1, nil).Rank(context.Background(), "", nil, []Candidate{candidate("x", "a"), candidate("x", "b")})
	if !errors.Is(err, ErrDuplicateCandidate) {
		t.Fatalf("expected ErrDuplicateCandidate, got %v", err)
	}
	if scorer.calls.Load() != 0 {
		t.Fatal("no candidate should be scored when ids collide")
	}
}

func TestRankStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scorer := &fixedScorer{totals: map[string]float64{"a": 1}, cancel: cancel}
	candidates := make([]Candidate, 0, 50)
	for i := range 50 {
		candidates = append(candidates, candidate(string(rune('A'+i)), "a"))
	}

	_, err := New(scorer, 1, nil).Rank(ctx, "", nil, candidates)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if n := scorer.calls.Load(); n >= 50 {
		t.Fatalf("expected scheduling to stop early, scored %d", n)
	}
}

func TestRankEmpty(t *testing.T) {
	results, err := New(&fixedScorer{}, 1, nil).Rank(context.Background(), "job", nil, nil)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if results.Len() != 0 {
		t.Fatalf("expected empty results, got %d", results.Len())
	}
}
