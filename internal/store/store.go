package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/spigell/resume-matcher/internal/profile"
	"github.com/spigell/resume-matcher/internal/scoring"
)

var ErrNotFound = errors.New("result not found")

// Entry is one stored match result.
type Entry struct {
	JobID       string              `json:"job_id"`
	CandidateID string              `json:"candidate_id"`
	RunID       string              `json:"run_id,omitempty"`
	Result      scoring.MatchResult `json:"result"`
	StoredAt    time.Time           `json:"stored_at"`
}

func (e Entry) validate() error {
	if strings.TrimSpace(e.JobID) == "" {
		return errors.New("job id is required")
	}
	if strings.TrimSpace(e.CandidateID) == "" {
		return errors.New("candidate id is required")
	}
	return nil
}

// Store keeps match results owned by the caller. Implementations are safe
// for concurrent use. List returns entries ordered by total score
// descending, then candidate id.
type Store interface {
	Put(ctx context.Context, e Entry) error
	Get(ctx context.Context, jobID, candidateID string) (Entry, error)
	List(ctx context.Context, jobID string) ([]Entry, error)
	DeleteJob(ctx context.Context, jobID string) (int, error)
	Close() error
}

// canonicalJob is the hash input for JobID. Order of list fields does not matter.
type canonicalJob struct {
	Skills       []string `json:"skills"`
	Education    []string `json:"education"`
	Requirements []string `json:"experience_requirements"`
	JobTitles    []string `json:"job_titles"`
	Tokens       []string `json:"full_text_tokens"`
}

// JobID derives a stable identifier for a job description.
func JobID(jd *profile.ExtractedProfile) string {
	if jd == nil {
		jd = &profile.ExtractedProfile{}
	}
	payload, _ := json.Marshal(canonicalJob{
		Skills:       normalized(jd.Skills),
		Education:    normalized(jd.Education),
		Requirements: normalized(jd.ExperienceRequirements),
		JobTitles:    normalized(jd.JobTitles),
		Tokens:       jd.FullTextTokens,
	})
	return fmt.Sprintf("job:%016x", xxhash.Sum64(payload))
}

func normalized(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func sortEntries(entries []Entry) {
	slices.SortFunc(entries, func(a, b Entry) int {
		switch {
		case a.Result.TotalScore > b.Result.TotalScore:
			return -1
		case a.Result.TotalScore < b.Result.TotalScore:
			return 1
		}
		return strings.Compare(a.CandidateID, b.CandidateID)
	})
}
