package ranking

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"
)

// ExcludedCandidates is the on-disk list of candidates to skip in later runs.
type ExcludedCandidates struct {
	Items []*ExcludedCandidate `json:"items"`
}

type ExcludedCandidate struct {
	ID         string    `json:"id"`
	JobID      string    `json:"job_id,omitempty"`
	TotalScore float64   `json:"total_score"`
	ExcludedAt time.Time `json:"excluded_at"`
}

// LoadExcluded reads an exclude file. A missing or empty file yields an empty list.
func LoadExcluded(path string) (*ExcludedCandidates, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ExcludedCandidates{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if stat.Size() == 0 {
		return &ExcludedCandidates{}, nil
	}

	var excluded ExcludedCandidates
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

// ToExcluded converts the current results into exclude entries stamped with now.
func (r *Results) ToExcluded(now time.Time) *ExcludedCandidates {
	excluded := &ExcludedCandidates{}
	for _, item := range r.Items {
		excluded.Items = append(excluded.Items, &ExcludedCandidate{
			ID:         item.CandidateID,
			JobID:      r.JobID,
			TotalScore: item.Result.TotalScore,
			ExcludedAt: now.UTC(),
		})
	}
	return excluded
}

type excludedKey struct{ jobID, id string }

// Append adds entries not yet present for the same job.
func (e *ExcludedCandidates) Append(other *ExcludedCandidates) {
	seen := make(map[excludedKey]struct{}, len(e.Items))
	for _, item := range e.Items {
		seen[excludedKey{item.JobID, item.ID}] = struct{}{}
	}
	for _, item := range other.Items {
		key := excludedKey{item.JobID, item.ID}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		e.Items = append(e.Items, item)
	}
}

func (e *ExcludedCandidates) IDs() []string {
	ids := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

// IDsFor returns the candidates excluded for jobID. Entries without a job
// apply to every job.
func (e *ExcludedCandidates) IDsFor(jobID string) []string {
	ids := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		if item.JobID == "" || item.JobID == jobID {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

func (e *ExcludedCandidates) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
