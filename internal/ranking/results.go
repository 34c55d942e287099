package ranking

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/spigell/resume-matcher/internal/profile"
	"github.com/spigell/resume-matcher/internal/scoring"
)

// Candidate is a resume offered for ranking.
type Candidate struct {
	ID      string
	Profile *profile.ExtractedProfile
}

// Ranked is a scored candidate with its 1-based position.
type Ranked struct {
	CandidateID string              `json:"candidate_id"`
	Rank        int                 `json:"rank"`
	Result      scoring.MatchResult `json:"result"`
}

// Results is the ranked list for one job description.
type Results struct {
	JobID string    `json:"job_id"`
	Items []*Ranked `json:"items"`
}

func (r *Results) Len() int {
	return len(r.Items)
}

func (r *Results) FindByID(id string) *Ranked {
	for _, item := range r.Items {
		if item.CandidateID == id {
			return item
		}
	}
	return nil
}

func (r *Results) IDs() []string {
	ids := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		ids = append(ids, item.CandidateID)
	}
	return ids
}

// Exclude removes candidates by id, keeps the order of the rest and
// renumbers ranks. It returns the ids actually removed.
func (r *Results) Exclude(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}

	var removed []string
	kept := r.Items[:0]
	for _, item := range r.Items {
		if slices.Contains(ids, item.CandidateID) {
			removed = append(removed, item.CandidateID)
			continue
		}
		kept = append(kept, item)
	}
	clear(r.Items[len(kept):])
	r.Items = kept
	r.renumber()
	return removed
}

// Keep retains candidates for which keep returns true and renumbers ranks.
func (r *Results) Keep(keep func(*Ranked) bool) []string {
	var drop []string
	for _, item := range r.Items {
		if !keep(item) {
			drop = append(drop, item.CandidateID)
		}
	}
	return r.Exclude(drop)
}

// Truncate keeps at most n items; n <= 0 keeps everything.
func (r *Results) Truncate(n int) []string {
	if n <= 0 || n >= len(r.Items) {
		return nil
	}
	return r.Exclude(r.IDs()[n:])
}

func (r *Results) renumber() {
	for idx, item := range r.Items {
		item.Rank = idx + 1
	}
}

// Report summarises each candidate for display.
func (r *Results) Report() []map[string]string {
	report := make([]map[string]string, 0, len(r.Items))
	for _, item := range r.Items {
		report = append(report, map[string]string{
			"rank":           fmt.Sprintf("%d", item.Rank),
			"candidate":      item.CandidateID,
			"total":          fmt.Sprintf("%.3f", item.Result.TotalScore),
			"skills":         fmt.Sprintf("%.3f", item.Result.SkillsMatch),
			"experience":     fmt.Sprintf("%.3f", item.Result.ExperienceMatch),
			"education":      fmt.Sprintf("%.3f", item.Result.EducationMatch),
			"job title":      fmt.Sprintf("%.3f", item.Result.JobTitleRelevance),
			"full text":      fmt.Sprintf("%.3f", item.Result.OverallSimilarity),
			"missing skills": fmt.Sprint(item.Result.MissingSkills),
		})
	}
	return report
}

func (r *Results) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "rankings_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}
