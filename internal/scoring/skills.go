package scoring

import (
	"math"
	"slices"
	"strings"
)

const fullCoverageBonus = 0.2

// SkillsMatch is the skills dimension with its detail lists.
type SkillsMatch struct {
	Score    float64
	Matching []string
	Missing  []string
}

// MatchSkills compares skills case-insensitively. The denominator is the
// number of distinct job-description skills; full coverage earns a bonus
// capped at 1.0. Detail lists keep the job description's original casing
// (first occurrence wins) and are sorted case-insensitively.
func MatchSkills(resume, jd []string) SkillsMatch {
	original := make(map[string]string, len(jd))
	required := make([]string, 0, len(jd))
	for _, skill := range jd {
		skill = strings.TrimSpace(skill)
		key := strings.ToLower(skill)
		if key == "" {
			continue
		}
		if _, seen := original[key]; seen {
			continue
		}
		original[key] = skill
		required = append(required, key)
	}

	result := SkillsMatch{Matching: []string{}, Missing: []string{}}
	if len(required) == 0 {
		return result
	}

	have := make(map[string]struct{}, len(resume))
	for _, skill := range resume {
		have[strings.ToLower(strings.TrimSpace(skill))] = struct{}{}
	}

	for _, key := range required {
		if _, ok := have[key]; ok {
			result.Matching = append(result.Matching, original[key])
		} else {
			result.Missing = append(result.Missing, original[key])
		}
	}

	coverage := float64(len(result.Matching)) / float64(len(required))
	bonus := 0.0
	if coverage == 1 {
		bonus = fullCoverageBonus
	}
	result.Score = clamp(math.Min(coverage+bonus, 1))

	sortSkills(result.Matching)
	sortSkills(result.Missing)
	return result
}

func sortSkills(skills []string) {
	slices.SortFunc(skills, func(a, b string) int {
		if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
}
