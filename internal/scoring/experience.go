package scoring

import (
	"regexp"
	"strconv"

	"github.com/spigell/resume-matcher/internal/profile"
)

var requiredYearsPattern = regexp.MustCompile(`(?i)(\d+)\+?\s*(?:years?|yrs?)`)

// RequiredYears returns the first "N years" figure found across the
// requirement statements, or 0 when none is present.
func RequiredYears(requirements []string) int {
	for _, req := range requirements {
		m := requiredYearsPattern.FindStringSubmatch(req)
		if m == nil {
			continue
		}
		years, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return years
	}
	return 0
}

// TotalExperience sums the spans of all records; unparseable records add nothing.
func (s *Scorer) TotalExperience(records []profile.ExperienceRecord) float64 {
	total := 0.0
	for _, rec := range records {
		total += s.durations.Between(rec.StartDate, rec.EndDate).Years()
	}
	return total
}

// MatchExperience scores the candidate's total experience against the
// required years. Meeting the bar scores on a curve that approaches 1.0 as
// surplus grows; falling short scores linearly. A requirement without a
// year figure is treated as satisfied.
func (s *Scorer) MatchExperience(records []profile.ExperienceRecord, requirements []string) float64 {
	if len(requirements) == 0 {
		return 0
	}

	required := float64(RequiredYears(requirements))
	if required <= 0 {
		return 1
	}

	total := s.TotalExperience(records)
	if total >= required {
		return clamp(1 - 1/(1+total-required+1))
	}
	return clamp(total / required)
}
