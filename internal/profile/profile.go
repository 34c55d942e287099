// Package profile holds the structured facts extracted from a resume or a job
// description and loads them from the extractor's JSON or YAML output.
package profile

// ExtractedProfile is one document's worth of extracted facts. Any field may be empty.
type ExtractedProfile struct {
	Skills    []string `json:"skills,omitempty" mapstructure:"skills"`
	Education []string `json:"education,omitempty" mapstructure:"education"`
	// Experience lists the work history found in a resume.
	Experience []ExperienceRecord `json:"experience,omitempty" mapstructure:"experience"`
	// ExperienceRequirements holds free-text statements such as "5+ years of experience"
	// found in a job description.
	ExperienceRequirements []string `json:"experience_requirements,omitempty" mapstructure:"experience_requirements"`
	JobTitles              []string `json:"job_titles,omitempty" mapstructure:"job_titles"`
	FullTextTokens         []string `json:"full_text_tokens,omitempty" mapstructure:"full_text_tokens"`
}

// ExperienceRecord is a single position. Dates are free text such as "June 2019" or "present".
type ExperienceRecord struct {
	Role      string `json:"role,omitempty" mapstructure:"role"`
	Company   string `json:"company,omitempty" mapstructure:"company"`
	StartDate string `json:"start_date,omitempty" mapstructure:"start_date"`
	EndDate   string `json:"end_date,omitempty" mapstructure:"end_date"`
}

// Pair is the combined extractor output for one scoring request.
type Pair struct {
	Resume         *ExtractedProfile `json:"resume"`
	JobDescription *ExtractedProfile `json:"job_description"`
}

// IsEmpty reports whether the profile carries no facts at all.
func (p *ExtractedProfile) IsEmpty() bool {
	if p == nil {
		return true
	}
	return len(p.Skills) == 0 &&
		len(p.Education) == 0 &&
		len(p.Experience) == 0 &&
		len(p.ExperienceRequirements) == 0 &&
		len(p.JobTitles) == 0 &&
		len(p.FullTextTokens) == 0
}
