package scoring

import "math"

const (
	DimensionSkills     = "skills"
	DimensionExperience = "experience"
	DimensionEducation  = "education"
	DimensionJobTitle   = "job_title"
	DimensionFullText   = "full_text"
)

// MatchResult is the scored outcome of one resume against one job description.
type MatchResult struct {
	SkillsMatch       float64  `json:"skills_match" yaml:"skills_match"`
	MatchingSkills    []string `json:"matching_skills" yaml:"matching_skills"`
	MissingSkills     []string `json:"missing_skills" yaml:"missing_skills"`
	ExperienceMatch   float64  `json:"experience_match" yaml:"experience_match"`
	EducationMatch    float64  `json:"education_match" yaml:"education_match"`
	JobTitleRelevance float64  `json:"job_title_relevance" yaml:"job_title_relevance"`
	OverallSimilarity float64  `json:"overall_similarity" yaml:"overall_similarity"`
	TotalScore        float64  `json:"total_score" yaml:"total_score"`
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
