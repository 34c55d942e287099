package profile

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// rawProfile mirrors the loosely typed extractor payload before normalisation.
type rawProfile struct {
	Skills                 []string `mapstructure:"skills"`
	Education              []string `mapstructure:"education"`
	Experience             []any    `mapstructure:"experience"`
	ExperienceRequirements []string `mapstructure:"experience_requirements"`
	JobTitles              []string `mapstructure:"job_titles"`
	FullTextTokens         []string `mapstructure:"full_text_tokens"`
	FullText               any      `mapstructure:"full_text"`
}

type rawExperience struct {
	Role      string   `mapstructure:"role"`
	Title     string   `mapstructure:"title"`
	Company   string   `mapstructure:"company"`
	StartDate string   `mapstructure:"start_date"`
	EndDate   string   `mapstructure:"end_date"`
	Dates     []string `mapstructure:"dates"`
}

// Decode converts an extractor payload into an ExtractedProfile.
//
// Experience entries may be records (with either start_date/end_date or a
// two-element dates list) or plain strings; strings are treated as
// experience requirements. A raw full_text string is tokenized with opts
// when full_text_tokens is absent. Unknown keys are ignored.
func Decode(raw map[string]any, opts TokenizeOptions) (*ExtractedProfile, error) {
	p := &ExtractedProfile{}
	if raw == nil {
		return p, nil
	}

	var payload rawProfile
	if err := weakDecode(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	p.Skills = cleanStrings(payload.Skills)
	p.Education = cleanStrings(payload.Education)
	p.JobTitles = cleanStrings(payload.JobTitles)
	p.ExperienceRequirements = cleanStrings(payload.ExperienceRequirements)

	for idx, item := range payload.Experience {
		switch val := item.(type) {
		case nil:
			continue
		case string:
			if text := strings.TrimSpace(val); text != "" {
				p.ExperienceRequirements = append(p.ExperienceRequirements, text)
			}
		default:
			var exp rawExperience
			if err := weakDecode(val, &exp); err != nil {
				return nil, fmt.Errorf("decode experience #%d: %w", idx, err)
			}
			p.Experience = append(p.Experience, exp.record())
		}
	}

	p.FullTextTokens = cleanStrings(payload.FullTextTokens)
	if len(p.FullTextTokens) == 0 {
		p.FullTextTokens = fullTextTokens(payload.FullText, opts)
	}

	return p, nil
}

func (e rawExperience) record() ExperienceRecord {
	rec := ExperienceRecord{
		Role:      strings.TrimSpace(e.Role),
		Company:   strings.TrimSpace(e.Company),
		StartDate: strings.TrimSpace(e.StartDate),
		EndDate:   strings.TrimSpace(e.EndDate),
	}
	if rec.Role == "" {
		rec.Role = strings.TrimSpace(e.Title)
	}
	if rec.StartDate == "" && len(e.Dates) > 0 {
		rec.StartDate = strings.TrimSpace(e.Dates[0])
	}
	if rec.EndDate == "" && len(e.Dates) > 1 {
		rec.EndDate = strings.TrimSpace(e.Dates[1])
	}
	return rec
}

func fullTextTokens(v any, opts TokenizeOptions) []string {
	switch val := v.(type) {
	case string:
		return Tokenize(val, opts)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return Tokenize(strings.Join(parts, " "), opts)
	case []string:
		return Tokenize(strings.Join(val, " "), opts)
	default:
		return nil
	}
}

func weakDecode(input, result any) error {
	cfg := &mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           result,
		TagName:          "mapstructure",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

func cleanStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
