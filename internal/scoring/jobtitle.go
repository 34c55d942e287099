package scoring

import "strings"

// MatchJobTitles averages, over job-description titles, the best score any
// resume title achieves: 1.0 when the title is contained in the resume
// title, 0.5 when one of its words is, 0 otherwise. Blank titles are ignored.
func MatchJobTitles(resume, jd []string) float64 {
	have := lowerNonBlank(resume)
	want := lowerNonBlank(jd)
	if len(have) == 0 || len(want) == 0 {
		return 0
	}

	sum := 0.0
	for _, title := range want {
		best := 0.0
		for _, candidate := range have {
			if score := titleScore(candidate, title); score > best {
				best = score
			}
			if best == 1 {
				break
			}
		}
		sum += best
	}
	return clamp(sum / float64(len(want)))
}

func titleScore(candidate, title string) float64 {
	if strings.Contains(candidate, title) {
		return 1
	}
	for _, word := range strings.Fields(title) {
		if strings.Contains(candidate, word) {
			return 0.5
		}
	}
	return 0
}

func lowerNonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
