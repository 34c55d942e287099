package scoring

import (
	"math"
	"strings"
)

// DegreeLevel is a normalized education level. Higher values rank higher.
type DegreeLevel int

const (
	DegreeUnknown DegreeLevel = iota
	DegreeCertificate
	DegreeAssociate
	DegreeBachelors
	DegreeMasters
	DegreeProfessional
	DegreeDoctoral
)

var degreeNames = [...]string{
	DegreeUnknown:      "unknown",
	DegreeCertificate:  "certificate",
	DegreeAssociate:    "associate",
	DegreeBachelors:    "bachelors",
	DegreeMasters:      "masters",
	DegreeProfessional: "professional",
	DegreeDoctoral:     "doctoral",
}

func (l DegreeLevel) String() string {
	if l < DegreeUnknown || int(l) >= len(degreeNames) {
		return degreeNames[DegreeUnknown]
	}
	return degreeNames[l]
}

// Rank is the position of the level in the hierarchy; unknown ranks 0.
func (l DegreeLevel) Rank() int {
	if l < DegreeUnknown || int(l) >= len(degreeNames) {
		return 0
	}
	return int(l)
}

// DegreeClass describes one level of the hierarchy.
type DegreeClass struct {
	Level    DegreeLevel
	Weight   float64
	Variants []string
}

// DegreeHierarchy maps free-text degree strings to levels. Classes are
// consulted in order, so the first class with a matching variant wins.
type DegreeHierarchy struct {
	classes []DegreeClass
	weights map[DegreeLevel]float64
}

// NewDegreeHierarchy builds a hierarchy from classes listed in lookup order.
// Variants are lowercased and trimmed.
func NewDegreeHierarchy(classes ...DegreeClass) *DegreeHierarchy {
	h := &DegreeHierarchy{
		classes: make([]DegreeClass, 0, len(classes)),
		weights: make(map[DegreeLevel]float64, len(classes)),
	}
	for _, class := range classes {
		variants := make([]string, 0, len(class.Variants))
		for _, v := range class.Variants {
			if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
				variants = append(variants, v)
			}
		}
		h.classes = append(h.classes, DegreeClass{Level: class.Level, Weight: class.Weight, Variants: variants})
		h.weights[class.Level] = class.Weight
	}
	return h
}

// DefaultDegreeHierarchy returns the standard table, doctoral first.
func DefaultDegreeHierarchy() *DegreeHierarchy {
	return NewDegreeHierarchy(
		DegreeClass{Level: DegreeDoctoral, Weight: 1.0, Variants: []string{"phd", "doctorate", "doctor of philosophy", "ph.d", "d.", "postdoctoral", "dphil", "d.phil"}},
		DegreeClass{Level: DegreeProfessional, Weight: 0.95, Variants: []string{"md", "jd", "dds", "dmd", "pharmd", "professional degree"}},
		DegreeClass{Level: DegreeMasters, Weight: 0.85, Variants: []string{"master", "m.s.", "m.sc.", "master of science", "ma", "mba", "mfa",
			"msc", "m.sc", "m.a.", "meng", "m.eng", "mtech", "m.tech"}},
		DegreeClass{Level: DegreeBachelors, Weight: 0.7, Variants: []string{"bachelor", "b.s.", "b.sc.", "ba", "bs", "bfa", "bba", "undergraduate",
			"bsc", "b.sc", "b.a.", "beng", "b.eng", "btech", "b.tech", "b.e."}},
		DegreeClass{Level: DegreeAssociate, Weight: 0.5, Variants: []string{"associate", "a.a.", "a.s.", "associate degree"}},
		DegreeClass{Level: DegreeCertificate, Weight: 0.3, Variants: []string{"certificate", "diploma", "vocational", "technical training"}},
	)
}

// Normalize maps a free-text degree to a level, or DegreeUnknown when no variant matches.
// A variant matches when it appears as a whole word, optionally pluralised
// ("masters", "bachelor's"), so "ma" does not fire inside "mathematics".
// Compact forms such as "bsc" and "b.tech" are listed as their own variants.
func (h *DegreeHierarchy) Normalize(text string) DegreeLevel {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return DegreeUnknown
	}
	for _, class := range h.classes {
		for _, variant := range class.Variants {
			if containsVariant(text, variant) {
				return class.Level
			}
		}
	}
	return DegreeUnknown
}

// Weight returns the relative strength of a level; unknown has none.
func (h *DegreeHierarchy) Weight(level DegreeLevel) float64 {
	return h.weights[level]
}

// Compare scores how well a candidate level satisfies a required level using
// rank and weight only.
func (h *DegreeHierarchy) Compare(candidate, required DegreeLevel) float64 {
	if candidate.Rank() < required.Rank() {
		return 0
	}

	requiredWeight := h.Weight(required)
	if requiredWeight <= 0 {
		return 1
	}
	return math.Min(h.Weight(candidate)/requiredWeight, 1)
}

func containsVariant(text, variant string) bool {
	for offset := 0; offset+len(variant) <= len(text); {
		idx := strings.Index(text[offset:], variant)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(variant)
		if wordStart(text, start) && (!isWordByte(variant[len(variant)-1]) || wordEnd(text, end)) {
			return true
		}
		offset = start + 1
	}
	return false
}

func wordStart(text string, i int) bool {
	return i == 0 || !isWordByte(text[i-1])
}

func wordEnd(text string, i int) bool {
	rest := text[i:]
	switch {
	case strings.HasPrefix(rest, "'s"):
		rest = rest[2:]
	case strings.HasPrefix(rest, "s"):
		rest = rest[1:]
	}
	return rest == "" || !isWordByte(rest[0])
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b >= 0x80
}
