package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// ErrUnsupportedFormat is returned for profile files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported profile format")

// Load reads a single extracted profile from a .json, .yaml or .yml file.
func Load(path string, opts TokenizeOptions) (*ExtractedProfile, error) {
	raw, err := readRaw(path)
	if err != nil {
		return nil, err
	}

	p, err := Decode(raw, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// LoadPair reads the combined extractor output holding "resume" and
// "job_description" sections.
func LoadPair(path string, opts TokenizeOptions) (*Pair, error) {
	raw, err := readRaw(path)
	if err != nil {
		return nil, err
	}

	resume, err := Decode(section(raw, "resume"), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: resume: %w", path, err)
	}

	jd, err := Decode(section(raw, "job_description"), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: job_description: %w", path, err)
	}

	return &Pair{Resume: resume, JobDescription: jd}, nil
}

// CandidateID derives a candidate identifier from a profile file name.
func CandidateID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func readRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	raw := make(map[string]any)
	if len(strings.TrimSpace(string(data))) == 0 {
		return raw, nil
	}

	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	return raw, nil
}

func section(raw map[string]any, key string) map[string]any {
	if m, ok := raw[key].(map[string]any); ok {
		return m
	}
	return nil
}
