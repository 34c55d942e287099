package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the similarity provider name.
	FieldProvider = "similarity_provider"
	// FieldModel is the structured log field key for the embedding model identifier.
	FieldModel = "similarity_model"
	// FieldDimension names the scoring dimension a log entry refers to.
	FieldDimension = "dimension"

	FieldJobID       = "job_id"
	FieldCandidateID = "candidate_id"
	FieldRunID       = "run_id"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger is replaced with a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields returns standard zap fields that describe the similarity provider and model.
// Empty values are ignored to keep log entries compact when information is missing.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithCommonFields attaches the common similarity fields to the provided logger.
func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, model)...)
}

// Score is a single named score to be logged.
type Score struct {
	Name  string
	Value float64
}

// ScoreFields converts named scores into float fields, skipping unnamed entries.
func ScoreFields(scores ...Score) []zap.Field {
	result := make([]zap.Field, 0, len(scores))
	for _, score := range scores {
		name := strings.TrimSpace(score.Name)
		if name == "" {
			continue
		}
		result = append(result, zap.Float64(name, score.Value))
	}
	return result
}
