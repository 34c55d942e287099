package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/ai/gemini"
	"github.com/spigell/resume-matcher/internal/scoring"
	"github.com/spigell/resume-matcher/internal/secrets"
)

const (
	providerNone    = "none"
	providerLexical = "lexical"
	providerGemini  = "gemini"
)

func newSimilarity(ctx context.Context, config *Config, logger *zap.Logger) (scoring.Similarity, error) {
	cfg := config.Similarity
	if cfg == nil {
		cfg = &SimilarityConfig{}
	}

	switch provider := strings.TrimSpace(strings.ToLower(cfg.Provider)); provider {
	case providerNone:
		return nil, nil
	case "", providerLexical:
		return ai.NewLexical(config.Tokens), nil
	case providerGemini:
		gc := cfg.Gemini
		if gc == nil {
			gc = &gemini.Config{}
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name: "gemini api key",
			File: gc.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set similarity.gemini.api-key-file or RESUME_MATCHER_GEMINI_API_KEY_FILE)", err)
		}

		embedder, err := gemini.NewEmbedder(ctx, apiKey, *gc, logger)
		if err != nil {
			return nil, err
		}
		return ai.NewEmbeddingSimilarity(embedder, cfg.CacheSize, logger), nil
	default:
		return nil, fmt.Errorf("unsupported similarity provider: %s", cfg.Provider)
	}
}

func newScorer(ctx context.Context, config *Config, logger *zap.Logger) (*scoring.Scorer, error) {
	sim, err := newSimilarity(ctx, config, logger)
	if err != nil {
		return nil, fmt.Errorf("creating similarity provider: %w", err)
	}

	algorithm := ""
	if config.Fuzzy != nil {
		algorithm = config.Fuzzy.Algorithm
	}
	fuzzy, err := scoring.NewFuzzyRatio(algorithm)
	if err != nil {
		return nil, err
	}

	opts := []scoring.Option{
		scoring.WithSimilarity(sim),
		scoring.WithFuzzyRatio(fuzzy),
		scoring.WithLogger(logger),
	}
	if config.Weights != nil {
		opts = append(opts, scoring.WithWeights(*config.Weights))
	}
	if config.Similarity != nil && config.Similarity.Gemini != nil && config.Similarity.Gemini.MaxLogLength > 0 {
		opts = append(opts, scoring.WithMaxLogLength(config.Similarity.Gemini.MaxLogLength))
	}

	return scoring.New(opts...)
}
