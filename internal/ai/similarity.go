package ai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/logger"
)

var ErrEmptyText = errors.New("text must not be empty")

const defaultCacheSize = 1024

// Embedder turns text into a dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Model() string
}

// EmbeddingSimilarity scores texts by the cosine of their embeddings.
// Embeddings are cached by content hash; the oldest entry is evicted once
// the cache is full.
type EmbeddingSimilarity struct {
	embedder Embedder
	logger   *zap.Logger
	limit    int

	mu    sync.RWMutex
	cache map[uint64][]float32
	order []uint64
}

// NewEmbeddingSimilarity wraps embedder. A cacheSize of zero or less uses the default.
func NewEmbeddingSimilarity(embedder Embedder, cacheSize int, log *zap.Logger) *EmbeddingSimilarity {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &EmbeddingSimilarity{
		embedder: embedder,
		logger:   logger.WithCommonFields(log, "embedding", embedder.Model()),
		limit:    cacheSize,
		cache:    make(map[uint64][]float32, cacheSize),
	}
}

func (s *EmbeddingSimilarity) Similarity(ctx context.Context, a, b string) (float64, error) {
	va, err := s.vector(ctx, a)
	if err != nil {
		return 0, err
	}
	vb, err := s.vector(ctx, b)
	if err != nil {
		return 0, err
	}
	return Cosine(va, vb), nil
}

func (s *EmbeddingSimilarity) vector(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	key := xxhash.Sum64String(text)
	s.mu.RLock()
	vec, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return vec, nil
	}

	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}
	if len(vec) == 0 {
		return nil, errors.New("embedder returned an empty vector")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.cache[key]; !exists {
		if len(s.order) >= s.limit {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.cache, oldest)
		}
		s.cache[key] = vec
		s.order = append(s.order, key)
	}
	s.logger.Debug("cached embedding", zap.Int("cache_entries", len(s.cache)), zap.Int("dimensions", len(vec)))
	return vec, nil
}

// CacheLen reports the number of cached embeddings.
func (s *EmbeddingSimilarity) CacheLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

// Cosine returns the cosine of two vectors clamped to [0,1]. Mismatched or
// zero-length vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return clamp(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
