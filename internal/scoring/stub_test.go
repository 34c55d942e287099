package scoring

import (
	"context"
	"errors"
	"sync"
)

var errProviderDown = errors.New("provider down")

// stubSimilarity returns a fixed score, or err when set, and counts calls.
type stubSimilarity struct {
	mu    sync.Mutex
	score float64
	err   error
	calls int
}

func (s *stubSimilarity) Similarity(_ context.Context, _, _ string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	return s.score, nil
}

func (s *stubSimilarity) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
