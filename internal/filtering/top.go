package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/ranking"
)

type topFilter struct {
	toggle
	limit int
}

// NewTop creates a filter that keeps the best N candidates. Zero keeps all.
func NewTop() Filter {
	return &topFilter{}
}

func (f *topFilter) Name() string { return "top" }

func (f *topFilter) Validate(cfg *Config) error {
	f.limit = 0
	if cfg != nil {
		f.limit = cfg.Top
	}
	if f.limit < 0 {
		return fmt.Errorf("top must not be negative, got %d", f.limit)
	}
	return nil
}

func (f *topFilter) Apply(_ context.Context, deps Deps, r *ranking.Results) (*ranking.Results, Step, error) {
	initial := r.Len()
	dropped := r.Truncate(f.limit)
	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Debug("truncating ranking",
			zap.Int("top", f.limit),
			zap.Strings("excluded_candidates", dropped),
		)
	}
	return r, Step{Initial: initial, Dropped: len(dropped), Left: r.Len()}, nil
}

func (f *topFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"top": strconv.Itoa(f.limit)},
	}
}
