package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/ranking"
)

type minimumScoreFilter struct {
	toggle
	threshold float64
}

// NewMinimumScore creates a filter that drops candidates whose total score is below the configured minimum.
func NewMinimumScore() Filter {
	return &minimumScoreFilter{}
}

func (f *minimumScoreFilter) Name() string { return "minimum_score" }

func (f *minimumScoreFilter) Validate(cfg *Config) error {
	f.threshold = 0
	if cfg != nil {
		f.threshold = cfg.MinimumScore
	}
	if f.threshold < 0 || f.threshold > 1 {
		return fmt.Errorf("minimum score must be within [0,1], got %v", f.threshold)
	}
	return nil
}

func (f *minimumScoreFilter) Apply(_ context.Context, deps Deps, r *ranking.Results) (*ranking.Results, Step, error) {
	initial := r.Len()
	if f.threshold == 0 {
		return r, Step{Initial: initial, Dropped: 0, Left: r.Len()}, nil
	}

	dropped := r.Keep(func(item *ranking.Ranked) bool {
		return item.Result.TotalScore >= f.threshold
	})
	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Info("excluding candidates below minimum score",
			zap.Float64("minimum_score", f.threshold),
			zap.Strings("excluded_candidates", dropped),
			zap.Int("candidates_left", r.Len()),
		)
	}

	return r, Step{Initial: initial, Dropped: len(dropped), Left: r.Len()}, nil
}

func (f *minimumScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"minimum_score": fmt.Sprintf("%.2f", f.threshold)},
	}
}
