package ranking

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/profile"
	"github.com/spigell/resume-matcher/internal/scoring"
)

var ErrDuplicateCandidate = errors.New("duplicate candidate id")

const DefaultConcurrency = 4

// Scorer is the part of scoring.Scorer the ranker needs.
type Scorer interface {
	Score(ctx context.Context, resume, jd *profile.ExtractedProfile) scoring.MatchResult
}

// Ranker scores candidates against one job description in parallel.
type Ranker struct {
	scorer      Scorer
	concurrency int
	logger      *zap.Logger
}

func New(scorer Scorer, concurrency int, log *zap.Logger) *Ranker {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Ranker{scorer: scorer, concurrency: concurrency, logger: log}
}

// Rank scores every candidate and orders them by total score descending,
// breaking ties by candidate id. Candidates without an id are named by
// their input position. Cancelling ctx stops scheduling new candidates.
func (r *Ranker) Rank(ctx context.Context, jobID string, jd *profile.ExtractedProfile, candidates []Candidate) (*Results, error) {
	ids := make([]string, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for idx, c := range candidates {
		id := c.ID
		if id == "" {
			id = fmt.Sprintf("candidate-%d", idx+1)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCandidate, id)
		}
		seen[id] = struct{}{}
		ids[idx] = id
	}

	items := make([]*Ranked, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for idx, c := range candidates {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result := r.scorer.Score(gctx, c.Profile, jd)
			items[idx] = &Ranked{CandidateID: ids[idx], Result: result}
			r.logger.Debug("candidate scored",
				zap.String(logger.FieldJobID, jobID),
				zap.String(logger.FieldCandidateID, ids[idx]),
				zap.Float64("total_score", result.TotalScore),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(items, func(a, b *Ranked) int {
		if c := cmp.Compare(b.Result.TotalScore, a.Result.TotalScore); c != 0 {
			return c
		}
		return cmp.Compare(a.CandidateID, b.CandidateID)
	})

	results := &Results{JobID: jobID, Items: items}
	results.renumber()

	r.logger.Info("ranking completed",
		zap.String(logger.FieldJobID, jobID),
		zap.Int("candidates", results.Len()),
	)
	return results, nil
}
