package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/profile"
	"github.com/spigell/resume-matcher/internal/store"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one resume against one job description",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("resume", "r", "", "extracted resume profile (json or yaml)")
	scoreCmd.Flags().StringP("job", "J", "", "extracted job description profile (json or yaml)")
	scoreCmd.Flags().StringP("pair", "p", "", "file holding both profiles under resume and job_description")
	scoreCmd.Flags().BoolP("save", "s", false, "save the result into the configured store")
}

func score(cmd *cobra.Command) {
	ctx := context.Background()
	log, config := setup()

	runID := uuid.NewString()
	log = log.With(zap.String(logger.FieldRunID, runID))

	resume, jd, candidateID, err := loadScoreInput(cmd, config)
	if err != nil {
		log.Fatal("loading profiles", zap.Error(err))
	}

	scorer, err := newScorer(ctx, config, log)
	if err != nil {
		log.Fatal("creating a scorer", zap.Error(err))
	}

	result := scorer.Score(ctx, resume, jd)

	pretty, _ := json.MarshalIndent(result, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(pretty))

	if save, _ := cmd.Flags().GetBool("save"); save {
		if err := saveResult(ctx, config, log, store.Entry{
			JobID:       store.JobID(jd),
			CandidateID: candidateID,
			RunID:       runID,
			Result:      result,
		}); err != nil {
			log.Fatal("saving result", zap.Error(err))
		}
	}
}

func loadScoreInput(cmd *cobra.Command, config *Config) (*profile.ExtractedProfile, *profile.ExtractedProfile, string, error) {
	pairPath, _ := cmd.Flags().GetString("pair")
	if pairPath != "" {
		pair, err := profile.LoadPair(pairPath, config.Tokens)
		if err != nil {
			return nil, nil, "", err
		}
		return pair.Resume, pair.JobDescription, profile.CandidateID(pairPath), nil
	}

	resumePath, _ := cmd.Flags().GetString("resume")
	jobPath, _ := cmd.Flags().GetString("job")
	if resumePath == "" || jobPath == "" {
		return nil, nil, "", fmt.Errorf("either --pair or both --resume and --job are required")
	}

	resume, err := profile.Load(resumePath, config.Tokens)
	if err != nil {
		return nil, nil, "", fmt.Errorf("loading resume: %w", err)
	}
	jd, err := profile.Load(jobPath, config.Tokens)
	if err != nil {
		return nil, nil, "", fmt.Errorf("loading job description: %w", err)
	}
	return resume, jd, profile.CandidateID(resumePath), nil
}

var errVolatileStore = errors.New("the memory store does not outlive the command; set store.backend to sqlite or redis")

// openPersistentStore opens the configured store, refusing backends that
// lose everything once the process exits.
func openPersistentStore(ctx context.Context, config *Config, log *zap.Logger) (store.Store, error) {
	if !config.Store.Persistent() {
		return nil, errVolatileStore
	}
	return store.Open(ctx, config.Store, log)
}

// saveResult stores entries; log is expected to carry the run id already.
func saveResult(ctx context.Context, config *Config, log *zap.Logger, entries ...store.Entry) error {
	s, err := openPersistentStore(ctx, config, log)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	for _, e := range entries {
		if err := s.Put(ctx, e); err != nil {
			return err
		}
	}

	if len(entries) > 0 {
		log.Info("results saved",
			zap.String(logger.FieldJobID, entries[0].JobID),
			zap.Int("count", len(entries)),
		)
	}
	return nil
}
