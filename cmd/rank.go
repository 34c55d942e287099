package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/filtering"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/profile"
	"github.com/spigell/resume-matcher/internal/ranking"
	"github.com/spigell/resume-matcher/internal/store"
)

const (
	PromptSave                = "Save results"
	PromptExit                = "Exit"
	PromptReport              = "Report"
	PromptResultsToFile       = "Dump results to file"
	PromptAppendToExcludeFile = "Append all candidates to exclude file"
)

var errExit = errors.New("exit requested")

var rankCmd = &cobra.Command{
	Use:   "rank RESUME...",
	Short: "Rank resumes against one job description",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rank(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringP("job", "J", "", "extracted job description profile (json or yaml)")
	rankCmd.Flags().BoolP("auto-approve", "y", false, "save results without asking for confirmation")
	rankCmd.Flags().StringP("exclude-file", "e", "", "file with candidates to exclude. Default is unset.")
	rankCmd.Flags().Float64("minimum-score", 0, "drop candidates scoring below this total")
	rankCmd.Flags().Int("top", 0, "keep only the best N candidates")
	rankCmd.Flags().Int("concurrency", 0, "number of candidates scored in parallel")

	viper.BindPFlag("filters.exclude-file", rankCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("filters.minimum-score", rankCmd.Flags().Lookup("minimum-score"))
	viper.BindPFlag("filters.top", rankCmd.Flags().Lookup("top"))
	viper.BindPFlag("rank.concurrency", rankCmd.Flags().Lookup("concurrency"))
}

func rank(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	log, config := setup()

	runID := uuid.NewString()
	log = log.With(zap.String(logger.FieldRunID, runID))

	jobPath, _ := cmd.Flags().GetString("job")
	if jobPath == "" {
		log.Fatal("--job is required")
	}
	jd, err := profile.Load(jobPath, config.Tokens)
	if err != nil {
		log.Fatal("loading job description", zap.String("path", jobPath), zap.Error(err))
	}
	jobID := store.JobID(jd)

	candidates := make([]ranking.Candidate, 0, len(args))
	for _, path := range args {
		p, err := profile.Load(path, config.Tokens)
		if err != nil {
			log.Fatal("loading resume", zap.String("path", path), zap.Error(err))
		}
		candidates = append(candidates, ranking.Candidate{ID: profile.CandidateID(path), Profile: p})
	}

	log.Info("starting the ranking", zap.String(logger.FieldJobID, jobID), zap.Int("candidates", len(candidates)), zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	log.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	scorer, err := newScorer(ctx, config, log)
	if err != nil {
		log.Fatal("creating a scorer", zap.Error(err))
	}

	concurrency := 0
	if config.Rank != nil {
		concurrency = config.Rank.Concurrency
	}

	results, err := ranking.New(scorer, concurrency, log).Rank(ctx, jobID, jd, candidates)
	if err != nil {
		log.Fatal("ranking failed", zap.Error(err))
	}

	steps := filtering.Default()
	results, err = filtering.Run(ctx, config.Filters, filtering.Deps{Logger: log}, steps, results)
	if err != nil {
		log.Fatal("filtering failed", zap.Error(err))
	}
	for _, status := range filtering.Describe(steps) {
		log.Debug("filter status", zap.String("name", status.Name), zap.Bool("enabled", status.Enabled), zap.Any("details", status.Details))
	}

	if results.Len() == 0 {
		log.Info("exiting", zap.String("reason", "no candidates left after filters"))
		return
	}

	if autoApprove, _ := cmd.Flags().GetBool("auto-approve"); autoApprove {
		if err := approve(ctx, log, config, runID, results); err != nil {
			log.Fatal("exiting", zap.Error(err))
		}
		return
	}

	for {
		prompt := promptui.Select{
			Label: fmt.Sprintf("%d candidates ranked. Proceed?", results.Len()),
			Items: menuItems(config),
		}
		_, action, err := prompt.Run()
		if err != nil {
			log.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(ctx, action, log, config, runID, results); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			log.Fatal("exiting", zap.Error(err))
		}
	}
}

// approve saves the results without asking, as --auto-approve does.
func approve(ctx context.Context, log *zap.Logger, config *Config, runID string, results *ranking.Results) error {
	err := handleAction(ctx, PromptSave, log, config, runID, results)
	if errors.Is(err, errExit) {
		return nil
	}
	return err
}

func menuItems(config *Config) []string {
	items := []string{PromptSave, PromptReport, PromptResultsToFile}
	if excludeFile(config) != "" {
		items = append(items, PromptAppendToExcludeFile)
	}
	return append(items, PromptExit)
}

func excludeFile(config *Config) string {
	if config == nil || config.Filters == nil {
		return ""
	}
	return config.Filters.ExcludeFile
}

func handleAction(ctx context.Context, action string, log *zap.Logger, config *Config, runID string, results *ranking.Results) error {
	switch action {
	case PromptSave:
		entries := make([]store.Entry, 0, results.Len())
		now := time.Now()
		for _, item := range results.Items {
			entries = append(entries, store.Entry{
				JobID:       results.JobID,
				CandidateID: item.CandidateID,
				RunID:       runID,
				Result:      item.Result,
				StoredAt:    now,
			})
		}
		if err := saveResult(ctx, config, log, entries...); err != nil {
			return err
		}
		return errExit
	case PromptExit:
		log.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptReport:
		pretty, _ := json.MarshalIndent(results.Report(), "", "  ")
		log.Info(string(pretty), zap.Int("candidates count", results.Len()))
		return nil
	case PromptResultsToFile:
		filename, err := results.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		log.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		path := excludeFile(config)
		excluded, err := ranking.LoadExcluded(path)
		if err != nil {
			return err
		}
		excluded.Append(results.ToExcluded(time.Now()))
		if err := excluded.ToFile(path); err != nil {
			return err
		}
		log.Info("appended to exclude file", zap.String("filename", path), zap.Int("count", results.Len()))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}
