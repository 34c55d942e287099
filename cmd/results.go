package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/profile"
	"github.com/spigell/resume-matcher/internal/store"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List or delete stored results for a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		results(cmd)
	},
}

func init() {
	rootCmd.AddCommand(resultsCmd)

	resultsCmd.Flags().String("job-id", "", "job identifier as printed by rank")
	resultsCmd.Flags().StringP("job", "J", "", "job description profile to derive the identifier from")
	resultsCmd.Flags().Bool("delete", false, "delete every stored result for the job")
}

func results(cmd *cobra.Command) {
	ctx := context.Background()
	log, config := setup()

	jobID, err := resolveJobID(cmd, config)
	if err != nil {
		log.Fatal("resolving job id", zap.Error(err))
	}
	log = log.With(zap.String(logger.FieldJobID, jobID))

	s, err := openPersistentStore(ctx, config, log)
	if err != nil {
		log.Fatal("opening store", zap.Error(err))
	}
	defer s.Close()

	if del, _ := cmd.Flags().GetBool("delete"); del {
		n, err := s.DeleteJob(ctx, jobID)
		if err != nil {
			log.Fatal("deleting results", zap.Error(err))
		}
		log.Info("results deleted", zap.Int("count", n))
		return
	}

	entries, err := s.List(ctx, jobID)
	if err != nil {
		log.Fatal("listing results", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(entries, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
}

func resolveJobID(cmd *cobra.Command, config *Config) (string, error) {
	if id, _ := cmd.Flags().GetString("job-id"); id != "" {
		return id, nil
	}
	path, _ := cmd.Flags().GetString("job")
	if path == "" {
		return "", fmt.Errorf("either --job-id or --job is required")
	}
	jd, err := profile.Load(path, config.Tokens)
	if err != nil {
		return "", err
	}
	return store.JobID(jd), nil
}
