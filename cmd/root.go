package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/ai/gemini"
	"github.com/spigell/resume-matcher/internal/filtering"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/profile"
	"github.com/spigell/resume-matcher/internal/scoring"
	"github.com/spigell/resume-matcher/internal/store"
)

const (
	app = "resume-matcher"
)

type Config struct {
	Similarity *SimilarityConfig       `mapstructure:"similarity"`
	Fuzzy      *FuzzyConfig            `mapstructure:"fuzzy"`
	Weights    *scoring.Weights        `mapstructure:"weights"`
	Tokens     profile.TokenizeOptions `mapstructure:"tokens"`
	Filters    *filtering.Config       `mapstructure:"filters"`
	Store      *store.Config           `mapstructure:"store"`
	Rank       *RankConfig             `mapstructure:"rank"`
}

type SimilarityConfig struct {
	Provider  string         `mapstructure:"provider"`
	CacheSize int            `mapstructure:"cache-size"`
	Gemini    *gemini.Config `mapstructure:"gemini"`
}

type FuzzyConfig struct {
	Algorithm string `mapstructure:"algorithm"`
}

type RankConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-matcher scores resumes against job descriptions and ranks candidates",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("similarity.gemini.api-key-file", "RESUME_MATCHER_GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding RESUME_MATCHER_GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	viper.SetDefault("similarity.provider", providerLexical)
	viper.SetDefault("fuzzy.algorithm", "levenshtein")
	viper.SetDefault("store.backend", store.BackendSQLite)
	viper.SetDefault("store.sqlite.path", store.DefaultSQLitePath())
	viper.SetDefault("rank.concurrency", 4)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	// The default config file is optional; an explicit one must parse.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}
	if config == nil {
		config = &Config{}
	}

	return config, nil
}

// setup builds the logger and decoded config shared by every command.
func setup() (*zap.Logger, *Config) {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	return l, config
}
