// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the bookscan CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/bookscan/internal/history"
	"github.com/pdiddy/bookscan/internal/logger"
	"github.com/pdiddy/bookscan/internal/solver"
	"github.com/pdiddy/bookscan/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// configErr holds the error from reading an explicit --config file.
var configErr error

// rootCmd is the base command for the bookscan CLI.
var rootCmd = &cobra.Command{
	Use:   "bookscan",
	Short: "Plan library signups and book scans within a day budget",
	Long: `bookscan reads book scanning instances (books with scores, libraries with
signup times and daily scan capacity, a horizon in days), builds a greedy
signup and scan plan, and writes it in the submission format.

Use solve for individual files, batch for a whole input directory, score to
check a submission, compare to try every strategy, and history to inspect
past runs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./bookscan.yaml or ~/.config/bookscan/bookscan.yaml)")
	rootCmd.PersistentFlags().String("strategy", "", "signup strategy: throughput, score, or signup")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: json or console")

	mustBind("solver.strategy", rootCmd.PersistentFlags().Lookup("strategy"))
	mustBind("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	mustBind("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bookscan")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bookscan"))
		}
	}

	viper.SetEnvPrefix("BOOKSCAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Keys must be known to viper for AutomaticEnv to reach them on Unmarshal.
	var defaults types.Config
	defaults.SetDefaults()
	viper.SetDefault("solver.strategy", string(defaults.Solver.Strategy))
	viper.SetDefault("batch.input_dir", defaults.Batch.InputDir)
	viper.SetDefault("batch.output_dir", defaults.Batch.OutputDir)
	viper.SetDefault("batch.output_prefix", defaults.Batch.OutputPrefix)
	viper.SetDefault("batch.workers", defaults.Batch.Workers)
	viper.SetDefault("batch.skip_existing", false)
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.dir", defaults.History.Dir)
	viper.SetDefault("history.max_results", defaults.History.MaxResults)
	viper.SetDefault("metrics.textfile", "")
	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.format", defaults.Log.Format)

	err := viper.ReadInConfig()
	switch {
	case err == nil:
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	case cfgFile != "":
		configErr = fmt.Errorf("reading config %s: %w", cfgFile, err)
	}
}

// mustBind binds a viper key to a flag. BindPFlag only fails on a nil
// flag, which is a programming error.
func mustBind(key string, f *pflag.Flag) {
	if err := viper.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("binding flag for %s: %v", key, err))
	}
}

// env is the state shared by every command run: the resolved
// configuration and the base logger.
type env struct {
	cfg types.Config
	log zerolog.Logger
}

// setup binds the command-local flags named in flags (viper key to flag
// name), resolves the configuration and builds the logger.
func setup(cmd *cobra.Command, flags map[string]string) (*env, error) {
	if configErr != nil {
		return nil, configErr
	}
	for key, name := range flags {
		if f := cmd.Flags().Lookup(name); f != nil {
			mustBind(key, f)
		}
	}

	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log, os.Stderr)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log}, nil
}

// scheduler builds the solver for the configured strategy.
func (e *env) scheduler(strategy types.Strategy) (*solver.Scheduler, error) {
	return solver.New(strategy, solver.WithLogger(logger.Component(e.log, "solver")))
}

// openHistory opens the run history store, or returns nil when history is
// disabled.
func (e *env) openHistory() (*history.Store, error) {
	if !e.cfg.History.Enabled {
		return nil, nil
	}
	return history.NewStore(e.cfg.History)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
