package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizline/internal/bank"
	"github.com/abhisek/quizline/internal/config"
	"github.com/abhisek/quizline/internal/logger"
	"github.com/abhisek/quizline/internal/store"
)

var (
	cfg      *config.Config
	log      zerolog.Logger
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "quizline",
	Short: "Interactive quizzes in the terminal",
	Long: "Quizline runs timed matching, sequencing, sorting and multiple choice quizzes " +
		"in the terminal and keeps your scores.",
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return closeLog() },
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZLINE_DB env var)")
	rootCmd.PersistentFlags().String("quiz-dir", "", "Directory of extra quiz bank files (overrides QUIZLINE_QUIZ_DIR)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", `Log file, "-" for stderr (overrides QUIZLINE_LOG_FILE)`)

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(authorCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration, applies flag overrides and opens the log.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	flags := cmd.Flags()
	if v, _ := flags.GetString("db"); v != "" {
		c.DBPath = v
	}
	if v, _ := flags.GetString("quiz-dir"); v != "" {
		c.QuizDir = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		c.LogLevel = v
	}
	if v, _ := flags.GetString("log-file"); v != "" {
		c.LogFile = v
	}

	w, closer, err := logger.Open(c.LogFile)
	if err != nil {
		return err
	}
	cfg = c
	closeLog = closer
	log = logger.Setup(c.LogLevel, c.LogFormat, w)
	log.Debug().Str("command", cmd.CommandPath()).Str("db", c.DBPath).Msg("starting")
	return nil
}

// loadBank returns the built-in quizzes plus those in the configured directory.
func loadBank() (*bank.Bank, error) {
	b, err := bank.Load(cfg.QuizDir)
	if err != nil {
		return nil, fmt.Errorf("load quiz bank: %w", err)
	}
	return b, nil
}

// openStore opens the progress database, creating its directory.
func openStore() (*store.Store, error) {
	if err := store.EnsureDir(cfg.DBPath); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}
