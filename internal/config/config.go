// Package config resolves runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhisek/quizline/internal/session"
)

const appName = "quizline"

// Config holds all application configuration.
type Config struct {
	DBPath    string
	QuizDir   string
	LogLevel  string
	LogFormat string

	// LogFile is where logs go; "-" means stderr.
	LogFile string

	// QuestionSeconds is the default countdown of each question.
	QuestionSeconds int

	// Tick is the wall-clock length of one countdown unit.
	Tick time.Duration
}

// Load reads configuration from QUIZLINE_* environment variables with
// defaults. It loads a .env file if present but does not fail if missing.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	dataDir, err := xdgDir("XDG_DATA_HOME", ".local", "share")
	if err != nil {
		return nil, err
	}
	stateDir, err := xdgDir("XDG_STATE_HOME", ".local", "state")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBPath:          getEnv("QUIZLINE_DB", filepath.Join(dataDir, appName, appName+".db")),
		QuizDir:         getEnv("QUIZLINE_QUIZ_DIR", ""),
		LogLevel:        getEnv("QUIZLINE_LOG_LEVEL", "info"),
		LogFormat:       getEnv("QUIZLINE_LOG_FORMAT", "json"),
		LogFile:         getEnv("QUIZLINE_LOG_FILE", filepath.Join(stateDir, appName, appName+".log")),
		QuestionSeconds: getEnvInt("QUIZLINE_QUESTION_SECONDS", session.DefaultQuestionSeconds),
		Tick:            getEnvDuration("QUIZLINE_TICK", time.Second),
	}
	if cfg.QuestionSeconds <= 0 {
		return nil, fmt.Errorf("QUIZLINE_QUESTION_SECONDS must be positive, got %d", cfg.QuestionSeconds)
	}
	if cfg.Tick <= 0 {
		return nil, fmt.Errorf("QUIZLINE_TICK must be positive, got %s", cfg.Tick)
	}
	return cfg, nil
}

// xdgDir returns $env, or $HOME joined with fallback.
func xdgDir(env string, fallback ...string) (string, error) {
	if dir := os.Getenv(env); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
