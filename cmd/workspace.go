package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/chriserin/stepwise/internal/config"
)

const (
	promptsDir = "prompts"
	envFile    = ".env"
)

var (
	dbPath     = filepath.Join(promptsDir, "runs.db")
	configPath = filepath.Join(promptsDir, "config.yaml")
)

func requireWorkspace() error {
	if _, err := os.Stat(promptsDir); os.IsNotExist(err) {
		return fmt.Errorf("run `stepwise init` first")
	}
	return nil
}

// loadConfig reads prompts/config.yaml when present and applies the
// environment overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if _, err := os.Stat(configPath); err == nil {
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("checking %s: %w", configPath, err)
	}
	if err := config.LoadEnv(cfg, envFile); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verboseFlag {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// resolvePrompt accepts a path or a bare file name inside prompts/.
func resolvePrompt(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	candidates := []string{filepath.Join(promptsDir, name), filepath.Join(promptsDir, name+".txt")}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", fmt.Errorf("prompt %s not found", name)
}
