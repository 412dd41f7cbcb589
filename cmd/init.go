package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chriserin/stepwise/internal/config"
	"github.com/chriserin/stepwise/internal/db"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize stepwise in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunInit(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func RunInit(w io.Writer) error {
	// prompts/ directory
	_, err := os.Stat(promptsDir)
	dirExists := err == nil
	if err := os.MkdirAll(promptsDir, 0o755); err != nil {
		return fmt.Errorf("creating %s directory: %w", promptsDir, err)
	}
	if dirExists {
		fmt.Fprintln(w, "prompts/ already exists")
	} else {
		fmt.Fprintln(w, "prompts/ created")
	}

	// database
	_, err = os.Stat(dbPath)
	dbExists := err == nil
	sqlDB, err := db.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	sqlDB.Close()
	if dbExists {
		fmt.Fprintln(w, dbPath+" already exists")
	} else {
		fmt.Fprintln(w, dbPath+" created")
	}

	// config
	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintln(w, configPath+" already exists")
	} else {
		if err := config.Default().Save(configPath); err != nil {
			return err
		}
		fmt.Fprintln(w, configPath+" created")
	}

	// gitignore
	msgs, err := ensureGitignore()
	if err != nil {
		return fmt.Errorf("updating .gitignore: %w", err)
	}
	for _, msg := range msgs {
		fmt.Fprintln(w, msg)
	}

	return nil
}

func ensureGitignore() ([]string, error) {
	entries := []string{dbPath, envFile}

	data, err := os.ReadFile(".gitignore")
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	created := os.IsNotExist(err)

	present := map[string]bool{}
	for _, line := range strings.Split(string(data), "\n") {
		present[strings.TrimSpace(line)] = true
	}

	content := string(data)
	var msgs []string
	if created {
		msgs = append(msgs, ".gitignore created")
	}
	for _, entry := range entries {
		if present[entry] {
			msgs = append(msgs, entry+" already in .gitignore")
			continue
		}
		if len(content) > 0 && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		content += entry + "\n"
		msgs = append(msgs, entry+" added to .gitignore")
	}

	if content != string(data) {
		if err := os.WriteFile(".gitignore", []byte(content), 0o644); err != nil {
			return nil, err
		}
	}
	return msgs, nil
}
