package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/chriserin/stepwise/internal/db"
	"github.com/chriserin/stepwise/internal/parser"
	"github.com/chriserin/stepwise/internal/ui"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Scan prompts/ for .txt prompts and register new ones",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunSync(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func RunSync(w io.Writer) error {
	if err := requireWorkspace(); err != nil {
		return err
	}

	sqlDB, err := db.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	matches, err := filepath.Glob(filepath.Join(promptsDir, "*.txt"))
	if err != nil {
		return fmt.Errorf("scanning prompts/: %w", err)
	}
	sort.Strings(matches)

	count := 0
	for _, path := range matches {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		p := parser.Parse(path, content)

		created, err := db.RegisterPrompt(sqlDB, path, p.Name)
		if err != nil {
			return err
		}
		if created {
			ui.NewLine(w, path)
		} else {
			ui.TrkLine(w, path)
		}
		count++
	}

	ui.SummaryLine(w, count)
	return nil
}
