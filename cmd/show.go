package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/chriserin/stepwise/internal/db"
	"github.com/chriserin/stepwise/internal/ui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the recorded actions of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunShow(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func RunShow(w io.Writer, rawID string) error {
	rawID = strings.TrimSpace(rawID)
	if rawID == "" {
		return fmt.Errorf("invalid run ID")
	}

	if err := requireWorkspace(); err != nil {
		return err
	}

	sqlDB, err := db.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	run, err := db.FindRun(sqlDB, rawID)
	if err != nil {
		return err
	}
	results, err := db.ActionResults(sqlDB, run.ID)
	if err != nil {
		return err
	}

	ui.ShowHeader(w, run.ID, run.PromptPath, run.Browser)
	ui.ShowStatus(w, run.Status, run.Duration())
	if run.Error != "" && len(results) == 0 {
		fmt.Fprintln(w, "error:   "+run.Error)
	}

	if len(results) > 0 {
		fmt.Fprintln(w)
	}
	for _, r := range results {
		detail := r.Detail
		if r.Error != "" {
			detail = fmt.Sprintf("[%s] %s", r.Tag, r.Error)
		}
		ui.ActionLine(w, r.Position, r.Status, r.Description, detail)
	}

	return nil
}
