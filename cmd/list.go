package cmd

import (
	"fmt"
	"io"

	"github.com/chriserin/stepwise/internal/db"
	"github.com/chriserin/stepwise/internal/ui"
	"github.com/spf13/cobra"
)

var statusFlag string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunList(cmd.OutOrStdout(), statusFlag)
	},
}

func init() {
	listCmd.Flags().StringVar(&statusFlag, "status", "", "Filter by status (passed, failed)")
	rootCmd.AddCommand(listCmd)
}

func RunList(w io.Writer, statusFilter string) error {
	if err := requireWorkspace(); err != nil {
		return err
	}

	sqlDB, err := db.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	runs, err := db.ListRuns(sqlDB, statusFilter)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return nil
	}

	browserWidth := 0
	for _, r := range runs {
		if len(r.Browser) > browserWidth {
			browserWidth = len(r.Browser)
		}
	}

	for _, r := range runs {
		ui.RunRow(w, r.ID, r.Browser, r.Status, r.PromptPath, r.StartedAt, browserWidth)
	}

	return nil
}
