package cmd

import (
	"fmt"
	"io"

	"github.com/chriserin/stepwise/internal/db"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show tracked prompts and run counts by status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunStatusReport(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func RunStatusReport(w io.Writer) error {
	if err := requireWorkspace(); err != nil {
		return err
	}

	sqlDB, err := db.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	var prompts int
	if err := sqlDB.QueryRow(`SELECT COUNT(*) FROM prompts`).Scan(&prompts); err != nil {
		return fmt.Errorf("counting prompts: %w", err)
	}
	var runs int
	if err := sqlDB.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&runs); err != nil {
		return fmt.Errorf("counting runs: %w", err)
	}

	fmt.Fprintf(w, "Prompts: %d\n", prompts)
	fmt.Fprintf(w, "Runs: %d\n", runs)

	if runs == 0 {
		return nil
	}

	counts, err := db.StatusCounts(sqlDB)
	if err != nil {
		return err
	}
	for _, c := range counts {
		fmt.Fprintf(w, "  %s: %d\n", c.Status, c.Count)
	}

	return nil
}
