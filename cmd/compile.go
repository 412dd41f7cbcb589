package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/chriserin/stepwise/internal/action"
	"github.com/chriserin/stepwise/internal/compiler"
	"github.com/chriserin/stepwise/internal/config"
	"github.com/chriserin/stepwise/internal/dataset"
	"github.com/chriserin/stepwise/internal/parser"
	"github.com/chriserin/stepwise/internal/ui"
	"github.com/spf13/cobra"
)

var formatFlag string

var compileCmd = &cobra.Command{
	Use:   "compile <prompt>",
	Short: "Print the actions a prompt compiles to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunCompile(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], formatFlag)
	},
}

func init() {
	compileCmd.Flags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text or json")
	rootCmd.AddCommand(compileCmd)
}

// compilePrompt reads and compiles the prompt at path. External datasets are
// resolved against the configured data directory.
func compilePrompt(cfg *config.Config, logger *slog.Logger, path string) (*parser.Prompt, action.Sequence, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, action.Sequence{}, fmt.Errorf("reading %s: %w", path, err)
	}
	p := parser.Parse(path, content)

	c := compiler.New(cfg,
		compiler.WithLogger(logger),
		compiler.WithDataSource(dataset.CSVSource{Dir: cfg.DataDir, Logger: logger}),
	)
	return p, c.CompilePrompt(p), nil
}

func RunCompile(w, logw io.Writer, name, format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}
	path, err := resolvePrompt(name)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	_, seq, err := compilePrompt(cfg, newLogger(logw), path)
	if err != nil {
		return err
	}

	if format == "json" {
		data, err := json.MarshalIndent(seq, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding actions: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	for i, a := range seq.Actions() {
		ui.StepLine(w, i, string(a.Kind), a.String(), a.Description)
	}
	return nil
}
