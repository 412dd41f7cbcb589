package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/chriserin/stepwise/internal/action"
	"github.com/chriserin/stepwise/internal/config"
	"github.com/chriserin/stepwise/internal/db"
	"github.com/chriserin/stepwise/internal/executor"
	"github.com/chriserin/stepwise/internal/ui"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var ErrRunFailed = errors.New("one or more browsers failed")

var (
	browserFlags []string
	headedFlag   bool
	installFlag  bool
)

// browserSessions opens browser pages for the run command.
type browserSessions interface {
	executor.SessionFactory
	Close() error
}

var openSessions = func(cfg *config.Config, install bool) browserSessions {
	pw := executor.NewPlaywright(cfg)
	pw.Install = install
	return pw
}

var runCmd = &cobra.Command{
	Use:   "run <prompt>",
	Short: "Compile a prompt and execute it in one or more browsers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunRun(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], RunOptions{
			Browsers: browserFlags,
			Headed:   headedFlag,
			Install:  installFlag,
		})
	},
}

func init() {
	runCmd.Flags().StringSliceVarP(&browserFlags, "browser", "b", nil, "Browsers to run in (chromium, firefox, webkit)")
	runCmd.Flags().BoolVar(&headedFlag, "headed", false, "Show the browser windows")
	runCmd.Flags().BoolVar(&installFlag, "install", false, "Install the playwright driver and browsers first")
	rootCmd.AddCommand(runCmd)
}

type RunOptions struct {
	Browsers []string
	Headed   bool
	Install  bool
}

func RunRun(ctx context.Context, w, logw io.Writer, name string, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := requireWorkspace(); err != nil {
		return err
	}
	path, err := resolvePrompt(name)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if opts.Headed {
		cfg.Execution.Headless = false
	}
	browsers := opts.Browsers
	if len(browsers) == 0 {
		browsers = cfg.Execution.Browsers
	}
	if len(browsers) == 0 {
		return fmt.Errorf("no browsers configured")
	}

	logger := newLogger(logw)
	p, seq, err := compilePrompt(cfg, logger, path)
	if err != nil {
		return err
	}

	sqlDB, err := db.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()
	if _, err := db.RegisterPrompt(sqlDB, path, p.Name); err != nil {
		return err
	}

	sessions := openSessions(cfg, opts.Install)
	defer sessions.Close()

	runner := executor.NewRunner(cfg, sessions, executor.WithRunnerLogger(logger))
	reports := runner.RunAll(ctx, seq, browsers)

	passed, failed := 0, 0
	for i, rep := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		run, results := toRecord(path, seq, rep)
		if err := db.InsertRun(sqlDB, run, results); err != nil {
			return err
		}
		printReport(w, run.ID, rep)
		if rep.Passed() {
			passed++
		} else {
			failed++
		}
	}

	fmt.Fprintln(w)
	ui.ResultSummary(w, passed, failed)
	if failed > 0 {
		return ErrRunFailed
	}
	return nil
}

func printReport(w io.Writer, runID string, rep executor.Report) {
	ui.ReportHeader(w, rep.Browser, string(rep.Status()), runID)
	if rep.Err != nil {
		fmt.Fprintf(w, "     %s\n", rep.Err)
		return
	}
	for _, res := range rep.Results {
		detail := res.Detail
		if res.Err != nil {
			detail = res.Err.Error()
		}
		ui.ActionLine(w, res.Index, string(res.Status), res.Action.Description, detail)
	}
}

func toRecord(path string, seq action.Sequence, rep executor.Report) (db.Run, []db.ActionResult) {
	run := db.Run{
		ID:         uuid.NewString(),
		PromptPath: path,
		Browser:    rep.Browser,
		Status:     string(rep.Status()),
		Actions:    seq.Len(),
		FailedAt:   -1,
		StartedAt:  rep.Started,
		FinishedAt: rep.Finished,
	}
	if rep.Err != nil {
		run.Error = rep.Err.Error()
	}
	if rep.Failure != nil {
		run.FailedAt = rep.Failure.Index
		run.Error = rep.Failure.Error()
	}

	results := make([]db.ActionResult, 0, len(rep.Results))
	for _, res := range rep.Results {
		ar := db.ActionResult{
			Position:    res.Index,
			Kind:        string(res.Action.Kind),
			Target:      res.Action.Target,
			Description: res.Action.Description,
			Status:      string(res.Status),
			Detail:      res.Detail,
			Duration:    res.Duration,
		}
		if res.Err != nil {
			ar.Tag = res.Err.Tag
			ar.Error = res.Err.Err.Error()
		}
		results = append(results, ar)
	}
	return run, results
}
