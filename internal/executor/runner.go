package executor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chriserin/stepwise/internal/action"
	"github.com/chriserin/stepwise/internal/config"
)

// SessionFactory opens one page in the named browser.
type SessionFactory interface {
	Open(ctx context.Context, browser string) (Page, error)
}

// Report is the outcome of one sequence in one browser.
type Report struct {
	Browser  string
	Results  []Result
	Failure  *ActionError // first failing action, nil when every action passed
	Skipped  int
	Err      error // session could not be opened
	Started  time.Time
	Finished time.Time
}

func (r Report) Passed() bool {
	return r.Err == nil && r.Failure == nil
}

func (r Report) Status() Status {
	if r.Passed() {
		return StatusPassed
	}
	return StatusFailed
}

type Runner struct {
	cfg     *config.Config
	factory SessionFactory
	logger  *slog.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

type RunnerOption func(*Runner)

func WithRunnerLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithSleep replaces the wait implementation.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) RunnerOption {
	return func(r *Runner) { r.sleep = fn }
}

func NewRunner(cfg *config.Config, factory SessionFactory, opts ...RunnerOption) *Runner {
	r := &Runner{cfg: cfg, factory: factory, sleep: sleepContext}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Run executes seq on page in order. The first failure stops the sequence and
// the remaining actions are reported as skipped.
func (r *Runner) Run(ctx context.Context, browser string, page Page, seq action.Sequence) Report {
	rep := Report{Browser: browser, Started: time.Now()}
	ex := NewExecutor(r.cfg, page)
	ex.sleep = r.sleep
	logger := r.logger.With(slog.String("browser", browser))

	actions := seq.Actions()
	for i, a := range actions {
		if rep.Failure != nil {
			rep.Results = append(rep.Results, Result{Index: i, Action: a, Status: StatusSkipped})
			rep.Skipped++
			continue
		}

		actx, cancel := r.actionContext(ctx)
		res := ex.Execute(actx, i, a)
		cancel()

		rep.Results = append(rep.Results, res)
		if res.Status == StatusFailed {
			rep.Failure = res.Err
			logger.Warn("action failed", slog.Int("index", i+1), slog.String("action", a.Description),
				slog.String("tag", res.Err.Tag), slog.Any("err", res.Err.Err))
			continue
		}
		logger.Debug("action passed", slog.Int("index", i+1), slog.String("action", a.Description), slog.String("detail", res.Detail))
	}

	rep.Finished = time.Now()
	return rep
}

func (r *Runner) actionContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if t := r.cfg.Execution.ActionTimeout; t > 0 {
		return context.WithTimeout(ctx, t)
	}
	return context.WithCancel(ctx)
}

// RunAll executes seq once per browser, in parallel. A browser that fails to
// open or fails an action does not affect the others. Reports are returned in
// browser order.
func (r *Runner) RunAll(ctx context.Context, seq action.Sequence, browsers []string) []Report {
	reports := make([]Report, len(browsers))

	var g errgroup.Group
	if n := r.cfg.Execution.Parallel; n > 0 {
		g.SetLimit(n)
	}
	for i, browser := range browsers {
		g.Go(func() error {
			reports[i] = r.runSession(ctx, browser, seq)
			return nil
		})
	}
	_ = g.Wait()

	return reports
}

func (r *Runner) runSession(ctx context.Context, browser string, seq action.Sequence) (rep Report) {
	defer func() {
		if p := recover(); p != nil {
			rep = Report{Browser: browser, Err: fmt.Errorf("session panic: %v", p), Finished: time.Now()}
		}
	}()

	page, err := r.factory.Open(ctx, browser)
	if err != nil {
		r.logger.Error("opening browser", slog.String("browser", browser), slog.Any("err", err))
		now := time.Now()
		return Report{Browser: browser, Err: fmt.Errorf("opening %s: %w", browser, err), Started: now, Finished: now}
	}
	defer func() {
		if err := page.Close(); err != nil {
			r.logger.Warn("closing browser", slog.String("browser", browser), slog.Any("err", err))
		}
	}()

	return r.Run(ctx, browser, page, seq)
}
