package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chriserin/stepwise/internal/action"
	"github.com/chriserin/stepwise/internal/config"
)

type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Failure tags.
const (
	TagNavigation = "navigation"
	TagNotFound   = "element-not-found"
	TagAssertion  = "assertion"
	TagTimeout    = "timeout"
	TagInteract   = "interaction"
	TagUnknown    = "unknown-action"
	TagPanic      = "panic"
)

var ErrAssertion = errors.New("assertion failed")

// ActionError identifies the action that stopped a sequence.
type ActionError struct {
	Index       int
	Description string
	Tag         string
	Err         error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action %d (%s) failed [%s]: %v", e.Index+1, e.Description, e.Tag, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one action.
type Result struct {
	Index    int
	Action   action.Action
	Status   Status
	Detail   string
	Err      *ActionError
	Duration time.Duration
}

// Executor performs single actions against one page.
type Executor struct {
	page     Page
	resolver *Resolver
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewExecutor(cfg *config.Config, page Page) *Executor {
	return &Executor{page: page, resolver: NewResolver(cfg), sleep: sleepContext}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Execute runs a and never panics; failures come back tagged in the Result.
func (e *Executor) Execute(ctx context.Context, index int, a action.Action) (res Result) {
	start := time.Now()
	res = Result{Index: index, Action: a}

	defer func() {
		if r := recover(); r != nil {
			res.Status = StatusFailed
			res.Err = &ActionError{Index: index, Description: a.Description, Tag: TagPanic, Err: fmt.Errorf("%v", r)}
		}
		res.Duration = time.Since(start)
	}()

	detail, tag, err := e.perform(ctx, a)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			tag = TagTimeout
		}
		res.Status = StatusFailed
		res.Err = &ActionError{Index: index, Description: a.Description, Tag: tag, Err: err}
		return res
	}
	res.Status = StatusPassed
	res.Detail = detail
	return res
}

func (e *Executor) perform(ctx context.Context, a action.Action) (string, string, error) {
	switch a.Kind {
	case action.KindNavigate:
		if err := e.page.Navigate(ctx, a.Target); err != nil {
			return "", TagNavigation, err
		}
		return "loaded " + a.Target, "", nil

	case action.KindWait:
		if err := e.sleep(ctx, time.Duration(a.TimeoutMs)*time.Millisecond); err != nil {
			return "", TagTimeout, err
		}
		return fmt.Sprintf("waited %dms", a.TimeoutMs), "", nil

	case action.KindFill:
		el, s, err := e.resolver.Resolve(ctx, e.page, a.Target)
		if err != nil {
			return "", TagNotFound, err
		}
		if err := el.Fill(ctx, a.Value); err != nil {
			return "", TagInteract, fmt.Errorf("filling %s: %w", a.Target, err)
		}
		return "filled via " + s.String(), "", nil

	case action.KindClick:
		el, s, err := e.resolver.Resolve(ctx, e.page, a.Target)
		if err != nil {
			return "", TagNotFound, err
		}
		if err := el.Click(ctx); err != nil {
			return "", TagInteract, fmt.Errorf("clicking %s: %w", a.Target, err)
		}
		return "clicked via " + s.String(), "", nil

	case action.KindAssert:
		return e.assert(ctx, a)
	}
	return "", TagUnknown, fmt.Errorf("unsupported action kind %q", a.Kind)
}

// wholePage is the assert target whose text is the entire document.
const wholePage = "page content"

func (e *Executor) assert(ctx context.Context, a action.Action) (string, string, error) {
	if a.Target == wholePage && a.Condition.Kind == "contains" {
		content, err := e.page.Content(ctx)
		if err != nil {
			return "", TagInteract, fmt.Errorf("reading page content: %w", err)
		}
		if !strings.Contains(content, a.Condition.Text) {
			return "", TagAssertion, fmt.Errorf("%w: page does not contain %q", ErrAssertion, a.Condition.Text)
		}
		return fmt.Sprintf("page contains %q", a.Condition.Text), "", nil
	}

	el, s, err := e.resolver.Resolve(ctx, e.page, a.Target)
	if err != nil {
		return "", TagNotFound, err
	}

	switch a.Condition.Kind {
	case "contains":
		text, err := el.Text(ctx)
		if err != nil {
			return "", TagInteract, fmt.Errorf("reading %s: %w", a.Target, err)
		}
		if !strings.Contains(text, a.Condition.Text) {
			return "", TagAssertion, fmt.Errorf("%w: %s does not contain %q (got %q)", ErrAssertion, a.Target, a.Condition.Text, truncate(text, 80))
		}
		return fmt.Sprintf("%s contains %q", a.Target, a.Condition.Text), "", nil

	default:
		visible, err := el.Visible(ctx)
		if err != nil {
			return "", TagInteract, fmt.Errorf("checking %s: %w", a.Target, err)
		}
		if !visible {
			return "", TagAssertion, fmt.Errorf("%w: %s is not visible", ErrAssertion, a.Target)
		}
		return a.Target + " visible via " + s.String(), "", nil
	}
}

func truncate(s string, n int) string {
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "…"
}
