// Package executor runs compiled action sequences against browser pages.
package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chriserin/stepwise/internal/config"
)

const defaultStrategyTimeout = 2 * time.Second

// Page is the part of a browser tab the executor drives.
type Page interface {
	Navigate(ctx context.Context, url string) error
	// Locate returns the first visible match of s, waiting until ctx is done.
	Locate(ctx context.Context, s config.Strategy) (Element, error)
	Content(ctx context.Context) (string, error)
	Close() error
}

type Element interface {
	Fill(ctx context.Context, value string) error
	Click(ctx context.Context) error
	Visible(ctx context.Context) (bool, error)
	Text(ctx context.Context) (string, error)
}

// ElementNotFoundError is returned when every strategy for an element failed.
type ElementNotFoundError struct {
	Element string
	Tried   []config.Strategy
}

func (e *ElementNotFoundError) Error() string {
	tried := make([]string, len(e.Tried))
	for i, s := range e.Tried {
		tried[i] = s.String()
	}
	return fmt.Sprintf("element %q not found (tried %s)", e.Element, strings.Join(tried, ", "))
}

// Resolver finds canonical elements on a page using the vocabulary's ordered
// strategy lists.
type Resolver struct {
	cfg     *config.Config
	timeout time.Duration
}

func NewResolver(cfg *config.Config) *Resolver {
	timeout := cfg.Execution.StrategyTimeout
	if timeout <= 0 {
		timeout = defaultStrategyTimeout
	}
	return &Resolver{cfg: cfg, timeout: timeout}
}

// Strategies returns the ordered strategies for name. Names outside the
// vocabulary get strategies derived from the name itself.
func (r *Resolver) Strategies(name string) []config.Strategy {
	if el, ok := r.cfg.Element(name); ok {
		return el.Strategies
	}
	if label, ok := strings.CutSuffix(name, " field"); ok {
		return []config.Strategy{
			{Kind: config.StrategyCSS, Pattern: fmt.Sprintf("input[placeholder*=%q i]", label)},
			{Kind: config.StrategyRole, Pattern: "textbox", Name: label},
		}
	}
	return []config.Strategy{
		{Kind: config.StrategyRole, Pattern: "button", Name: name},
		{Kind: config.StrategyRole, Pattern: "link", Name: name},
		{Kind: config.StrategyText, Pattern: name},
	}
}

// Resolve tries each strategy in order, each bounded by the strategy timeout,
// and returns the first element found.
func (r *Resolver) Resolve(ctx context.Context, page Page, name string) (Element, config.Strategy, error) {
	strategies := r.Strategies(name)
	for _, s := range strategies {
		sctx, cancel := context.WithTimeout(ctx, r.timeout)
		el, err := page.Locate(sctx, s)
		cancel()
		if err == nil {
			return el, s, nil
		}
		if ctx.Err() != nil {
			return nil, config.Strategy{}, ctx.Err()
		}
	}
	return nil, config.Strategy{}, &ElementNotFoundError{Element: name, Tried: strategies}
}
