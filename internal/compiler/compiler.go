// Package compiler turns natural-language test steps into ordered browser
// actions.
//
// Compilation is deterministic: a body is segmented into step units, each unit
// is classified by a fixed precedence table, its entities are extracted with
// documented defaults and an action template is instantiated. A unit that
// produces nothing becomes a single one-second wait, so non-empty input never
// compiles to an empty sequence.
package compiler

import (
	"log/slog"

	"github.com/chriserin/stepwise/internal/action"
	"github.com/chriserin/stepwise/internal/config"
	"github.com/chriserin/stepwise/internal/parser"
)

const (
	fallbackWaitMs      = 1000
	FallbackDescription = "unclassified step"
)

// Step is the compiled form of one step unit.
type Step struct {
	Unit     parser.StepUnit
	Context  IntentContext
	Actions  []action.Action
	Fallback bool // Actions is the unclassified-step wait
}

type Compiler struct {
	cfg      *config.Config
	logger   *slog.Logger
	source   DataSource
	expander *Expander
}

type Option func(*Compiler)

func WithDataSource(ds DataSource) Option {
	return func(c *Compiler) { c.source = ds }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) { c.logger = l }
}

func New(cfg *config.Config, opts ...Option) *Compiler {
	c := &Compiler{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.expander = NewExpander(cfg, c.source, c.logger)
	return c
}

// Compile returns the flattened action sequence for body.
func (c *Compiler) Compile(body string) action.Sequence {
	steps := c.Plan(body)
	if len(steps) == 0 {
		return action.NewSequence(action.Navigate(c.cfg.BaseURL).Describe("Navigate to base URL (empty prompt)"))
	}
	var actions []action.Action
	for _, s := range steps {
		actions = append(actions, s.Actions...)
	}
	return action.NewSequence(actions...)
}

// CompilePrompt compiles a parsed prompt's body.
func (c *Compiler) CompilePrompt(p *parser.Prompt) action.Sequence {
	return c.Compile(p.Body)
}

// Plan compiles body step by step. A unit whose block carries a dataset
// marker is classified on the whole block, so labels on unnumbered lines below
// it still reach the expander.
func (c *Compiler) Plan(body string) []Step {
	units := parser.Segment(body)
	if len(units) == 0 {
		return nil
	}

	steps := make([]Step, 0, len(units))
	for _, u := range units {
		text := u.Text
		if hasDatasetMarker(u.Block) {
			text = u.Block
		}
		ic := Classify(c.cfg, text)
		if ic.Intent != IntentComplex && ic.Intent != IntentDataDriven && compoundWords.MatchString(text) {
			c.logger.Debug("compound step kept as one intent", slog.Int("step", u.Index+1),
				slog.String("intent", string(ic.Intent)), slog.Any("clauses", splitClauses(text)))
		}
		step := Step{Unit: u, Context: ic, Actions: c.generate(ic)}
		if len(step.Actions) == 0 {
			step.Actions = []action.Action{action.Wait(fallbackWaitMs).Describe(FallbackDescription)}
			step.Fallback = true
			c.logger.Debug("unclassified step", slog.Int("step", u.Index+1), slog.String("intent", string(ic.Intent)), slog.String("text", u.Text))
		} else {
			c.logger.Debug("compiled step", slog.Int("step", u.Index+1), slog.String("intent", string(ic.Intent)), slog.Int("actions", len(step.Actions)))
		}
		steps = append(steps, step)
	}
	return steps
}
