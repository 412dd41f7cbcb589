// Package action defines the executable browser actions produced by the compiler.
package action

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Kind string

const (
	KindNavigate Kind = "navigate"
	KindFill     Kind = "fill"
	KindClick    Kind = "click"
	KindWait     Kind = "wait"
	KindAssert   Kind = "assert"
)

// Condition is the check an Assert action performs on its element.
type Condition struct {
	Kind string // "visible" or "contains"
	Text string // contains only
}

var Visible = Condition{Kind: "visible"}

func Contains(text string) Condition {
	return Condition{Kind: "contains", Text: text}
}

// ParseCondition reads the `visible` / `contains:"text"` form. Anything else
// is treated as visible.
func ParseCondition(s string) Condition {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "contains:"); ok {
		if unq, err := strconv.Unquote(rest); err == nil {
			return Contains(unq)
		}
		return Contains(strings.Trim(rest, `"'`))
	}
	return Visible
}

func (c Condition) String() string {
	if c.Kind == "contains" {
		return "contains:" + strconv.Quote(c.Text)
	}
	return "visible"
}

func (c Condition) IsZero() bool {
	return c.Kind == ""
}

// Action is one step of an ActionSequence. Values are built with the
// constructors below and not modified afterwards.
type Action struct {
	Kind        Kind
	Target      string // url for navigate, element name otherwise
	Value       string
	Condition   Condition
	TimeoutMs   int // wait duration
	Description string
}

func Navigate(url string) Action {
	return Action{Kind: KindNavigate, Target: url, Description: "Navigate to " + url}
}

func Fill(element, value string) Action {
	return Action{Kind: KindFill, Target: element, Value: value, Description: fmt.Sprintf("Fill %s with %q", element, value)}
}

func Click(element string) Action {
	return Action{Kind: KindClick, Target: element, Description: "Click " + element}
}

func Wait(ms int) Action {
	return Action{Kind: KindWait, TimeoutMs: ms, Description: fmt.Sprintf("Wait %dms", ms)}
}

func Assert(element string, cond Condition) Action {
	return Action{Kind: KindAssert, Target: element, Condition: cond, Description: fmt.Sprintf("Assert %s %s", element, cond)}
}

// Describe returns a copy of a with its description replaced.
func (a Action) Describe(desc string) Action {
	a.Description = desc
	return a
}

func (a Action) String() string {
	switch a.Kind {
	case KindNavigate:
		return fmt.Sprintf("Navigate(%s)", a.Target)
	case KindFill:
		return fmt.Sprintf("Fill(%s=%s)", a.Target, a.Value)
	case KindClick:
		return fmt.Sprintf("Click(%s)", a.Target)
	case KindWait:
		return fmt.Sprintf("Wait(%d)", a.TimeoutMs)
	case KindAssert:
		return fmt.Sprintf("Assert(%s, %s)", a.Target, a.Condition)
	}
	return string(a.Kind)
}

type wireAction struct {
	Kind        Kind   `json:"kind"`
	Target      string `json:"target,omitempty"`
	Value       string `json:"value,omitempty"`
	Condition   string `json:"condition,omitempty"`
	TimeoutMs   int    `json:"timeoutMs,omitempty"`
	Description string `json:"description"`
}

func (a Action) MarshalJSON() ([]byte, error) {
	w := wireAction{
		Kind:        a.Kind,
		Target:      a.Target,
		Value:       a.Value,
		TimeoutMs:   a.TimeoutMs,
		Description: a.Description,
	}
	if !a.Condition.IsZero() {
		w.Condition = a.Condition.String()
	}
	return json.Marshal(w)
}

func (a *Action) UnmarshalJSON(data []byte) error {
	var w wireAction
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*a = Action{
		Kind:        w.Kind,
		Target:      w.Target,
		Value:       w.Value,
		TimeoutMs:   w.TimeoutMs,
		Description: w.Description,
	}
	if w.Condition != "" {
		a.Condition = ParseCondition(w.Condition)
	}
	return nil
}
