package compiler

import "github.com/chriserin/stepwise/internal/action"

type Intent string

const (
	IntentDataDriven Intent = "data_driven"
	IntentNavigate   Intent = "navigate"
	IntentLogin      Intent = "login"
	IntentFillForm   Intent = "fill_form"
	IntentClick      Intent = "click_element"
	IntentVerify     Intent = "verify_element"
	IntentWait       Intent = "wait_action"
	IntentComplex    Intent = "complex_workflow"
	IntentUnknown    Intent = "unknown"
)

// Modifiers recorded on an IntentContext.
const (
	ModNavigates      = "navigates"
	ModDefaultURL     = "default-url"
	ModDefaultUser    = "default-username"
	ModDefaultPass    = "default-password"
	ModDefaultWait    = "default-duration"
	ModDefaultTarget  = "default-target"
	ModRecursionLimit = "recursion-limit"
)

// IntentContext is the classification of one piece of step text. Elements and
// Values are parallel for fill-style intents.
type IntentContext struct {
	Intent     Intent
	Text       string
	Elements   []string
	Values     []string
	Conditions []action.Condition
	Modifiers  []string
	Clauses    []IntentContext // complex_workflow only
	Depth      int
}

func (ic IntentContext) Has(modifier string) bool {
	for _, m := range ic.Modifiers {
		if m == modifier {
			return true
		}
	}
	return false
}
