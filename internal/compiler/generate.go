package compiler

import (
	"strconv"

	"github.com/chriserin/stepwise/internal/action"
)

const navigationSettleMs = 2000

// generate maps a classified context to its action template. Unknown intents
// and fill steps without fields produce nothing.
func (c *Compiler) generate(ic IntentContext) []action.Action {
	switch ic.Intent {
	case IntentDataDriven:
		return c.expander.Expand(ic.Text)

	case IntentNavigate:
		return []action.Action{action.Navigate(ic.Values[0])}

	case IntentLogin:
		return []action.Action{
			action.Fill(ic.Elements[0], ic.Values[0]),
			action.Fill(ic.Elements[1], ic.Values[1]),
			action.Click(loginButton),
			action.Wait(loginSettleMs),
		}

	case IntentFillForm:
		actions := make([]action.Action, 0, len(ic.Elements))
		for i, el := range ic.Elements {
			actions = append(actions, action.Fill(el, ic.Values[i]))
		}
		return actions

	case IntentClick:
		actions := []action.Action{action.Click(ic.Elements[0])}
		if ic.Has(ModNavigates) {
			actions = append(actions, action.Wait(navigationSettleMs).Describe("Wait for navigation"))
		}
		return actions

	case IntentVerify:
		return []action.Action{action.Assert(ic.Elements[0], ic.Conditions[0])}

	case IntentWait:
		ms, err := strconv.Atoi(ic.Values[0])
		if err != nil {
			ms = defaultWaitMs
		}
		return []action.Action{action.Wait(ms)}

	case IntentComplex:
		var actions []action.Action
		for _, clause := range ic.Clauses {
			actions = append(actions, c.generate(clause)...)
		}
		return actions
	}
	return nil
}
