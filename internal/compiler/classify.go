package compiler

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/chriserin/stepwise/internal/action"
	"github.com/chriserin/stepwise/internal/config"
	"github.com/chriserin/stepwise/internal/dataset"
)

const (
	// maxClauseDepth bounds complex_workflow decomposition.
	maxClauseDepth = 2
	// compoundLength is the rune count above which a step counts as compound.
	compoundLength = 160
)

var (
	csvToken        = regexp.MustCompile(`(?i)\b[\w.-]+\.csv\b`)
	tripleLabels    = []*regexp.Regexp{regexp.MustCompile(`(?i)\busername\s*:`), regexp.MustCompile(`(?i)\bpassword\s*:`), regexp.MustCompile(`(?i)\bexpected\s*:`)}
	navigateWords   = regexp.MustCompile(`(?i)\b(navigate|open|go to|visit)\b`)
	loginWords      = regexp.MustCompile(`(?i)\b(login|log in|sign in|signin|authenticate|credentials?|username|password)\b`)
	fillWords       = regexp.MustCompile(`(?i)\b(enter|input|type|fill|provide)\b`)
	clickWords      = regexp.MustCompile(`(?i)\b(click|press|select|choose|tap)\b`)
	verifyWords     = regexp.MustCompile(`(?i)\b(verify|check|confirm|validate|assert)\b`)
	waitWords       = regexp.MustCompile(`(?i)\b(wait|pause|delay)\b`)
	compoundWords   = regexp.MustCompile(`(?i)\s(and|then)\s`)
	clauseSeparator = regexp.MustCompile(`(?i)\s*,?\s*\b(?:and then|and|then)\b\s*`)
)

// rule is one row of the precedence table. Rules are tried in order and the
// first whose match returns true produces the IntentContext. The table is
// filled in init because complex recurses back into it.
type rule struct {
	intent  Intent
	match   func(text string) bool
	extract func(c *classifier, text string, depth int) IntentContext
}

var rules []rule

func init() {
	rules = []rule{
		{IntentDataDriven, hasDatasetMarker, (*classifier).dataDriven},
		{IntentNavigate, navigateWords.MatchString, (*classifier).navigate},
		{IntentLogin, loginWords.MatchString, (*classifier).login},
		{IntentFillForm, fillWords.MatchString, (*classifier).fillForm},
		{IntentClick, clickWords.MatchString, (*classifier).click},
		{IntentVerify, verifyWords.MatchString, (*classifier).verify},
		{IntentWait, waitWords.MatchString, (*classifier).wait},
		{IntentComplex, isCompound, (*classifier).complex},
	}
}

// Precedence lists intents in the order they are tried.
func Precedence() []Intent {
	out := make([]Intent, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.intent)
	}
	return append(out, IntentUnknown)
}

type classifier struct {
	cfg *config.Config
}

// Classify assigns exactly one intent to text and extracts its entities.
func Classify(cfg *config.Config, text string) IntentContext {
	c := &classifier{cfg: cfg}
	return c.classify(strings.TrimSpace(text), 0)
}

func (c *classifier) classify(text string, depth int) IntentContext {
	for _, r := range rules {
		if r.match(text) {
			ic := r.extract(c, text, depth)
			if ic.Intent == "" {
				ic.Intent = r.intent
			}
			ic.Text = text
			ic.Depth = depth
			return ic
		}
	}
	return IntentContext{Intent: IntentUnknown, Text: text, Depth: depth}
}

func hasDatasetMarker(text string) bool {
	if csvToken.MatchString(text) {
		return true
	}
	for _, re := range tripleLabels {
		if !re.MatchString(text) {
			return false
		}
	}
	return true
}

func isCompound(text string) bool {
	return compoundWords.MatchString(text) || utf8.RuneCountInString(text) > compoundLength
}

func (c *classifier) dataDriven(text string, _ int) IntentContext {
	source := dataset.SourceInline
	if name := csvToken.FindString(text); name != "" {
		source = dataset.External(name)
	}
	return IntentContext{Modifiers: []string{source}}
}

func (c *classifier) navigate(text string, _ int) IntentContext {
	url, found := extractURL(c.cfg, text)
	ic := IntentContext{Values: []string{url}}
	if !found {
		ic.Modifiers = append(ic.Modifiers, ModDefaultURL)
	}
	return ic
}

func (c *classifier) login(text string, _ int) IntentContext {
	user, pass, userFound, passFound := extractCredentials(c.cfg, text)
	ic := IntentContext{
		Elements: []string{usernameField, passwordField},
		Values:   []string{user, pass},
	}
	if !userFound {
		ic.Modifiers = append(ic.Modifiers, ModDefaultUser)
	}
	if !passFound {
		ic.Modifiers = append(ic.Modifiers, ModDefaultPass)
	}
	return ic
}

func (c *classifier) fillForm(text string, _ int) IntentContext {
	var ic IntentContext
	for _, f := range extractFields(c.cfg, text) {
		ic.Elements = append(ic.Elements, f.Element)
		ic.Values = append(ic.Values, f.Value)
	}
	return ic
}

func (c *classifier) click(text string, _ int) IntentContext {
	name, navigates, found := extractClickTarget(c.cfg, text)
	ic := IntentContext{Elements: []string{name}}
	if navigates {
		ic.Modifiers = append(ic.Modifiers, ModNavigates)
	}
	if !found {
		ic.Modifiers = append(ic.Modifiers, ModDefaultTarget)
	}
	return ic
}

func (c *classifier) verify(text string, _ int) IntentContext {
	name, cond, found := extractVerification(c.cfg, text)
	ic := IntentContext{Elements: []string{name}, Conditions: []action.Condition{cond}}
	if !found {
		ic.Modifiers = append(ic.Modifiers, ModDefaultTarget)
	}
	return ic
}

func (c *classifier) wait(text string, _ int) IntentContext {
	ms, found := extractDuration(text)
	ic := IntentContext{Values: []string{strconv.Itoa(ms)}}
	if !found {
		ic.Modifiers = append(ic.Modifiers, ModDefaultWait)
	}
	return ic
}

// complex splits text into clauses and classifies each one level deeper.
// Past maxClauseDepth the text is left unclassified.
func (c *classifier) complex(text string, depth int) IntentContext {
	if depth >= maxClauseDepth {
		return IntentContext{Intent: IntentUnknown, Modifiers: []string{ModRecursionLimit}}
	}
	var ic IntentContext
	for _, clause := range splitClauses(text) {
		ic.Clauses = append(ic.Clauses, c.classify(clause, depth+1))
	}
	return ic
}

func splitClauses(text string) []string {
	var clauses []string
	for _, part := range clauseSeparator.Split(text, -1) {
		part = strings.Trim(strings.TrimSpace(part), ",.;")
		if part != "" {
			clauses = append(clauses, part)
		}
	}
	return clauses
}
