package compiler

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/chriserin/stepwise/internal/action"
	"github.com/chriserin/stepwise/internal/config"
	"github.com/chriserin/stepwise/internal/dataset"
)

const (
	loginSettleMs = 3000
	betweenRowsMs = 1000
	logoutSettle  = 2000
)

var (
	inlineTriple = regexp.MustCompile(`(?i)\busername\s*:\s*([^,\n]+?)\s*,\s*password\s*:\s*([^,\n]*?)\s*,\s*expected\s*:\s*([^,;\n]+)`)
	blockLabel   = regexp.MustCompile(`(?i)\b(username|password|expected)\s*:\s*([^,;\n]*)`)
	logoutWords  = regexp.MustCompile(`(?i)\b(logout|log out|sign out|sign-out)\b`)
)

// DataSource resolves an external dataset name such as `loginData.csv`.
type DataSource interface {
	Load(name string) (dataset.Dataset, error)
}

// Expander turns data-driven step text into one login subsequence per row.
type Expander struct {
	cfg    *config.Config
	source DataSource
	logger *slog.Logger
}

func NewExpander(cfg *config.Config, source DataSource, logger *slog.Logger) *Expander {
	if logger == nil {
		logger = slog.Default()
	}
	return &Expander{cfg: cfg, source: source, logger: logger}
}

// Dataset retrieves the rows text refers to. An external reference takes
// precedence over inline labels. Failures degrade to an empty dataset.
func (e *Expander) Dataset(text string) dataset.Dataset {
	if name := csvToken.FindString(text); name != "" {
		return e.external(name)
	}
	return ParseInline(text)
}

func (e *Expander) external(name string) dataset.Dataset {
	if e.source == nil {
		e.logger.Warn("dataset unavailable", slog.String("dataset", name), slog.String("reason", "no data source configured"))
		return dataset.Dataset{Source: dataset.External(name)}
	}
	ds, err := e.source.Load(name)
	if err != nil {
		e.logger.Warn("dataset unavailable", slog.String("dataset", name), slog.Any("err", err))
		return dataset.Dataset{Source: dataset.External(name)}
	}

	kept := ds.Rows[:0:0]
	for i, row := range ds.Rows {
		if !row.Complete() {
			e.logger.Warn("dropping incomplete dataset row", slog.String("dataset", name), slog.Int("row", i+1))
			continue
		}
		kept = append(kept, row)
	}
	ds.Rows = kept
	return ds
}

// ParseInline reads Username/Password/Expected triples from text. Single-line
// comma-joined triples are tried first; otherwise labels are accumulated
// across lines and a row is emitted each time all three are set. A trailing
// incomplete record is dropped.
func ParseInline(text string) dataset.Dataset {
	ds := dataset.Dataset{Source: dataset.SourceInline}

	for _, m := range inlineTriple.FindAllStringSubmatch(text, -1) {
		ds.Rows = append(ds.Rows, dataset.NewRow(
			dataset.ColUsername, cleanValue(m[1]),
			dataset.ColPassword, cleanValue(m[2]),
			dataset.ColExpected, cleanExpected(m[3]),
		))
	}
	if len(ds.Rows) > 0 {
		return ds
	}

	acc := map[string]string{}
	for _, m := range blockLabel.FindAllStringSubmatch(text, -1) {
		label := strings.ToLower(m[1])
		if label == dataset.ColExpected {
			acc[label] = cleanExpected(m[2])
		} else {
			acc[label] = cleanValue(m[2])
		}
		if len(acc) == 3 {
			ds.Rows = append(ds.Rows, dataset.NewRow(
				dataset.ColUsername, acc[dataset.ColUsername],
				dataset.ColPassword, acc[dataset.ColPassword],
				dataset.ColExpected, acc[dataset.ColExpected],
			))
			acc = map[string]string{}
		}
	}
	return ds
}

func cleanValue(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}

func cleanExpected(s string) string {
	return strings.TrimRight(cleanValue(s), ".!")
}

// Expand compiles data-driven text into actions. An empty dataset yields a
// single login with the configured credentials.
func (e *Expander) Expand(text string) []action.Action {
	ds := e.Dataset(text)
	if ds.Empty() {
		e.logger.Debug("dataset empty, using default credentials", slog.String("source", ds.Source))
		return e.defaultLogin()
	}

	withLogout := logoutWords.MatchString(text)

	var out []action.Action
	for i, row := range ds.Rows {
		if i > 0 {
			out = append(out, action.Wait(betweenRowsMs).Describe(fmt.Sprintf("Pause before row %d", i+1)))
		}
		for _, a := range e.rowActions(row, withLogout) {
			out = append(out, a.Describe(fmt.Sprintf("[row %d] %s", i+1, a.Description)))
		}
	}
	return out
}

func (e *Expander) rowActions(row dataset.Row, withLogout bool) []action.Action {
	actions := []action.Action{
		action.Navigate(e.cfg.BaseURL),
		action.Fill(usernameField, row.Username()),
		action.Fill(passwordField, row.Password()),
		action.Click(loginButton),
		action.Wait(loginSettleMs),
	}

	expected := strings.ToLower(row.Expected())
	switch {
	case strings.Contains(expected, "dashboard"):
		actions = append(actions, action.Assert(dashboardPage, action.Visible))
	case strings.Contains(expected, "invalid"), strings.Contains(expected, "error"):
		actions = append(actions, action.Assert(errorMessage, action.Contains(invalidCredsError)))
	}

	if withLogout && expectsSuccess(expected) {
		actions = append(actions,
			action.Click(userDropdown),
			action.Click(logoutLink),
			action.Wait(logoutSettle),
		)
	}
	return actions
}

func expectsSuccess(expected string) bool {
	return strings.Contains(expected, "dashboard") || strings.Contains(expected, "success")
}

func (e *Expander) defaultLogin() []action.Action {
	return []action.Action{
		action.Navigate(e.cfg.BaseURL),
		action.Fill(usernameField, e.cfg.Credentials.Username).Describe("Fill username field with default credentials"),
		action.Fill(passwordField, e.cfg.Credentials.Password).Describe("Fill password field with default credentials"),
		action.Click(loginButton),
		action.Wait(loginSettleMs),
	}
}
