package compiler

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/stepwise/internal/action"
	"github.com/chriserin/stepwise/internal/config"
	"github.com/chriserin/stepwise/internal/dataset"
)

type failingSource struct{}

func (failingSource) Load(name string) (dataset.Dataset, error) {
	return dataset.Dataset{}, errors.New("permission denied")
}

func TestParseInline_SingleLineTriples(t *testing.T) {
	ds := ParseInline(`Run these:
Username: "Admin", Password: 'admin123', Expected: Dashboard visible.
Username: bob , Password: wrong , Expected: Invalid credentials`)

	assert.Equal(t, dataset.SourceInline, ds.Source)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, "Admin", ds.Rows[0].Username())
	assert.Equal(t, "admin123", ds.Rows[0].Password())
	assert.Equal(t, "Dashboard visible", ds.Rows[0].Expected())
	assert.Equal(t, "bob", ds.Rows[1].Username())
	assert.Equal(t, "wrong", ds.Rows[1].Password())
	assert.Equal(t, "Invalid credentials", ds.Rows[1].Expected())
}

func TestParseInline_EmptyPassword(t *testing.T) {
	ds := ParseInline("Username: bob, Password: , Expected: error")
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, "", ds.Rows[0].Password())
}

func TestParseInline_BlockScan(t *testing.T) {
	ds := ParseInline(`Test 1
- username: alice
- password: one
- expected: Dashboard
Test 2
- password: two
- username: bob
- expected: Invalid
Test 3
- username: carol`)

	require.Len(t, ds.Rows, 2)
	assert.Equal(t, "alice", ds.Rows[0].Username())
	assert.Equal(t, "bob", ds.Rows[1].Username())
	assert.Equal(t, "two", ds.Rows[1].Password())
}

func TestParseInline_NoRows(t *testing.T) {
	assert.True(t, ParseInline("Username: a\nPassword: b").Empty())
}

func TestExpander_SourceFailureDegrades(t *testing.T) {
	var logs bytes.Buffer
	cfg := config.Default()
	e := NewExpander(cfg, failingSource{}, slog.New(slog.NewTextHandler(&logs, nil)))

	ds := e.Dataset("data in users.csv")
	assert.True(t, ds.Empty())
	assert.Equal(t, "external:users.csv", ds.Source)
	assert.Contains(t, logs.String(), "permission denied")

	actions := e.Expand("data in users.csv")
	assert.Len(t, actions, 5)
	assert.Equal(t, action.Navigate(cfg.BaseURL), actions[0])
}

func TestExpander_ExternalTakesPrecedenceOverInline(t *testing.T) {
	src := dataset.Static{"a.csv": {Rows: []dataset.Row{
		dataset.NewRow("username", "fromfile", "password", "p", "expected", "Dashboard"),
	}}}
	e := NewExpander(config.Default(), src, nil)
	ds := e.Dataset("Username: inline, Password: p, Expected: Dashboard; also a.csv")
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, "fromfile", ds.Rows[0].Username())
}

func TestExpander_RowDescriptions(t *testing.T) {
	e := NewExpander(config.Default(), nil, nil)
	actions := e.Expand("Username: a, Password: b, Expected: Dashboard")
	for _, a := range actions {
		assert.Contains(t, a.Description, "[row 1]")
	}
}

func TestExpander_LogoutOnlyWhenMentioned(t *testing.T) {
	e := NewExpander(config.Default(), nil, nil)
	without := e.Expand("Username: a, Password: b, Expected: Dashboard")
	with := e.Expand("Username: a, Password: b, Expected: Login success\nthen sign out")

	assert.Len(t, without, 6)
	// "Login success" has no dashboard assertion but still counts as success.
	require.Len(t, with, 8)
	assert.Equal(t, "user dropdown", with[5].Target)
	assert.Equal(t, "logout link", with[6].Target)
	assert.Equal(t, 2000, with[7].TimeoutMs)
}
