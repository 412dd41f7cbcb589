package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chriserin/stepwise/internal/config"
)

func TestExtractDuration(t *testing.T) {
	cases := map[string]int{
		"Wait 500ms":                        500,
		"wait 500 ms":                       500,
		"Pause 2 s":                         2000,
		"Delay 1.5s":                        1500,
		"Wait for 10 seconds":               10000,
		"wait 3 secs":                       3000,
		"wait 250 milliseconds":             250,
		"wait a bit":                        defaultWaitMs,
		"wait 3 minutes":                    defaultWaitMs,
		"wait 2 seconds then 4 ms":          2000,
		"wait 600 seconds":                  600000,
		"wait 601 seconds":                  defaultWaitMs,
		"Wait 99999999999999999999 seconds": defaultWaitMs,
	}
	for text, want := range cases {
		got, _ := extractDuration(text)
		assert.Equal(t, want, got, text)
	}
}

func TestExtractURL_Default(t *testing.T) {
	cfg := config.Default()
	url, found := extractURL(cfg, "no link here")
	assert.False(t, found)
	assert.Equal(t, cfg.BaseURL, url)

	url, found = extractURL(cfg, "see (http://a.test/x?y=1), then go")
	assert.True(t, found)
	assert.Equal(t, "http://a.test/x?y=1", url)
}

func TestExtractCredentials(t *testing.T) {
	cfg := config.Default()
	user, pass, uf, pf := extractCredentials(cfg, "user name = 'alice', password: s3cr3t;")
	assert.Equal(t, "alice", user)
	assert.Equal(t, "s3cr3t", pass)
	assert.True(t, uf)
	assert.True(t, pf)

	user, pass, uf, pf = extractCredentials(cfg, "nothing")
	assert.Equal(t, cfg.Credentials.Username, user)
	assert.Equal(t, cfg.Credentials.Password, pass)
	assert.False(t, uf)
	assert.False(t, pf)
}

func TestExtractFields(t *testing.T) {
	cfg := config.Default()
	fields := extractFields(cfg, `Fill in the form with Middle Name: "Q", surname: "Smith" and the employee identifier number: "42"`)
	assert.Equal(t, []field{
		{Element: "middle name field", Value: "Q"},
		{Element: "last name field", Value: "Smith"},
		{Element: "employee identifier number field", Value: "42"},
	}, fields)
}

func TestExtractFields_Unquoted(t *testing.T) {
	assert.Empty(t, extractFields(config.Default(), "Enter first name: John"))
}

func TestCleanLabel(t *testing.T) {
	assert.Equal(t, "first name", cleanLabel("Enter the First Name field"))
	assert.Equal(t, "", cleanLabel("and the"))
}

func TestExtractClickTarget(t *testing.T) {
	cfg := config.Default()
	name, nav, found := extractClickTarget(cfg, "click Add")
	assert.Equal(t, "add button", name)
	assert.True(t, nav)
	assert.True(t, found)

	name, nav, _ = extractClickTarget(cfg, "open the user menu")
	assert.Equal(t, "user dropdown", name)
	assert.False(t, nav)

	// "address" is not the word "add".
	name, _, found = extractClickTarget(cfg, "click the address")
	assert.Equal(t, "clickable element", name)
	assert.False(t, found)
}
