package compiler

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/chriserin/stepwise/internal/action"
	"github.com/chriserin/stepwise/internal/config"
)

// Canonical element names the templates refer to.
const (
	usernameField    = "username field"
	passwordField    = "password field"
	loginButton      = "login button"
	dashboardPage    = "dashboard page"
	errorMessage     = "error message"
	userDropdown     = "user dropdown"
	logoutLink       = "logout link"
	genericClickable = "clickable element"
	pageContent      = "page content"
)

const (
	defaultWaitMs     = 2000
	maxWaitMs         = 10 * 60 * 1000 // longer waits fall back to the default
	invalidCredsError = "Invalid credentials"
)

var (
	urlPattern      = regexp.MustCompile(`https?://[^\s"'<>]+`)
	usernamePattern = regexp.MustCompile(`(?i)\buser ?name\s*[:=]\s*(?:"([^"]*)"|'([^']*)'|([^\s,;"']+))`)
	passwordPattern = regexp.MustCompile(`(?i)\bpassword\s*[:=]\s*(?:"([^"]*)"|'([^']*)'|([^\s,;"']+))`)
	fieldPattern    = regexp.MustCompile(`\b([A-Za-z][A-Za-z ]{0,40}?)\s*:\s*(?:"([^"]*)"|'([^']*)')`)
	quotedPattern   = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)
	durationPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(ms|msecs?|milliseconds?|s|secs?|seconds?)\b`)
)

// Words dropped from the front of a field label.
var labelFiller = map[string]bool{
	"enter": true, "input": true, "type": true, "fill": true, "provide": true,
	"in": true, "into": true, "the": true, "a": true, "an": true, "and": true,
	"then": true, "with": true, "set": true, "field": true, "out": true,
}

// field is one labeled value found in step text.
type field struct {
	Element string
	Value   string
}

// extractURL returns the first http(s) URL in text, or the base URL.
func extractURL(cfg *config.Config, text string) (string, bool) {
	m := urlPattern.FindString(text)
	m = strings.TrimRight(m, ".,;:!?)]")
	if m == "" {
		return cfg.BaseURL, false
	}
	return m, true
}

// extractCredentials returns labeled credentials, each defaulting
// independently to the configured ones.
func extractCredentials(cfg *config.Config, text string) (user, pass string, userFound, passFound bool) {
	user, userFound = firstGroup(usernamePattern, text)
	if !userFound {
		user = cfg.Credentials.Username
	}
	pass, passFound = firstGroup(passwordPattern, text)
	if !passFound {
		pass = cfg.Credentials.Password
	}
	return user, pass, userFound, passFound
}

// extractFields returns quoted values following field labels, in text order.
func extractFields(cfg *config.Config, text string) []field {
	var fields []field
	for _, m := range fieldPattern.FindAllStringSubmatch(text, -1) {
		label := cleanLabel(m[1])
		if label == "" {
			continue
		}
		value := m[2]
		if value == "" {
			value = m[3]
		}
		fields = append(fields, field{Element: fieldElement(cfg, label), Value: value})
	}
	return fields
}

func cleanLabel(raw string) string {
	words := strings.Fields(strings.ToLower(raw))
	for len(words) > 0 && labelFiller[words[0]] {
		words = words[1:]
	}
	for len(words) > 0 && words[len(words)-1] == "field" {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

func fieldElement(cfg *config.Config, label string) string {
	if el, ok := cfg.Match(config.RoleFill, label); ok {
		return el.Name
	}
	words := strings.Fields(label)
	if len(words) > 3 {
		words = words[len(words)-3:]
	}
	return strings.Join(words, " ") + " field"
}

// extractClickTarget resolves the element a click step refers to.
func extractClickTarget(cfg *config.Config, text string) (name string, navigates, found bool) {
	if el, ok := cfg.Match(config.RoleClick, text); ok {
		return el.Name, el.Navigates, true
	}
	if q, ok := firstGroup(quotedPattern, text); ok {
		return q, false, true
	}
	return genericClickable, false, false
}

// extractVerification resolves what a verify step checks and how.
func extractVerification(cfg *config.Config, text string) (string, action.Condition, bool) {
	if el, ok := cfg.Match(config.RoleVerify, text); ok {
		return el.Name, action.ParseCondition(el.Condition), true
	}
	if q, ok := firstGroup(quotedPattern, text); ok {
		return pageContent, action.Contains(q), true
	}
	return pageContent, action.Visible, false
}

// extractDuration converts the first number+unit in text to milliseconds.
func extractDuration(text string) (int, bool) {
	m := durationPattern.FindStringSubmatch(text)
	if m == nil {
		return defaultWaitMs, false
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return defaultWaitMs, false
	}
	ms := n
	if !strings.HasPrefix(strings.ToLower(m[2]), "m") {
		ms = n * 1000
	}
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms < 0 || ms > maxWaitMs {
		return defaultWaitMs, false
	}
	return int(math.Round(ms)), true
}

// firstGroup returns the first non-empty capture group of the first match.
func firstGroup(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	for _, g := range m[1:] {
		if g != "" {
			return g, true
		}
	}
	return "", true
}
