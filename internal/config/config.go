// Package config holds the read-only settings shared by the compiler and the
// executor: base URL, default credentials and the canonical element vocabulary.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Element roles used by the entity extractor.
const (
	RoleClick  = "click"
	RoleFill   = "fill"
	RoleVerify = "verify"
)

// Locator strategy kinds understood by the executor.
const (
	StrategyCSS       = "css"
	StrategyAttribute = "attribute"
	StrategyRole      = "role"
	StrategyText      = "text"
)

// Config is the top-level stepwise configuration.
type Config struct {
	BaseURL     string      `yaml:"base_url"`
	Credentials Credentials `yaml:"credentials"`
	Elements    []Element   `yaml:"elements"`
	Execution   Execution   `yaml:"execution"`
	DataDir     string      `yaml:"data_dir"` // directory external datasets are resolved against
}

// Credentials used when a step does not name its own.
type Credentials struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Element is one canonical entry of the vocabulary.
type Element struct {
	Name       string     `yaml:"name"`
	Role       string     `yaml:"role"`
	Keywords   []string   `yaml:"keywords,omitempty"`
	Navigates  bool       `yaml:"navigates,omitempty"` // clicking it loads a new page
	Condition  string     `yaml:"condition,omitempty"` // verify role only, e.g. `visible` or `contains:"x"`
	Strategies []Strategy `yaml:"strategies"`
}

// Strategy is a declarative locator descriptor. Pattern meaning depends on
// Kind: a selector for css, `attr=value` for attribute, an ARIA role for role
// (Name is the accessible name) and literal text for text.
type Strategy struct {
	Kind    string `yaml:"kind"`
	Pattern string `yaml:"pattern"`
	Name    string `yaml:"name,omitempty"`
}

func (s Strategy) String() string {
	if s.Name != "" {
		return fmt.Sprintf("%s(%s, %q)", s.Kind, s.Pattern, s.Name)
	}
	return fmt.Sprintf("%s(%s)", s.Kind, s.Pattern)
}

// Execution controls the action executor.
type Execution struct {
	StrategyTimeout time.Duration `yaml:"strategy_timeout"`
	ActionTimeout   time.Duration `yaml:"action_timeout"`
	Parallel        int           `yaml:"parallel"`
	Headless        bool          `yaml:"headless"`
	Browsers        []string      `yaml:"browsers"`
}

// Default returns a config for the OrangeHRM demo site, the application the
// stock vocabulary was written against.
func Default() *Config {
	return &Config{
		BaseURL: "https://opensource-demo.orangehrmlive.com/web/index.php/auth/login",
		Credentials: Credentials{
			Username: "Admin",
			Password: "admin123",
		},
		Elements: defaultElements(),
		Execution: Execution{
			StrategyTimeout: 2 * time.Second,
			ActionTimeout:   30 * time.Second,
			Parallel:        3,
			Headless:        true,
			Browsers:        []string{"chromium"},
		},
		DataDir: "prompts",
	}
}

func defaultElements() []Element {
	return []Element{
		{
			Name: "username field", Role: RoleFill, Keywords: []string{"username", "user name"},
			Strategies: []Strategy{
				{Kind: StrategyAttribute, Pattern: "name=username"},
				{Kind: StrategyCSS, Pattern: "input[placeholder='Username']"},
			},
		},
		{
			Name: "password field", Role: RoleFill, Keywords: []string{"password"},
			Strategies: []Strategy{
				{Kind: StrategyAttribute, Pattern: "name=password"},
				{Kind: StrategyCSS, Pattern: "input[type='password']"},
			},
		},
		{
			Name: "first name field", Role: RoleFill, Keywords: []string{"first name", "firstname"},
			Strategies: []Strategy{
				{Kind: StrategyAttribute, Pattern: "name=firstName"},
				{Kind: StrategyCSS, Pattern: "input[placeholder='First Name']"},
			},
		},
		{
			Name: "middle name field", Role: RoleFill, Keywords: []string{"middle name", "middlename"},
			Strategies: []Strategy{
				{Kind: StrategyAttribute, Pattern: "name=middleName"},
				{Kind: StrategyCSS, Pattern: "input[placeholder='Middle Name']"},
			},
		},
		{
			Name: "last name field", Role: RoleFill, Keywords: []string{"last name", "lastname", "surname"},
			Strategies: []Strategy{
				{Kind: StrategyAttribute, Pattern: "name=lastName"},
				{Kind: StrategyCSS, Pattern: "input[placeholder='Last Name']"},
			},
		},
		{
			Name: "login button", Role: RoleClick, Keywords: []string{"login", "log in", "sign in"},
			Navigates: true,
			Strategies: []Strategy{
				{Kind: StrategyCSS, Pattern: "button[type='submit']"},
				{Kind: StrategyRole, Pattern: "button", Name: "Login"},
				{Kind: StrategyText, Pattern: "Login"},
			},
		},
		{
			Name: "PIM navigation link", Role: RoleClick, Keywords: []string{"pim"},
			Navigates: true,
			Strategies: []Strategy{
				{Kind: StrategyCSS, Pattern: "a[href*='viewPimModule']"},
				{Kind: StrategyRole, Pattern: "link", Name: "PIM"},
				{Kind: StrategyText, Pattern: "PIM"},
			},
		},
		{
			Name: "add button", Role: RoleClick, Keywords: []string{"add"},
			Navigates: true,
			Strategies: []Strategy{
				{Kind: StrategyRole, Pattern: "button", Name: "Add"},
				{Kind: StrategyText, Pattern: "Add"},
			},
		},
		{
			Name: "save button", Role: RoleClick, Keywords: []string{"save"},
			Navigates: true,
			Strategies: []Strategy{
				{Kind: StrategyCSS, Pattern: "button[type='submit']"},
				{Kind: StrategyRole, Pattern: "button", Name: "Save"},
				{Kind: StrategyText, Pattern: "Save"},
			},
		},
		{
			Name: "user dropdown", Role: RoleClick, Keywords: []string{"user dropdown", "profile menu", "user menu"},
			Strategies: []Strategy{
				{Kind: StrategyCSS, Pattern: ".oxd-userdropdown-tab"},
				{Kind: StrategyRole, Pattern: "banner"},
			},
		},
		{
			Name: "logout link", Role: RoleClick, Keywords: []string{"logout", "log out", "sign out"},
			Strategies: []Strategy{
				{Kind: StrategyCSS, Pattern: "a[href*='logout']"},
				{Kind: StrategyRole, Pattern: "menuitem", Name: "Logout"},
				{Kind: StrategyText, Pattern: "Logout"},
			},
		},
		{
			Name: "dashboard page", Role: RoleVerify, Keywords: []string{"dashboard"}, Condition: "visible",
			Strategies: []Strategy{
				{Kind: StrategyCSS, Pattern: ".oxd-topbar-header-breadcrumb h6"},
				{Kind: StrategyRole, Pattern: "heading", Name: "Dashboard"},
				{Kind: StrategyText, Pattern: "Dashboard"},
			},
		},
		{
			Name: "employee profile page", Role: RoleVerify, Keywords: []string{"employee profile", "personal details"}, Condition: "visible",
			Strategies: []Strategy{
				{Kind: StrategyCSS, Pattern: ".orangehrm-edit-employee-name"},
				{Kind: StrategyText, Pattern: "Personal Details"},
			},
		},
		{
			Name: "error message", Role: RoleVerify, Keywords: []string{"error", "invalid"}, Condition: `contains:"Invalid credentials"`,
			Strategies: []Strategy{
				{Kind: StrategyCSS, Pattern: ".oxd-alert-content-text"},
				{Kind: StrategyRole, Pattern: "alert"},
				{Kind: StrategyText, Pattern: "Invalid credentials"},
			},
		},
		{
			Name: "page content", Role: RoleVerify, Condition: "visible",
			Strategies: []Strategy{
				{Kind: StrategyCSS, Pattern: "body"},
			},
		},
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// LoadEnv applies STEPWISE_* overrides to cfg. Values found in envFile are
// used when the variable is not already set; a missing envFile is ignored.
func LoadEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	if v, ok := os.LookupEnv("STEPWISE_BASE_URL"); ok && v != "" {
		cfg.BaseURL = v
	}
	if v, ok := os.LookupEnv("STEPWISE_USERNAME"); ok {
		cfg.Credentials.Username = v
	}
	if v, ok := os.LookupEnv("STEPWISE_PASSWORD"); ok {
		cfg.Credentials.Password = v
	}
	return nil
}

// Validate reports the first structural problem in cfg.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("base_url is required")
	}
	seen := make(map[string]bool, len(c.Elements))
	for _, el := range c.Elements {
		if el.Name == "" {
			return errors.New("element without a name")
		}
		key := strings.ToLower(el.Name)
		if seen[key] {
			return fmt.Errorf("element %q declared twice", el.Name)
		}
		seen[key] = true
		if len(el.Strategies) == 0 {
			return fmt.Errorf("element %q has no strategies", el.Name)
		}
		for _, s := range el.Strategies {
			switch s.Kind {
			case StrategyCSS, StrategyAttribute, StrategyRole, StrategyText:
			default:
				return fmt.Errorf("element %q: unknown strategy kind %q", el.Name, s.Kind)
			}
			if s.Pattern == "" {
				return fmt.Errorf("element %q: empty %s pattern", el.Name, s.Kind)
			}
		}
	}
	if c.Execution.Parallel < 0 {
		return errors.New("execution.parallel must not be negative")
	}
	return nil
}

// Element returns the vocabulary entry with the given name, ignoring case.
func (c *Config) Element(name string) (Element, bool) {
	for _, el := range c.Elements {
		if strings.EqualFold(el.Name, name) {
			return el, true
		}
	}
	return Element{}, false
}

// Match returns the first element of the given role, in declared order, with a
// keyword occurring in text as a whole word.
func (c *Config) Match(role, text string) (Element, bool) {
	lower := strings.ToLower(text)
	for _, el := range c.Elements {
		if el.Role != role {
			continue
		}
		for _, kw := range el.Keywords {
			if containsWord(lower, strings.ToLower(kw)) {
				return el, true
			}
		}
	}
	return Element{}, false
}

func containsWord(text, word string) bool {
	if word == "" {
		return false
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
	return re.MatchString(text)
}
