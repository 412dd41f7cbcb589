package executor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/chriserin/stepwise/internal/config"
)

const defaultDriverTimeout = 30 * time.Second

// Playwright opens pages through a shared playwright driver. The driver is
// started on first use and stopped by Close.
type Playwright struct {
	Headless bool
	Install  bool

	once sync.Once
	pw   *playwright.Playwright
	err  error
}

func NewPlaywright(cfg *config.Config) *Playwright {
	return &Playwright{Headless: cfg.Execution.Headless}
}

func (p *Playwright) start() (*playwright.Playwright, error) {
	p.once.Do(func() {
		if p.Install {
			if err := playwright.Install(); err != nil {
				p.err = fmt.Errorf("install playwright: %w", err)
				return
			}
		}
		p.pw, p.err = playwright.Run()
		if p.err != nil {
			p.err = fmt.Errorf("start playwright: %w", p.err)
		}
	})
	return p.pw, p.err
}

func (p *Playwright) Open(ctx context.Context, browser string) (Page, error) {
	pw, err := p.start()
	if err != nil {
		return nil, err
	}

	var bt playwright.BrowserType
	switch strings.ToLower(browser) {
	case "chromium", "chrome":
		bt = pw.Chromium
	case "firefox":
		bt = pw.Firefox
	case "webkit", "safari":
		bt = pw.WebKit
	default:
		return nil, fmt.Errorf("unknown browser %q", browser)
	}

	b, err := bt.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(p.Headless),
		Timeout:  millis(ctx, defaultDriverTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("launch %s: %w", browser, err)
	}
	page, err := b.NewPage()
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("new page: %w", err)
	}
	return &pwPage{browser: b, page: page}, nil
}

func (p *Playwright) Close() error {
	if p.pw == nil {
		return nil
	}
	return p.pw.Stop()
}

// millis converts the time left on ctx to a playwright timeout.
func millis(ctx context.Context, fallback time.Duration) *float64 {
	d := fallback
	if deadline, ok := ctx.Deadline(); ok {
		d = time.Until(deadline)
		if d < time.Millisecond {
			d = time.Millisecond
		}
	}
	return playwright.Float(float64(d.Milliseconds()))
}

type pwPage struct {
	browser playwright.Browser
	page    playwright.Page
}

func (p *pwPage) Navigate(ctx context.Context, url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   millis(ctx, defaultDriverTimeout),
	})
	return err
}

func (p *pwPage) locator(s config.Strategy) (playwright.Locator, error) {
	switch s.Kind {
	case config.StrategyCSS:
		return p.page.Locator(s.Pattern), nil
	case config.StrategyAttribute:
		attr, val, ok := strings.Cut(s.Pattern, "=")
		if !ok {
			return p.page.Locator(fmt.Sprintf("[%s]", s.Pattern)), nil
		}
		return p.page.Locator(fmt.Sprintf("[%s=%q]", attr, strings.Trim(val, `"'`))), nil
	case config.StrategyRole:
		opts := playwright.PageGetByRoleOptions{}
		if s.Name != "" {
			opts.Name = s.Name
		}
		return p.page.GetByRole(playwright.AriaRole(s.Pattern), opts), nil
	case config.StrategyText:
		return p.page.GetByText(s.Pattern), nil
	}
	return nil, fmt.Errorf("unknown strategy kind %q", s.Kind)
}

func (p *pwPage) Locate(ctx context.Context, s config.Strategy) (Element, error) {
	loc, err := p.locator(s)
	if err != nil {
		return nil, err
	}
	loc = loc.First()
	if err := loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: millis(ctx, defaultStrategyTimeout),
	}); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return &pwElement{loc: loc}, nil
}

func (p *pwPage) Content(ctx context.Context) (string, error) {
	return p.page.Content()
}

func (p *pwPage) Close() error {
	return p.browser.Close()
}

type pwElement struct {
	loc playwright.Locator
}

func (e *pwElement) Fill(ctx context.Context, value string) error {
	return e.loc.Fill(value, playwright.LocatorFillOptions{Timeout: millis(ctx, defaultDriverTimeout)})
}

func (e *pwElement) Click(ctx context.Context) error {
	return e.loc.Click(playwright.LocatorClickOptions{Timeout: millis(ctx, defaultDriverTimeout)})
}

func (e *pwElement) Visible(ctx context.Context) (bool, error) {
	return e.loc.IsVisible()
}

func (e *pwElement) Text(ctx context.Context) (string, error) {
	return e.loc.TextContent(playwright.LocatorTextContentOptions{Timeout: millis(ctx, defaultDriverTimeout)})
}
