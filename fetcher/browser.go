package fetcher

import (
	"context"
	"fmt"
	"log"
	"os"
	"regexp"
	"time"

	"menu-scraper/config"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"gopkg.in/src-d/go-errors.v1"
)

// ErrNoAPIRequest is returned when a menu page never requested the weeks API
var ErrNoAPIRequest = errors.NewKind("no request matching %s seen while loading %s")

// Browser renders pages that need JavaScript
type Browser interface {
	// Render loads url, waits up to the selector timeout for selector and
	// returns the page HTML. A missing selector is not an error.
	Render(ctx context.Context, url, selector string) (string, error)
	// CaptureRequest loads pageURL and returns the first outgoing request
	// URL matching pattern.
	CaptureRequest(ctx context.Context, pageURL string, pattern *regexp.Regexp) (string, error)
	Close() error
}

// RodBrowser implements the Browser interface using rod (headless browser)
type RodBrowser struct {
	browser *rod.Browser
	cfg     config.BrowserConfig
}

var chromePaths = []string{
	"/usr/bin/google-chrome",
	"/usr/bin/google-chrome-stable",
	"/usr/bin/chromium",
	"/usr/bin/chromium-browser",
	"/snap/bin/chromium",
}

// NewRodBrowser launches a browser and connects to it
func NewRodBrowser(cfg config.BrowserConfig) (*RodBrowser, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		Set("disable-blink-features", "AutomationControlled").
		NoSandbox(true).
		Leakless(false).
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("no-default-browser-check").
		Set("disable-extensions").
		Set("mute-audio")

	if cfg.UserDataDir != "" {
		if err := os.MkdirAll(cfg.UserDataDir, 0755); err != nil {
			log.Printf("Warning: Failed to create browser data directory %s: %v\n", cfg.UserDataDir, err)
		} else {
			l = l.UserDataDir(cfg.UserDataDir)
		}
	}

	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	} else {
		for _, path := range chromePaths {
			if _, err := os.Stat(path); err == nil {
				l = l.Bin(path)
				break
			}
		}
	}

	browserURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(browserURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &RodBrowser{
		browser: browser,
		cfg:     cfg,
	}, nil
}

// Close closes the browser
func (rb *RodBrowser) Close() error {
	if rb.browser != nil {
		return rb.browser.Close()
	}
	return nil
}

func (rb *RodBrowser) newPage(ctx context.Context) (*rod.Page, error) {
	page, err := rb.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return page.Context(ctx), nil
}

// Render implements the Browser interface
func (rb *RodBrowser) Render(ctx context.Context, url, selector string) (string, error) {
	page, err := rb.newPage(ctx)
	if err != nil {
		return "", err
	}
	defer page.Close()

	if err := rb.navigate(page, url); err != nil {
		return "", err
	}

	wait := page
	if rb.cfg.SelectorTimeout > 0 {
		wait = page.Timeout(rb.cfg.SelectorTimeout)
	}
	if _, err := wait.Element(selector); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.Printf("Warning: %s did not appear on %s within %s\n", selector, url, rb.cfg.SelectorTimeout)
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}
	return html, nil
}

// CaptureRequest implements the Browser interface
func (rb *RodBrowser) CaptureRequest(ctx context.Context, pageURL string, pattern *regexp.Regexp) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	page, err := rb.newPage(ctx)
	if err != nil {
		return "", err
	}
	defer page.Close()

	found := make(chan string, 1)
	wait := page.EachEvent(func(e *proto.NetworkRequestWillBeSent) bool {
		if e.Request == nil || !pattern.MatchString(e.Request.URL) {
			return false
		}
		found <- e.Request.URL
		return true
	})
	go wait()

	if err := rb.navigate(page, pageURL); err != nil {
		select {
		case u := <-found:
			return u, nil
		default:
		}
		return "", err
	}

	idle := time.NewTimer(rb.cfg.IdleTimeout)
	defer idle.Stop()

	select {
	case u := <-found:
		return u, nil
	case <-idle.C:
		return "", ErrNoAPIRequest.New(pattern.String(), pageURL)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (rb *RodBrowser) navigate(page *rod.Page, url string) error {
	p := page
	if rb.cfg.NavigateTimeout > 0 {
		p = page.Timeout(rb.cfg.NavigateTimeout)
	}
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("failed to load %s: %w", url, err)
	}
	return nil
}
