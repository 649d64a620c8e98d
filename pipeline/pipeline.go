// Package pipeline runs the scraping stages: each one reads a whole JSON
// tree, annotates it and hands it to the next.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"menu-scraper/annotate"
	"menu-scraper/config"
	"menu-scraper/fetcher"
	"menu-scraper/filter"
	"menu-scraper/menudate"
	"menu-scraper/parser"
	"menu-scraper/scraper"
	"menu-scraper/tree"
)

const (
	// URLField is the mapping key holding a menu page or API URL
	URLField = "url"
	// MenuKey is where the render stage stores the parsed page menu
	MenuKey = "menu"
)

// Discoverer finds the menu pages of every dining location
type Discoverer interface {
	Discover(ctx context.Context, siteURL string) (tree.Mapping, error)
}

// Pipeline holds what the stages share. Browsers are started on demand by
// the stages that need one and closed when the stage ends.
type Pipeline struct {
	cfg *config.Config
	day time.Time

	NewBrowser func() (fetcher.Browser, error)
	Fetcher    fetcher.Fetcher
	Discoverer Discoverer
}

// New creates a pipeline for day backed by rod, resty and colly
func New(cfg *config.Config, day time.Time) *Pipeline {
	return &Pipeline{
		cfg: cfg,
		day: day,
		NewBrowser: func() (fetcher.Browser, error) {
			return fetcher.NewRodBrowser(cfg.Browser)
		},
		Fetcher:    fetcher.NewHTTPFetcher(cfg.HTTP.UserAgent, cfg.HTTP.Timeout),
		Discoverer: fetcher.NewDiscoverer(cfg),
	}
}

// Day returns the date the stages resolve menus for
func (p *Pipeline) Day() time.Time {
	return p.day
}

// Discover crawls siteURL for menu page links
func (p *Pipeline) Discover(ctx context.Context, siteURL string) (tree.Node, error) {
	if siteURL == "" {
		siteURL = p.cfg.SiteURL
	}
	log.Printf("Discovering menu links from %s\n", siteURL)

	links, err := p.Discoverer.Discover(ctx, siteURL)
	if err != nil {
		return nil, err
	}
	return links, nil
}

// Render replaces every bare menu page URL with {"url": dated url, "menu": sections}
func (p *Pipeline) Render(ctx context.Context, root tree.Node) (tree.Node, error) {
	browser, err := p.startBrowser()
	if err != nil {
		return root, err
	}
	defer p.closeBrowser(browser)

	res := scraper.NewPageResolver(browser, p.day, p.cfg.Browser.MenuSelector)
	a, err := p.annotator(annotate.BareURL(URLField, "http"), res, MenuKey, annotate.Concurrent)
	if err != nil {
		return root, err
	}
	return a.Annotate(ctx, root)
}

// Resolve rewrites every menu page URL to the weeks API URL the page requests
func (p *Pipeline) Resolve(ctx context.Context, root tree.Node) (tree.Node, error) {
	browser, err := p.startBrowser()
	if err != nil {
		return root, err
	}
	defer p.closeBrowser(browser)

	res, err := scraper.NewAPILinkResolver(browser, p.cfg.Browser.APIPattern)
	if err != nil {
		return root, err
	}

	a, err := p.annotator(annotate.HasField(URLField), res, p.cfg.Annotate.Key, annotate.Sequential)
	if err != nil {
		return root, err
	}
	return a.Annotate(ctx, root)
}

// Calories keeps the allowed locations and annotates every API URL with the
// calorie count of each item served on the pipeline day
func (p *Pipeline) Calories(ctx context.Context, root tree.Node) (tree.Node, error) {
	if locations, ok := root.(tree.Mapping); ok {
		root = filter.NewFilter(p.cfg).ApplyFilters(locations)
	} else {
		log.Printf("Warning: input is a %s, not a mapping of locations; skipping location filter\n", tree.KindOf(root))
	}

	res := scraper.NewCalorieResolver(p.Fetcher, p.day)
	a, err := p.annotator(annotate.HasField(URLField), res, p.cfg.Annotate.Key, annotate.Concurrent)
	if err != nil {
		return root, err
	}
	return a.Annotate(ctx, root)
}

// Today lists the foods one weeks API URL serves on the pipeline day
func (p *Pipeline) Today(ctx context.Context, apiURL string) ([]string, error) {
	dated, err := menudate.APIURL(apiURL, p.day)
	if err != nil {
		return nil, err
	}

	body, err := p.Fetcher.Fetch(ctx, dated)
	if err != nil {
		return nil, err
	}

	menu, err := parser.ParseWeekMenu(body)
	if err != nil {
		return nil, err
	}
	return parser.FoodNames(menu, p.day), nil
}

func (p *Pipeline) annotator(loc annotate.Locator, res annotate.Resolver, key string, mode annotate.Mode) (*annotate.Annotator, error) {
	cached, err := annotate.Cached(res, p.cfg.Annotate.CacheSize)
	if err != nil {
		return nil, err
	}

	a := annotate.New(loc, cached, key)
	a.Timeout = p.cfg.Annotate.Timeout
	if mode == annotate.Concurrent && p.cfg.Annotate.Concurrency != 1 {
		a.Mode = annotate.Concurrent
		a.MaxInFlight = int64(p.cfg.Annotate.Concurrency)
	}
	return a, nil
}

func (p *Pipeline) startBrowser() (fetcher.Browser, error) {
	log.Println("Initializing browser...")
	browser, err := p.NewBrowser()
	if err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	return browser, nil
}

func (p *Pipeline) closeBrowser(browser fetcher.Browser) {
	if err := browser.Close(); err != nil {
		log.Printf("Warning: Failed to close browser: %v\n", err)
	} else {
		log.Println("Browser closed successfully")
	}
}
