package scraper

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"time"

	"menu-scraper/annotate"
	"menu-scraper/fetcher"
	"menu-scraper/menudate"
	"menu-scraper/parser"
	"menu-scraper/tree"
)

// CalorieResolver fetches a weeks API URL for one day and yields the
// calorie count of every food served that day
type CalorieResolver struct {
	fetcher fetcher.Fetcher
	day     time.Time
}

// NewCalorieResolver creates a new CalorieResolver instance
func NewCalorieResolver(f fetcher.Fetcher, day time.Time) *CalorieResolver {
	return &CalorieResolver{
		fetcher: f,
		day:     day,
	}
}

// Resolve implements annotate.Resolver. The located URL is rewritten to the
// dated API URL only when calories were found.
func (cr *CalorieResolver) Resolve(ctx context.Context, apiURL string) (annotate.Result, error) {
	dated, err := menudate.APIURL(apiURL, cr.day)
	if err != nil {
		return annotate.Result{}, err
	}

	body, err := cr.fetcher.Fetch(ctx, dated)
	if err != nil {
		return annotate.Result{}, err
	}

	menu, err := parser.ParseWeekMenu(body)
	if err != nil {
		return annotate.Result{}, err
	}

	items := parser.ExtractCalories(menu, cr.day)
	if len(items) == 0 {
		log.Printf("No menu items for %s on %s\n", dated, cr.day.Format(menudate.DayLayout))
		return annotate.Result{}, nil
	}

	return annotate.Result{
		Value:   CaloriesNode(items),
		Rewrite: true,
		Locator: tree.String(dated),
	}, nil
}

// APILinkResolver loads a menu page and swaps its URL for the weeks API
// request the page issues, or null when it issues none
type APILinkResolver struct {
	browser fetcher.Browser
	pattern *regexp.Regexp
}

// NewAPILinkResolver creates a new APILinkResolver instance
func NewAPILinkResolver(b fetcher.Browser, pattern string) (*APILinkResolver, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid API pattern %q: %w", pattern, err)
	}
	return &APILinkResolver{
		browser: b,
		pattern: re,
	}, nil
}

// Resolve implements annotate.Resolver
func (ar *APILinkResolver) Resolve(ctx context.Context, pageURL string) (annotate.Result, error) {
	apiURL, err := ar.browser.CaptureRequest(ctx, pageURL, ar.pattern)
	if fetcher.ErrNoAPIRequest.Is(err) {
		log.Printf("Warning: %v\n", err)
		return annotate.Result{Rewrite: true}, nil
	}
	if err != nil {
		return annotate.Result{}, err
	}

	return annotate.Result{
		Rewrite: true,
		Locator: tree.String(apiURL),
	}, nil
}

// PageResolver renders a menu page for one day and yields its food names
// grouped by section
type PageResolver struct {
	browser  fetcher.Browser
	day      time.Time
	selector string
}

// NewPageResolver creates a new PageResolver instance
func NewPageResolver(b fetcher.Browser, day time.Time, selector string) *PageResolver {
	if selector == "" {
		selector = parser.MenuDaySelector
	}
	return &PageResolver{
		browser:  b,
		day:      day,
		selector: selector,
	}
}

// Resolve implements annotate.Resolver. A page without a menu still gets its
// dated URL recorded.
func (pr *PageResolver) Resolve(ctx context.Context, pageURL string) (annotate.Result, error) {
	dated := menudate.PageURL(pageURL, pr.day)

	html, err := pr.browser.Render(ctx, dated, pr.selector)
	if err != nil {
		return annotate.Result{}, err
	}

	res := annotate.Result{
		Rewrite: true,
		Locator: tree.String(dated),
	}

	sections, err := parser.ParseMenuList(html, pr.selector)
	if parser.ErrNoMenu.Is(err) {
		log.Printf("Warning: no menu on %s\n", dated)
		return res, nil
	}
	if err != nil {
		return annotate.Result{}, err
	}

	res.Value = SectionsNode(sections)
	return res, nil
}
