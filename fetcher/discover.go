package fetcher

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"menu-scraper/config"
	"menu-scraper/parser"
	"menu-scraper/tree"

	"github.com/gocolly/colly/v2"
)

// Discoverer crawls the dining index page for menu page links using colly
type Discoverer struct {
	userAgent string
	cfg       *config.Config
}

// NewDiscoverer creates a new Discoverer instance
func NewDiscoverer(cfg *config.Config) *Discoverer {
	return &Discoverer{
		userAgent: cfg.HTTP.UserAgent,
		cfg:       cfg,
	}
}

// Discover visits siteURL and the school pages it links to and returns
// {location: {menu label: menu page url}}.
func (d *Discoverer) Discover(ctx context.Context, siteURL string) (tree.Mapping, error) {
	start, err := url.Parse(siteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid site url %q: %w", siteURL, err)
	}

	c := colly.NewCollector(
		colly.UserAgent(d.userAgent),
		colly.AllowedDomains(start.Hostname()),
		colly.MaxDepth(d.cfg.Discover.MaxDepth),
		colly.StdlibContext(ctx),
	)

	// One request at a time per domain
	if err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
	}); err != nil {
		return nil, fmt.Errorf("failed to set crawl limits: %w", err)
	}

	c.OnError(func(r *colly.Response, err error) {
		log.Printf("Error fetching %s: %v\n", r.Request.URL, err)
	})

	links := make(tree.Mapping)
	names := make(map[string]string) // school slug -> display name

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		link := e.Request.AbsoluteURL(e.Attr("href"))
		if link == "" {
			return
		}
		u, err := url.Parse(link)
		if err != nil || u.Hostname() != start.Hostname() {
			return
		}

		school, menuType := parser.MenuPath(u.Path)
		if school == "" {
			return
		}
		text := strings.Join(strings.Fields(e.Text), " ")

		if menuType == "" {
			if text != "" {
				if _, ok := names[school]; !ok {
					names[school] = text
				}
			}
			e.Request.Visit(link)
			return
		}

		location := d.locationName(e, school, names)
		label := text
		if label == "" {
			label = menuType
		}

		menus, ok := links[location].(tree.Mapping)
		if !ok {
			menus = make(tree.Mapping)
			links[location] = menus
		}
		if _, ok := menus[label]; !ok {
			menus[label] = tree.String(link)
		}
	})

	if err := c.Visit(siteURL); err != nil {
		return nil, fmt.Errorf("failed to visit URL: %w", err)
	}
	c.Wait()

	if err := ctx.Err(); err != nil {
		return links, err
	}

	if len(links) == 0 {
		log.Println("Warning: No menu links discovered. The index page may be rendered with JavaScript.")
	}
	log.Printf("Discovery completed. Locations found: %d\n", len(links))

	return links, nil
}

// locationName prefers the name the school link carried, then the nearest
// section heading, then the slug itself.
func (d *Discoverer) locationName(e *colly.HTMLElement, school string, names map[string]string) string {
	if name, ok := names[school]; ok {
		return name
	}

	if d.cfg.Discover.SectionSelector != "" && d.cfg.Discover.HeadingSelector != "" {
		heading := e.DOM.Closest(d.cfg.Discover.SectionSelector).
			Find(d.cfg.Discover.HeadingSelector).
			First().
			Text()
		if heading = strings.Join(strings.Fields(heading), " "); heading != "" {
			return heading
		}
	}

	return school
}
