package menudate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	// APILayout is how the weeks API encodes the week in its path.
	APILayout = "2006/01/02"
	// DayLayout is how menu pages and API payloads encode a day.
	DayLayout = "2006-01-02"
)

var (
	apiDatePattern  = regexp.MustCompile(`/\d{4}/\d{2}/\d{2}(/|$)`)
	pageDatePattern = regexp.MustCompile(`/\d{4}-\d{2}-\d{2}/?$`)
)

// APIURL returns the weeks API URL with its /YYYY/MM/DD/ path segment set to
// day. If the path carries no date, one is appended.
func APIURL(rawURL string, day time.Time) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %w", err)
	}

	dated := "/" + day.Format(APILayout) + "/"
	path := parsedURL.Path

	// Only the last date segment is replaced; school slugs never look like dates
	matches := apiDatePattern.FindAllStringIndex(path, -1)
	if len(matches) == 0 {
		path = strings.TrimSuffix(path, "/") + dated
	} else {
		last := matches[len(matches)-1]
		path = path[:last[0]] + dated + path[last[1]:]
	}

	parsedURL.Path = path
	parsedURL.RawPath = ""
	return parsedURL.String(), nil
}

// PageURL returns the menu page URL for day: any trailing YYYY-MM-DD segment
// is dropped and the new one appended after a slash.
func PageURL(rawURL string, day time.Time) string {
	base := pageDatePattern.ReplaceAllString(rawURL, "")
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + day.Format(DayLayout)
}

// Parse reads a YYYY-MM-DD day in loc.
func Parse(value string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(DayLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", value, err)
	}
	return day, nil
}

// Today returns midnight of now's calendar day in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	year, month, day := now.In(loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}
