package parser

import (
	"fmt"
	"strings"

	"menu-scraper/models"

	"github.com/PuerkitoBio/goquery"
	errors "gopkg.in/src-d/go-errors.v1"
)

// MenuDaySelector matches the list holding a rendered day's menu
const MenuDaySelector = "ul.menu-day.show-description.show-calories.show-icons"

// ErrNoMenu is returned when a rendered page has no menu list
var ErrNoMenu = errors.NewKind("no menu found on page")

// ParseMenuDay extracts the food names of a rendered menu page grouped by
// section heading
func ParseMenuDay(htmlContent string) (models.MenuSections, error) {
	return ParseMenuList(htmlContent, MenuDaySelector)
}

// ParseMenuList is ParseMenuDay for a menu list matched by selector
func ParseMenuList(htmlContent, selector string) (models.MenuSections, error) {
	if strings.TrimSpace(htmlContent) == "" {
		return nil, ErrNoMenu.New()
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	menuDay := doc.Find(selector).First()
	if menuDay.Length() == 0 {
		return nil, ErrNoMenu.New()
	}

	sections := models.MenuSections{}
	menuDay.Find("li").Each(func(i int, li *goquery.Selection) {
		heading := li.Find("h3").First()
		if heading.Length() == 0 {
			return
		}

		key := strings.TrimSpace(heading.Text())
		if key == "" {
			return
		}

		foods := []string{}
		li.Find("span.food-name").Each(func(j int, span *goquery.Selection) {
			foods = append(foods, strings.TrimSpace(span.Text()))
		})
		sections[key] = foods
	})

	return sections, nil
}
