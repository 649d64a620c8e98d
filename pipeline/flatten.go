package pipeline

import (
	"strings"

	"menu-scraper/models"
	"menu-scraper/scraper"
	"menu-scraper/tree"
)

// Flatten lists every annotated item as a row. The first path element is the
// location; the rest, joined with " / ", names the menu.
func Flatten(root tree.Node, key string) []models.MenuRow {
	var rows []models.MenuRow

	tree.Walk(root, func(path []string, n tree.Node) bool {
		m, ok := n.(tree.Mapping)
		if !ok {
			return true
		}
		items := scraper.CaloriesFromNode(m[key])
		if items == nil {
			return true
		}

		location, menu := "", ""
		if len(path) > 0 {
			location = path[0]
			menu = strings.Join(path[1:], " / ")
		}

		for _, name := range scraper.SortedNames(items) {
			rows = append(rows, models.MenuRow{
				Location: location,
				Menu:     menu,
				Item:     name,
				Calories: items[name],
			})
		}
		return false
	})

	return rows
}
