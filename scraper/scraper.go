// Package scraper holds the resolvers each pipeline stage plugs into the
// annotator.
package scraper

import (
	"sort"

	"menu-scraper/models"
	"menu-scraper/tree"
)

// CaloriesNode converts a calorie set to a mapping of item name to count
func CaloriesNode(items models.Calories) tree.Mapping {
	m := make(tree.Mapping, len(items))
	for name, calories := range items {
		m[name] = tree.Int(calories)
	}
	return m
}

// SectionsNode converts parsed menu sections to a mapping of heading to food names
func SectionsNode(sections models.MenuSections) tree.Mapping {
	m := make(tree.Mapping, len(sections))
	for heading, foods := range sections {
		seq := make(tree.Sequence, len(foods))
		for i, food := range foods {
			seq[i] = tree.String(food)
		}
		m[heading] = seq
	}
	return m
}

// CaloriesFromNode reads a calorie mapping back, skipping non-numeric entries
func CaloriesFromNode(n tree.Node) models.Calories {
	m, ok := n.(tree.Mapping)
	if !ok {
		return nil
	}

	items := make(models.Calories, len(m))
	for name, v := range m {
		num, ok := v.(tree.Number)
		if !ok {
			continue
		}
		f, err := num.Float64()
		if err != nil {
			continue
		}
		items[name] = int(f)
	}
	return items
}

// SortedNames returns the item names of a calorie set in order
func SortedNames(items models.Calories) []string {
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
