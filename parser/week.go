package parser

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"menu-scraper/menudate"
	"menu-scraper/models"
)

// ParseWeekMenu decodes a weeks API payload
func ParseWeekMenu(data []byte) (*models.WeekMenu, error) {
	var menu models.WeekMenu
	if err := json.Unmarshal(data, &menu); err != nil {
		return nil, fmt.Errorf("failed to parse week menu: %w", err)
	}
	return &menu, nil
}

// findDay returns the first day of the week matching day, or nil
func findDay(menu *models.WeekMenu, day time.Time) *models.Day {
	date := day.Format(menudate.DayLayout)
	for i := range menu.Days {
		if menu.Days[i].Date == date {
			return &menu.Days[i]
		}
	}
	return nil
}

// ExtractCalories returns the calorie count of every food served on day.
// Section titles and foods without a name or calorie value are skipped.
// Counts are rounded half to even.
func ExtractCalories(menu *models.WeekMenu, day time.Time) models.Calories {
	items := models.Calories{}

	d := findDay(menu, day)
	if d == nil {
		return items
	}

	for _, item := range d.MenuItems {
		if item.IsSectionTitle || item.Food == nil {
			continue
		}

		if item.Food.Name == nil {
			continue
		}
		name := strings.TrimSpace(*item.Food.Name)
		if name == "" || item.Food.RoundedNutritionInfo == nil || item.Food.RoundedNutritionInfo.Calories == nil {
			continue
		}

		items[name] = int(math.RoundToEven(*item.Food.RoundedNutritionInfo.Calories))
	}

	return items
}

// FoodNames lists the names of the foods served on day in menu order. Every
// food carrying a name key is listed, even with an empty name.
func FoodNames(menu *models.WeekMenu, day time.Time) []string {
	var names []string

	d := findDay(menu, day)
	if d == nil {
		return names
	}

	for _, item := range d.MenuItems {
		if item.Food != nil && item.Food.Name != nil {
			names = append(names, *item.Food.Name)
		}
	}
	return names
}
