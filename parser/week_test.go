package parser

import (
	"reflect"
	"testing"
	"time"

	"menu-scraper/models"
)

const weekJSON = `{
	"start_date": "2025-03-02",
	"days": [
		{"date": "2025-03-03", "menu_items": [
			{"is_section_title": false, "food": {"name": "Yesterday Pizza", "rounded_nutrition_info": {"calories": 300}}}
		]},
		{"date": "2025-03-04", "menu_items": [
			{"is_section_title": true, "text": "Entrees", "food": null},
			{"is_section_title": false, "food": {"name": "Pizza", "rounded_nutrition_info": {"calories": 500.4}}},
			{"is_section_title": false, "food": {"name": "  Salad ", "rounded_nutrition_info": {"calories": 120.5}}},
			{"is_section_title": false, "food": {"name": "Tea", "rounded_nutrition_info": {"calories": 2.5}}},
			{"is_section_title": false, "food": {"name": "", "rounded_nutrition_info": {"calories": 10}}},
			{"is_section_title": false, "food": {"name": "Soup", "rounded_nutrition_info": {"calories": null}}},
			{"is_section_title": false, "food": {"name": "Bread"}},
			{"is_section_title": false, "food": {"rounded_nutrition_info": {"calories": 5}}},
			{"is_section_title": false, "text": "Closed early"}
		]}
	]
}`

var today = time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC)

func TestExtractCalories(t *testing.T) {
	menu, err := ParseWeekMenu([]byte(weekJSON))
	if err != nil {
		t.Fatalf("ParseWeekMenu() error = %v", err)
	}

	tests := []struct {
		name     string
		day      time.Time
		expected models.Calories
	}{
		{"today", today, models.Calories{"Pizza": 500, "Salad": 120, "Tea": 2}},
		{"yesterday", today.AddDate(0, 0, -1), models.Calories{"Yesterday Pizza": 300}},
		{"not in week", today.AddDate(0, 0, 7), models.Calories{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractCalories(menu, tt.day)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ExtractCalories() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFoodNames(t *testing.T) {
	menu, err := ParseWeekMenu([]byte(weekJSON))
	if err != nil {
		t.Fatalf("ParseWeekMenu() error = %v", err)
	}

	got := FoodNames(menu, today)
	expected := []string{"Pizza", "  Salad ", "Tea", "", "Soup", "Bread"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("FoodNames() = %q, want %q", got, expected)
	}

	if got := FoodNames(menu, today.AddDate(1, 0, 0)); len(got) != 0 {
		t.Errorf("FoodNames() = %q, want none", got)
	}
}

func TestParseWeekMenuInvalid(t *testing.T) {
	if _, err := ParseWeekMenu([]byte(`<html>maintenance</html>`)); err == nil {
		t.Errorf("ParseWeekMenu() expected error for non-JSON body")
	}
}

func TestMenuPath(t *testing.T) {
	tests := []struct {
		path     string
		school   string
		menuType string
	}{
		{"/menu/sac/noodles", "sac", "noodles"},
		{"/menu/sac/noodles/2025-02-10", "sac", "noodles"},
		{"/menu/east-side-dining/", "east-side-dining", ""},
		{"/menu/", "", ""},
		{"/menu/api/weeks/school/sac", "", ""},
		{"/about", "", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			school, menuType := MenuPath(tt.path)
			if school != tt.school || menuType != tt.menuType {
				t.Errorf("MenuPath() = (%q, %q), want (%q, %q)", school, menuType, tt.school, tt.menuType)
			}
		})
	}
}
