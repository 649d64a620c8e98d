package filter

import (
	"reflect"
	"testing"

	"menu-scraper/config"
	"menu-scraper/tree"
)

func TestApplyFilters(t *testing.T) {
	locations := tree.Mapping{
		"Roth":          tree.Mapping{"Lunch": tree.Mapping{"url": tree.String("http://x/1")}},
		"Jasmine":       tree.Mapping{"Dinner": tree.Mapping{"url": nil}},
		"Campus Market": tree.Mapping{"Snacks": tree.Mapping{"url": tree.String("http://x/2")}},
	}

	tests := []struct {
		name     string
		allowed  []string
		expected []string
	}{
		{"subset", []string{"Roth", "Jasmine", "West Side Dining"}, []string{"Jasmine", "Roth"}},
		{"none match", []string{"East Side Dining"}, []string{}},
		{"empty list keeps all", nil, []string{"Campus Market", "Jasmine", "Roth"}},
		{"case sensitive", []string{"roth"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.GetDefaultConfig()
			cfg.Locations.Allowed = tt.allowed

			got := NewFilter(cfg).ApplyFilters(locations).Keys()
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ApplyFilters() kept %v, want %v", got, tt.expected)
			}
		})
	}

	if len(locations) != 3 {
		t.Errorf("ApplyFilters() modified its input")
	}
}
