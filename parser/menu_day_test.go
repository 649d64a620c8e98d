package parser

import (
	"reflect"
	"testing"

	"menu-scraper/models"
)

const renderedMenu = `<html><body>
<ul class="menu-day show-description show-calories show-icons">
  <li>
    <h3> Entrees </h3>
    <ul>
      <li><span class="food-name"> Chicken Pho </span></li>
      <li><span class="food-name">Tofu Ramen</span></li>
    </ul>
  </li>
  <li><h3>Sides</h3><span class="food-name">Egg Roll</span></li>
  <li><h3>   </h3><span class="food-name">Ghost</span></li>
  <li><h3>Drinks</h3></li>
</ul>
</body></html>`

func TestParseMenuDay(t *testing.T) {
	got, err := ParseMenuDay(renderedMenu)
	if err != nil {
		t.Fatalf("ParseMenuDay() error = %v", err)
	}

	expected := models.MenuSections{
		"Entrees": {"Chicken Pho", "Tofu Ramen"},
		"Sides":   {"Egg Roll"},
		"Drinks":  {},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("ParseMenuDay() = %v, want %v", got, expected)
	}
}

func TestParseMenuDayMissing(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "  \n"},
		{"no list", `<ul class="menu-day"><li><h3>Partial class match</h3></li></ul>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMenuDay(tt.input)
			if !ErrNoMenu.Is(err) {
				t.Errorf("ParseMenuDay() error = %v, want ErrNoMenu", err)
			}
		})
	}
}
