package models

// WeekMenu is the payload of the weeks menu API
type WeekMenu struct {
	StartDate string `json:"start_date"`
	Days      []Day  `json:"days"`
}

// Day is one day of a WeekMenu
type Day struct {
	Date      string     `json:"date"`
	MenuItems []MenuItem `json:"menu_items"`
}

// MenuItem is either a section title or a food entry
type MenuItem struct {
	IsSectionTitle bool   `json:"is_section_title"`
	Text           string `json:"text"`
	Food           *Food  `json:"food"`
}

// Food describes a dish. Name is nil when the payload has no name key.
type Food struct {
	Name                 *string        `json:"name"`
	RoundedNutritionInfo *NutritionInfo `json:"rounded_nutrition_info"`
}

// NutritionInfo holds the rounded nutrition facts; missing values stay nil
type NutritionInfo struct {
	Calories *float64 `json:"calories"`
}

// Calories maps a food name to its calorie count
type Calories map[string]int

// MenuSections maps a section heading on a rendered menu page to the food
// names listed under it
type MenuSections map[string][]string

// MenuRow is one flattened line of an annotated menu tree
type MenuRow struct {
	Location string
	Menu     string // Path below the location, e.g. "Lunch" or "Grill / Dinner"
	Item     string
	Calories int
}
