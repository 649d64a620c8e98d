package parser

import "strings"

// MenuPath splits a menu page path of the form /menu/<school>/<menu-type>.
// A school page yields an empty menuType; anything else yields empty strings.
func MenuPath(path string) (school, menuType string) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || parts[0] != "menu" || parts[1] == "" || parts[1] == "api" {
		return "", ""
	}

	school = parts[1]
	if len(parts) > 2 {
		menuType = parts[2]
	}
	return school, menuType
}
