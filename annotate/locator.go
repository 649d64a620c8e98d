package annotate

import (
	"strings"

	"menu-scraper/tree"
)

// Locator decides which nodes are leaves of interest.
type Locator interface {
	// Locate reports whether n should be resolved and returns the value
	// handed to the Resolver.
	Locate(n tree.Node) (string, bool)
	// Field is the mapping key that holds the located value.
	Field() string
}

// HasField matches mappings whose field holds a string.
func HasField(field string) Locator {
	return fieldLocator(field)
}

type fieldLocator string

func (f fieldLocator) Field() string { return string(f) }

func (f fieldLocator) Locate(n tree.Node) (string, bool) {
	m, ok := n.(tree.Mapping)
	if !ok {
		return "", false
	}
	return m.Text(string(f))
}

// BareURL matches bare string scalars starting with prefix as well as
// mappings matched by HasField(field). A matched scalar is promoted to a
// mapping holding it under field.
func BareURL(field, prefix string) Locator {
	return bareLocator{field: field, prefix: prefix}
}

type bareLocator struct {
	field  string
	prefix string
}

func (b bareLocator) Field() string { return b.field }

func (b bareLocator) Locate(n tree.Node) (string, bool) {
	switch n := n.(type) {
	case tree.String:
		if strings.HasPrefix(string(n), b.prefix) {
			return string(n), true
		}
	case tree.Mapping:
		return n.Text(b.field)
	}
	return "", false
}
