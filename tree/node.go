package tree

import (
	"sort"
	"strconv"

	errors "gopkg.in/src-d/go-errors.v1"
)

// ErrMalformedNode is returned when a value is not one of the node kinds
// below. It is never recovered from.
var ErrMalformedNode = errors.NewKind("malformed tree node of type %T at %s")

// Node is a JSON-like tree node. It is one of Mapping, Sequence, String,
// Number, Bool, or nil for null.
type Node interface {
	isNode()
}

// Mapping is an object node.
type Mapping map[string]Node

// Sequence is an array node.
type Sequence []Node

// String is a string scalar.
type String string

// Number is a numeric scalar kept as its decimal text so integers survive a
// round trip unchanged.
type Number string

// Bool is a boolean scalar.
type Bool bool

func (Mapping) isNode()  {}
func (Sequence) isNode() {}
func (String) isNode()   {}
func (Number) isNode()   {}
func (Bool) isNode()     {}

// Kind is the tag of a node.
type Kind int

const (
	KindNil = Kind(iota)
	KindMapping
	KindSequence
	KindString
	KindNumber
	KindBool
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "null"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	}
	return "invalid"
}

// KindOf returns the kind of n.
func KindOf(n Node) Kind {
	switch n.(type) {
	case nil:
		return KindNil
	case Mapping:
		return KindMapping
	case Sequence:
		return KindSequence
	case String:
		return KindString
	case Number:
		return KindNumber
	case Bool:
		return KindBool
	}
	return KindInvalid
}

// IsScalar reports whether n is a leaf value (including null).
func IsScalar(n Node) bool {
	switch KindOf(n) {
	case KindNil, KindString, KindNumber, KindBool:
		return true
	}
	return false
}

// Int returns a Number holding v.
func Int(v int) Number {
	return Number(strconv.Itoa(v))
}

// Float returns a Number holding v in its shortest exact decimal form.
func Float(v float64) Number {
	return Number(strconv.FormatFloat(v, 'f', -1, 64))
}

// Float64 parses the number.
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// Int64 parses the number as an integer.
func (n Number) Int64() (int64, error) {
	return strconv.ParseInt(string(n), 10, 64)
}

// Keys returns the keys of m in sorted order.
func (m Mapping) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Text returns the string stored under key, if there is one.
func (m Mapping) Text(key string) (string, bool) {
	s, ok := m[key].(String)
	return string(s), ok
}

// Clone returns a deep copy of n.
func Clone(n Node) Node {
	switch n := n.(type) {
	case Mapping:
		out := make(Mapping, len(n))
		for k, v := range n {
			out[k] = Clone(v)
		}
		return out
	case Sequence:
		if n == nil {
			return Sequence(nil)
		}
		out := make(Sequence, len(n))
		for i, v := range n {
			out[i] = Clone(v)
		}
		return out
	}
	return n
}

// Walk visits n and its descendants in pre-order. Mapping keys are visited in
// sorted order. path holds the keys (and decimal indexes) leading to the
// visited node. Returning false from fn skips the node's children.
func Walk(n Node, fn func(path []string, n Node) bool) {
	walk(nil, n, fn)
}

func walk(path []string, n Node, fn func(path []string, n Node) bool) {
	if !fn(path, n) {
		return
	}
	switch n := n.(type) {
	case Mapping:
		for _, k := range n.Keys() {
			walk(appendPath(path, k), n[k], fn)
		}
	case Sequence:
		for i, v := range n {
			walk(appendPath(path, strconv.Itoa(i)), v, fn)
		}
	}
}

func appendPath(path []string, elem string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = elem
	return out
}
