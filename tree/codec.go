package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Indent is the indentation used when writing trees back to disk.
const Indent = "    "

// FromValue converts a decoded Go value (the shapes produced by encoding/json
// or yaml) into a Node.
func FromValue(v any) (Node, error) {
	return fromValue(v, "$")
}

func fromValue(v any, path string) (Node, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case Node:
		return Clone(v), nil
	case map[string]any:
		m := make(Mapping, len(v))
		for k, child := range v {
			n, err := fromValue(child, path+"."+k)
			if err != nil {
				return nil, err
			}
			m[k] = n
		}
		return m, nil
	case []any:
		s := make(Sequence, len(v))
		for i, child := range v {
			n, err := fromValue(child, path+"["+strconv.Itoa(i)+"]")
			if err != nil {
				return nil, err
			}
			s[i] = n
		}
		return s, nil
	case string:
		return String(v), nil
	case json.Number:
		return Number(v), nil
	case float64:
		return Float(v), nil
	case int:
		return Int(v), nil
	case int64:
		return Number(strconv.FormatInt(v, 10)), nil
	case bool:
		return Bool(v), nil
	}
	return nil, ErrMalformedNode.New(v, path)
}

// ToValue converts n into plain Go values suitable for encoding/json.
func ToValue(n Node) (any, error) {
	return toValue(n, "$")
}

func toValue(n Node, path string) (any, error) {
	switch n := n.(type) {
	case nil:
		return nil, nil
	case Mapping:
		m := make(map[string]any, len(n))
		for k, child := range n {
			v, err := toValue(child, path+"."+k)
			if err != nil {
				return nil, err
			}
			m[k] = v
		}
		return m, nil
	case Sequence:
		s := make([]any, len(n))
		for i, child := range n {
			v, err := toValue(child, path+"["+strconv.Itoa(i)+"]")
			if err != nil {
				return nil, err
			}
			s[i] = v
		}
		return s, nil
	case String:
		return string(n), nil
	case Number:
		return json.Number(n), nil
	case Bool:
		return bool(n), nil
	}
	return nil, ErrMalformedNode.New(n, path)
}

// Decode reads a single JSON document from r. Anything but whitespace after
// the document is an error.
func Decode(r io.Reader) (Node, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode tree: %w", err)
	}

	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, fmt.Errorf("failed to decode tree: trailing data after document at offset %d", dec.InputOffset())
	}
	return FromValue(v)
}

// Unmarshal decodes a JSON document.
func Unmarshal(data []byte) (Node, error) {
	return Decode(bytes.NewReader(data))
}

// Marshal encodes n as indented JSON without HTML escaping.
func Marshal(n Node) ([]byte, error) {
	v, err := ToValue(n)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode tree: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadFile loads the tree stored at path.
func ReadFile(path string) (Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	n, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return n, nil
}

// WriteFile overwrites path with the encoded tree.
func WriteFile(path string, n Node) error {
	data, err := Marshal(n)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
