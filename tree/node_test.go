package tree

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnmarshal(t *testing.T) {
	n, err := Unmarshal([]byte(`{
		"West Side Dining": {"Lunch": {"url": "http://x/1"}, "open": true},
		"hours": [7, 21.5, null],
		"note": "ok"
	}`))
	require.NoError(t, err)
	require.Equal(t, Mapping{
		"West Side Dining": Mapping{
			"Lunch": Mapping{"url": String("http://x/1")},
			"open":  Bool(true),
		},
		"hours": Sequence{Number("7"), Number("21.5"), nil},
		"note":  String("ok"),
	}, n)
}

func TestUnmarshalInvalid(t *testing.T) {
	_, err := Unmarshal([]byte(`{"a": `))
	require.Error(t, err)
}

func TestUnmarshalTrailingData(t *testing.T) {
	for _, input := range []string{
		`{"a": 1} {"b": 2} garbage`,
		`{"a": 1} garbage`,
		`{"a": 1}}`,
		`[1] [2]`,
	} {
		_, err := Unmarshal([]byte(input))
		require.Error(t, err, input)
	}

	n, err := Unmarshal([]byte("{\"a\": 1}\n\n  \t"))
	require.NoError(t, err)
	require.Equal(t, Mapping{"a": Number("1")}, n)
}

func TestMarshalRoundTrip(t *testing.T) {
	in := Mapping{
		"A": Mapping{"url": String("http://x/1?a=1&b=<2>"), "items": Mapping{"Pizza": Int(500)}},
		"B": Sequence{Bool(false), nil, Float(0.25)},
	}
	data, err := Marshal(in)
	require.NoError(t, err)
	require.Contains(t, string(data), `"http://x/1?a=1&b=<2>"`)
	require.Contains(t, string(data), "\n"+Indent+`"A": {`)

	out, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

type opaque struct{}

func (opaque) isNode() {}

func TestMalformed(t *testing.T) {
	_, err := FromValue(map[string]any{"a": []any{1, struct{}{}}})
	require.True(t, ErrMalformedNode.Is(err), "unexpected error: %v", err)
	require.Contains(t, err.Error(), "$.a[1]")

	_, err = Marshal(Mapping{"x": opaque{}})
	require.True(t, ErrMalformedNode.Is(err), "unexpected error: %v", err)
	require.Equal(t, KindInvalid, KindOf(opaque{}))
}

func TestClone(t *testing.T) {
	inner := Mapping{"v": Int(1)}
	orig := Mapping{"k": inner, "s": Sequence{inner}}

	cp := Clone(orig)
	inner["new"] = Int(0)

	require.Equal(t, Mapping{
		"k": Mapping{"v": Int(1)},
		"s": Sequence{Mapping{"v": Int(1)}},
	}, cp)
}

func TestWalk(t *testing.T) {
	n := Mapping{
		"b": Sequence{String("x"), Mapping{"c": Int(1)}},
		"a": Mapping{"skip": Mapping{"deep": Int(2)}},
	}

	var paths []string
	Walk(n, func(path []string, n Node) bool {
		paths = append(paths, strings.Join(path, "/"))
		return len(path) == 0 || path[len(path)-1] != "skip"
	})
	require.Equal(t, []string{"", "a", "a/skip", "b", "b/0", "b/1", "b/1/c"}, paths)
}

func TestMappingText(t *testing.T) {
	m := Mapping{"url": String("http://x"), "n": Int(3), "null": nil}

	s, ok := m.Text("url")
	require.True(t, ok)
	require.Equal(t, "http://x", s)

	_, ok = m.Text("n")
	require.False(t, ok)
	_, ok = m.Text("null")
	require.False(t, ok)
	require.Equal(t, []string{"n", "null", "url"}, m.Keys())
}

func TestFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.json")
	in := Mapping{"Roth": Mapping{"url": nil}}

	require.NoError(t, WriteFile(path, in))
	out, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, in, out)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
