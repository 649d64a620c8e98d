package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"menu-scraper/models"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type fakeSheetsAPI struct {
	mu      sync.Mutex
	titles  map[string]int64
	added   []string
	cleared []string
	written map[string][][]interface{}
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	body, _ := io.ReadAll(r.Body)
	path := r.URL.Path

	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/spreadsheets/sheet-id"):
		var sheets []string
		for title, id := range f.titles {
			sheets = append(sheets, fmt.Sprintf(`{"properties": {"title": %q, "sheetId": %d}}`, title, id))
		}
		fmt.Fprintf(w, `{"spreadsheetId": "sheet-id", "sheets": [%s]}`, strings.Join(sheets, ","))

	case strings.HasSuffix(path, ":batchUpdate"):
		var req struct {
			Requests []struct {
				AddSheet struct {
					Properties struct {
						Title string `json:"title"`
					} `json:"properties"`
				} `json:"addSheet"`
			} `json:"requests"`
		}
		json.Unmarshal(body, &req)
		title := req.Requests[0].AddSheet.Properties.Title
		f.added = append(f.added, title)
		f.titles[title] = 99
		fmt.Fprintf(w, `{"replies": [{"addSheet": {"properties": {"title": %q, "sheetId": 99}}}]}`, title)

	case strings.HasSuffix(path, ":clear"):
		rng := strings.TrimSuffix(path[strings.Index(path, "/values/")+len("/values/"):], ":clear")
		f.cleared = append(f.cleared, rng)
		fmt.Fprint(w, `{}`)

	case r.Method == http.MethodPut && strings.Contains(path, "/values/"):
		var vr struct {
			Values [][]interface{} `json:"values"`
		}
		json.Unmarshal(body, &vr)
		f.written[path[strings.Index(path, "/values/")+len("/values/"):]] = vr.Values
		fmt.Fprint(w, `{}`)

	default:
		http.NotFound(w, r)
	}
}

func newTestWriter(t *testing.T, api *fakeSheetsAPI) *Writer {
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	w, err := NewWriterWithOptions(context.Background(), "sheet-id",
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	return w
}

func TestWriteMenuExistingSheet(t *testing.T) {
	api := &fakeSheetsAPI{titles: map[string]int64{"Menu": 7}, written: map[string][][]interface{}{}}
	w := newTestWriter(t, api)

	id, err := w.WriteMenu(context.Background(), "Menu", []models.MenuRow{
		{Location: "Roth", Menu: "Lunch", Item: "Burger", Calories: 540},
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), id)
	require.Empty(t, api.added)
	require.Equal(t, []string{"'Menu'"}, api.cleared)
	require.Equal(t, [][]interface{}{
		{"Location", "Menu", "Item", "Calories"},
		{"Roth", "Lunch", "Burger", float64(540)},
	}, api.written["'Menu'!A1"])
}

func TestWriteMenuCreatesSheet(t *testing.T) {
	api := &fakeSheetsAPI{titles: map[string]int64{"Sheet1": 0}, written: map[string][][]interface{}{}}
	w := newTestWriter(t, api)

	id, err := w.WriteMenu(context.Background(), "Menu/Today", nil)
	require.NoError(t, err)
	require.Equal(t, int64(99), id)
	require.Equal(t, []string{"Menu_Today"}, api.added)
	require.Len(t, api.written["'Menu_Today'!A1"], 1)
}

func TestNewWriterCredentials(t *testing.T) {
	t.Setenv(CredentialsEnv, "")

	_, err := NewWriter(context.Background(), "sheet-id", "")
	require.Error(t, err)

	t.Setenv(CredentialsEnv, `{"type": "authorized_user"}`)
	_, err = NewWriter(context.Background(), "sheet-id", "")
	require.ErrorContains(t, err, "service_account")

	t.Setenv(CredentialsEnv, `not json`)
	_, err = NewWriter(context.Background(), "sheet-id", "")
	require.ErrorContains(t, err, "invalid credentials JSON")
}

func TestExtractSpreadsheetID(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://docs.google.com/spreadsheets/d/abc123/edit", "abc123"},
		{"https://docs.google.com/spreadsheets/d/abc123/edit?usp=sharing", "abc123"},
		{"https://docs.google.com/spreadsheets/d/abc123?x=1", "abc123"},
		{"abc123", "abc123"},
		{"https://example.com/other", ""},
	}

	for _, tt := range tests {
		if got := ExtractSpreadsheetID(tt.url); got != tt.expected {
			t.Errorf("ExtractSpreadsheetID(%q) = %q, want %q", tt.url, got, tt.expected)
		}
	}
}

func TestSheetURL(t *testing.T) {
	got := SheetURL("https://docs.google.com/spreadsheets/d/abc123/edit", 42)
	if got != "https://docs.google.com/spreadsheets/d/abc123/edit#gid=42" {
		t.Errorf("SheetURL() = %q", got)
	}
	if got := SheetURL("https://example.com/x", 1); got != "https://example.com/x" {
		t.Errorf("SheetURL() fallback = %q", got)
	}
}

func TestSanitizeSheetName(t *testing.T) {
	tests := map[string]string{
		"Menu":          "Menu",
		" a/b\\c?d*[e] ": "a_b_c_d__e_",
		"///":           "___",
		"   ":           "Sheet1",
	}
	for in, expected := range tests {
		if got := sanitizeSheetName(in); got != expected {
			t.Errorf("sanitizeSheetName(%q) = %q, want %q", in, got, expected)
		}
	}
}

func TestSanitizeSheetNameTruncatesRunes(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"ascii", strings.Repeat("a", 120), strings.Repeat("a", 100)},
		{"multi-byte", strings.Repeat("é", 120), strings.Repeat("é", 100)},
		{"boundary", "a" + strings.Repeat("日", 110), "a" + strings.Repeat("日", 99)},
		{"short multi-byte", strings.Repeat("日", 60), strings.Repeat("日", 60)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeSheetName(tt.in)
			if got != tt.expected {
				t.Errorf("sanitizeSheetName() = %q, want %q", got, tt.expected)
			}
			if !utf8.ValidString(got) {
				t.Errorf("sanitizeSheetName() returned invalid UTF-8 %q", got)
			}
		})
	}
}
