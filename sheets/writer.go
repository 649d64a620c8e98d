package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"menu-scraper/models"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// CredentialsEnv holds service account credentials when no file is configured
const CredentialsEnv = "GOOGLE_SHEETS_CREDENTIALS"

// Writer handles writing menu rows to Google Sheets
type Writer struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewWriter creates a new Google Sheets writer
func NewWriter(ctx context.Context, spreadsheetID string, credentialsPath string) (*Writer, error) {
	// Read credentials from file or environment variable
	var credsJSON []byte
	var err error

	if credentialsPath != "" {
		credsJSON, err = os.ReadFile(credentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
	} else {
		credsEnv := strings.TrimSpace(os.Getenv(CredentialsEnv))
		if credsEnv == "" {
			return nil, fmt.Errorf("credentials not found: %s environment variable is empty or not set", CredentialsEnv)
		}
		log.Printf("Reading credentials from %s environment variable (%d bytes)\n", CredentialsEnv, len(credsEnv))
		credsJSON = []byte(credsEnv)
	}

	if err := validateCredentials(credsJSON); err != nil {
		return nil, err
	}

	return NewWriterWithOptions(ctx, spreadsheetID, option.WithCredentialsJSON(credsJSON))
}

// NewWriterWithOptions creates a writer from raw client options
func NewWriterWithOptions(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*Writer, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID must not be empty")
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

func validateCredentials(credsJSON []byte) error {
	var creds map[string]interface{}
	if err := json.Unmarshal(credsJSON, &creds); err != nil {
		return fmt.Errorf("invalid credentials JSON (check if JSON is properly formatted): %w", err)
	}

	if creds["type"] != "service_account" {
		return fmt.Errorf("credentials must be a service account JSON file (type: service_account), got type: %v", creds["type"])
	}
	return nil
}

// WriteMenu overwrites sheetName with a header and one row per item,
// creating the sheet first if needed. Returns the sheet ID (gid).
func (w *Writer) WriteMenu(ctx context.Context, sheetName string, rows []models.MenuRow) (int64, error) {
	sheetName = sanitizeSheetName(sheetName)

	sheetID, err := w.ensureSheet(ctx, sheetName)
	if err != nil {
		return 0, err
	}

	range_ := quoteSheetName(sheetName)
	if _, err := w.service.Spreadsheets.Values.Clear(w.spreadsheetID, range_, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do(); err != nil {
		log.Printf("Warning: Failed to clear existing data: %v\n", err)
	}

	valueRange := &sheets.ValueRange{
		Values: menuValues(rows),
	}

	_, err = w.service.Spreadsheets.Values.Update(w.spreadsheetID, range_+"!A1", valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("failed to write to sheet: %w", err)
	}

	log.Printf("Successfully wrote %d menu items to sheet '%s'\n", len(rows), sheetName)
	return sheetID, nil
}

// ensureSheet returns the ID of sheetName, adding it at index 0 when missing
func (w *Writer) ensureSheet(ctx context.Context, sheetName string) (int64, error) {
	spreadsheet, err := w.service.Spreadsheets.Get(w.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == sheetName {
			return sheet.Properties.SheetId, nil
		}
	}

	batchUpdateRequest := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: sheetName,
						Index: 0,
					},
				},
			},
		},
	}

	resp, err := w.service.Spreadsheets.BatchUpdate(w.spreadsheetID, batchUpdateRequest).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to create sheet: %w", err)
	}

	var sheetID int64
	if len(resp.Replies) > 0 && resp.Replies[0].AddSheet != nil && resp.Replies[0].AddSheet.Properties != nil {
		sheetID = resp.Replies[0].AddSheet.Properties.SheetId
	}

	log.Printf("Created sheet '%s' with ID %d\n", sheetName, sheetID)
	return sheetID, nil
}

func menuValues(rows []models.MenuRow) [][]interface{} {
	values := [][]interface{}{
		{"Location", "Menu", "Item", "Calories"},
	}
	for _, row := range rows {
		values = append(values, []interface{}{
			row.Location,
			row.Menu,
			row.Item,
			row.Calories,
		})
	}
	return values
}

// quoteSheetName quotes a sheet name for use in A1 notation
func quoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// sanitizeSheetName removes invalid characters from sheet name
func sanitizeSheetName(name string) string {
	// Google Sheets sheet names cannot contain: / \ ? * [ ]
	invalidChars := []string{"/", "\\", "?", "*", "[", "]"}
	result := name
	for _, char := range invalidChars {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	if result == "" {
		result = "Sheet1"
	}
	// The limit is 100 characters, not bytes
	if runes := []rune(result); len(runes) > 100 {
		result = string(runes[:100])
	}
	return result
}

// SheetURL returns a link that opens one sheet of the spreadsheet
func SheetURL(spreadsheetURL string, sheetID int64) string {
	spreadsheetID := ExtractSpreadsheetID(spreadsheetURL)
	if spreadsheetID == "" {
		return spreadsheetURL
	}
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit#gid=%d", spreadsheetID, sheetID)
}

// ExtractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL.
// A value without "/d/" is taken to be the ID itself.
func ExtractSpreadsheetID(url string) string {
	// https://docs.google.com/spreadsheets/d/SPREADSHEET_ID/edit?usp=sharing
	parts := strings.Split(url, "/d/")
	if len(parts) < 2 {
		if strings.Contains(url, "/") {
			return ""
		}
		return strings.TrimSpace(url)
	}

	idPart := parts[1]
	if idx := strings.Index(idPart, "/"); idx != -1 {
		idPart = idPart[:idx]
	}
	if idx := strings.Index(idPart, "?"); idx != -1 {
		idPart = idPart[:idx]
	}

	return strings.TrimSpace(idPart)
}
