// Package google stores the ledger in one tab of a Google spreadsheet: a
// header row followed by one row per record.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"spese/internal/core"
	"spese/internal/storage"

	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Config addresses the spreadsheet tab and carries the service account
// credentials. CredentialsJSON takes precedence over CredentialsFile.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

// Client is a Google Sheets backing store.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Ensure interface conformance
var _ storage.RecordStore = (*Client)(nil)

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, cfg Config) (*Client, error) {
	spreadsheetID := strings.TrimSpace(cfg.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	sheetName := strings.TrimSpace(cfg.SheetName)
	if sheetName == "" {
		sheetName = "Expenses"
	}

	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return newClient(svc, spreadsheetID, sheetName), nil
}

func newClient(svc *gsheet.Service, spreadsheetID, sheetName string) *Client {
	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}
}

func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(cfg.CredentialsJSON)
	serviceAccountFile := strings.TrimSpace(cfg.CredentialsFile)

	// Also check the standard Google Cloud environment variable
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		slog.DebugContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		slog.DebugContext(ctx, "Reading credentials from file", "path", serviceAccountFile)
		data, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// Location implements storage.RecordStore
func (c *Client) Location() string {
	return fmt.Sprintf("sheets:%s/%s", c.spreadsheetID, c.sheetName)
}

// Load implements storage.RecordLoader. A tab that does not exist is
// reported as storage.ErrNotExist; an empty tab is an empty ledger.
func (c *Client) Load(ctx context.Context) ([]core.Record, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:Z", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		if isMissingRange(err) {
			return nil, fmt.Errorf("read %s: %w", rng, storage.ErrNotExist)
		}
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	records, err := parseValues(resp.Values)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rng, err)
	}

	slog.DebugContext(ctx, "Expenses loaded from Google Sheets", "range", rng, "records", len(records))
	return records, nil
}

// Save implements storage.RecordSaver. The new content is written first and
// the rows left below it are cleared afterwards, so the tab is never blank.
// A missing tab is created on the first save.
func (c *Client) Save(ctx context.Context, records []core.Record) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	values := toValues(records)
	rng := fmt.Sprintf("%s!A1:D%d", c.sheetName, len(values))
	err := c.update(ctx, rng, values)
	if isMissingRange(err) {
		if err := c.addSheet(ctx); err != nil {
			return err
		}
		err = c.update(ctx, rng, values)
	}
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}

	tail := fmt.Sprintf("%s!A%d:Z", c.sheetName, len(values)+1)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, tail, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", tail, err)
	}

	slog.DebugContext(ctx, "Expenses saved to Google Sheets", "range", rng, "records", len(records))
	return nil
}

func (c *Client) update(ctx context.Context, rng string, values [][]interface{}) error {
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: values}).
		ValueInputOption("RAW").Context(ctx).Do()
	return err
}

func (c *Client) addSheet(ctx context.Context) error {
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: c.sheetName},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %q: %w", c.sheetName, err)
	}
	slog.InfoContext(ctx, "Created ledger tab", "spreadsheet", c.spreadsheetID, "sheet", c.sheetName)
	return nil
}

// isMissingRange reports the API error returned when the tab does not exist.
func isMissingRange(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "Unable to parse range")
}
