package sheets

import (
	"context"
	"fmt"
	"strings"

	"eudamed_scraper/internal/retry"

	"github.com/rs/zerolog/log"
)

// Mirror copies the scraped sheet into a Google spreadsheet, replacing the
// previous contents of the target tab on every Persist.
type Mirror struct {
	client        *Client
	spreadsheetID string
	tab           string
	retryConfig   retry.Config
}

// NewMirror returns a mirror writing to tab, or to the scraped sheet's own name when tab is empty.
func NewMirror(client *Client, spreadsheetID, tab string, retryConfig retry.Config) *Mirror {
	return &Mirror{
		client:        client,
		spreadsheetID: ExtractSpreadsheetID(spreadsheetID),
		tab:           tab,
		retryConfig:   retryConfig,
	}
}

func (m *Mirror) Persist(ctx context.Context, sheetName string, header []string, rows [][]string) error {
	tab := m.tab
	if tab == "" {
		tab = sheetName
	}
	quoted := quoteSheetName(tab)
	values := toValues(header, rows)

	err := retry.Do(ctx, m.retryConfig, func(ctx context.Context) error {
		if err := m.client.ClearRange(ctx, m.spreadsheetID, quoted); err != nil {
			return err
		}
		return m.client.UpdateRange(ctx, m.spreadsheetID, quoted+"!A1", values)
	})
	if err != nil {
		return fmt.Errorf("failed to mirror sheet %q: %w", tab, err)
	}

	log.Debug().
		Str("spreadsheet_id", m.spreadsheetID).
		Str("tab", tab).
		Int("rows", len(rows)).
		Msg("Mirrored sheet to Google Sheets")
	return nil
}

func toValues(header []string, rows [][]string) [][]interface{} {
	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, toRow(header))
	for _, row := range rows {
		values = append(values, toRow(row))
	}
	return values
}

func toRow(cells []string) []interface{} {
	row := make([]interface{}, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

// quoteSheetName wraps a tab name in single quotes for A1 notation.
func quoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// ExtractSpreadsheetID accepts either a bare spreadsheet ID or a full
// https://docs.google.com/spreadsheets/d/<ID>/edit URL.
func ExtractSpreadsheetID(value string) string {
	parts := strings.Split(value, "/d/")
	if len(parts) < 2 {
		return strings.TrimSpace(value)
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
