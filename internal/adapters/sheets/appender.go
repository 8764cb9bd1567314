package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/samirrijal/roadwatch/internal/core/domain"
	"github.com/samirrijal/roadwatch/internal/pkg/metrics"
)

// Appender implements ports.RowAppender against a Google Sheets worksheet.
// One submission becomes one appended row in the fixed 12-column schema.
type Appender struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
}

// New creates a sheets Appender using a service-account credentials file.
func New(ctx context.Context, spreadsheetID, sheetName, credentialsFile string) (*Appender, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	return &Appender{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// EnsureHeader writes the column header row if the sheet is empty. Existing
// headers are left untouched even when they differ; the sheet owner decides
// when to migrate.
func (a *Appender) EnsureHeader(ctx context.Context) error {
	readRange := fmt.Sprintf("%s!A1:L1", a.sheetName)
	resp, err := a.svc.Spreadsheets.Values.Get(a.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}

	header := domain.Columns()
	row := make([]interface{}, len(header))
	for i, col := range header {
		row[i] = col
	}
	_, err = a.svc.Spreadsheets.Values.Update(a.spreadsheetID, readRange, &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

// Append adds one row after the last non-empty row of the sheet.
func (a *Appender) Append(ctx context.Context, row []string) error {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}

	_, err := a.svc.Spreadsheets.Values.Append(
		a.spreadsheetID,
		fmt.Sprintf("%s!A:L", a.sheetName),
		&sheets.ValueRange{Values: [][]interface{}{cells}},
	).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		metrics.SheetAppends.WithLabelValues("error").Inc()
		return fmt.Errorf("append row: %w", err)
	}
	metrics.SheetAppends.WithLabelValues("ok").Inc()
	return nil
}
