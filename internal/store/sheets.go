package store

import (
	"context"
	"fmt"
	"time"

	"applybot/core/logger"
	"log/slog"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsOptions configures the Google Sheets driver.
type SheetsOptions struct {
	CredentialsFile string
	SpreadsheetID   string
	// SheetName is the tab holding application rows, "Sheet1" by default.
	SheetName string
}

type sheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsStore builds a Store backed by a Google Sheets worksheet.
func NewSheetsStore(ctx context.Context, opts SheetsOptions) (Store, error) {
	if opts.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets store: spreadsheet id is required")
	}
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(opts.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets store: service init: %w", err)
	}
	name := opts.SheetName
	if name == "" {
		name = "Sheet1"
	}
	logger.Store.Info("sheets store ready",
		slog.String("event", "store.init"),
		slog.String("driver", "sheets"),
		slog.String("sheet", name),
	)
	return &sheetsStore{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		sheetName:     name,
	}, nil
}

func (s *sheetsStore) Append(ctx context.Context, row []string) error {
	if len(row) != NumColumns {
		return ErrBadRow
	}

	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{cells}}

	start := time.Now()
	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, s.sheetName, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		logger.Error(ctx, "store", "append.fail",
			slog.String("driver", "sheets"),
			slog.String("sheet", s.sheetName),
			slog.Duration("duration", logger.Took(start)),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("sheets store: append: %w", err)
	}

	logger.Debug(ctx, "store", "append.ok",
		slog.String("driver", "sheets"),
		slog.String("sheet", s.sheetName),
		slog.Int("row_cols", len(row)),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

func (s *sheetsStore) ReadColumn(ctx context.Context, index int) ([]string, error) {
	letter, err := columnLetter(index)
	if err != nil {
		return nil, err
	}
	rangeA1 := fmt.Sprintf("%s!%s:%s", s.sheetName, letter, letter)

	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, rangeA1).
		Context(ctx).
		Do()
	if err != nil {
		logger.Error(ctx, "store", "read_column.fail",
			slog.String("driver", "sheets"),
			slog.String("sheet", s.sheetName),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("sheets store: read column %d: %w", index, err)
	}

	out := make([]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		if len(row) == 0 {
			out = append(out, "")
			continue
		}
		out = append(out, fmt.Sprint(row[0]))
	}
	return out, nil
}

// columnLetter converts a 1-based column index to its A1 letter. Rows are
// ten columns wide, so single letters cover the whole range.
func columnLetter(index int) (string, error) {
	if index < 1 || index > 26 {
		return "", fmt.Errorf("sheets store: column index %d out of range", index)
	}
	return string(rune('A' + index - 1)), nil
}
