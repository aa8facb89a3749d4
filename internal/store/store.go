// Package store persists application rows in a tabular backend.
//
// Both drivers expose the same shape: a fixed-width row append and a
// positional column read whose first element is the header cell. Column
// indexes are 1-based, matching spreadsheet column numbering.
package store

import (
	"context"
	"errors"
)

// NumColumns is the fixed row width for application records.
const NumColumns = 10

// Header labels for the ten row columns, in order.
var Header = [NumColumns]string{
	"Дата",
	"Ім'я",
	"Вік",
	"Місто",
	"Документи",
	"Досвід",
	"Телефон",
	"ID",
	"Username",
	"Профіль",
}

// ColumnTelegramID is the 1-based index of the Telegram user id column.
const ColumnTelegramID = 8

// ErrBadRow is returned when an appended row has the wrong width.
var ErrBadRow = errors.New("store: row must have exactly 10 columns")

// Store is the persistence contract for application records.
type Store interface {
	// Append adds one row after the existing rows. The row must contain
	// exactly NumColumns values.
	Append(ctx context.Context, row []string) error
	// ReadColumn returns every cell of the 1-based column, header first.
	ReadColumn(ctx context.Context, index int) ([]string, error)
}
