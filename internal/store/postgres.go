package store

import (
	"context"
	"fmt"
	"time"

	"applybot/core/logger"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// pgColumns maps 1-based row positions to table columns, in row order.
var pgColumns = [NumColumns]string{
	"submitted_at",
	"full_name",
	"age",
	"city",
	"documents",
	"experience",
	"phone",
	"telegram_id",
	"username",
	"profile_name",
}

type postgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore builds a Store backed by the applications table.
func NewPostgresStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) Append(ctx context.Context, row []string) error {
	if len(row) != NumColumns {
		return ErrBadRow
	}

	const q = `INSERT INTO applications
		(submitted_at, full_name, age, city, documents, experience, phone, telegram_id, username, profile_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	args := make([]interface{}, len(row))
	for i, v := range row {
		args[i] = v
	}

	start := time.Now()
	_, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		logger.Error(ctx, "store", "append.fail",
			slog.String("driver", "postgres"),
			slog.Duration("duration", logger.Took(start)),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("postgres store: append: %w", err)
	}

	logger.Debug(ctx, "store", "append.ok",
		slog.String("driver", "postgres"),
		slog.Int("row_cols", len(row)),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

func (s *postgresStore) ReadColumn(ctx context.Context, index int) ([]string, error) {
	if index < 1 || index > NumColumns {
		return nil, fmt.Errorf("postgres store: column index %d out of range", index)
	}
	col := pgColumns[index-1]

	q := fmt.Sprintf(`SELECT %s FROM applications ORDER BY id`, col)

	var values []string
	if err := s.db.SelectContext(ctx, &values, q); err != nil {
		logger.Error(ctx, "store", "read_column.fail",
			slog.String("driver", "postgres"),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("postgres store: read column %d: %w", index, err)
	}

	// The table has no header row, so one is synthesized to keep both
	// drivers on the same contract.
	out := make([]string, 0, len(values)+1)
	out = append(out, Header[index-1])
	out = append(out, values...)
	return out, nil
}
