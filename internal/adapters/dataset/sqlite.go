package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"github.com/okian/medalcast/internal/domain/model"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLite reads records from one table of a SQLite database. The table uses
// the same column names as the CSV layout.
type SQLite struct {
	path  string
	table string
}

// NewSQLite creates a SQLite source. The table name must be a plain
// identifier.
func NewSQLite(path, table string) (*SQLite, error) {
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	return &SQLite{path: path, table: table}, nil
}

// Describe implements Source.
func (s *SQLite) Describe() string { return "sqlite:" + s.path + "#" + s.table }

// Load implements Source.
func (s *SQLite) Load(ctx context.Context) ([]model.MedalRecord, error) {
	// sql.Open would create an empty database for a missing path
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found", ErrDataUnavailable, s.path)
		}
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", ErrDataUnavailable, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+s.table) //nolint:gosec // table validated in NewSQLite
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %w", ErrDataUnavailable, s.table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: columns: %w", ErrDataUnavailable, err)
	}
	dec := newDecoder(cols)

	raw := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range raw {
		dest[i] = &raw[i]
	}
	row := make([]string, len(cols))

	var out []model.MedalRecord
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: scan: %w", ErrDataUnavailable, err)
		}
		for i, v := range raw {
			row[i] = v.String
		}
		out = append(out, dec.decode(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %w", ErrDataUnavailable, err)
	}
	return out, nil
}
