package sqltable

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderjulianmartinez/rowsearch/internal/source"
	"github.com/alexanderjulianmartinez/rowsearch/pkg/types"
)

// Dialect quotes identifiers for a database. All supported drivers use "?"
// placeholders.
type Dialect struct {
	Name  string
	Quote func(ident string) string
}

var (
	Backtick = Dialect{Name: "mysql", Quote: func(s string) string {
		return "`" + strings.ReplaceAll(s, "`", "``") + "`"
	}}
	DoubleQuote = Dialect{Name: "sqlite", Quote: func(s string) string {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}}
)

// Repository reads and writes one database table.
type Repository struct {
	name    string
	db      *sql.DB
	table   string
	dialect Dialect
}

func New(name string, db *sql.DB, table string, dialect Dialect) (*Repository, error) {
	if db == nil {
		return nil, errors.New("database handle is required")
	}
	if table == "" {
		return nil, errors.New("table name is required")
	}
	return &Repository{name: name, db: db, table: table, dialect: dialect}, nil
}

func (r *Repository) Name() string {
	return r.name
}

func (r *Repository) Load(ctx context.Context) (*types.Table, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT * FROM "+r.dialect.Quote(r.table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	t := types.NewTable(r.name, cols)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.table, err)
		}
		row := make(types.Row, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, rows.Err()
}

func (r *Repository) insertSQL(columns []string) string {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = r.dialect.Quote(col)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		r.dialect.Quote(r.table),
		strings.Join(quoted, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", "),
	)
}

func args(columns []string, row types.Row) []any {
	out := make([]any, len(columns))
	for i, col := range columns {
		out[i] = row[col]
	}
	return out
}

func (r *Repository) AppendRow(ctx context.Context, columns []string, row types.Row) error {
	if len(columns) == 0 {
		return errors.New("no columns to insert")
	}
	if _, err := r.db.ExecContext(ctx, r.insertSQL(columns), args(columns, row)...); err != nil {
		return fmt.Errorf("insert into %s: %w", r.table, err)
	}
	return nil
}

// Save replaces the table's contents inside a single transaction.
func (r *Repository) Save(ctx context.Context, t *types.Table) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM "+r.dialect.Quote(r.table)); err != nil {
		return fmt.Errorf("clear %s: %w", r.table, err)
	}
	if len(t.Rows) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx, r.insertSQL(t.Columns))
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()
		for _, row := range t.Rows {
			if _, err = stmt.ExecContext(ctx, args(t.Columns, row)...); err != nil {
				return fmt.Errorf("insert into %s: %w", r.table, err)
			}
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

var (
	_ source.Repository  = (*Repository)(nil)
	_ source.RowAppender = (*Repository)(nil)
)
