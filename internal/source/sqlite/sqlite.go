package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/alexanderjulianmartinez/rowsearch/internal/source"
	"github.com/alexanderjulianmartinez/rowsearch/internal/source/sqltable"
)

// Open opens a SQLite database file. ":memory:" is allowed and is pinned to a
// single connection so every query sees the same database.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" || strings.Contains(path, "mode=memory") {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite open %s: %w", path, err)
	}
	return db, nil
}

func NewRepository(name string, db *sql.DB, table string) (*sqltable.Repository, error) {
	return sqltable.New(name, db, table, sqltable.DoubleQuote)
}

type Inspector struct {
	db   *sql.DB
	path string
}

func NewInspector(db *sql.DB, path string) *Inspector {
	return &Inspector{db: db, path: path}
}

func (i *Inspector) tableNames(ctx context.Context) ([]string, error) {
	rows, err := i.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (i *Inspector) columns(ctx context.Context, table string) ([]source.ColumnInfo, error) {
	rows, err := i.db.QueryContext(ctx, `SELECT name, type, "notnull" FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cols []source.ColumnInfo
	for rows.Next() {
		var name, typ string
		var notNull int
		if err := rows.Scan(&name, &typ, &notNull); err != nil {
			return nil, err
		}
		cols = append(cols, source.ColumnInfo{Name: name, Type: strings.ToLower(typ), Nullable: notNull == 0})
	}
	return cols, rows.Err()
}

func (i *Inspector) Inspect(ctx context.Context) (*source.InspectionResult, error) {
	names, err := i.tableNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	res := &source.InspectionResult{Source: "sqlite:" + i.path}
	for _, name := range names {
		cols, err := i.columns(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("schema of %s: %w", name, err)
		}
		var count int64
		q := "SELECT COUNT(*) FROM " + sqltable.DoubleQuote.Quote(name)
		if err := i.db.QueryRowContext(ctx, q).Scan(&count); err != nil {
			return nil, fmt.Errorf("row count of %s: %w", name, err)
		}
		res.Tables = append(res.Tables, source.TableInfo{Name: name, Columns: cols, RowCount: count})
	}
	return res, nil
}

var _ source.Inspector = (*Inspector)(nil)
