package source

import (
	"context"
	"errors"

	"github.com/alexanderjulianmartinez/rowsearch/pkg/types"
)

var ErrUnsupported = errors.New("operation not supported by source")

type ColumnInfo struct {
	Name     string
	Type     string
	Nullable bool
}

type TableInfo struct {
	Name     string
	Columns  []ColumnInfo
	RowCount int64
}

type InspectionResult struct {
	Source string
	Tables []TableInfo
}

// Repository loads a whole table and writes it back.
type Repository interface {
	Name() string
	Load(ctx context.Context) (*types.Table, error)
	Save(ctx context.Context, t *types.Table) error
}

// RowAppender is implemented by repositories that can add a single row
// without rewriting the table.
type RowAppender interface {
	AppendRow(ctx context.Context, columns []string, row types.Row) error
}

// Inspector lists the tables (or sheets) a source holds.
type Inspector interface {
	Inspect(ctx context.Context) (*InspectionResult, error)
}
