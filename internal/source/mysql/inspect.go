package mysql

import (
	"context"
	"fmt"

	"github.com/alexanderjulianmartinez/rowsearch/internal/source"
)

func (i *Inspector) Inspect(ctx context.Context) (*source.InspectionResult, error) {
	tables, err := i.FetchAllTableNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	var results []source.TableInfo
	for _, tableName := range tables {
		schema, err := i.FetchSchema(ctx, tableName)
		if err != nil {
			return nil, fmt.Errorf("schema of %s: %w", tableName, err)
		}

		rowCount, err := i.FetchRowCount(ctx, tableName)
		if err != nil {
			return nil, fmt.Errorf("row count of %s: %w", tableName, err)
		}

		results = append(results, source.TableInfo{
			Name:     tableName,
			Columns:  schema,
			RowCount: rowCount,
		})
	}

	return &source.InspectionResult{
		Source: "mysql:" + i.schema,
		Tables: results,
	}, nil
}

var _ source.Inspector = (*Inspector)(nil)
