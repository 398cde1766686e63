package xlsx

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/alexanderjulianmartinez/rowsearch/internal/source"
	"github.com/alexanderjulianmartinez/rowsearch/pkg/types"
)

type Options struct {
	Path string
	// Sheet defaults to the first sheet of the workbook.
	Sheet         string
	CreateColumns []string
}

type Repository struct {
	name string
	opts Options
}

func New(name string, opts Options) (*Repository, error) {
	if opts.Path == "" {
		return nil, errors.New("xlsx path is required")
	}
	return &Repository{name: name, opts: opts}, nil
}

func (r *Repository) Name() string {
	return r.name
}

func (r *Repository) sheetOf(f *excelize.File) (string, error) {
	if r.opts.Sheet != "" {
		idx, err := f.GetSheetIndex(r.opts.Sheet)
		if err != nil {
			return "", err
		}
		if idx < 0 {
			return "", fmt.Errorf("sheet %q not found in %s", r.opts.Sheet, r.opts.Path)
		}
		return r.opts.Sheet, nil
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook %s has no sheets", r.opts.Path)
	}
	return sheets[0], nil
}

func (r *Repository) Load(ctx context.Context) (*types.Table, error) {
	f, err := excelize.OpenFile(r.opts.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && len(r.opts.CreateColumns) > 0 {
			return types.NewTable(r.name, r.opts.CreateColumns), nil
		}
		return nil, fmt.Errorf("open xlsx %s: %w", r.opts.Path, err)
	}
	defer f.Close()

	sheet, err := r.sheetOf(f)
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return r.tableFromRows(ctx, rows)
}

func (r *Repository) tableFromRows(ctx context.Context, rows [][]string) (*types.Table, error) {
	if len(rows) == 0 {
		return types.NewTable(r.name, r.opts.CreateColumns), nil
	}
	header := rows[0]
	t := types.NewTable(r.name, header)
	for _, rec := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := make(types.Row, len(header))
		for i, col := range header {
			// GetRows drops trailing empty cells
			if i < len(rec) && rec[i] != "" {
				row[col] = rec[i]
			} else {
				row[col] = nil
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Save replaces the sheet's contents with t. Other sheets of the workbook are
// kept; a missing workbook is created. Load reads cells as their displayed
// text, so numeric and date cells of a rewritten sheet come back as text cells.
func (r *Repository) Save(ctx context.Context, t *types.Table) error {
	f, err := excelize.OpenFile(r.opts.Path)
	created := false
	if errors.Is(err, os.ErrNotExist) {
		f, created = excelize.NewFile(), true
	} else if err != nil {
		return fmt.Errorf("open xlsx %s: %w", r.opts.Path, err)
	}
	defer f.Close()

	sheet := r.opts.Sheet
	if created {
		if sheet == "" {
			sheet = "Sheet1"
		} else if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return err
		}
		if err := writeRows(ctx, f, sheet, t); err != nil {
			return err
		}
		return f.SaveAs(r.opts.Path)
	}

	if sheet == "" {
		if sheet, err = r.sheetOf(f); err != nil {
			return err
		}
	}
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	} else if err := clearSheet(f, sheet); err != nil {
		return err
	}
	if err := writeRows(ctx, f, sheet, t); err != nil {
		return err
	}
	return f.SaveAs(r.opts.Path)
}

// clearSheet removes every row in place so the sheet keeps its position in
// the workbook.
func clearSheet(f *excelize.File, sheet string) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	for n := len(rows); n >= 1; n-- {
		if err := f.RemoveRow(sheet, n); err != nil {
			return fmt.Errorf("clear sheet %s: %w", sheet, err)
		}
	}
	return nil
}

func writeRows(ctx context.Context, f *excelize.File, sheet string, t *types.Table) error {
	header := make([]any, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := t.Values(row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	return nil
}

// Inspect lists every sheet with its header and data row count.
func (r *Repository) Inspect(ctx context.Context) (*source.InspectionResult, error) {
	f, err := excelize.OpenFile(r.opts.Path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx %s: %w", r.opts.Path, err)
	}
	defer f.Close()

	res := &source.InspectionResult{Source: r.opts.Path}
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		info := source.TableInfo{Name: sheet}
		if len(rows) > 0 {
			for _, col := range rows[0] {
				info.Columns = append(info.Columns, source.ColumnInfo{Name: col, Type: "text", Nullable: true})
			}
			info.RowCount = int64(len(rows) - 1)
		}
		res.Tables = append(res.Tables, info)
	}
	return res, nil
}

var (
	_ source.Repository = (*Repository)(nil)
	_ source.Inspector  = (*Repository)(nil)
)
