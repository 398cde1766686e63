package check

import (
	"errors"
	"sort"

	"github.com/alexanderjulianmartinez/rowsearch/pkg/types"
)

type Issue struct {
	Table    string
	Column   string
	Row      int // -1 when the issue is not tied to a row
	Kind     string
	Severity string
	Message  string
}

type Report struct {
	Issues []Issue
}

func (r *Report) add(table, column string, row int, kind string) {
	r.Issues = append(r.Issues, Issue{
		Table:    table,
		Column:   column,
		Row:      row,
		Kind:     kind,
		Severity: SeverityForKind(kind),
		Message:  MessageForKind(kind),
	})
}

func (r *Report) Blocking() bool {
	for _, iss := range r.Issues {
		if iss.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// Count returns the number of issues with the given severity.
func (r *Report) Count(severity string) int {
	n := 0
	for _, iss := range r.Issues {
		if iss.Severity == severity {
			n++
		}
	}
	return n
}

func Validate(t *types.Table) *Report {
	report := &Report{}
	declared := validateColumns(report, t)

	if len(t.Rows) == 0 {
		report.add(t.Name, "", -1, KindEmptyTable)
		return report
	}
	for i, row := range t.Rows {
		validateRow(report, t, declared, i, row)
	}
	return report
}

// ValidateRow checks one candidate row against the table's columns.
func ValidateRow(t *types.Table, row types.Row) *Report {
	report := &Report{}
	declared := validateColumns(report, t)
	validateRow(report, t, declared, -1, row)
	return report
}

func validateColumns(report *Report, t *types.Table) map[string]bool {
	declared := make(map[string]bool, len(t.Columns))
	for _, col := range t.Columns {
		if col == "" {
			report.add(t.Name, col, -1, KindEmptyColumnName)
			continue
		}
		if declared[col] {
			report.add(t.Name, col, -1, KindDuplicateColumn)
			continue
		}
		declared[col] = true
	}
	return declared
}

func validateRow(report *Report, t *types.Table, declared map[string]bool, i int, row types.Row) {
	for _, col := range t.Columns {
		if col == "" {
			continue
		}
		v, ok := row[col]
		if !ok {
			report.add(t.Name, col, i, KindMissingCell)
			continue
		}
		if _, err := types.CellText(v); errors.Is(err, types.ErrUnrepresentable) {
			report.add(t.Name, col, i, KindUnrepresentable)
		}
	}

	var unknown []string
	for col := range row {
		if !declared[col] {
			unknown = append(unknown, col)
		}
	}
	sort.Strings(unknown)
	for _, col := range unknown {
		report.add(t.Name, col, i, KindUnknownCell)
	}
}
