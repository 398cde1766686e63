package types

// MatchedRow is one row of a search result. Index is the row's position in the
// searched table and Matched holds the columns whose cell contained the term.
type MatchedRow struct {
	Index   int
	Row     Row
	Matched map[string]bool
}

type MatchResult struct {
	Table   string
	Term    string
	Columns []string
	Rows    []MatchedRow
}

func (r *MatchResult) Empty() bool {
	return r == nil || len(r.Rows) == 0
}

// MatchedColumns returns the matched columns of row i in table column order.
func (r *MatchResult) MatchedColumns(i int) []string {
	var cols []string
	for _, col := range r.Columns {
		if r.Rows[i].Matched[col] {
			cols = append(cols, col)
		}
	}
	return cols
}
