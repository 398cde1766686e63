package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/alexanderjulianmartinez/rowsearch/pkg/types"
)

var matchColor = color.New(color.FgBlack, color.BgYellow, color.Bold)

// mark returns the decorated cell and its printed width.
func mark(s string) (string, int) {
	if color.NoColor {
		m := "*" + s + "*"
		return m, utf8.RuneCountInString(m)
	}
	return matchColor.Sprint(s), utf8.RuneCountInString(s)
}

func cellText(v any) string {
	s, err := types.CellText(v)
	if err != nil {
		return "?"
	}
	return strings.ReplaceAll(s, "\n", " ")
}

// Text writes res as an aligned table, marking the cells the search flagged
// in MatchedRow.Matched.
func Text(w io.Writer, res *types.MatchResult) error {
	if res.Empty() {
		_, err := fmt.Fprintf(w, "no rows matched %q in %s\n", res.Term, res.Table)
		return err
	}

	header := append([]string{"#"}, res.Columns...)
	type cell struct {
		text  string
		width int
	}
	grid := make([][]cell, 0, len(res.Rows)+1)

	hdr := make([]cell, len(header))
	for i, name := range header {
		hdr[i] = cell{name, utf8.RuneCountInString(name)}
	}
	grid = append(grid, hdr)

	for _, mr := range res.Rows {
		line := make([]cell, 0, len(header))
		n := strconv.Itoa(mr.Index + 1)
		line = append(line, cell{n, len(n)})
		for _, col := range res.Columns {
			text := cellText(mr.Row[col])
			if mr.Matched[col] {
				m, width := mark(text)
				line = append(line, cell{m, width})
				continue
			}
			line = append(line, cell{text, utf8.RuneCountInString(text)})
		}
		grid = append(grid, line)
	}

	widths := make([]int, len(header))
	for _, line := range grid {
		for i, c := range line {
			widths[i] = max(widths[i], c.width)
		}
	}

	if _, err := fmt.Fprintf(w, "%s: %d row(s) matching %q\n", res.Table, len(res.Rows), res.Term); err != nil {
		return err
	}
	var b strings.Builder
	for _, line := range grid {
		b.Reset()
		for i, c := range line {
			b.WriteString(c.text)
			if i < len(line)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-c.width+2))
			}
		}
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// CSV writes the matched rows with a header line.
func CSV(w io.Writer, res *types.MatchResult, delimiter rune) error {
	cw := csv.NewWriter(w)
	if delimiter != 0 {
		cw.Comma = delimiter
	}
	if err := cw.Write(res.Columns); err != nil {
		return err
	}
	rec := make([]string, len(res.Columns))
	for _, mr := range res.Rows {
		for i, col := range res.Columns {
			rec[i], _ = types.CellText(mr.Row[col])
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonRow struct {
	Index   int            `json:"index"`
	Row     map[string]any `json:"row"`
	Matched []string       `json:"matched"`
}

type jsonResult struct {
	Table string    `json:"table"`
	Term  string    `json:"term"`
	Rows  []jsonRow `json:"rows"`
}

// JSON writes every result as one indented JSON array. Cells are exported as
// text so that values without a JSON form cannot fail the export.
func JSON(w io.Writer, results []*types.MatchResult) error {
	out := make([]jsonResult, 0, len(results))
	for _, res := range results {
		jr := jsonResult{Table: res.Table, Term: res.Term, Rows: []jsonRow{}}
		for i, mr := range res.Rows {
			row := make(map[string]any, len(res.Columns))
			for _, col := range res.Columns {
				if mr.Row[col] == nil {
					row[col] = nil
					continue
				}
				row[col], _ = types.CellText(mr.Row[col])
			}
			jr.Rows = append(jr.Rows, jsonRow{Index: mr.Index, Row: row, Matched: res.MatchedColumns(i)})
		}
		out = append(out, jr)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
