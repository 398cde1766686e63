package xlsx

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/alexanderjulianmartinez/rowsearch/pkg/types"
)

func circuits() *types.Table {
	t := types.NewTable("circuits", []string{"Circuit", "Operator", "Notes"})
	t.Rows = []types.Row{
		{"Circuit": "SPO-001", "Operator": "Oi", "Notes": nil},
		{"Circuit": "RJO-002", "Operator": "Vivo", "Notes": "backup link"},
	}
	return t
}

func TestSaveCreatesWorkbookAndLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "circuits.xlsx")
	repo, err := New("circuits", Options{Path: path, Sheet: "Designations"})
	require.NoError(t, err)

	require.NoError(t, repo.Save(context.Background(), circuits()))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Circuit", "Operator", "Notes"}, got.Columns)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, types.Row{"Circuit": "SPO-001", "Operator": "Oi", "Notes": nil}, got.Rows[0])
	assert.Equal(t, "backup link", got.Rows[1]["Notes"])
}

func TestSaveReplacesSheetKeepsOthers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Circuit", "Operator", "Notes"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"OLD-1", "Tim", "stale"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"OLD-2", "Tim", "stale"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]any{"OLD-3", "Tim", "stale"}))
	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Other", "A1", &[]any{"Keep"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	repo, err := New("circuits", Options{Path: path})
	require.NoError(t, err)
	before, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, before.Rows, 3)

	require.NoError(t, repo.Save(context.Background(), circuits()))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, "SPO-001", got.Rows[0]["Circuit"])

	res, err := repo.Inspect(context.Background())
	require.NoError(t, err)
	names := []string{}
	for _, tbl := range res.Tables {
		names = append(names, tbl.Name)
	}
	assert.ElementsMatch(t, []string{"Sheet1", "Other"}, names)
}

func TestLoadMissingSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	repo, err := New("circuits", Options{Path: path, Sheet: "Nope"})
	require.NoError(t, err)
	_, err = repo.Load(context.Background())
	assert.Error(t, err)
}

func TestLoadMissingFileWithCreateColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.xlsx")
	repo, err := New("tickets", Options{Path: path, CreateColumns: []string{"Ticket"}})
	require.NoError(t, err)

	tbl, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Ticket"}, tbl.Columns)
}

func TestNumericCellsLoadAsDisplayedText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Ticket", "Circuit"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{101, "SPO-001"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	repo, err := New("tickets", Options{Path: path})
	require.NoError(t, err)
	tbl, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "101", tbl.Rows[0]["Ticket"])

	require.NoError(t, tbl.Append(types.Row{"Ticket": "102", "Circuit": "RJO-002"}))
	require.NoError(t, repo.Save(context.Background(), tbl))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, "101", got.Rows[0]["Ticket"])
	assert.Equal(t, "102", got.Rows[1]["Ticket"])
}
