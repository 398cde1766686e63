package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderjulianmartinez/rowsearch/pkg/types"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "operators.csv", []byte("\ufeffOperator,Status\nOi,active\nVivo,\nClaro\n"))
	repo, err := New("operators", Options{Path: path})
	require.NoError(t, err)

	tbl, err := repo.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "operators", tbl.Name)
	assert.Equal(t, []string{"Operator", "Status"}, tbl.Columns)
	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, types.Row{"Operator": "Oi", "Status": "active"}, tbl.Rows[0])
	assert.Equal(t, types.Row{"Operator": "Vivo", "Status": nil}, tbl.Rows[1])
	assert.Equal(t, types.Row{"Operator": "Claro", "Status": nil}, tbl.Rows[2])
}

func TestLoadLatin1Semicolon(t *testing.T) {
	// "Operação;Situação" / "Oi;Cancelado" in ISO-8859-1
	data := []byte("Opera\xe7\xe3o;Situa\xe7\xe3o\nOi;Cancelado\n")
	path := writeFile(t, "ops.csv", data)
	repo, err := New("ops", Options{Path: path, Delimiter: ';', Encoding: "iso-8859-1"})
	require.NoError(t, err)

	tbl, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Operação", "Situação"}, tbl.Columns)
	assert.Equal(t, "Cancelado", tbl.Rows[0]["Situação"])
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")

	repo, err := New("tickets", Options{Path: path})
	require.NoError(t, err)
	_, err = repo.Load(context.Background())
	assert.Error(t, err)

	repo, err = New("tickets", Options{Path: path, CreateColumns: []string{"Ticket", "Circuit"}})
	require.NoError(t, err)
	tbl, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Ticket", "Circuit"}, tbl.Columns)
	assert.Equal(t, 0, tbl.Len())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.csv")
	repo, err := New("tickets", Options{Path: path, Delimiter: ';', Encoding: "windows-1252"})
	require.NoError(t, err)

	tbl := types.NewTable("tickets", []string{"Ticket", "Descrição"})
	require.NoError(t, tbl.Append(types.Row{"Ticket": 101, "Descrição": "Link sem comunicação"}))
	require.NoError(t, tbl.Append(types.Row{"Ticket": 102}))
	require.NoError(t, repo.Save(context.Background(), tbl))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Descri\xe7\xe3o")

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, tbl.Columns, got.Columns)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, "101", got.Rows[0]["Ticket"])
	assert.Equal(t, "Link sem comunicação", got.Rows[0]["Descrição"])
	assert.Nil(t, got.Rows[1]["Descrição"])

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestSaveKeepsFileMode(t *testing.T) {
	path := writeFile(t, "operators.csv", []byte("Operator\nOi\n"))
	require.NoError(t, os.Chmod(path, 0o664))

	repo, err := New("operators", Options{Path: path})
	require.NoError(t, err)
	tbl, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, tbl.Append(types.Row{"Operator": "Vivo"}))
	require.NoError(t, repo.Save(context.Background(), tbl))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o664), fi.Mode().Perm())

	fresh := filepath.Join(t.TempDir(), "new.csv")
	repo, err = New("new", Options{Path: fresh})
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), types.NewTable("new", []string{"A"})))
	fi, err = os.Stat(fresh)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), fi.Mode().Perm())
}

func TestUnsupportedEncoding(t *testing.T) {
	_, err := New("x", Options{Path: "x.csv", Encoding: "ebcdic"})
	assert.Error(t, err)
}
