package mysql

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM INFORMATION_SCHEMA.TABLES").
		WithArgs("noc").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME"}).AddRow("tickets"))
	mock.ExpectQuery("FROM INFORMATION_SCHEMA.COLUMNS").
		WithArgs("noc", "tickets").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "DATA_TYPE", "IS_NULLABLE"}).
			AddRow("id", "int", "NO").
			AddRow("circuit", "varchar", "YES"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM `tickets`")).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(int64(42)))

	res, err := NewInspector(db, "noc").Inspect(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Tables, 1)
	tbl := res.Tables[0]
	assert.Equal(t, "tickets", tbl.Name)
	assert.Equal(t, int64(42), tbl.RowCount)
	require.Len(t, tbl.Columns, 2)
	assert.False(t, tbl.Columns[0].Nullable)
	assert.True(t, tbl.Columns[1].Nullable)
	assert.Equal(t, "varchar", tbl.Columns[1].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewRepositoryQuotesWithBackticks(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `circuit designations`")).
		WillReturnRows(sqlmock.NewRows([]string{"Circuit"}).AddRow("SPO-1"))

	repo, err := NewRepository("circuits", db, "circuit designations")
	require.NoError(t, err)
	tbl, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SPO-1", tbl.Rows[0]["Circuit"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
