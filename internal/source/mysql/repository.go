package mysql

import (
	"database/sql"

	"github.com/alexanderjulianmartinez/rowsearch/internal/source/sqltable"
)

func quote(ident string) string {
	return sqltable.Backtick.Quote(ident)
}

// NewRepository returns a repository over one MySQL table.
func NewRepository(name string, db *sql.DB, table string) (*sqltable.Repository, error) {
	return sqltable.New(name, db, table, sqltable.Backtick)
}
