// Package sqldb implements the core storage interfaces on database/sql.
// The schema bootstrap is portable between sqlite3 and mysql.
package sqldb

import "database/sql"

func mustPrepare(db *sql.DB, query string) *sql.Stmt {
	stmt, err := db.Prepare(query)
	if err != nil {
		panic(err)
	}
	return stmt
}
