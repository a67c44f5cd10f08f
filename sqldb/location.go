package sqldb

import (
	"database/sql"

	"github.com/wansing/chronik/core"
)

type location struct {
	id          int
	title       string
	isPublished bool
}

func (l *location) ID() int {
	return l.id
}

func (l *location) Title() string {
	return l.title
}

func (l *location) IsPublished() bool {
	return l.isPublished
}

type LocationDB struct {
	*sql.DB
	get          *sql.Stmt
	getPublished *sql.Stmt
	insert       *sql.Stmt
}

func NewLocationDB(db *sql.DB) *LocationDB {

	_, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS location (
			id INTEGER PRIMARY KEY,
			title varchar(256) NOT NULL,
			is_published int(1) NOT NULL DEFAULT 1
		);`)
	if err != nil {
		panic(err)
	}

	var locationDB = &LocationDB{}
	locationDB.DB = db
	locationDB.get = mustPrepare(db, "SELECT id, title, is_published FROM location WHERE id = ? LIMIT 1")
	locationDB.getPublished = mustPrepare(db, "SELECT id, title, is_published FROM location WHERE is_published = 1 ORDER BY title")
	locationDB.insert = mustPrepare(db, "INSERT INTO location (title, is_published) VALUES (?, ?)")
	return locationDB
}

func (db *LocationDB) GetLocation(id int) (core.DBLocation, error) {
	var l = &location{}
	err := db.get.QueryRow(id).Scan(&l.id, &l.title, &l.isPublished)
	return l, err
}

func (db *LocationDB) GetPublishedLocations() ([]core.DBLocation, error) {

	rows, err := db.getPublished.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations = []core.DBLocation{}

	for rows.Next() {
		var l = &location{}
		if err := rows.Scan(&l.id, &l.title, &l.isPublished); err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}

	return locations, nil
}

func (db *LocationDB) InsertLocation(title string, isPublished bool) error {
	_, err := db.insert.Exec(title, isPublished)
	return err
}
