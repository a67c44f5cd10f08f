package sqldb

import (
	"database/sql"
	"errors"

	"github.com/wansing/chronik/core"
	"github.com/wansing/chronik/util"
)

type category struct {
	id          int
	title       string
	slug        string
	description string
	isPublished bool
}

func (c *category) ID() int {
	return c.id
}

func (c *category) Title() string {
	return c.title
}

func (c *category) Slug() string {
	return c.slug
}

func (c *category) Description() string {
	return c.description
}

func (c *category) IsPublished() bool {
	return c.isPublished
}

type CategoryDB struct {
	*sql.DB
	get          *sql.Stmt
	getBySlug    *sql.Stmt
	getPublished *sql.Stmt
	insert       *sql.Stmt
}

func NewCategoryDB(db *sql.DB) *CategoryDB {

	_, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS category (
			id INTEGER PRIMARY KEY,
			title varchar(256) NOT NULL,
			slug varchar(64) NOT NULL,
			description mediumtext NOT NULL,
			is_published int(1) NOT NULL DEFAULT 1,
			UNIQUE(slug)
		);`)
	if err != nil {
		panic(err)
	}

	var categoryDB = &CategoryDB{}
	categoryDB.DB = db
	categoryDB.get = mustPrepare(db, "SELECT id, title, slug, description, is_published FROM category WHERE id = ? LIMIT 1")
	categoryDB.getBySlug = mustPrepare(db, "SELECT id, title, slug, description, is_published FROM category WHERE slug = ? LIMIT 1")
	categoryDB.getPublished = mustPrepare(db, "SELECT id, title, slug, description, is_published FROM category WHERE is_published = 1 ORDER BY title")
	categoryDB.insert = mustPrepare(db, "INSERT INTO category (title, slug, description, is_published) VALUES (?, ?, ?, ?)")
	return categoryDB
}

func (db *CategoryDB) GetCategory(id int) (core.DBCategory, error) {
	var c = &category{}
	err := db.get.QueryRow(id).Scan(&c.id, &c.title, &c.slug, &c.description, &c.isPublished)
	return c, err
}

func (db *CategoryDB) GetCategoryBySlug(slug string) (core.DBCategory, error) {
	var c = &category{}
	err := db.getBySlug.QueryRow(slug).Scan(&c.id, &c.title, &c.slug, &c.description, &c.isPublished)
	return c, err
}

func (db *CategoryDB) GetPublishedCategories() ([]core.DBCategory, error) {

	rows, err := db.getPublished.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories = []core.DBCategory{}

	for rows.Next() {
		var c = &category{}
		if err := rows.Scan(&c.id, &c.title, &c.slug, &c.description, &c.isPublished); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, nil
}

func (db *CategoryDB) InsertCategory(title, slug, description string, isPublished bool) error {

	slug = util.NormalizeSlug(slug)
	if slug == "" {
		return errors.New("slug is empty")
	}

	_, err := db.insert.Exec(title, slug, description, isPublished)
	return err
}
