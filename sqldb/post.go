package sqldb

import (
	"database/sql"
	"errors"
	"time"

	"github.com/wansing/chronik/core"
)

type post struct {
	id                int
	title             string
	text              string
	image             string
	pubDate           int64
	isPublished       bool
	authorID          int
	authorName        string
	categoryID        int
	categoryTitle     string
	categorySlug      string
	categoryPublished bool
	locationID        int
	locationTitle     string
	tsCreated         int64
	commentCount      int
}

func (p *post) ID() int {
	return p.id
}

func (p *post) Title() string {
	return p.title
}

func (p *post) Text() string {
	return p.text
}

func (p *post) Image() string {
	return p.image
}

func (p *post) PubDate() int64 {
	return p.pubDate
}

func (p *post) IsPublished() bool {
	return p.isPublished
}

func (p *post) AuthorID() int {
	return p.authorID
}

func (p *post) AuthorName() string {
	return p.authorName
}

func (p *post) CategoryID() int {
	return p.categoryID
}

func (p *post) CategoryTitle() string {
	return p.categoryTitle
}

func (p *post) CategorySlug() string {
	return p.categorySlug
}

func (p *post) CategoryPublished() bool {
	return p.categoryPublished
}

func (p *post) LocationID() int {
	return p.locationID
}

func (p *post) LocationTitle() string {
	return p.locationTitle
}

func (p *post) TsCreated() int64 {
	return p.tsCreated
}

func (p *post) CommentCount() int {
	return p.commentCount
}

// selectPost joins author, category and location and annotates the comment count.
const selectPost = `
	SELECT p.id, p.title, p.text, p.image, p.pub_date, p.is_published,
		p.author_id, u.username,
		p.category_id, c.title, c.slug, c.is_published,
		p.location_id, COALESCE(l.title, ''),
		p.ts_created,
		(SELECT COUNT(1) FROM comment WHERE comment.post_id = p.id)
	FROM post p
	JOIN usr u ON u.id = p.author_id
	JOIN category c ON c.id = p.category_id
	LEFT JOIN location l ON l.id = p.location_id `

const countPost = `
	SELECT COUNT(1)
	FROM post p
	JOIN category c ON c.id = p.category_id `

// strictlyVisible is the visibility predicate for everyone but the author, see core.StrictlyVisible.
const strictlyVisible = `p.is_published = 1 AND c.is_published = 1 AND p.pub_date <= ? `

const byPubDateDesc = `ORDER BY p.pub_date DESC LIMIT ? OFFSET ?`

type PostDB struct {
	*sql.DB
	get                    *sql.Stmt
	getVisible             *sql.Stmt
	countVisible           *sql.Stmt
	getVisibleByCategory   *sql.Stmt
	countVisibleByCategory *sql.Stmt
	getVisibleByAuthor     *sql.Stmt
	countVisibleByAuthor   *sql.Stmt
	getByAuthor            *sql.Stmt
	countByAuthor          *sql.Stmt
	insert                 *sql.Stmt
	update                 *sql.Stmt
	setImage               *sql.Stmt
	removePost             *sql.Stmt
	removeComments         *sql.Stmt
}

func NewPostDB(db *sql.DB) *PostDB {

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS post (
			id INTEGER PRIMARY KEY,
			title varchar(256) NOT NULL,
			text mediumtext NOT NULL,
			image varchar(256) NOT NULL DEFAULT '',
			pub_date int(11) NOT NULL,
			is_published int(1) NOT NULL DEFAULT 1,
			author_id int(11) NOT NULL,
			category_id int(11) NOT NULL,
			location_id int(11) NOT NULL DEFAULT 0,
			ts_created int(11) NOT NULL
		);`)
	if err != nil {
		panic(err)
	}

	var postDB = &PostDB{}
	postDB.DB = db
	postDB.get = mustPrepare(db, selectPost+"WHERE p.id = ? LIMIT 1")
	postDB.getVisible = mustPrepare(db, selectPost+"WHERE "+strictlyVisible+byPubDateDesc)
	postDB.countVisible = mustPrepare(db, countPost+"WHERE "+strictlyVisible)
	postDB.getVisibleByCategory = mustPrepare(db, selectPost+"WHERE p.category_id = ? AND "+strictlyVisible+byPubDateDesc)
	postDB.countVisibleByCategory = mustPrepare(db, countPost+"WHERE p.category_id = ? AND "+strictlyVisible)
	postDB.getVisibleByAuthor = mustPrepare(db, selectPost+"WHERE p.author_id = ? AND "+strictlyVisible+byPubDateDesc)
	postDB.countVisibleByAuthor = mustPrepare(db, countPost+"WHERE p.author_id = ? AND "+strictlyVisible)
	postDB.getByAuthor = mustPrepare(db, selectPost+"WHERE p.author_id = ? "+byPubDateDesc)
	postDB.countByAuthor = mustPrepare(db, countPost+"WHERE p.author_id = ?")
	postDB.insert = mustPrepare(db, "INSERT INTO post (title, text, image, pub_date, is_published, author_id, category_id, location_id, ts_created) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)")
	postDB.update = mustPrepare(db, "UPDATE post SET title = ?, text = ?, pub_date = ?, is_published = ?, category_id = ?, location_id = ? WHERE id = ?") // never touches ts_created
	postDB.setImage = mustPrepare(db, "UPDATE post SET image = ? WHERE id = ?")
	postDB.removePost = mustPrepare(db, "DELETE FROM post WHERE id = ?")
	postDB.removeComments = mustPrepare(db, "DELETE FROM comment WHERE post_id = ?")
	return postDB
}

func (db *PostDB) scanPost(row *sql.Row) (*post, error) {
	var p = &post{}
	err := row.Scan(&p.id, &p.title, &p.text, &p.image, &p.pubDate, &p.isPublished, &p.authorID, &p.authorName, &p.categoryID, &p.categoryTitle, &p.categorySlug, &p.categoryPublished, &p.locationID, &p.locationTitle, &p.tsCreated, &p.commentCount)
	return p, err
}

func (db *PostDB) getPosts(stmt *sql.Stmt, args ...interface{}) ([]core.DBPost, error) {

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts = []core.DBPost{}

	for rows.Next() {
		var p = &post{}
		err := rows.Scan(&p.id, &p.title, &p.text, &p.image, &p.pubDate, &p.isPublished, &p.authorID, &p.authorName, &p.categoryID, &p.categoryTitle, &p.categorySlug, &p.categoryPublished, &p.locationID, &p.locationTitle, &p.tsCreated, &p.commentCount)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	return posts, nil
}

func (db *PostDB) GetPost(id int) (core.DBPost, error) {
	return db.scanPost(db.get.QueryRow(id))
}

func (db *PostDB) GetVisiblePosts(now int64, limit, offset int) ([]core.DBPost, error) {
	return db.getPosts(db.getVisible, now, limit, offset)
}

func (db *PostDB) CountVisiblePosts(now int64) (int, error) {
	var count int
	return count, db.countVisible.QueryRow(now).Scan(&count)
}

func (db *PostDB) GetVisiblePostsByCategory(categoryID int, now int64, limit, offset int) ([]core.DBPost, error) {
	return db.getPosts(db.getVisibleByCategory, categoryID, now, limit, offset)
}

func (db *PostDB) CountVisiblePostsByCategory(categoryID int, now int64) (int, error) {
	var count int
	return count, db.countVisibleByCategory.QueryRow(categoryID, now).Scan(&count)
}

func (db *PostDB) GetVisiblePostsByAuthor(authorID int, now int64, limit, offset int) ([]core.DBPost, error) {
	return db.getPosts(db.getVisibleByAuthor, authorID, now, limit, offset)
}

func (db *PostDB) CountVisiblePostsByAuthor(authorID int, now int64) (int, error) {
	var count int
	return count, db.countVisibleByAuthor.QueryRow(authorID, now).Scan(&count)
}

func (db *PostDB) GetPostsByAuthor(authorID int, limit, offset int) ([]core.DBPost, error) {
	return db.getPosts(db.getByAuthor, authorID, limit, offset)
}

func (db *PostDB) CountPostsByAuthor(authorID int) (int, error) {
	var count int
	return count, db.countByAuthor.QueryRow(authorID).Scan(&count)
}

func (db *PostDB) InsertPost(title, text, image string, pubDate int64, isPublished bool, authorID, categoryID, locationID int) (core.DBPost, error) {

	result, err := db.insert.Exec(title, text, image, pubDate, isPublished, authorID, categoryID, locationID, time.Now().Unix())
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetPost(int(id))
}

func (db *PostDB) UpdatePost(p core.DBPost, title, text string, pubDate int64, isPublished bool, categoryID, locationID int) error {
	_, err := db.update.Exec(title, text, pubDate, isPublished, categoryID, locationID, p.ID())
	return err
}

func (db *PostDB) SetImage(p core.DBPost, image string) error {
	_, err := db.setImage.Exec(image, p.ID())
	if err == nil {
		p.(*post).image = image
	}
	return err
}

// DeletePost removes the post and its comments in one transaction, so no
// orphaned comments can remain.
func (db *PostDB) DeletePost(p core.DBPost) error {

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Stmt(db.removeComments).Exec(p.ID()); err != nil {
		tx.Rollback()
		return err
	}

	if _, err := tx.Stmt(db.removePost).Exec(p.ID()); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (db *PostDB) IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
