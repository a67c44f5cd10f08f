package sqldb

import (
	"database/sql"
	"time"

	"github.com/wansing/chronik/core"
)

type comment struct {
	id         int
	postID     int
	authorID   int
	authorName string
	text       string
	tsCreated  int64
}

func (c *comment) ID() int {
	return c.id
}

func (c *comment) PostID() int {
	return c.postID
}

func (c *comment) AuthorID() int {
	return c.authorID
}

func (c *comment) AuthorName() string {
	return c.authorName
}

func (c *comment) Text() string {
	return c.text
}

func (c *comment) TsCreated() int64 {
	return c.tsCreated
}

const selectComment = `
	SELECT c.id, c.post_id, c.author_id, u.username, c.text, c.ts_created
	FROM comment c
	JOIN usr u ON u.id = c.author_id `

type CommentDB struct {
	*sql.DB
	get       *sql.Stmt
	getByPost *sql.Stmt
	count     *sql.Stmt
	insert    *sql.Stmt
	update    *sql.Stmt
	remove    *sql.Stmt
}

func NewCommentDB(db *sql.DB) *CommentDB {

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS comment (
			id INTEGER PRIMARY KEY,
			post_id int(11) NOT NULL,
			author_id int(11) NOT NULL,
			text mediumtext NOT NULL,
			ts_created int(11) NOT NULL
		);`)
	if err != nil {
		panic(err)
	}

	var commentDB = &CommentDB{}
	commentDB.DB = db
	commentDB.get = mustPrepare(db, selectComment+"WHERE c.id = ? LIMIT 1")
	commentDB.getByPost = mustPrepare(db, selectComment+"WHERE c.post_id = ? ORDER BY c.ts_created ASC, c.id ASC")
	commentDB.count = mustPrepare(db, "SELECT COUNT(1) FROM comment WHERE post_id = ?")
	commentDB.insert = mustPrepare(db, "INSERT INTO comment (post_id, author_id, text, ts_created) VALUES (?, ?, ?, ?)")
	commentDB.update = mustPrepare(db, "UPDATE comment SET text = ? WHERE id = ?") // never touches ts_created
	commentDB.remove = mustPrepare(db, "DELETE FROM comment WHERE id = ?")
	return commentDB
}

func (db *CommentDB) GetComment(id int) (core.DBComment, error) {
	var c = &comment{}
	err := db.get.QueryRow(id).Scan(&c.id, &c.postID, &c.authorID, &c.authorName, &c.text, &c.tsCreated)
	return c, err
}

func (db *CommentDB) GetComments(postID int) ([]core.DBComment, error) {

	rows, err := db.getByPost.Query(postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments = []core.DBComment{}

	for rows.Next() {
		var c = &comment{}
		if err := rows.Scan(&c.id, &c.postID, &c.authorID, &c.authorName, &c.text, &c.tsCreated); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	return comments, nil
}

func (db *CommentDB) CountComments(postID int) (int, error) {
	var count int
	return count, db.count.QueryRow(postID).Scan(&count)
}

func (db *CommentDB) InsertComment(postID, authorID int, text string) (core.DBComment, error) {

	result, err := db.insert.Exec(postID, authorID, text, time.Now().Unix())
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetComment(int(id))
}

func (db *CommentDB) UpdateComment(c core.DBComment, text string) error {
	_, err := db.update.Exec(text, c.ID())
	if err == nil {
		c.(*comment).text = text
	}
	return err
}

func (db *CommentDB) DeleteComment(c core.DBComment) error {
	_, err := db.remove.Exec(c.ID())
	return err
}
