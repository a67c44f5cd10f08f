package sqldb

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wansing/chronik/core"
)

type testDB struct {
	posts      *PostDB
	comments   *CommentDB
	categories *CategoryDB
	users      *UserDB

	alice  core.DBUser
	bob    core.DBUser
	travel core.DBCategory // published
	hidden core.DBCategory // not published
}

func newTestDB(t *testing.T) *testDB {

	sqlDB, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // :memory: databases are per-connection
	t.Cleanup(func() { sqlDB.Close() })

	// usr, category and location must exist before the comment and post
	// statements that join them can be prepared
	var db = &testDB{}
	db.users = NewUserDB(sqlDB)
	db.categories = NewCategoryDB(sqlDB)
	NewLocationDB(sqlDB)
	db.comments = NewCommentDB(sqlDB)
	db.posts = NewPostDB(sqlDB)

	db.alice, err = db.users.InsertUser("alice")
	require.NoError(t, err)
	db.bob, err = db.users.InsertUser("bob")
	require.NoError(t, err)

	require.NoError(t, db.categories.InsertCategory("Travel", "travel", "", true))
	require.NoError(t, db.categories.InsertCategory("Hidden", "hidden", "", false))
	db.travel, err = db.categories.GetCategoryBySlug("travel")
	require.NoError(t, err)
	db.hidden, err = db.categories.GetCategoryBySlug("hidden")
	require.NoError(t, err)

	return db
}

func (db *testDB) insertPost(t *testing.T, title string, pubDate int64, isPublished bool, author core.DBUser, category core.DBCategory) core.DBPost {
	p, err := db.posts.InsertPost(title, "text", "", pubDate, isPublished, author.ID(), category.ID(), 0)
	require.NoError(t, err)
	return p
}

func TestVisiblePosts(t *testing.T) {

	var db = newTestDB(t)
	var now = time.Now().Unix()

	db.insertPost(t, "old", now-7200, true, db.alice, db.travel)
	db.insertPost(t, "new", now-3600, true, db.bob, db.travel)
	db.insertPost(t, "draft", now-3600, false, db.alice, db.travel)
	db.insertPost(t, "future", now+3600, true, db.alice, db.travel)
	db.insertPost(t, "hidden category", now-3600, true, db.alice, db.hidden)

	posts, err := db.posts.GetVisiblePosts(now, 10, 0)
	require.NoError(t, err)

	var titles []string
	for _, p := range posts {
		titles = append(titles, p.Title())
	}
	assert.Equal(t, []string{"new", "old"}, titles) // pub_date descending, drafts, future posts and unpublished categories excluded

	count, err := db.posts.CountVisiblePosts(now)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestVisiblePostsByCategory(t *testing.T) {

	var db = newTestDB(t)
	var now = time.Now().Unix()

	db.insertPost(t, "travel post", now-3600, true, db.alice, db.travel)
	db.insertPost(t, "hidden post", now-3600, true, db.alice, db.hidden)

	posts, err := db.posts.GetVisiblePostsByCategory(db.travel.ID(), now, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "travel post", posts[0].Title())

	// the unpublished category contributes nothing, the caller 404s before querying anyway
	posts, err = db.posts.GetVisiblePostsByCategory(db.hidden.ID(), now, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostsByAuthor(t *testing.T) {

	var db = newTestDB(t)
	var now = time.Now().Unix()

	db.insertPost(t, "published", now-7200, true, db.alice, db.travel)
	db.insertPost(t, "draft", now-3600, false, db.alice, db.travel)
	db.insertPost(t, "future", now+3600, true, db.alice, db.travel)
	db.insertPost(t, "by bob", now-3600, true, db.bob, db.travel)

	// self profile: everything by alice
	posts, err := db.posts.GetPostsByAuthor(db.alice.ID(), 10, 0)
	require.NoError(t, err)
	var titles []string
	for _, p := range posts {
		titles = append(titles, p.Title())
	}
	assert.Equal(t, []string{"future", "draft", "published"}, titles)

	// foreign profile: strictly visible posts only
	posts, err = db.posts.GetVisiblePostsByAuthor(db.alice.ID(), now, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "published", posts[0].Title())

	count, err := db.posts.CountVisiblePostsByAuthor(db.alice.ID(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCommentCountAnnotation(t *testing.T) {

	var db = newTestDB(t)
	var now = time.Now().Unix()

	commented := db.insertPost(t, "commented", now-3600, true, db.alice, db.travel)
	db.insertPost(t, "silent", now-7200, true, db.alice, db.travel)

	_, err := db.comments.InsertComment(commented.ID(), db.bob.ID(), "first")
	require.NoError(t, err)
	_, err = db.comments.InsertComment(commented.ID(), db.alice.ID(), "second")
	require.NoError(t, err)

	posts, err := db.posts.GetVisiblePosts(now, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, 2, posts[0].CommentCount())
	assert.Equal(t, 0, posts[1].CommentCount())
}

func TestDeletePostCascades(t *testing.T) {

	var db = newTestDB(t)
	var now = time.Now().Unix()

	doomed := db.insertPost(t, "doomed", now-3600, true, db.alice, db.travel)
	other := db.insertPost(t, "other", now-7200, true, db.alice, db.travel)

	_, err := db.comments.InsertComment(doomed.ID(), db.bob.ID(), "gone soon")
	require.NoError(t, err)
	keep, err := db.comments.InsertComment(other.ID(), db.bob.ID(), "stays")
	require.NoError(t, err)

	require.NoError(t, db.posts.DeletePost(doomed))

	_, err = db.posts.GetPost(doomed.ID())
	assert.True(t, db.posts.IsNotFound(err))

	// no orphaned comments remain queryable
	comments, err := db.comments.GetComments(doomed.ID())
	require.NoError(t, err)
	assert.Empty(t, comments)

	count, err := db.comments.CountComments(doomed.ID())
	require.NoError(t, err)
	assert.Zero(t, count)

	// comments of other posts are untouched
	got, err := db.comments.GetComment(keep.ID())
	require.NoError(t, err)
	assert.Equal(t, "stays", got.Text())
}

func TestUpdatePostKeepsTsCreated(t *testing.T) {

	var db = newTestDB(t)
	var now = time.Now().Unix()

	p := db.insertPost(t, "original", now-3600, true, db.alice, db.travel)
	created := p.TsCreated()

	require.NoError(t, db.posts.UpdatePost(p, "edited", "new text", now-1800, true, db.travel.ID(), 0))

	p2, err := db.posts.GetPost(p.ID())
	require.NoError(t, err)
	assert.Equal(t, "edited", p2.Title())
	assert.Equal(t, created, p2.TsCreated())
}
