package web

import (
	"database/sql"
	"io/ioutil"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wansing/chronik/core"
	"github.com/wansing/chronik/sqldb"
	"github.com/wansing/chronik/sqldb/sqlite3"
)

type testServer struct {
	db  *core.BlogDB
	srv *httptest.Server

	alice core.DBUser
	bob   core.DBUser

	travel core.DBCategory // published
	hidden core.DBCategory // not published
}

func newTestServer(t *testing.T) *testServer {

	sqlDB, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // :memory: databases are per-connection
	t.Cleanup(func() { sqlDB.Close() })

	var db = &core.BlogDB{
		ContentFilter: true,
	}
	// usr, category and location must exist before the comment and post
	// statements that join them can be prepared
	db.UserDB = sqldb.NewUserDB(sqlDB)
	db.CategoryDB = sqldb.NewCategoryDB(sqlDB)
	db.LocationDB = sqldb.NewLocationDB(sqlDB)
	db.WordDB = sqldb.NewWordDB(sqlDB)
	db.CommentDB = sqldb.NewCommentDB(sqlDB)
	db.PostDB = sqldb.NewPostDB(sqlDB)
	require.NoError(t, db.Init(sqlite3.NewSessionStore(sqlDB), "", t.TempDir(), t.TempDir()))

	var ts = &testServer{
		db:  db,
		srv: httptest.NewServer(db.SessionManager.LoadAndSave(NewRouter(db, ""))),
	}
	t.Cleanup(ts.srv.Close)

	ts.alice, err = db.InsertUser("alice")
	require.NoError(t, err)
	require.NoError(t, db.SetPassword(ts.alice, "alicepass"))
	ts.bob, err = db.InsertUser("bob")
	require.NoError(t, err)
	require.NoError(t, db.SetPassword(ts.bob, "bobpass"))

	require.NoError(t, db.InsertCategory("Travel", "travel", "", true))
	require.NoError(t, db.InsertCategory("Hidden", "hidden", "", false))
	ts.travel, err = db.GetCategoryBySlug("travel")
	require.NoError(t, err)
	ts.hidden, err = db.GetCategoryBySlug("hidden")
	require.NoError(t, err)

	return ts
}

func (ts *testServer) insertPost(t *testing.T, title string, pubDate int64, isPublished bool, author core.DBUser, category core.DBCategory) core.DBPost {
	p, err := ts.db.InsertPost(title, title+" text", "", pubDate, isPublished, author.ID(), category.ID(), 0)
	require.NoError(t, err)
	return p
}

// newClient returns a client with a cookie jar, so it can stay logged in.
func (ts *testServer) newClient(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func (ts *testServer) login(t *testing.T, client *http.Client, username, password string) {
	resp, err := client.PostForm(ts.srv.URL+"/login", url.Values{
		"username": {username},
		"password": {password},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := ioutil.ReadAll(resp.Body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "Logout", "login failed")
}

func get(t *testing.T, client *http.Client, url string) (int, string) {
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func postForm(t *testing.T, client *http.Client, url string, vals url.Values) (*http.Response, string) {
	resp, err := client.PostForm(url, vals)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestVisibility(t *testing.T) {

	var ts = newTestServer(t)
	var now = time.Now().Unix()

	visible := ts.insertPost(t, "visible post", now-3600, true, ts.alice, ts.travel)
	future := ts.insertPost(t, "future post", now+3600, true, ts.alice, ts.travel)
	draft := ts.insertPost(t, "draft post", now-3600, false, ts.alice, ts.travel)
	hiddenCat := ts.insertPost(t, "hidden category post", now-3600, true, ts.alice, ts.hidden)

	var anon = ts.newClient(t)

	code, body := get(t, anon, ts.srv.URL+"/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "visible post")
	assert.NotContains(t, body, "future post")
	assert.NotContains(t, body, "draft post")
	assert.NotContains(t, body, "hidden category post")

	code, _ = get(t, anon, ts.srv.URL+"/posts/"+strconv.Itoa(visible.ID()))
	assert.Equal(t, http.StatusOK, code)

	for _, p := range []core.DBPost{future, draft, hiddenCat} {
		code, _ = get(t, anon, ts.srv.URL+"/posts/"+strconv.Itoa(p.ID()))
		assert.Equal(t, http.StatusNotFound, code)
	}

	// authors see their own hidden posts on the detail page
	var asAlice = ts.newClient(t)
	ts.login(t, asAlice, "alice", "alicepass")
	for _, p := range []core.DBPost{future, draft, hiddenCat} {
		code, _ = get(t, asAlice, ts.srv.URL+"/posts/"+strconv.Itoa(p.ID()))
		assert.Equal(t, http.StatusOK, code)
	}

	// but not other users
	var asBob = ts.newClient(t)
	ts.login(t, asBob, "bob", "bobpass")
	code, _ = get(t, asBob, ts.srv.URL+"/posts/"+strconv.Itoa(future.ID()))
	assert.Equal(t, http.StatusNotFound, code)

	// an unpublished category does not exist, a published one does
	code, _ = get(t, anon, ts.srv.URL+"/category/hidden")
	assert.Equal(t, http.StatusNotFound, code)
	code, body = get(t, anon, ts.srv.URL+"/category/travel")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "visible post")
}

func TestProfileListings(t *testing.T) {

	var ts = newTestServer(t)
	var now = time.Now().Unix()

	ts.insertPost(t, "published by alice", now-3600, true, ts.alice, ts.travel)
	ts.insertPost(t, "scheduled by alice", now+3600, true, ts.alice, ts.travel)

	var asAlice = ts.newClient(t)
	ts.login(t, asAlice, "alice", "alicepass")
	_, body := get(t, asAlice, ts.srv.URL+"/profile/alice")
	assert.Contains(t, body, "published by alice")
	assert.Contains(t, body, "scheduled by alice")

	var asBob = ts.newClient(t)
	ts.login(t, asBob, "bob", "bobpass")
	_, body = get(t, asBob, ts.srv.URL+"/profile/alice")
	assert.Contains(t, body, "published by alice")
	assert.NotContains(t, body, "scheduled by alice")
}

func TestAuthorOnlyModification(t *testing.T) {

	var ts = newTestServer(t)
	var now = time.Now().Unix()

	p := ts.insertPost(t, "alices post", now-3600, true, ts.alice, ts.travel)

	// anonymous users are sent to the login page
	var anon = ts.newClient(t)
	resp, err := anon.Get(ts.srv.URL + "/posts/" + strconv.Itoa(p.ID()) + "/edit")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "/login", resp.Request.URL.Path)

	// other users get a 403, for POST requests too
	var asBob = ts.newClient(t)
	ts.login(t, asBob, "bob", "bobpass")

	code, _ := get(t, asBob, ts.srv.URL+"/posts/"+strconv.Itoa(p.ID())+"/edit")
	assert.Equal(t, http.StatusForbidden, code)

	resp, _ = postForm(t, asBob, ts.srv.URL+"/posts/"+strconv.Itoa(p.ID())+"/edit", url.Values{
		"title":    {"hijacked"},
		"text":     {"hijacked"},
		"category": {strconv.Itoa(ts.travel.ID())},
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	code, _ = get(t, asBob, ts.srv.URL+"/posts/"+strconv.Itoa(p.ID())+"/delete")
	assert.Equal(t, http.StatusForbidden, code)

	// nothing changed
	got, err := ts.db.GetPost(p.ID())
	require.NoError(t, err)
	assert.Equal(t, "alices post", got.Title())

	// the author can edit
	var asAlice = ts.newClient(t)
	ts.login(t, asAlice, "alice", "alicepass")
	resp, _ = postForm(t, asAlice, ts.srv.URL+"/posts/"+strconv.Itoa(p.ID())+"/edit", url.Values{
		"title":    {"edited by alice"},
		"text":     {"edited text"},
		"category": {strconv.Itoa(ts.travel.ID())},
		"pub_date": {time.Unix(now-3600, 0).Format("2006-01-02T15:04")},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	got, err = ts.db.GetPost(p.ID())
	require.NoError(t, err)
	assert.Equal(t, "edited by alice", got.Title())
}

func TestComments(t *testing.T) {

	var ts = newTestServer(t)
	var now = time.Now().Unix()

	require.NoError(t, ts.db.InsertWord("spam"))

	p := ts.insertPost(t, "commented post", now-3600, true, ts.alice, ts.travel)

	var asBob = ts.newClient(t)
	ts.login(t, asBob, "bob", "bobpass")

	// forbidden words are rejected, case-insensitively and as substrings
	resp, body := postForm(t, asBob, ts.srv.URL+"/posts/"+strconv.Itoa(p.ID())+"/comment", url.Values{
		"text": {"buy SPAMMY pills"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode) // redirected back to the post
	assert.Contains(t, body, "forbidden word")

	count, err := ts.db.CountComments(p.ID())
	require.NoError(t, err)
	assert.Zero(t, count, "rejected comment must not be stored")

	// acceptable comments are stored
	resp, body = postForm(t, asBob, ts.srv.URL+"/posts/"+strconv.Itoa(p.ID())+"/comment", url.Values{
		"text": {"nice one"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "nice one")

	count, err = ts.db.CountComments(p.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// only the comment author may delete it
	comments, err := ts.db.GetComments(p.ID())
	require.NoError(t, err)
	require.Len(t, comments, 1)

	var asAlice = ts.newClient(t)
	ts.login(t, asAlice, "alice", "alicepass")
	code, _ := get(t, asAlice, ts.srv.URL+"/posts/"+strconv.Itoa(p.ID())+"/delete_comment/"+strconv.Itoa(comments[0].ID()))
	assert.Equal(t, http.StatusForbidden, code)

	resp, _ = postForm(t, asBob, ts.srv.URL+"/posts/"+strconv.Itoa(p.ID())+"/delete_comment/"+strconv.Itoa(comments[0].ID()), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	count, err = ts.db.CountComments(p.ID())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRegisterAndCreatePost(t *testing.T) {

	var ts = newTestServer(t)

	var client = ts.newClient(t)

	resp, body := postForm(t, client, ts.srv.URL+"/register", url.Values{
		"username":  {"Carol"},
		"mail":      {"carol@example.com"},
		"password1": {"carolpass"},
		"password2": {"carolpass"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Logout")

	// usernames are stored lowercase
	u, err := ts.db.GetUserByName("carol")
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", u.Mail())

	resp, _ = postForm(t, client, ts.srv.URL+"/create", url.Values{
		"title":        {"carols first post"},
		"text":         {"hello world"},
		"category":     {strconv.Itoa(ts.travel.ID())},
		"is_published": {"on"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Request.URL.Path, "/posts/"), "expected redirect to the new post, got %s", resp.Request.URL.Path)

	_, body = get(t, ts.newClient(t), ts.srv.URL+"/")
	assert.Contains(t, body, "carols first post")
}

func TestRegisterValidation(t *testing.T) {

	var ts = newTestServer(t)
	var client = ts.newClient(t)

	// taken username
	_, body := postForm(t, client, ts.srv.URL+"/register", url.Values{
		"username":  {"alice"},
		"password1": {"x"},
		"password2": {"x"},
	})
	assert.Contains(t, body, "already taken")

	// mismatching passwords
	_, body = postForm(t, client, ts.srv.URL+"/register", url.Values{
		"username":  {"dave"},
		"password1": {"x"},
		"password2": {"y"},
	})
	assert.Contains(t, body, "don&#39;t match")
}
