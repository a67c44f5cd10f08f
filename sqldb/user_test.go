package sqldb

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserDB(t *testing.T) *UserDB {
	sqlDB, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // :memory: databases are per-connection
	t.Cleanup(func() { sqlDB.Close() })
	return NewUserDB(sqlDB)
}

func TestLoginUser(t *testing.T) {

	var db = newTestUserDB(t)

	u, err := db.InsertUser("Carol ") // cleaned to "carol"
	require.NoError(t, err)
	assert.Equal(t, "carol", u.Username())

	require.NoError(t, db.SetPassword(u, "secret"))

	_, err = db.LoginUser("carol", "wrong")
	assert.ErrorIs(t, err, ErrAuth)

	_, err = db.LoginUser("nobody", "secret")
	assert.ErrorIs(t, err, ErrAuth)

	got, err := db.LoginUser("carol", "secret")
	require.NoError(t, err)
	assert.Equal(t, u.ID(), got.ID())
}

func TestChangePassword(t *testing.T) {

	var db = newTestUserDB(t)

	u, err := db.InsertUser("carol")
	require.NoError(t, err)
	require.NoError(t, db.SetPassword(u, "old"))

	assert.ErrorIs(t, db.ChangePassword(u, "wrong", "new"), ErrAuth)

	require.NoError(t, db.ChangePassword(u, "old", "new"))

	_, err = db.LoginUser("carol", "new")
	assert.NoError(t, err)
}

func TestSetProfile(t *testing.T) {

	var db = newTestUserDB(t)

	u, err := db.InsertUser("carol")
	require.NoError(t, err)

	require.NoError(t, db.SetProfile(u, "caroline", "carol@example.com", "Carol", "Miller"))

	got, err := db.GetUserByName("caroline")
	require.NoError(t, err)
	assert.Equal(t, u.ID(), got.ID())
	assert.Equal(t, "carol@example.com", got.Mail())
	assert.Equal(t, "Carol", got.FirstName())
	assert.Equal(t, "Miller", got.LastName())
}
