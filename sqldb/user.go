package sqldb

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/wansing/chronik/core"
	"github.com/wansing/chronik/util"
)

var ErrAuth = errors.New("authentication failed")

func clean(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	return name
}

func hash(salt string, password string) string {
	var hash = sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(hash[:])
}

type user struct {
	id        int
	username  string
	mail      string
	firstName string
	lastName  string
	salt      string
	pass      string // hash
}

func (u *user) hash(password string) string {
	return hash(u.salt, password)
}

func (u *user) ID() int {
	return u.id
}

func (u *user) Username() string {
	return u.username
}

func (u *user) Mail() string {
	return u.mail
}

func (u *user) FirstName() string {
	return u.firstName
}

func (u *user) LastName() string {
	return u.lastName
}

type UserDB struct {
	*sql.DB
	delete      *sql.Stmt
	get         *sql.Stmt
	getByName   *sql.Stmt
	insert      *sql.Stmt
	login       *sql.Stmt
	setPassword *sql.Stmt
	setProfile  *sql.Stmt
}

func NewUserDB(db *sql.DB) *UserDB {

	_, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS usr (
			id INTEGER PRIMARY KEY,
			username varchar(64) NOT NULL,
			mail varchar(128) NOT NULL,
			first_name varchar(64) NOT NULL DEFAULT '',
			last_name varchar(64) NOT NULL DEFAULT '',
			salt varchar(64) NOT NULL,
			password varchar(64) NOT NULL,
			UNIQUE(username)
		);`)
	if err != nil {
		panic(err)
	}

	var userDB = &UserDB{}
	userDB.DB = db
	userDB.delete = mustPrepare(db, "DELETE FROM usr WHERE id = ?")
	userDB.get = mustPrepare(db, "SELECT id, username, mail, first_name, last_name, salt FROM usr WHERE id = ? LIMIT 1")
	userDB.getByName = mustPrepare(db, "SELECT id, username, mail, first_name, last_name, salt FROM usr WHERE username = ? LIMIT 1")
	userDB.insert = mustPrepare(db, "INSERT INTO usr (username, mail, salt, password) VALUES (?, '', '', '')") // empty password field should be safe because no hash value equals it
	userDB.login = mustPrepare(db, "SELECT id, username, mail, first_name, last_name, salt, password FROM usr WHERE username = ?")
	userDB.setPassword = mustPrepare(db, "UPDATE usr SET salt = ?, password = ? WHERE id = ?")
	userDB.setProfile = mustPrepare(db, "UPDATE usr SET username = ?, mail = ?, first_name = ?, last_name = ? WHERE id = ?")
	return userDB
}

func (db *UserDB) ChangePassword(u core.DBUser, old, new string) error {
	if _, err := db.LoginUser(u.Username(), old); err != nil {
		return err // is ErrAuth if the old password is wrong
	}
	return db.SetPassword(u, new)
}

func (db *UserDB) DeleteUser(u core.DBUser) error {
	_, err := db.delete.Exec(u.ID())
	return err
}

func (db *UserDB) GetUser(id int) (core.DBUser, error) {
	var u = &user{}
	err := db.get.QueryRow(id).Scan(&u.id, &u.username, &u.mail, &u.firstName, &u.lastName, &u.salt)
	return u, err
}

func (db *UserDB) GetUserByName(username string) (core.DBUser, error) {
	var u = &user{}
	err := db.getByName.QueryRow(clean(username)).Scan(&u.id, &u.username, &u.mail, &u.firstName, &u.lastName, &u.salt)
	return u, err
}

func (db *UserDB) InsertUser(username string) (core.DBUser, error) {

	username = clean(username)
	if username == "" {
		return nil, errors.New("username is empty")
	}

	if _, err := db.insert.Exec(username); err != nil {
		return nil, err
	}

	return db.GetUserByName(username)
}

func (db *UserDB) LoginUser(username, password string) (core.DBUser, error) {

	username = clean(username)

	var u = &user{}

	err := db.login.QueryRow(username).Scan(&u.id, &u.username, &u.mail, &u.firstName, &u.lastName, &u.salt, &u.pass)
	if err == sql.ErrNoRows {
		return nil, ErrAuth // user not found
	}
	if err != nil {
		return nil, err
	}

	if u.hash(password) != u.pass {
		return nil, ErrAuth // wrong password
	}

	return u, nil
}

func (db *UserDB) SetPassword(u core.DBUser, password string) error {

	if password == "" {
		return errors.New("no password given")
	}

	if u.ID() == 0 {
		return errors.New("can't set password of user 0")
	}

	salt, err := util.RandomString32()
	if err != nil {
		return err
	}

	_, err = db.setPassword.Exec(salt, hash(salt, password), u.ID())
	if err != nil {
		return err
	}

	u.(*user).salt = salt
	return nil
}

func (db *UserDB) SetProfile(u core.DBUser, username, mail, firstName, lastName string) error {

	username = clean(username)
	if username == "" {
		return errors.New("username is empty")
	}

	_, err := db.setProfile.Exec(username, strings.TrimSpace(mail), strings.TrimSpace(firstName), strings.TrimSpace(lastName), u.ID())
	if err != nil {
		return err
	}

	u.(*user).username = username
	u.(*user).mail = mail
	u.(*user).firstName = firstName
	u.(*user).lastName = lastName
	return nil
}

func (db *UserDB) IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
