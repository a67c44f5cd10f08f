package sqldb

import (
	"database/sql"
	"errors"
	"strings"
)

type WordDB struct {
	*sql.DB
	getAll *sql.Stmt
	insert *sql.Stmt
	remove *sql.Stmt
}

func NewWordDB(db *sql.DB) *WordDB {

	_, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS forbidden_word (
			word varchar(64) NOT NULL,
			PRIMARY KEY (word)
		);`)
	if err != nil {
		panic(err)
	}

	var wordDB = &WordDB{}
	wordDB.DB = db
	wordDB.getAll = mustPrepare(db, "SELECT word FROM forbidden_word ORDER BY word")
	wordDB.insert = mustPrepare(db, "INSERT INTO forbidden_word (word) VALUES (?)")
	wordDB.remove = mustPrepare(db, "DELETE FROM forbidden_word WHERE word = ?")
	return wordDB
}

func (db *WordDB) GetWords() ([]string, error) {

	rows, err := db.getAll.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words = []string{}

	for rows.Next() {
		var word string
		if err := rows.Scan(&word); err != nil {
			return nil, err
		}
		words = append(words, word)
	}

	return words, nil
}

func (db *WordDB) InsertWord(word string) error {
	word = strings.TrimSpace(word)
	if word == "" {
		return errors.New("word is empty")
	}
	_, err := db.insert.Exec(word)
	return err
}

func (db *WordDB) RemoveWord(word string) error {
	_, err := db.remove.Exec(strings.TrimSpace(word))
	return err
}
