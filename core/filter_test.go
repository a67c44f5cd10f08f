package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWordDB []string

func (w fakeWordDB) GetWords() ([]string, error)  { return w, nil }
func (w fakeWordDB) InsertWord(word string) error { return nil }
func (w fakeWordDB) RemoveWord(word string) error { return nil }

func TestValidateContent(t *testing.T) {

	var db = &BlogDB{
		WordDB:        fakeWordDB{"Spam", "offer"},
		ContentFilter: true,
	}

	require.NoError(t, db.ValidateContent("a perfectly fine text"))

	err := db.ValidateContent("buy my SPAM today")
	require.Error(t, err)
	var fwerr ForbiddenWordError
	require.ErrorAs(t, err, &fwerr)
	assert.Equal(t, "Spam", fwerr.Word)

	// substring match, case-insensitive
	assert.Error(t, db.ValidateContent("best OFFERING ever"))
}

func TestValidateContentDisabled(t *testing.T) {
	var db = &BlogDB{
		WordDB:        fakeWordDB{"spam"},
		ContentFilter: false,
	}
	assert.NoError(t, db.ValidateContent("spam spam spam"))
}
