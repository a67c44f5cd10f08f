package core

import (
	"fmt"
	"strings"
)

// A ForbiddenWordError names the deny-list entry which made the content invalid.
type ForbiddenWordError struct {
	Word string
}

func (e ForbiddenWordError) Error() string {
	return fmt.Sprintf("%s is a forbidden word", e.Word)
}

// ValidateContent rejects the text if any forbidden word occurs in it as a
// case-insensitive substring. It is applied to post titles, post texts and
// comment texts before they are stored. If the content filter is disabled,
// ValidateContent accepts everything without querying the word list.
func (c *BlogDB) ValidateContent(text string) error {

	if !c.ContentFilter {
		return nil
	}

	words, err := c.GetWords()
	if err != nil {
		return err
	}

	text = strings.ToLower(text)

	for _, word := range words {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(word)) {
			return ForbiddenWordError{word}
		}
	}

	return nil
}
