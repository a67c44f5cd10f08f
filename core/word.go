package core

// A WordDB stores the deny-list of forbidden words.
type WordDB interface {
	GetWords() ([]string, error)
	InsertWord(word string) error
	RemoveWord(word string) error
}
