package core

// A DBComment is a comment row, joined with its author.
type DBComment interface {
	ID() int
	PostID() int
	AuthorID() int
	AuthorName() string
	Text() string
	TsCreated() int64
}

type CommentDB interface {
	GetComment(id int) (DBComment, error)
	GetComments(postID int) ([]DBComment, error) // ordered by ts_created ascending
	CountComments(postID int) (int, error)
	InsertComment(postID, authorID int, text string) (DBComment, error)
	UpdateComment(c DBComment, text string) error
	DeleteComment(c DBComment) error
}
