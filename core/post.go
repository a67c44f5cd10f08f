package core

// A DBPost is a post row, joined with its author, category and location.
// CommentCount is annotated at query time.
type DBPost interface {
	ID() int
	Title() string
	Text() string
	Image() string // stored filename, empty if none
	PubDate() int64
	IsPublished() bool
	AuthorID() int
	AuthorName() string
	CategoryID() int
	CategoryTitle() string
	CategorySlug() string
	CategoryPublished() bool
	LocationID() int // zero if none
	LocationTitle() string
	TsCreated() int64
	CommentCount() int
}

// All listing queries order by pub_date descending and apply the strict
// visibility predicate, except GetPostsByAuthor, which is for the self-profile
// and returns drafts and future posts as well.
type PostDB interface {
	GetPost(id int) (DBPost, error)
	GetVisiblePosts(now int64, limit, offset int) ([]DBPost, error)
	CountVisiblePosts(now int64) (int, error)
	GetVisiblePostsByCategory(categoryID int, now int64, limit, offset int) ([]DBPost, error)
	CountVisiblePostsByCategory(categoryID int, now int64) (int, error)
	GetVisiblePostsByAuthor(authorID int, now int64, limit, offset int) ([]DBPost, error)
	CountVisiblePostsByAuthor(authorID int, now int64) (int, error)
	GetPostsByAuthor(authorID int, limit, offset int) ([]DBPost, error)
	CountPostsByAuthor(authorID int) (int, error)
	InsertPost(title, text, image string, pubDate int64, isPublished bool, authorID, categoryID, locationID int) (DBPost, error)
	UpdatePost(p DBPost, title, text string, pubDate int64, isPublished bool, categoryID, locationID int) error
	SetImage(p DBPost, image string) error
	DeletePost(p DBPost) error // cascades to the comments of the post
	IsNotFound(err error) bool
}
