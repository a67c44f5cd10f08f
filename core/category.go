package core

// A DBCategory is a category row.
type DBCategory interface {
	ID() int
	Title() string
	Slug() string
	Description() string
	IsPublished() bool
}

type CategoryDB interface {
	GetCategory(id int) (DBCategory, error)
	GetCategoryBySlug(slug string) (DBCategory, error)
	GetPublishedCategories() ([]DBCategory, error)
	InsertCategory(title, slug, description string, isPublished bool) error
}
