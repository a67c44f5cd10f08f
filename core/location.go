package core

// A DBLocation is a location row.
type DBLocation interface {
	ID() int
	Title() string
	IsPublished() bool
}

type LocationDB interface {
	GetLocation(id int) (DBLocation, error)
	GetPublishedLocations() ([]DBLocation, error)
	InsertLocation(title string, isPublished bool) error
}
