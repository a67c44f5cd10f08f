package core

// A DBUser is a user row.
type DBUser interface {
	ID() int
	Username() string
	Mail() string
	FirstName() string
	LastName() string
}

type UserDB interface {
	ChangePassword(u DBUser, old, new string) error
	DeleteUser(u DBUser) error
	GetUser(id int) (DBUser, error)
	GetUserByName(username string) (DBUser, error)
	InsertUser(username string) (DBUser, error)
	LoginUser(username, password string) (DBUser, error)
	SetPassword(u DBUser, password string) error
	SetProfile(u DBUser, username, mail, firstName, lastName string) error
	IsNotFound(err error) bool
}

// DisplayName returns the full name of a user, falling back to the username.
func DisplayName(u DBUser) string {
	if u == nil {
		return ""
	}
	if u.FirstName() == "" && u.LastName() == "" {
		return u.Username()
	}
	if u.FirstName() == "" {
		return u.LastName()
	}
	if u.LastName() == "" {
		return u.FirstName()
	}
	return u.FirstName() + " " + u.LastName()
}
