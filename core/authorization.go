package core

// Owned is something with an author, like a post or a comment.
type Owned interface {
	AuthorID() int
}

// CanModify decides whether the actor may edit or delete the entity.
// Only the author may, regardless of visibility. actor may be nil.
func CanModify(entity Owned, actor DBUser) bool {
	return actor != nil && entity.AuthorID() == actor.ID()
}
