package core

import "time"

// Visible decides whether a single post may be shown to the viewer.
// Authors always see their own posts, drafts and future-dated posts included.
// viewer may be nil.
//
// Listing queries don't use this, they apply StrictlyVisible's predicate in
// SQL. A post whose category is unpublished renders for its author on the
// detail page but never appears on listing pages.
func Visible(post DBPost, viewer DBUser, now time.Time) bool {
	if viewer != nil && viewer.ID() == post.AuthorID() {
		return true
	}
	return StrictlyVisible(post, now)
}

// StrictlyVisible is the visibility predicate for everyone but the author.
func StrictlyVisible(post DBPost, now time.Time) bool {
	return post.IsPublished() && post.CategoryPublished() && post.PubDate() <= now.Unix()
}
