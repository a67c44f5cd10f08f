package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakePost struct {
	id                int
	authorID          int
	isPublished       bool
	categoryPublished bool
	pubDate           int64
}

func (p fakePost) ID() int { return p.id }
func (p fakePost) Title() string { return "title" }
func (p fakePost) Text() string { return "text" }
func (p fakePost) Image() string { return "" }
func (p fakePost) PubDate() int64 { return p.pubDate }
func (p fakePost) IsPublished() bool { return p.isPublished }
func (p fakePost) AuthorID() int { return p.authorID }
func (p fakePost) AuthorName() string { return "author" }
func (p fakePost) CategoryID() int { return 1 }
func (p fakePost) CategoryTitle() string { return "category" }
func (p fakePost) CategorySlug() string { return "category" }
func (p fakePost) CategoryPublished() bool { return p.categoryPublished }
func (p fakePost) LocationID() int { return 0 }
func (p fakePost) LocationTitle() string { return "" }
func (p fakePost) TsCreated() int64 { return 0 }
func (p fakePost) CommentCount() int { return 0 }

type fakeUser struct {
	id int
}

func (u fakeUser) ID() int { return u.id }
func (u fakeUser) Username() string { return "user" }
func (u fakeUser) Mail() string { return "" }
func (u fakeUser) FirstName() string { return "" }
func (u fakeUser) LastName() string { return "" }

func TestVisible(t *testing.T) {

	var now = time.Now()
	var yesterday = now.Add(-24 * time.Hour).Unix()
	var tomorrow = now.Add(24 * time.Hour).Unix()

	var author = fakeUser{id: 1}
	var other = fakeUser{id: 2}

	tests := []struct {
		name   string
		post   fakePost
		viewer DBUser
		want   bool
	}{
		{"published past post, anonymous", fakePost{authorID: 1, isPublished: true, categoryPublished: true, pubDate: yesterday}, nil, true},
		{"published past post, other user", fakePost{authorID: 1, isPublished: true, categoryPublished: true, pubDate: yesterday}, other, true},
		{"draft, anonymous", fakePost{authorID: 1, isPublished: false, categoryPublished: true, pubDate: yesterday}, nil, false},
		{"draft, other user", fakePost{authorID: 1, isPublished: false, categoryPublished: true, pubDate: yesterday}, other, false},
		{"draft, author", fakePost{authorID: 1, isPublished: false, categoryPublished: true, pubDate: yesterday}, author, true},
		{"unpublished category, anonymous", fakePost{authorID: 1, isPublished: true, categoryPublished: false, pubDate: yesterday}, nil, false},
		{"unpublished category, author", fakePost{authorID: 1, isPublished: true, categoryPublished: false, pubDate: yesterday}, author, true},
		{"future post, anonymous", fakePost{authorID: 1, isPublished: true, categoryPublished: true, pubDate: tomorrow}, nil, false},
		{"future post, other user", fakePost{authorID: 1, isPublished: true, categoryPublished: true, pubDate: tomorrow}, other, false},
		{"future post, author", fakePost{authorID: 1, isPublished: true, categoryPublished: true, pubDate: tomorrow}, author, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Visible(tt.post, tt.viewer, now))
		})
	}
}

func TestStrictlyVisibleIgnoresAuthorship(t *testing.T) {
	var now = time.Now()
	var draft = fakePost{authorID: 1, isPublished: false, categoryPublished: true, pubDate: now.Add(-time.Hour).Unix()}
	assert.False(t, StrictlyVisible(draft, now)) // the author override applies to the detail fetch only
}

func TestCanModify(t *testing.T) {
	var post = fakePost{authorID: 1}
	assert.True(t, CanModify(post, fakeUser{id: 1}))
	assert.False(t, CanModify(post, fakeUser{id: 2}))
	assert.False(t, CanModify(post, nil))
}
