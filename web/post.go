package web

import (
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/chronik/core"
)

// loadPost fetches the post of the :id route parameter. Visibility is checked
// by the callers because authors may open their own hidden posts.
func loadPost(r *Route, params httprouter.Params) (core.DBPost, error) {

	id, err := strconv.Atoi(params.ByName("id"))
	if err != nil {
		return nil, core.ErrNotFound
	}

	p, err := r.db.GetPost(id)
	if err != nil {
		if r.db.PostDB.IsNotFound(err) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}

	return p, nil
}

var postTmpl = tmpl(`
	{{ if .Src }}
		<img class="post-image" src="{{ .Src }}" alt="{{ .Post.Title }}">
	{{ end }}

	<h1>{{ .Post.Title }}</h1>

	<p class="post-meta">
		{{ .FormatDateTime .Post.PubDate }}
		&middot; <a href="profile/{{ .Post.AuthorName }}">{{ .Post.AuthorName }}</a>
		&middot; <a href="category/{{ .Post.CategorySlug }}">{{ .Post.CategoryTitle }}</a>
		{{ if .Post.LocationID }}&middot; {{ .Post.LocationTitle }}{{ end }}
		{{ if not .Post.IsPublished }}&middot; <span class="badge badge-secondary">draft</span>{{ end }}
	</p>

	{{ if .CanModify }}
		<p>
			<a class="btn btn-sm btn-secondary" href="posts/{{ .Post.ID }}/edit">Edit</a>
			<a class="btn btn-sm btn-danger" href="posts/{{ .Post.ID }}/delete">Delete</a>
		</p>
	{{ end }}

	{{ .Body }}

	<hr>

	<h2>Comments</h2>

	{{ range .Comments }}
		<div class="card mb-2" id="comment-{{ .ID }}">
			<div class="card-body">
				<p class="post-meta">
					<a href="profile/{{ .AuthorName }}">{{ .AuthorName }}</a>
					&middot; {{ Age .TsCreated }}
					{{ if .CanModify }}
						&middot; <a href="posts/{{ .PostID }}/edit_comment/{{ .ID }}">edit</a>
						&middot; <a href="posts/{{ .PostID }}/delete_comment/{{ .ID }}">delete</a>
					{{ end }}
				</p>
				{{ .Text }}
			</div>
		</div>
	{{ else }}
		<p>No comments yet.</p>
	{{ end }}

	{{ if .LoggedIn }}
		<form method="post" action="posts/{{ .Post.ID }}/comment">
			<div class="form-group">
				<textarea class="form-control" name="text" rows="3" required></textarea>
			</div>
			<button type="submit" class="btn btn-primary">Comment</button>
		</form>
	{{ else }}
		<p><a href="login">Login</a> to comment.</p>
	{{ end }}`)

type commentItem struct {
	core.DBComment
	CanModify bool
}

type postData struct {
	*Route
	Post      core.DBPost
	Body      template.HTML
	Src       string
	CanModify bool
	Comments  []commentItem
}

func postDetail(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	p, err := loadPost(r, params)
	if err != nil {
		return err
	}
	if !core.Visible(p, r.User, time.Now()) {
		return core.ErrNotFound
	}

	comments, err := r.db.GetComments(p.ID())
	if err != nil {
		return err
	}

	var items = make([]commentItem, 0, len(comments))
	for _, c := range comments {
		items = append(items, commentItem{
			DBComment: c,
			CanModify: core.CanModify(c, r.User),
		})
	}

	var src string
	if p.Image() != "" {
		src = r.ImageSrc(p, 1200, 800)
	}

	return postTmpl.Execute(w, postData{
		Route:     r,
		Post:      p,
		Body:      renderMarkdown(p.Text()),
		Src:       src,
		CanModify: core.CanModify(p, r.User),
		Comments:  items,
	})
}
