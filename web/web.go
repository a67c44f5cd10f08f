// Package web serves the public blog site.
package web

import (
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/chronik/core"
)

// we need the BlogDB in the handlers
type Route struct {
	*core.Request
	Prefix string // with trailing slash
	db     *core.BlogDB
}

func (r *Route) SiteName() string {
	return r.db.SiteName
}

// ImageSrc returns the URL of a post image, resized to fit into w times h
// pixels if the filestore can resize it.
func (r *Route) ImageSrc(p core.DBPost, w, h int) string {
	if p.Image() == "" {
		return ""
	}
	var ts = time.Now().Unix()
	var sig = r.db.Uploads.HMAC(p.ID(), p.Image(), w, h, ts)
	return fmt.Sprintf("upload/%d/%s?w=%d&h=%d&ts=%d&sig=%s", p.ID(), p.Image(), w, h, ts, sig)
}

func middleware(db *core.BlogDB, prefix string, requireLoggedIn bool, f func(http.ResponseWriter, *http.Request, *Route, httprouter.Params) error) httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, params httprouter.Params) {

		var r = &Route{
			Prefix:  prefix + "/",
			Request: db.NewRequest(w, req),
			db:      db,
		}
		defer r.Cleanup()

		if requireLoggedIn && !r.LoggedIn() {
			r.SeeOther("/login")
			return
		}

		if err := f(w, req, r, params); err != nil {
			serveError(w, r, err)
		}
	}
}

func serveError(w http.ResponseWriter, r *Route, err error) {

	var data = struct {
		*Route
		Err error
	}{
		Route: r,
		Err:   err,
	}

	switch {
	case errors.Is(err, core.ErrNotFound) || errors.Is(err, sql.ErrNoRows):
		r.WriteStatus(http.StatusNotFound)
		notFoundTmpl.Execute(w, data)
	case errors.Is(err, core.ErrForbidden):
		r.WriteStatus(http.StatusForbidden)
		forbiddenTmpl.Execute(w, data)
	case errors.Is(err, core.ErrUnauthorized):
		r.SeeOther("/login")
	default:
		log.Printf("internal error serving %s: %v", r.Prefix, err)
		r.WriteStatus(http.StatusInternalServerError)
		internalErrorTmpl.Execute(w, data)
	}
}

func NewRouter(db *core.BlogDB, prefix string) http.Handler {

	var router = httprouter.New()

	var GETAndPOST = func(path string, handle httprouter.Handle) {
		router.GET(path, handle)
		router.POST(path, handle)
	}

	// public
	router.GET("/", middleware(db, prefix, false, index))
	router.GET("/posts/:id", middleware(db, prefix, false, postDetail))
	router.GET("/category/:slug", middleware(db, prefix, false, category))
	router.GET("/profile/:username", middleware(db, prefix, false, profile))
	router.GET("/about", middleware(db, prefix, false, about))
	router.GET("/rules", middleware(db, prefix, false, rules))
	GETAndPOST("/login", middleware(db, prefix, false, login))
	GETAndPOST("/register", middleware(db, prefix, false, register))

	// authenticated
	GETAndPOST("/create", middleware(db, prefix, true, createPost))
	GETAndPOST("/posts/:id/edit", middleware(db, prefix, true, editPost))
	GETAndPOST("/posts/:id/delete", middleware(db, prefix, true, deletePost))
	router.POST("/posts/:id/comment", middleware(db, prefix, true, addComment))
	GETAndPOST("/posts/:id/edit_comment/:cid", middleware(db, prefix, true, editComment))
	GETAndPOST("/posts/:id/delete_comment/:cid", middleware(db, prefix, true, deleteComment))
	GETAndPOST("/profile/:username/edit", middleware(db, prefix, true, editProfile))
	router.GET("/logout", middleware(db, prefix, true, logout))

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var r = &Route{
			Prefix:  prefix + "/",
			Request: db.NewRequest(w, req),
			db:      db,
		}
		defer r.Cleanup()
		serveError(w, r, core.ErrNotFound)
	})

	return router
}

func tmpl(text string) *template.Template {
	t := template.Must(siteTmpl.Clone())
	t = template.Must(t.Parse(`{{ define "content" }}` + text + `{{ end }}`))
	return t
}

var siteTmpl = template.Must(template.New("site").Funcs(
	template.FuncMap{
		"Age":         Age,
		"DisplayName": core.DisplayName,
		"FormatTs":    FormatTs,
	},
).Parse(`
<!DOCTYPE html>
<html>
	<head>
		<base href="{{ .Prefix }}">
		<link rel="stylesheet" type="text/css" href="static/bootstrap-4.4.1.min.css">
		<meta charset="utf-8">
		<meta name="viewport" content="width=device-width, initial-scale=1, shrink-to-fit=no">
		<title>{{ .SiteName }}</title>

		<style>

			.post-image {
				max-width: 100%;
				margin-bottom: 0.5rem;
			}

			.post-meta {
				color: #6c757d;
				font-size: 0.9rem;
			}

			article {
				margin-bottom: 2rem;
			}

			h1 {
				font-size: 1.5rem !important;
				margin: 1rem 0 0.7rem !important;
			}

			h2 {
				font-size: 1.3rem !important;
				margin: 0.2rem 0 0.5rem !important;
			}

			textarea {
				tab-size: 4;
				-moz-tab-size: 4;
			}

		</style>
	</head>
	<body>

		<nav class="navbar navbar-expand-md bg-light">
			<a class="navbar-brand" href=".">{{ .SiteName }}</a>
			<ul class="navbar-nav">
				<li class="nav-item">
					<a class="nav-link" href="about">About</a>
				</li>
				<li class="nav-item">
					<a class="nav-link" href="rules">Rules</a>
				</li>

				{{ if .LoggedIn }}

					<li class="nav-item">
						<a class="nav-link" href="create">New post</a>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="profile/{{ .User.Username }}">{{ .User.Username }}</a>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="logout">Logout</a>
					</li>

				{{ else }}

					<li class="nav-item">
						<a class="nav-link" href="login">Login</a>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="register">Register</a>
					</li>

				{{ end }}
			</ul>
		</nav>

		<div class="container pt-3">
			{{ .RenderNotifications }}
			{{ template "content" . }}
		</div>
	</body>
</html>

{{ define "posts" }}
	{{ range .Posts }}
		<article>
			{{ if .Src }}
				<a href="posts/{{ .ID }}"><img class="post-image" src="{{ .Src }}" alt="{{ .Title }}"></a>
			{{ end }}
			{{ .Body }}
			{{ if .Cut }}
				<p><a href="posts/{{ .ID }}">Read more</a></p>
			{{ end }}
			<p class="post-meta">
				{{ FormatTs .PubDate }}
				&middot; <a href="profile/{{ .AuthorName }}">{{ .AuthorName }}</a>
				&middot; <a href="category/{{ .CategorySlug }}">{{ .CategoryTitle }}</a>
				{{ if .LocationID }}&middot; {{ .LocationTitle }}{{ end }}
				&middot; <a href="posts/{{ .ID }}">{{ .CommentCount }} comments</a>
				{{ if not .IsPublished }}&middot; <span class="badge badge-secondary">draft</span>{{ end }}
			</p>
		</article>
	{{ else }}
		<p>No posts here yet.</p>
	{{ end }}
	{{ template "pagination" . }}
{{ end }}

{{ define "pagination" }}
	{{ with .PageLinks }}
		<nav>
			<ul class="pagination">
				{{ range . }}{{ . }}{{ end }}
			</ul>
		</nav>
	{{ end }}
{{ end }}`))

var notFoundTmpl = tmpl(`<h1>Page not found</h1>
	<p>The page you requested does not exist, or you are not allowed to see it.</p>
	<p><a href=".">Back to the start page</a></p>`)

var forbiddenTmpl = tmpl(`<h1>Forbidden</h1>
	<p>You are not allowed to do that.</p>
	<p><a href=".">Back to the start page</a></p>`)

var internalErrorTmpl = tmpl(`<h1>Internal server error</h1>
	<p>Something went wrong on our side. Please try again later.</p>`)
