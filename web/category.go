package web

import (
	"html/template"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/chronik/core"
)

var categoryTmpl = tmpl(`
	<h1>{{ .Category.Title }}</h1>
	{{ with .Category.Description }}
		<p>{{ . }}</p>
	{{ end }}
	{{ template "posts" . }}`)

type categoryData struct {
	*Route
	Category  core.DBCategory
	Posts     []*postItem
	PageLinks []template.HTML
}

// An unpublished category does not exist for anyone, not even for post authors.
func category(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	cat, err := r.db.GetCategoryBySlug(params.ByName("slug"))
	if err != nil {
		return err
	}
	if !cat.IsPublished() {
		return core.ErrNotFound
	}

	var now = time.Now().Unix()

	posts, pageLinks, err := r.listPosts("category/"+cat.Slug(), pageParam(req),
		func() (int, error) {
			return r.db.CountVisiblePostsByCategory(cat.ID(), now)
		},
		func(limit, offset int) ([]core.DBPost, error) {
			return r.db.GetVisiblePostsByCategory(cat.ID(), now, limit, offset)
		},
	)
	if err != nil {
		return err
	}

	return categoryTmpl.Execute(w, categoryData{
		Route:     r,
		Category:  cat,
		Posts:     posts,
		PageLinks: pageLinks,
	})
}
