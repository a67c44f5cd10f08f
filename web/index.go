package web

import (
	"html/template"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/chronik/core"
)

var indexTmpl = tmpl(`{{ template "posts" . }}`)

type indexData struct {
	*Route
	Posts     []*postItem
	PageLinks []template.HTML
}

func index(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	var now = time.Now().Unix()

	posts, pageLinks, err := r.listPosts(".", pageParam(req),
		func() (int, error) {
			return r.db.CountVisiblePosts(now)
		},
		func(limit, offset int) ([]core.DBPost, error) {
			return r.db.GetVisiblePosts(now, limit, offset)
		},
	)
	if err != nil {
		return err
	}

	return indexTmpl.Execute(w, indexData{
		Route:     r,
		Posts:     posts,
		PageLinks: pageLinks,
	})
}
