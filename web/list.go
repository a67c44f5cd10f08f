package web

import (
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strconv"

	"github.com/wansing/chronik/core"
	"github.com/wansing/chronik/util"
)

// one entry of a post listing
type postItem struct {
	core.DBPost
	Body template.HTML
	Cut  bool
	Src  string // resized image URL, empty if the post has no image
}

func pageParam(req *http.Request) int {
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	return page
}

// listPosts pages through a post listing. The href is the listing URL relative
// to the base, page links append the page query parameter to it.
func (r *Route) listPosts(href string, page int, count func() (int, error), get func(limit, offset int) ([]core.DBPost, error)) ([]*postItem, []template.HTML, error) {

	total, err := count()
	if err != nil {
		return nil, nil, err
	}

	var pages = int(math.Ceil(float64(total) / float64(r.db.PerPage)))

	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	var posts []core.DBPost
	if pages > 0 {
		posts, err = get(r.db.PerPage, (page-1)*r.db.PerPage)
		if err != nil {
			return nil, nil, err
		}
	}

	var items = make([]*postItem, 0, len(posts))
	for _, p := range posts {

		body, cut, err := teaser(p)
		if err != nil {
			return nil, nil, err
		}

		var src string
		if p.Image() != "" {
			src = r.ImageSrc(p, 800, 500)
		}

		items = append(items, &postItem{
			DBPost: p,
			Body:   body,
			Cut:    cut,
			Src:    src,
		})
	}

	var pageLinks []template.HTML
	if pages > 1 {
		pageLinks = util.PageLinks(page, pages,
			func(page int, name string) string {
				return fmt.Sprintf(`<li class="page-item"><a class="page-link" href="%s?page=%d">%s</a></li>`, href, page, name)
			},
			func(page int, name string) string {
				return fmt.Sprintf(`<li class="page-item active"><span class="page-link">%s</span></li>`, name)
			},
		)
	}

	return items, pageLinks, nil
}
