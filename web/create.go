package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/chronik/util"
)

func createPost(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	var data = &postFormData{
		Route:       r,
		Heading:     "New post",
		PubDate:     util.FormatLocalDateTime(time.Now().Unix()),
		IsPublished: true,
	}

	if req.Method == http.MethodPost {

		if err := readPostForm(req, data); err != nil {
			return err
		}

		if err := validatePostForm(r, data); err != nil {
			r.Danger(err)
		} else {

			p, err := r.db.InsertPost(data.Title, data.Text, "", data.pubDate(time.Now().Unix()), data.IsPublished, r.User.ID(), data.CategoryID, data.LocationID)
			if err != nil {
				return err
			}

			if err := storeImage(r, p, req); err != nil {
				r.Danger(fmt.Errorf("storing the image failed: %v", err))
			}

			r.Success("Your post has been created.")
			r.SeeOther("/posts/%d", p.ID())
			return nil
		}
	}

	if err := loadFormOptions(r, data); err != nil {
		return err
	}
	return postFormTmpl.Execute(w, data)
}
