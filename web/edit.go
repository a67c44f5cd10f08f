package web

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/chronik/core"
	"github.com/wansing/chronik/util"
)

func editPost(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	p, err := loadPost(r, params)
	if err != nil {
		return err
	}
	if !core.CanModify(p, r.User) {
		return core.ErrForbidden
	}

	var data = &postFormData{
		Route:       r,
		Heading:     "Edit post",
		Title:       p.Title(),
		Text:        p.Text(),
		PubDate:     util.FormatLocalDateTime(p.PubDate()),
		IsPublished: p.IsPublished(),
		CategoryID:  p.CategoryID(),
		LocationID:  p.LocationID(),
		HasImage:    p.Image() != "",
	}

	if req.Method == http.MethodPost {

		if err := readPostForm(req, data); err != nil {
			return err
		}

		if err := validatePostForm(r, data); err != nil {
			r.Danger(err)
		} else {

			if err := r.db.UpdatePost(p, data.Title, data.Text, data.pubDate(p.PubDate()), data.IsPublished, data.CategoryID, data.LocationID); err != nil {
				return err
			}

			if err := storeImage(r, p, req); err != nil {
				r.Danger(fmt.Errorf("storing the image failed: %v", err))
			}

			r.Success("Your post has been updated.")
			r.SeeOther("/posts/%d", p.ID())
			return nil
		}
	}

	if err := loadFormOptions(r, data); err != nil {
		return err
	}
	return postFormTmpl.Execute(w, data)
}

var deletePostTmpl = tmpl(`
	<h1>Delete post</h1>
	<p>Do you really want to delete &quot;{{ .Post.Title }}&quot; and all its comments?</p>
	<form method="post">
		<button type="submit" class="btn btn-danger">Delete</button>
		<a class="btn btn-secondary" href="posts/{{ .Post.ID }}">Cancel</a>
	</form>`)

func deletePost(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	p, err := loadPost(r, params)
	if err != nil {
		return err
	}
	if !core.CanModify(p, r.User) {
		return core.ErrForbidden
	}

	if req.Method == http.MethodPost {

		// uploaded files go first, losing them is recoverable, orphaning them is not
		var folder = r.db.Uploads.Folder(p.ID())
		if files, err := folder.Files(); err == nil {
			for _, file := range files {
				_ = folder.Delete(file.Name())
			}
		}

		if err := r.db.DeletePost(p); err != nil {
			return err
		}

		r.Success("Your post has been deleted.")
		r.SeeOther("/")
		return nil
	}

	return deletePostTmpl.Execute(w, struct {
		*Route
		Post core.DBPost
	}{r, p})
}
