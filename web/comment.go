package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/chronik/core"
)

// loadComment fetches the comment of the :cid route parameter and checks that
// it belongs to the given post.
func loadComment(r *Route, p core.DBPost, params httprouter.Params) (core.DBComment, error) {

	cid, err := strconv.Atoi(params.ByName("cid"))
	if err != nil {
		return nil, core.ErrNotFound
	}

	c, err := r.db.GetComment(cid)
	if err != nil {
		return nil, err
	}

	if c.PostID() != p.ID() {
		return nil, core.ErrNotFound
	}

	return c, nil
}

func validateCommentText(r *Route, text string) error {
	if text == "" {
		return errors.New("please enter a comment")
	}
	return r.db.ValidateContent(text)
}

func addComment(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	p, err := loadPost(r, params)
	if err != nil {
		return err
	}
	if !core.Visible(p, r.User, time.Now()) {
		return core.ErrNotFound
	}

	var text = strings.TrimSpace(req.PostFormValue("text"))

	if err := validateCommentText(r, text); err != nil {
		r.Danger(err)
	} else {
		if _, err := r.db.InsertComment(p.ID(), r.User.ID(), text); err != nil {
			return err
		}
		r.Success("Your comment has been added.")
	}

	r.SeeOther("/posts/%d", p.ID())
	return nil
}

var editCommentTmpl = tmpl(`
	<h1>Edit comment</h1>
	<form method="post">
		<div class="form-group">
			<textarea class="form-control" name="text" rows="3" required>{{ .Comment.Text }}</textarea>
		</div>
		<button type="submit" class="btn btn-primary">Save</button>
		<a class="btn btn-secondary" href="posts/{{ .Comment.PostID }}">Cancel</a>
	</form>`)

func editComment(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	p, err := loadPost(r, params)
	if err != nil {
		return err
	}
	c, err := loadComment(r, p, params)
	if err != nil {
		return err
	}
	if !core.CanModify(c, r.User) {
		return core.ErrForbidden
	}

	if req.Method == http.MethodPost {

		var text = strings.TrimSpace(req.PostFormValue("text"))

		if err := validateCommentText(r, text); err != nil {
			r.Danger(err)
		} else {
			if err := r.db.UpdateComment(c, text); err != nil {
				return err
			}
			r.Success("Your comment has been updated.")
			r.SeeOther("/posts/%d", p.ID())
			return nil
		}
	}

	return editCommentTmpl.Execute(w, struct {
		*Route
		Comment core.DBComment
	}{r, c})
}

var deleteCommentTmpl = tmpl(`
	<h1>Delete comment</h1>
	<p>Do you really want to delete your comment?</p>
	<blockquote class="blockquote">{{ .Comment.Text }}</blockquote>
	<form method="post">
		<button type="submit" class="btn btn-danger">Delete</button>
		<a class="btn btn-secondary" href="posts/{{ .Comment.PostID }}">Cancel</a>
	</form>`)

func deleteComment(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	p, err := loadPost(r, params)
	if err != nil {
		return err
	}
	c, err := loadComment(r, p, params)
	if err != nil {
		return err
	}
	if !core.CanModify(c, r.User) {
		return core.ErrForbidden
	}

	if req.Method == http.MethodPost {
		if err := r.db.DeleteComment(c); err != nil {
			return err
		}
		r.Success("Your comment has been deleted.")
		r.SeeOther("/posts/%d", p.ID())
		return nil
	}

	return deleteCommentTmpl.Execute(w, struct {
		*Route
		Comment core.DBComment
	}{r, c})
}
