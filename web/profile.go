package web

import (
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/chronik/core"
)

var profileTmpl = tmpl(`
	<h1>{{ DisplayName .Profile }}</h1>
	<p class="post-meta">
		@{{ .Profile.Username }}
		{{ with .Profile.Mail }}&middot; {{ . }}{{ end }}
	</p>
	{{ if .Own }}
		<p><a class="btn btn-sm btn-secondary" href="profile/{{ .Profile.Username }}/edit">Edit profile</a></p>
	{{ end }}
	{{ template "posts" . }}`)

type profileData struct {
	*Route
	Profile   core.DBUser
	Own       bool
	Posts     []*postItem
	PageLinks []template.HTML
}

// profile lists the posts of a user. Users see their own drafts and scheduled
// posts here, everyone else gets the visible posts only.
func profile(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	u, err := r.db.GetUserByName(params.ByName("username"))
	if err != nil {
		if r.db.UserDB.IsNotFound(err) {
			return core.ErrNotFound
		}
		return err
	}

	var own = r.LoggedIn() && r.User.ID() == u.ID()
	var now = time.Now().Unix()

	var count func() (int, error)
	var get func(limit, offset int) ([]core.DBPost, error)
	if own {
		count = func() (int, error) {
			return r.db.CountPostsByAuthor(u.ID())
		}
		get = func(limit, offset int) ([]core.DBPost, error) {
			return r.db.GetPostsByAuthor(u.ID(), limit, offset)
		}
	} else {
		count = func() (int, error) {
			return r.db.CountVisiblePostsByAuthor(u.ID(), now)
		}
		get = func(limit, offset int) ([]core.DBPost, error) {
			return r.db.GetVisiblePostsByAuthor(u.ID(), now, limit, offset)
		}
	}

	posts, pageLinks, err := r.listPosts("profile/"+u.Username(), pageParam(req), count, get)
	if err != nil {
		return err
	}

	return profileTmpl.Execute(w, profileData{
		Route:     r,
		Profile:   u,
		Own:       own,
		Posts:     posts,
		PageLinks: pageLinks,
	})
}

var editProfileTmpl = tmpl(`
	<h1>Edit profile</h1>

	<form method="post">
		<div class="form-group">
			<label for="username">Username</label>
			<input class="form-control" id="username" name="username" value="{{ .Username }}" required>
		</div>
		<div class="form-group">
			<label for="mail">Mail address</label>
			<input class="form-control" type="email" id="mail" name="mail" value="{{ .Mail }}">
		</div>
		<div class="form-row">
			<div class="form-group col-md-6">
				<label for="first_name">First name</label>
				<input class="form-control" id="first_name" name="first_name" value="{{ .FirstName }}">
			</div>
			<div class="form-group col-md-6">
				<label for="last_name">Last name</label>
				<input class="form-control" id="last_name" name="last_name" value="{{ .LastName }}">
			</div>
		</div>
		<button type="submit" name="submit" value="profile" class="btn btn-primary">Save</button>
	</form>

	<h2 class="mt-4">Change password</h2>

	<form method="post">
		<div class="form-group">
			<label for="old_password">Current password</label>
			<input class="form-control" type="password" id="old_password" name="old_password" required>
		</div>
		<div class="form-row">
			<div class="form-group col-md-6">
				<label for="new_password1">New password</label>
				<input class="form-control" type="password" id="new_password1" name="new_password1" required>
			</div>
			<div class="form-group col-md-6">
				<label for="new_password2">New password again</label>
				<input class="form-control" type="password" id="new_password2" name="new_password2" required>
			</div>
		</div>
		<button type="submit" name="submit" value="password" class="btn btn-primary">Change password</button>
	</form>`)

type editProfileData struct {
	*Route
	Username  string
	Mail      string
	FirstName string
	LastName  string
}

func editProfile(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	u, err := r.db.GetUserByName(params.ByName("username"))
	if err != nil {
		if r.db.UserDB.IsNotFound(err) {
			return core.ErrNotFound
		}
		return err
	}

	if r.User.ID() != u.ID() {
		return core.ErrForbidden
	}

	var data = editProfileData{
		Route:     r,
		Username:  u.Username(),
		Mail:      u.Mail(),
		FirstName: u.FirstName(),
		LastName:  u.LastName(),
	}

	if req.Method == http.MethodPost {

		switch req.PostFormValue("submit") {

		case "password":

			var old = req.PostFormValue("old_password")
			var new1 = req.PostFormValue("new_password1")
			var new2 = req.PostFormValue("new_password2")

			var err error
			switch {
			case new1 == "":
				err = errors.New("please enter a new password")
			case new1 != new2:
				err = errors.New("the new passwords don't match")
			default:
				err = r.db.ChangePassword(u, old, new1)
			}

			if err != nil {
				r.Danger(err)
			} else {
				r.Success("Your password has been changed.")
				r.SeeOther("/profile/%s/edit", u.Username())
				return nil
			}

		default:

			data.Username = strings.TrimSpace(req.PostFormValue("username"))
			data.Mail = strings.TrimSpace(req.PostFormValue("mail"))
			data.FirstName = strings.TrimSpace(req.PostFormValue("first_name"))
			data.LastName = strings.TrimSpace(req.PostFormValue("last_name"))

			var err error
			switch {
			case data.Username == "":
				err = errors.New("please enter a username")
			default:
				if other, errByName := r.db.GetUserByName(data.Username); errByName == nil && other.ID() != u.ID() {
					err = errors.New("this username is already taken")
				} else {
					err = r.db.SetProfile(u, data.Username, data.Mail, data.FirstName, data.LastName)
				}
			}

			if err != nil {
				r.Danger(err)
			} else {
				r.Success("Your profile has been updated.")
				r.SeeOther("/profile/%s", strings.ToLower(data.Username))
				return nil
			}
		}
	}

	return editProfileTmpl.Execute(w, data)
}
