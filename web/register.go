package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

var registerTmpl = tmpl(`
	<h1>Register</h1>
	<form method="post">
		<div class="form-group">
			<label for="username">Username</label>
			<input class="form-control" id="username" name="username" value="{{ .Username }}" required>
		</div>
		<div class="form-group">
			<label for="mail">Mail address (optional)</label>
			<input class="form-control" type="email" id="mail" name="mail" value="{{ .Mail }}">
		</div>
		<div class="form-row">
			<div class="form-group col-md-6">
				<label for="password1">Password</label>
				<input class="form-control" type="password" id="password1" name="password1" required>
			</div>
			<div class="form-group col-md-6">
				<label for="password2">Password again</label>
				<input class="form-control" type="password" id="password2" name="password2" required>
			</div>
		</div>
		<button type="submit" class="btn btn-primary">Register</button>
	</form>`)

type registerData struct {
	*Route
	Username string
	Mail     string
}

func register(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	if r.LoggedIn() {
		r.SeeOther("/")
		return nil
	}

	var data = registerData{
		Route: r,
	}

	if req.Method == http.MethodPost {

		data.Username = strings.TrimSpace(req.PostFormValue("username"))
		data.Mail = strings.TrimSpace(req.PostFormValue("mail"))
		var pass1 = req.PostFormValue("password1")
		var pass2 = req.PostFormValue("password2")

		err := func() error {

			if data.Username == "" {
				return errors.New("please choose a username")
			}
			if pass1 == "" {
				return errors.New("please choose a password")
			}
			if pass1 != pass2 {
				return errors.New("the passwords don't match")
			}

			if _, err := r.db.GetUserByName(data.Username); err == nil {
				return fmt.Errorf("the username %s is already taken", data.Username)
			}

			u, err := r.db.InsertUser(data.Username)
			if err != nil {
				return err
			}

			if data.Mail != "" {
				if err := r.db.SetProfile(u, u.Username(), data.Mail, "", ""); err != nil {
					return err
				}
			}

			if err := r.db.UserDB.SetPassword(u, pass1); err != nil {
				return err
			}

			return r.Login(u.Username(), pass1)
		}()

		if err != nil {
			r.Danger(err)
		} else {
			r.SeeOther("/")
			return nil
		}
	}

	return registerTmpl.Execute(w, data)
}
