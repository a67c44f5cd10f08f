package web

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

var loginTmpl = tmpl(`
	<h1>Login</h1>
	<form method="post">
		<div class="form-group">
			<label for="username">Username</label>
			<input class="form-control" id="username" name="username" required>
		</div>
		<div class="form-group">
			<label for="password">Password</label>
			<input class="form-control" type="password" id="password" name="password" required>
		</div>
		<button type="submit" class="btn btn-primary">Login</button>
	</form>
	<p class="mt-3">No account yet? <a href="register">Register</a>.</p>`)

func login(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	if r.LoggedIn() {
		r.SeeOther("/")
		return nil
	}

	if req.Method == http.MethodPost {
		if err := r.Login(req.PostFormValue("username"), req.PostFormValue("password")); err != nil {
			r.Danger(err)
		} else {
			r.SeeOther("/")
			return nil
		}
	}

	return loginTmpl.Execute(w, r)
}

func logout(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {
	r.Logout()
	r.SeeOther("/")
	return nil
}
