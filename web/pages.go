package web

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

var aboutTmpl = tmpl(`
	<h1>About this site</h1>
	<p>{{ .SiteName }} is a shared diary. Everyone can register, write posts, sort them into categories and comment on the posts of others.</p>
	<p>Posts can be scheduled: a post with a publication date in the future stays invisible to everyone but its author until the date has come.</p>`)

func about(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {
	return aboutTmpl.Execute(w, r)
}

var rulesTmpl = tmpl(`
	<h1>Rules</h1>
	<ul>
		<li>Stay polite.</li>
		<li>Write posts in the category they belong to.</li>
		<li>You are responsible for the content you publish.</li>
		<li>Submissions containing forbidden words are rejected.</li>
	</ul>`)

func rules(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {
	return rulesTmpl.Execute(w, r)
}
