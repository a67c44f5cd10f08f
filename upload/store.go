package upload

import (
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
)

type Store interface {
	Folder(postID int) Folder
	HMAC(postID int, filename string, w int, h int, ts int64) string
	ServeHTTP(writer http.ResponseWriter, req *http.Request) // implementations will use HMAC and ParseURL
}

// ParseURL parses an url like "/123/foo.jpg" or "/123/foo.jpg?w=400&h=200&ts=1600000000&sig=...".
func ParseURL(u *url.URL) (postID int, filename string, resize bool, w, h int, ts int64, sig []byte, err error) {

	dir, filename := path.Split(u.Path)

	postID, err = strconv.Atoi(strings.Trim(dir, "/"))
	if err != nil {
		return
	}

	filename = strings.TrimSpace(filename)

	// resizing is offered for jpeg files only

	if strings.HasSuffix(filename, ".jpg") || strings.HasSuffix(filename, ".jpeg") {
		w, _ = strconv.Atoi(u.Query().Get("w"))
		h, _ = strconv.Atoi(u.Query().Get("h"))
		resize = w != 0 || h != 0
	}

	ts, _ = strconv.ParseInt(u.Query().Get("ts"), 10, 64)
	sig = []byte(u.Query().Get("sig"))

	return
}
