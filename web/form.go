package web

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/wansing/chronik/core"
	"github.com/wansing/chronik/util"
)

const maxImageSize = 10 << 20 // bytes

var postFormTmpl = tmpl(`
	<h1>{{ .Heading }}</h1>

	<form method="post" enctype="multipart/form-data">
		<div class="form-group">
			<label for="title">Title</label>
			<input class="form-control" id="title" name="title" value="{{ .Title }}" required>
		</div>
		<div class="form-group">
			<label for="text">Text</label>
			<textarea class="form-control" id="text" name="text" rows="12">{{ .Text }}</textarea>
			<small class="form-text text-muted">Markdown is supported. Insert <code>{{ .MoreStr }}</code> to cut the teaser on listing pages.</small>
		</div>
		<div class="form-row">
			<div class="form-group col-md-4">
				<label for="category">Category</label>
				<select class="form-control" id="category" name="category">
					{{ $selCat := .CategoryID }}
					{{ range .Categories }}
						<option value="{{ .ID }}"{{ if eq .ID $selCat }} selected{{ end }}>{{ .Title }}</option>
					{{ end }}
				</select>
			</div>
			<div class="form-group col-md-4">
				<label for="location">Location</label>
				<select class="form-control" id="location" name="location">
					<option value="0">None</option>
					{{ $selLoc := .LocationID }}
					{{ range .Locations }}
						<option value="{{ .ID }}"{{ if eq .ID $selLoc }} selected{{ end }}>{{ .Title }}</option>
					{{ end }}
				</select>
			</div>
			<div class="form-group col-md-4">
				<label for="pub_date">Publication date</label>
				<input class="form-control" type="datetime-local" id="pub_date" name="pub_date" value="{{ .PubDate }}">
				<small class="form-text text-muted">A future date schedules the post.</small>
			</div>
		</div>
		<div class="form-group">
			<label for="image">Image{{ if .HasImage }} (uploading a new one replaces the current image){{ end }}</label>
			<input type="file" class="form-control-file" id="image" name="image" accept="image/*">
		</div>
		<div class="form-check mb-3">
			<input class="form-check-input" type="checkbox" id="is_published" name="is_published"{{ if .IsPublished }} checked{{ end }}>
			<label class="form-check-label" for="is_published">Published</label>
		</div>
		<button type="submit" class="btn btn-primary">Save</button>
	</form>`)

type postFormData struct {
	*Route
	Heading     string
	Title       string
	Text        string
	PubDate     string // datetime-local format, see util.ParseLocalDateTime
	IsPublished bool
	CategoryID  int
	LocationID  int
	HasImage    bool
	Categories  []core.DBCategory
	Locations   []core.DBLocation
}

func (postFormData) MoreStr() string {
	return util.CutMoreStr
}

func readPostForm(req *http.Request, data *postFormData) error {
	if err := req.ParseMultipartForm(maxImageSize); err != nil && err != http.ErrNotMultipart {
		return err
	}
	data.Title = strings.TrimSpace(req.PostFormValue("title"))
	data.Text = strings.TrimSpace(req.PostFormValue("text"))
	data.PubDate = req.PostFormValue("pub_date")
	data.IsPublished = req.PostFormValue("is_published") != ""
	data.CategoryID, _ = strconv.Atoi(req.PostFormValue("category"))
	data.LocationID, _ = strconv.Atoi(req.PostFormValue("location"))
	return nil
}

func validatePostForm(r *Route, data *postFormData) error {

	if data.Title == "" {
		return errors.New("please enter a title")
	}
	if data.Text == "" {
		return errors.New("please enter a text")
	}

	if err := r.db.ValidateContent(data.Title); err != nil {
		return err
	}
	if err := r.db.ValidateContent(data.Text); err != nil {
		return err
	}

	if cat, err := r.db.GetCategory(data.CategoryID); err != nil || !cat.IsPublished() {
		return errors.New("please choose a category")
	}

	if data.LocationID != 0 {
		if _, err := r.db.GetLocation(data.LocationID); err != nil {
			return errors.New("please choose a valid location")
		}
	}

	if data.PubDate != "" {
		if _, err := util.ParseLocalDateTime(data.PubDate); err != nil {
			return errors.New("please enter a valid publication date")
		}
	}

	return nil
}

// pubDate of a validated form, defaulting to now
func (data *postFormData) pubDate(now int64) int64 {
	if data.PubDate == "" {
		return now
	}
	ts, err := util.ParseLocalDateTime(data.PubDate)
	if err != nil {
		return now
	}
	return ts
}

func loadFormOptions(r *Route, data *postFormData) error {
	var err error
	data.Categories, err = r.db.GetPublishedCategories()
	if err != nil {
		return err
	}
	data.Locations, err = r.db.GetPublishedLocations()
	return err
}

// storeImage saves an uploaded image file under a fresh name and links it to
// the post, replacing the previous image if there was one. The stored name is
// random because user-chosen filenames end up in URLs.
func storeImage(r *Route, p core.DBPost, req *http.Request) error {

	file, header, err := req.FormFile("image")
	if err == http.ErrMissingFile || err == http.ErrNotMultipart {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	var stored = uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))

	var folder = r.db.Uploads.Folder(p.ID())

	if old := p.Image(); old != "" {
		_ = folder.Delete(old)
	}

	if err := folder.Upload(stored, file); err != nil {
		return err
	}

	return r.db.SetImage(p, stored)
}
