package core

import (
	"log"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/wansing/chronik/filestore"
	"github.com/wansing/chronik/upload"
	"github.com/wansing/chronik/util"
)

// PerPageDefault is the number of posts on one listing page.
const PerPageDefault = 10

// A BlogDB ties the storage backends together.
type BlogDB struct {
	CategoryDB
	CommentDB
	LocationDB
	PostDB
	UserDB
	WordDB
	SessionManager *scs.SessionManager
	Uploads        upload.Store

	SiteName      string
	PerPage       int
	ContentFilter bool // reject forbidden words in submitted content

	HMACSecret string // exported because main sets it
}

func (c *BlogDB) Init(sessionStore scs.Store, cookiePath string, uploadDir, cacheDir string) error {

	if c.SiteName == "" {
		c.SiteName = "Chronik"
	}

	if c.PerPage <= 0 {
		c.PerPage = PerPageDefault
	}

	if c.HMACSecret == "" {
		var err error
		c.HMACSecret, err = util.RandomString32()
		if err != nil {
			return err
		}
		log.Println("generating random HMAC secret")
	}

	c.SessionManager = scs.New()
	c.SessionManager.Store = sessionStore
	c.SessionManager.Cookie.Path = cookiePath + "/"         // 'The default value is "/". Passing the empty string "" will result in it being set to the path that the cookie was issued from.'
	c.SessionManager.Cookie.Persist = false                 // Don't store cookie across browser sessions. Required for GDPR cookie consent exemption criterion B.
	c.SessionManager.Cookie.SameSite = http.SameSiteLaxMode // good CSRF protection if HTTP GET doesn't modify anything
	c.SessionManager.Cookie.Secure = false                  // else running on localhost or behind a http proxy fails
	c.SessionManager.IdleTimeout = 12 * time.Hour
	c.SessionManager.Lifetime = 720 * time.Hour

	resizer, err := filestore.FindResizer()
	if err == nil {
		log.Printf("using JPEG resizer: %s", resizer.Name())
	} else {
		log.Printf("no JPEG resizer found, serving original images")
	}

	c.Uploads = &filestore.Store{
		CacheDir:   cacheDir,
		UploadDir:  uploadDir,
		HMACSecret: []byte(c.HMACSecret),
		Resizer:    resizer, // may be nil
	}

	return nil
}
