package main

import (
	"bytes"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/wansing/chronik/core"
	"github.com/wansing/chronik/sqldb"
	"github.com/wansing/chronik/sqldb/mysql"
	"github.com/wansing/chronik/sqldb/sqlite3"
	"github.com/wansing/chronik/util"
	"github.com/wansing/chronik/web"
	"github.com/xo/dburl"
	"golang.org/x/crypto/ssh/terminal"
	"gopkg.in/ini.v1"
)

func init() {
	log.SetFlags(0) // no log prefixes, on most systems systemd-journald adds them
}

func main() {

	var dbArg string // is in both FlagSets

	const dbUsage = "sql database url, see github.com/xo/dburl"
	const dbDefault = "sqlite3:chronik.sqlite3?_busy_timeout=10000&_journal=WAL&_sync=NORMAL&cache=shared"

	// default FlagSet

	// Your reverse proxy must not strip the prefix. So if you're using nginx, the "proxy_pass" value should not end with a slash.
	var base = flag.String("base", "", "strip off this `prefix` from every HTTP request and prepend it to every link")
	var configPath = flag.String("config", "", "load this ini configuration `file`")
	flag.StringVar(&dbArg, "db", dbDefault, dbUsage)
	var hmacKey = flag.String("hmac", "", "use this secret HMAC `key` for serving resized images")
	var listenAddr = flag.String("listen", "127.0.0.1:8080", "serve HTTP content at this `ip:port`")

	// init FlagSet

	var initFlags = flag.NewFlagSet("init", flag.ExitOnError)

	initFlags.StringVar(&dbArg, "db", dbDefault, dbUsage)
	var initUser = initFlags.String("user", "", "creates a user with this `name`, prompting for a password")
	var initCategory = initFlags.String("category", "", "creates a category with this `title`")
	var initSlug = initFlags.String("slug", "", "overrides the `slug` of the created category")
	var initDescription = initFlags.String("description", "", "sets the `description` of the created category")
	var initHidden = initFlags.Bool("hidden", false, "creates the category or location unpublished")
	var initLocation = initFlags.String("location", "", "creates a location with this `title`")
	var initForbid = initFlags.String("forbid", "", "adds this `word` to the forbidden words")
	var initUnforbid = initFlags.String("unforbid", "", "removes this `word` from the forbidden words")

	if len(os.Args) > 1 && os.Args[1] == "init" {
		initFlags.Parse(os.Args[2:])
	} else {
		flag.Parse()
	}

	// configuration

	var db = &core.BlogDB{
		ContentFilter: true,
	}

	var staticDir = "static"
	var uploadDir = "uploads"
	var cacheDir = "cache"

	if *configPath != "" {

		cfg, err := ini.Load(*configPath)
		if err != nil {
			log.Printf("could not load configuration: %v", err)
			return
		}

		var section = cfg.Section("")
		db.SiteName = section.Key("site-name").String()
		db.PerPage = section.Key("per-page").MustInt(0)
		db.ContentFilter = section.Key("content-filter").MustBool(true)
		staticDir = section.Key("static-dir").MustString(staticDir)
		uploadDir = section.Key("upload-dir").MustString(uploadDir)
		cacheDir = section.Key("cache-dir").MustString(cacheDir)

		if key := section.Key("hmac").String(); key != "" {
			*hmacKey = key
		}
	}

	// database

	dbURL, err := dburl.Parse(dbArg)
	if err != nil {
		log.Printf("could not parse database url: %v", err)
		return
	}

	sqlDB, err := sql.Open(dbURL.Driver, dbURL.DSN)
	if err != nil {
		log.Printf("could not open sql database: %v", err)
		return
	}

	if err = sqlDB.Ping(); err != nil {
		log.Printf("could not ping sql database: %v", err)
		return
	}

	log.Printf("using database %s", dbURL.String())

	// base

	*base = strings.Trim(*base, "/")
	if *base != "" {
		*base = "/" + *base
	}

	// assemble stuff

	var sessionStore scs.Store
	switch dbURL.Driver {
	case "mysql":
		sessionStore = mysql.NewSessionStore(sqlDB)
	case "sqlite3":
		sessionStore = sqlite3.NewSessionStore(sqlDB)
	default:
		log.Printf("unknown database backend: %s", dbURL.Driver)
		return
	}

	db.CategoryDB = sqldb.NewCategoryDB(sqlDB)
	db.CommentDB = sqldb.NewCommentDB(sqlDB)
	db.LocationDB = sqldb.NewLocationDB(sqlDB)
	db.PostDB = sqldb.NewPostDB(sqlDB)
	db.UserDB = sqldb.NewUserDB(sqlDB)
	db.WordDB = sqldb.NewWordDB(sqlDB)

	db.HMACSecret = *hmacKey

	if err := db.Init(sessionStore, *base, uploadDir, cacheDir); err != nil {
		log.Println(err) // log.Fatalln would not run deferred functions
		return
	}

	defer func() {
		log.Println("closing database")
		sqlDB.Close()
	}()

	// init

	if initFlags.Parsed() {
		switch {
		case *initUser != "":
			insertUser(db, *initUser)
		case *initCategory != "":
			insertCategory(db, *initCategory, *initSlug, *initDescription, !*initHidden)
		case *initLocation != "":
			insertLocation(db, *initLocation, !*initHidden)
		case *initForbid != "":
			forbid(db, *initForbid)
		case *initUnforbid != "":
			unforbid(db, *initUnforbid)
		default:
			initFlags.Usage()
		}
		return
	}

	listen(db, *listenAddr, *base, staticDir)
}

func insertUser(db *core.BlogDB, name string) {

	fmt.Printf("password for user %s: ", name)
	pass1, err := terminal.ReadPassword(0)
	fmt.Println()
	if err != nil {
		log.Printf("error reading password: %v", err)
		return
	}

	fmt.Printf("repeat password: ")
	pass2, err := terminal.ReadPassword(0)
	fmt.Println()
	if err != nil {
		log.Printf("error reading password: %v", err)
		return
	}

	if !bytes.Equal(pass1, pass2) {
		log.Printf("passwords don't match")
		return
	}

	user, err := db.InsertUser(name)
	if err != nil {
		log.Printf("error creating user %s: %v", name, err)
		return
	}

	if err := db.SetPassword(user, string(pass1)); err != nil {
		log.Printf("error setting password: %v", err)
		return
	}
}

func insertCategory(db *core.BlogDB, title, slug, description string, isPublished bool) {
	if slug == "" {
		slug = util.NormalizeSlug(title)
	}
	if err := db.InsertCategory(title, slug, description, isPublished); err != nil {
		log.Printf(`error creating category "%s": %v`, title, err)
	}
}

func insertLocation(db *core.BlogDB, title string, isPublished bool) {
	if err := db.InsertLocation(title, isPublished); err != nil {
		log.Printf(`error creating location "%s": %v`, title, err)
	}
}

func forbid(db *core.BlogDB, word string) {
	if err := db.InsertWord(word); err != nil {
		log.Printf(`error forbidding word "%s": %v`, word, err)
	}
}

func unforbid(db *core.BlogDB, word string) {
	if err := db.RemoveWord(word); err != nil {
		log.Printf(`error unforbidding word "%s": %v`, word, err)
	}
}

func listen(db *core.BlogDB, addr string, base string, staticDir string) {

	// mux
	//
	// golang mux recovers from panics, so the program won't crash

	var waitingControllers sync.WaitGroup

	var router = web.NewRouter(db, base)

	var mux = http.NewServeMux()
	util.HandlePrefix(mux, base+"/static", http.FileServer(http.Dir(staticDir)))
	util.HandlePrefix(mux, base+"/upload", db.Uploads)
	util.HandlePrefix(mux, base,
		http.HandlerFunc(
			func(w http.ResponseWriter, req *http.Request) {
				waitingControllers.Add(1)
				defer waitingControllers.Done()
				router.ServeHTTP(w, req)
			},
		),
	)

	// listener and listen

	sigintChannel := make(chan os.Signal, 1)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Println(err)
		return
	}

	log.Printf("listening to %s", addr)

	httpSrv := &http.Server{
		Handler:      db.SessionManager.LoadAndSave(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := httpSrv.Serve(listener); err != nil {

			// don't panic, we want a graceful shutdown
			if err != http.ErrServerClosed {
				log.Printf("error listening: %v", err)
			}

			// ensure graceful shutdown
			sigintChannel <- os.Interrupt
		}
	}()

	// graceful shutdown

	signal.Notify(sigintChannel, os.Interrupt, syscall.SIGTERM) // SIGINT (Interrupt) or SIGTERM
	<-sigintChannel

	log.Println("shutting down")
	httpSrv.Close()

	waitingControllers.Wait()
}
