// Package server assembles the dev API: router, middleware chain and
// storage bootstrap. cmd/aurad and the end-to-end tests share it.
package server

import (
	"database/sql"
	"net/http"

	"aura/pkg/handlers"
	"aura/pkg/middleware"
	"aura/pkg/posts"
	"aura/pkg/session"
	"aura/pkg/user"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// OpenDB opens (or creates) the sqlite database and applies the schema.
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	for _, schema := range []string{user.Schema, posts.Schema} {
		if _, err := db.Exec(schema); err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}

// NewHandler wires the eight /api endpoints behind the Auth, Log and
// Recover middleware.
func NewHandler(logger *zap.SugaredLogger, sm session.SessionManager, db *sql.DB) http.Handler {
	userRepo := user.NewUserRepoSQL(db)
	postsRepo := posts.NewPostsRepoSQL(db)

	userHandler := &handlers.UserHandler{
		Sm:        sm,
		Repo:      userRepo,
		PostsRepo: postsRepo,
		Logger:    logger,
	}
	postHandler := &handlers.PostHandler{
		Sm:        sm,
		PostsRepo: postsRepo,
		Logger:    logger,
	}

	r := mux.NewRouter()
	api := r.PathPrefix("/api/").Subrouter()

	api.HandleFunc("/health", postHandler.Health).Methods(http.MethodGet)

	api.HandleFunc("/login", userHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/signup", userHandler.Signup).Methods(http.MethodPost)
	api.HandleFunc("/logout", userHandler.Logout).Methods(http.MethodPost)
	api.HandleFunc("/me", userHandler.Me).Methods(http.MethodGet)

	api.HandleFunc("/posts", postHandler.GetFeed).Methods(http.MethodGet)
	api.HandleFunc("/posts", postHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/vote", postHandler.Vote).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusNotFound, "not_found", "")
	})

	h := middleware.Auth(logger, sm, r)
	h = middleware.Log(logger, h)
	h = middleware.Recover(logger, h)

	return h
}
