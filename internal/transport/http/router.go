package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"socialfeed/internal/authstate"
	"socialfeed/internal/handler"
	"socialfeed/internal/httputil"
	authmw "socialfeed/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler   *handler.AuthHandler
	PostHandler   *handler.PostHandler
	UploadHandler *handler.UploadHandler
	Store         *authstate.Store
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no signed-in user required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", cfg.AuthHandler.Signup)
		r.Post("/login", cfg.AuthHandler.Login)
	})
	r.Get("/session", cfg.AuthHandler.Session)

	// Protected routes - require the global auth state to hold a user
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireUser(cfg.Store))

		r.Post("/auth/logout", cfg.AuthHandler.Logout)

		// Feed and profile pages
		r.Get("/feed", cfg.PostHandler.Feed)
		r.Get("/users/{id}/posts", cfg.PostHandler.UserPosts)

		// Post endpoints
		r.Get("/posts/{id}", cfg.PostHandler.GetByID)
		r.Post("/posts", cfg.PostHandler.Create)
		r.Patch("/posts/{id}", cfg.PostHandler.Update)
		r.Delete("/posts/{id}", cfg.PostHandler.Delete)

		// Image uploads
		r.Post("/uploads", cfg.UploadHandler.Upload)
	})

	return r
}
