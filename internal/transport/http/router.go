package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bianca-8/reload-rage/internal/handler"
	"github.com/bianca-8/reload-rage/internal/httputil"
	"github.com/bianca-8/reload-rage/internal/service"
	authmw "github.com/bianca-8/reload-rage/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	Pages    *handler.PageHandler
	API      *handler.APIHandler
	Sessions *service.SessionManager
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// HTML routes. Session identity is optional everywhere here: the home
	// page branches on it and the auth forms redirect when it is present.
	r.Group(func(r chi.Router) {
		r.Use(authmw.OptionalSessionAuth(cfg.Sessions))

		r.Get("/", cfg.Pages.Home)
		r.Get("/login", cfg.Pages.ShowLogin)
		r.Get("/register", cfg.Pages.ShowRegister)

		r.Post("/login", cfg.Pages.Login)
		r.Post("/register", cfg.Pages.Register)
		r.Post("/logout", cfg.Pages.Logout)
	})

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Get("/leaderboard", cfg.API.Leaderboard)
		r.Get("/total-views", cfg.API.TotalViews)

		r.With(authmw.SessionAuth(cfg.Sessions)).Get("/user-stats", cfg.API.UserStats)
	})

	return r
}
