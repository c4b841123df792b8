package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/bianca-8/reload-rage/internal/model"
	"github.com/bianca-8/reload-rage/internal/service"
	"github.com/bianca-8/reload-rage/internal/transport/http/middleware"
	"github.com/bianca-8/reload-rage/internal/view"
)

// genericFailure is shown on forms when the store itself failed. Validation
// and credential problems get specific messages instead.
const genericFailure = "Something went wrong, please try again"

// PageHandler serves the server-rendered HTML routes.
type PageHandler struct {
	userService *service.UserService
	views       *service.ViewService
	board       *service.LeaderboardService
	sessions    *service.SessionManager
	renderer    *view.Renderer
	log         zerolog.Logger
}

// NewPageHandler wires dependencies for the HTML routes.
func NewPageHandler(
	userService *service.UserService,
	views *service.ViewService,
	board *service.LeaderboardService,
	sessions *service.SessionManager,
	renderer *view.Renderer,
	log zerolog.Logger,
) *PageHandler {
	return &PageHandler{
		userService: userService,
		views:       views,
		board:       board,
		sessions:    sessions,
		renderer:    renderer,
		log:         log,
	}
}

// homeData feeds home.html
type homeData struct {
	User        *model.LeaderboardEntry
	Leaderboard []model.LeaderboardEntry
	TotalViews  int64
	IsLoggedIn  bool
}

// formData feeds login.html and register.html
type formData struct {
	Username string
	Error    string
}

// Home handles the dashboard.
// GET /
//
// Every hit counts one view: the visitor's own counter when a session is
// present, the anonymous counter otherwise. The route fails open — store
// errors are logged and the page renders with whatever could be read.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var visitorID *int64
	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		visitorID = &userID
	}

	total := h.views.RecordVisit(ctx, visitorID)

	leaderboard, err := h.board.TopUsers(ctx, model.DefaultLeaderboardSize)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load leaderboard")
		leaderboard = nil
	}

	data := homeData{
		Leaderboard: leaderboard,
		TotalViews:  total,
	}

	if visitorID != nil {
		stats, err := h.board.UserStats(ctx, *visitorID)
		if err != nil {
			// A cookie for a user the store no longer knows renders as
			// logged out
			h.log.Warn().Err(err).Int64("user_id", *visitorID).Msg("failed to load user stats")
		} else {
			data.User = stats
			data.IsLoggedIn = true
		}
	}

	if err := h.renderer.Render(w, "home.html", data); err != nil {
		h.log.Error().Err(err).Msg("failed to render home page")
	}
}

// ShowLogin renders the empty login form, or redirects home when the caller
// already has a session.
// GET /login
func (h *PageHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderForm(w, "login.html", formData{})
}

// ShowRegister renders the empty registration form, or redirects home when
// the caller already has a session.
// GET /register
func (h *PageHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderForm(w, "register.html", formData{})
}

// Register handles form sign-up.
// POST /register
func (h *PageHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderForm(w, "register.html", formData{Error: "Invalid form data"})
		return
	}

	req := model.RegisterRequest{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		h.renderForm(w, "register.html", formData{
			Username: req.Username,
			Error:    h.formError(err, "register"),
		})
		return
	}

	h.startSession(w, r, user.ID)
}

// Login handles form sign-in.
// POST /login
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderForm(w, "login.html", formData{Error: "Invalid form data"})
		return
	}

	req := model.LoginRequest{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		h.renderForm(w, "login.html", formData{
			Username: req.Username,
			Error:    h.formError(err, "login"),
		})
		return
	}

	h.startSession(w, r, user.ID)
}

// Logout clears the session cookie and sends the visitor home. Nothing on
// this path may fail the caller; a user stuck logged in is worse than a
// swallowed error.
// POST /logout
func (h *PageHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessions.ClearCookie())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// startSession mints the signed cookie for a fresh login or registration and
// redirects home.
func (h *PageHandler) startSession(w http.ResponseWriter, r *http.Request, userID int64) {
	token, err := h.sessions.Issue(userID)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("failed to issue session")
		// The account exists (or the login was valid); send them to the
		// login page rather than a dead end.
		h.renderForm(w, "login.html", formData{Error: genericFailure})
		return
	}

	http.SetCookie(w, h.sessions.Cookie(token))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// formError maps a register/login failure to the message the form shows.
func (h *PageHandler) formError(err error, flow string) string {
	switch {
	case errors.Is(err, model.ErrValidation):
		return err.Error()
	case errors.Is(err, model.ErrUsernameExists):
		return "That username is already taken"
	case errors.Is(err, model.ErrInvalidCredentials):
		return "Invalid username or password"
	default:
		h.log.Error().Err(err).Str("flow", flow).Msg("form submission failed")
		return genericFailure
	}
}

func (h *PageHandler) renderForm(w http.ResponseWriter, name string, data formData) {
	if err := h.renderer.Render(w, name, data); err != nil {
		h.log.Error().Err(err).Str("template", name).Msg("failed to render form")
	}
}
