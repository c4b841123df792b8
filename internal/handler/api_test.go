package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bianca-8/reload-rage/internal/handler"
	"github.com/bianca-8/reload-rage/internal/model"
	"github.com/bianca-8/reload-rage/internal/repository"
	"github.com/bianca-8/reload-rage/internal/service"
	transport "github.com/bianca-8/reload-rage/internal/transport/http"
	"github.com/bianca-8/reload-rage/internal/view"
)

// newTestRouter wires the full router over the given repositories, the same
// way Run does in production.
func newTestRouter(t *testing.T, users repository.UserRepository, stats repository.StatsRepository) (http.Handler, *service.SessionManager) {
	t.Helper()

	renderer, err := view.New()
	require.NoError(t, err)

	log := zerolog.Nop()
	sessions := service.NewSessionManager("test-secret", 24*time.Hour)
	userService := service.NewUserService(users)
	board := service.NewLeaderboardService(users, stats)
	views := service.NewViewService(users, stats, board, log)

	router := transport.NewRouter(transport.RouterConfig{
		Pages:    handler.NewPageHandler(userService, views, board, sessions, renderer, log),
		API:      handler.NewAPIHandler(board, log),
		Sessions: sessions,
	})
	return router, sessions
}

func seedUser(t *testing.T, store *repository.MemoryStore, username string, viewCount int) *model.User {
	t.Helper()
	u := &model.User{Username: username, PasswordHashed: "x"}
	require.NoError(t, store.Create(context.Background(), u))
	for i := 0; i < viewCount; i++ {
		require.NoError(t, store.IncrementViewCount(context.Background(), u.ID))
	}
	return u
}

func TestAPI_Leaderboard(t *testing.T) {
	store := repository.NewMemoryStore()
	router, _ := newTestRouter(t, store, store)

	seedUser(t, store, "alice", 3)
	seedUser(t, store, "bob", 1)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var entries []model.LeaderboardEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "alice", entries[0].Username)
	assert.Equal(t, int64(3), entries[0].ViewCount)
	assert.Equal(t, "bob", entries[1].Username)
}

func TestAPI_Leaderboard_EmptyStore(t *testing.T) {
	store := repository.NewMemoryStore()
	router, _ := newTestRouter(t, store, store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String(), "an empty board is an empty array, not null")
}

func TestAPI_TotalViews(t *testing.T) {
	store := repository.NewMemoryStore()
	router, _ := newTestRouter(t, store, store)

	seedUser(t, store, "alice", 2)
	require.NoError(t, store.IncrementAnonymousViews(context.Background()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/total-views", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(3), body["total_views"])
}

func TestAPI_UserStats_Unauthenticated(t *testing.T) {
	store := repository.NewMemoryStore()
	router, _ := newTestRouter(t, store, store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user-stats", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"]["message"])
}

func TestAPI_UserStats_Authenticated(t *testing.T) {
	store := repository.NewMemoryStore()
	router, sessions := newTestRouter(t, store, store)

	alice := seedUser(t, store, "alice", 5)
	token, err := sessions.Issue(alice.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/user-stats", nil)
	req.AddCookie(sessions.Cookie(token))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var stats model.LeaderboardEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, "alice", stats.Username)
	assert.Equal(t, int64(5), stats.ViewCount)
}

func TestAPI_UserStats_StaleCookie(t *testing.T) {
	store := repository.NewMemoryStore()
	router, sessions := newTestRouter(t, store, store)

	// A valid signature for a user the store has never seen (e.g. the
	// in-memory store was wiped by a restart).
	token, err := sessions.Issue(12345)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/user-stats", nil)
	req.AddCookie(sessions.Cookie(token))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// downStore fails every read so the API error paths can be exercised.
type downStore struct{}

var errDown = errors.New("store unavailable")

func (downStore) Create(ctx context.Context, u *model.User) error { return errDown }
func (downStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return nil, errDown
}
func (downStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return nil, errDown
}
func (downStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return false, errDown
}
func (downStore) IncrementViewCount(ctx context.Context, userID int64) error { return errDown }
func (downStore) TopByViewCount(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	return nil, errDown
}
func (downStore) SumViewCounts(ctx context.Context) (int64, error)  { return 0, errDown }
func (downStore) IncrementAnonymousViews(ctx context.Context) error { return errDown }
func (downStore) AnonymousViews(ctx context.Context) (int64, error) { return 0, errDown }

func TestAPI_StoreDownReturns500(t *testing.T) {
	router, _ := newTestRouter(t, downStore{}, downStore{})

	for _, path := range []string{"/api/leaderboard", "/api/total-views"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)

		var body map[string]map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), path)
		assert.Equal(t, "INTERNAL_ERROR", body["error"]["code"], path)
	}
}

func TestHomePage_StoreDownStillRenders(t *testing.T) {
	router, _ := newTestRouter(t, downStore{}, downStore{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	// The view-increment path fails open: the dashboard renders with
	// best-effort data instead of erroring.
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Total views")
}
