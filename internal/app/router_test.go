package app

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jishaan-07/Employee-managment/internal/contacts"
	"github.com/Jishaan-07/Employee-managment/internal/directory"
	"github.com/Jishaan-07/Employee-managment/internal/observability"
	"github.com/Jishaan-07/Employee-managment/internal/shared"
	"github.com/Jishaan-07/Employee-managment/internal/view"
)

var csrfInput = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

func newTestRouter(t *testing.T) (http.Handler, *shared.SessionManager) {
	t.Helper()
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`[{"id":"1","name":"Ada","email":"ada@x.com","status":"Active"}]`))
		case http.MethodPost:
			var emp contacts.Employee
			_ = json.NewDecoder(r.Body).Decode(&emp)
			emp.ID = "2"
			_ = json.NewEncoder(w).Encode(emp)
		default:
			_, _ = w.Write([]byte(`{}`))
		}
	}))
	t.Cleanup(remote.Close)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &Config{AppEnv: "test", AppRequestTimeout: 5 * time.Second, RateLimitPerMinute: 1000}
	sessions := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)
	csrf := shared.NewCSRFManager("csrfsecret")
	metrics := observability.NewMetrics()

	templates, err := view.NewEngine()
	require.NoError(t, err)
	registry := directory.NewRegistry(contacts.NewClient(remote.URL, contacts.WithRecorder(metrics)), logger, metrics.SessionGauge())
	t.Cleanup(registry.Close)

	router := NewRouter(RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessions,
		CSRFManager:      csrf,
		DirectoryHandler: directory.NewHandler(logger, registry, templates, csrf),
		Metrics:          metrics,
	})
	return router, sessions
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"status":"ok"}`, res.Body.String())
}

func TestStaticAssetsAreCached(t *testing.T) {
	router, _ := newTestRouter(t)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/static/css/app.css", nil))
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "public, max-age=3600", res.Header().Get("Cache-Control"))
}

func TestDirectoryRoundTripWithSessionAndCSRF(t *testing.T) {
	router, sessions := newTestRouter(t)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "ada@x.com")
	assert.Equal(t, "DENY", res.Header().Get("X-Frame-Options"))

	var cookie *http.Cookie
	for _, c := range res.Result().Cookies() {
		if c.Name == sessions.CookieName() {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "session cookie must be set")
	match := csrfInput.FindStringSubmatch(res.Body.String())
	require.Len(t, match, 2)

	post := func(path string, form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	forbidden := post("/draft", url.Values{"name": {"Bob"}})
	assert.Equal(t, http.StatusForbidden, forbidden.Code)

	created := post("/draft", url.Values{"csrf_token": {match[1]}, "name": {"Bob"}, "email": {"bob@x.com"}, "status": {"Active"}})
	assert.Equal(t, http.StatusSeeOther, created.Code)

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	req.AddCookie(cookie)
	state := httptest.NewRecorder()
	router.ServeHTTP(state, req)
	require.Equal(t, http.StatusOK, state.Code)

	var snap directory.Snapshot
	require.NoError(t, json.Unmarshal(state.Body.Bytes(), &snap))
	require.Len(t, snap.Employees, 2)
	assert.Equal(t, "Bob", snap.Employees[1].Name)
	assert.Equal(t, "2", snap.Employees[1].ID)

	metricsRes := httptest.NewRecorder()
	router.ServeHTTP(metricsRes, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, metricsRes.Body.String(), `empdir_remote_calls_total{op="create",outcome="success"} 1`)
	assert.Contains(t, metricsRes.Body.String(), "empdir_directory_sessions 1")
}
