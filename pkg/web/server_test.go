package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PancyStudios/StrikeTrackerBot/internal/striker"
	"github.com/PancyStudios/StrikeTrackerBot/internal/tracker"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChiefs []striker.Summary

func (f fakeChiefs) Summaries() []striker.Summary { return f }

type fakeTrackers map[string][]tracker.Tracker

func (f fakeTrackers) List(guildID string) []tracker.Tracker { return f[guildID] }

func newTestServer(t *testing.T, allowedHosts string, limit RateLimitConfig) *Server {
	t.Helper()
	s, err := NewServer("", allowedHosts, limit)
	require.NoError(t, err)
	SetupAPIRoutes(s, &API{
		Chiefs: fakeChiefs{
			{Chief: "Kira", Strikes: 2, Warnings: 1, Total: 3},
			{Chief: "Alpha", Strikes: 0, Warnings: 1, Total: 1},
		},
		Trackers: fakeTrackers{
			"1": {{Name: "Alpha", Goal: 100, Current: 40, Currency: "$", ChannelID: "2"}},
		},
		StorageBackend: "file",
	})
	return s
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Engine().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "", DefaultRateLimit)
	w := get(s, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestStatusWithoutBot(t *testing.T) {
	s := newTestServer(t, "", DefaultRateLimit)
	w := get(s, "/api/status")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Storage struct {
			Backend string `json:"backend"`
		} `json:"storage"`
		Bot struct {
			IsOnline bool `json:"isOnline"`
		} `json:"bot"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "file", body.Storage.Backend)
	assert.False(t, body.Bot.IsOnline)
}

func TestTrackers(t *testing.T) {
	s := newTestServer(t, "", DefaultRateLimit)
	w := get(s, "/api/guilds/1/trackers")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Trackers []struct {
			Name     string `json:"name"`
			Percent  int    `json:"percent"`
			Progress string `json:"progress"`
		} `json:"trackers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Trackers, 1)
	assert.Equal(t, "Alpha", body.Trackers[0].Name)
	assert.Equal(t, 40, body.Trackers[0].Percent)
	assert.Equal(t, "$40 / $100 (40%)", body.Trackers[0].Progress)

	w = get(s, "/api/guilds/unknown/trackers")
	assert.Contains(t, w.Body.String(), `"trackers":[]`)
}

func TestChiefsAndExport(t *testing.T) {
	s := newTestServer(t, "", DefaultRateLimit)

	w := get(s, "/api/chiefs")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"chief":"Kira"`)

	w = get(s, "/api/chiefs/export")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "chief,strikes,warnings,total\nKira,2,1,3\nAlpha,0,1,1\n", w.Body.String())
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, "", DefaultRateLimit)

	w := get(s, "/api/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	s.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, "", RateLimitConfig{Window: time.Hour, MaxRequests: 1, Burst: 2})

	assert.Equal(t, http.StatusOK, get(s, "/api/health").Code)
	assert.Equal(t, http.StatusOK, get(s, "/api/health").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(s, "/api/health").Code)
}

func TestAllowedHosts(t *testing.T) {
	s := newTestServer(t, `^bot\.example\.com$`, DefaultRateLimit)

	assert.Equal(t, http.StatusForbidden, get(s, "/api/health").Code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Host = "bot.example.com"
	s.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	_, err := NewServer("", "(", DefaultRateLimit)
	assert.Error(t, err)
}
