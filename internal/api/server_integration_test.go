package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/ig-profile-api/internal/config"
	collyfetcher "github.com/JakeFAU/ig-profile-api/internal/fetcher/colly"
	"github.com/JakeFAU/ig-profile-api/internal/profile"
)

func TestIntegration_NotFoundSkipsFallback(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream(t)
	rec := serve(up.server(t), http.MethodGet, "/api/profile/ghost")

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"success":false,"error":"User not found"}`, rec.Body.String())
	require.Equal(t, 1, up.apiHits("ghost"))
	require.Equal(t, 0, up.pageHits("ghost"))
}

func TestIntegration_MalformedResponseFallsBackOnce(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream(t)
	rec := serve(up.server(t), http.MethodGet, "/api/ig-profile.php?username=broken")

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{
		"success": true,
		"username": "broken",
		"full_name": "Broken Account",
		"biography": "Only the page works",
		"posts": 0,
		"followers": 0,
		"following": 0,
		"profile_pic_url": "https://cdn.test/broken.jpg",
		"is_private": false,
		"is_verified": false,
		"external_url": "",
		"category": ""
	}`, rec.Body.String())
	require.Equal(t, 1, up.pageHits("broken"))
}

func TestIntegration_NonOKFallsBackToPageError(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream(t)
	rec := serve(up.server(t), http.MethodGet, "/api/profile/throttled")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"success":false,"error":"HTTP Error: 429"}`, rec.Body.String())
	require.Equal(t, 1, up.pageHits("throttled"))
}

func TestIntegration_QueryAndPathAreEquivalent(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream(t)
	server := up.server(t)

	viaQuery := serve(server, http.MethodGet, "/api/ig-profile.php?username=@test")
	viaPath := serve(server, http.MethodGet, "/api/profile/test")

	require.Equal(t, http.StatusOK, viaQuery.Code)
	require.Equal(t, viaQuery.Code, viaPath.Code)
	require.JSONEq(t, viaQuery.Body.String(), viaPath.Body.String())
	require.Equal(t, 2, up.apiHits("test"))

	body := decodeBody(t, viaPath)
	require.Equal(t, "https://cdn.test/test-hd.jpg", body["profile_pic_url"])
	require.Equal(t, float64(12), body["followers"])
	require.Equal(t, "test-agent", up.lastAgent())
}

func TestIntegration_UnreachableUpstream(t *testing.T) {
	t.Parallel()

	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	server := newIntegrationServer(deadURL)

	rec := serve(server, http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(server, http.MethodGet, "/api/profile/nasa")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, false, body["success"])
	require.NotEmpty(t, body["error"])
}

// --- fake upstream ---

type fakeUpstream struct {
	ts *httptest.Server

	mu    sync.Mutex
	api   map[string]int
	page  map[string]int
	agent string
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	up := &fakeUpstream{api: map[string]int{}, page: map[string]int{}}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/users/web_profile_info/", func(w http.ResponseWriter, r *http.Request) {
		username := r.URL.Query().Get("username")
		up.record(up.api, username, r)
		switch username {
		case "ghost":
			http.NotFound(w, r)
		case "throttled":
			w.WriteHeader(http.StatusServiceUnavailable)
		case "broken":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":{}}`))
		default:
			w.Header().Set("Content-Type", "application/json")
			_, _ = fmt.Fprintf(w, `{"data":{"user":{
				"username":%q,
				"full_name":"Test User",
				"edge_followed_by":{"count":12},
				"profile_pic_url":"https://cdn.test/%s.jpg",
				"profile_pic_url_hd":"https://cdn.test/%s-hd.jpg"
			}}}`, username, username, username)
		}
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		username := strings.Trim(r.URL.Path, "/")
		up.record(up.page, username, r)
		if username == "throttled" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><script type="application/ld+json">` +
			`{"@type":"Person","alternateName":"@broken","name":"Broken Account",` +
			`"description":"Only the page works","image":"https://cdn.test/broken.jpg"}` +
			`</script></head></html>`))
	})

	up.ts = httptest.NewServer(mux)
	t.Cleanup(up.ts.Close)
	return up
}

func (u *fakeUpstream) record(hits map[string]int, username string, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	hits[username]++
	u.agent = r.Header.Get("User-Agent")
}

func (u *fakeUpstream) apiHits(username string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.api[username]
}

func (u *fakeUpstream) pageHits(username string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.page[username]
}

func (u *fakeUpstream) lastAgent() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.agent
}

func (u *fakeUpstream) server(t *testing.T) *Server {
	t.Helper()
	return newIntegrationServer(u.ts.URL)
}

func newIntegrationServer(baseURL string) *Server {
	cfg := testConfig()
	cfg.HTTP.TimeoutSeconds = 2
	cfg.Upstream = config.UpstreamConfig{
		ProfileAPIURL: baseURL + "/api/v1/users/web_profile_info/",
		WebBaseURL:    baseURL,
		UserAgent:     "test-agent",
		AppID:         "936619743392459",
		ASBDID:        "198387",
		WWWClaim:      "0",
	}
	fetcher := collyfetcher.New(collyfetcher.Config{UserAgent: cfg.Upstream.UserAgent, Timeout: 2 * time.Second})
	svc := profile.NewService(fetcher, cfg.Profile(), zap.NewNop())
	return NewServer(svc, cfg, zap.NewNop())
}
