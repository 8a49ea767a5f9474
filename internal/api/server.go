package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JakeFAU/ig-profile-api/internal/config"
	"github.com/JakeFAU/ig-profile-api/internal/id/uuid"
	"github.com/JakeFAU/ig-profile-api/internal/logging"
	"github.com/JakeFAU/ig-profile-api/internal/metrics"
	"github.com/JakeFAU/ig-profile-api/internal/profile"
)

// Version is reported by the index document.
const Version = "1.0"

const (
	queryUsage = "/api/ig-profile.php?username=USERNAME"

	msgUserNotFound     = "User not found"
	msgUsernameRequired = "Username parameter is required"
	msgInvalidUsername  = "Invalid username"
	msgPathUsername     = "Username is required"
	msgEndpointNotFound = "Endpoint not found"
	msgMethodNotAllowed = "Method not allowed"
	msgInternal         = "Internal server error"
)

// availableEndpoints is listed on every unmatched route.
var availableEndpoints = []string{
	"/",
	"/api/ig-profile.php?username=USERNAME",
	"/api/profile/<username>",
	"/api/health",
}

// ProfileFetcher resolves a cleaned username to a normalized profile.
type ProfileFetcher interface {
	Fetch(ctx context.Context, username string) (profile.Result, error)
}

// Server wires HTTP handlers to the profile service.
type Server struct {
	router   chi.Router
	profiles ProfileFetcher
	ids      *uuid.Generator
	cfg      config.Config
	logger   *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(profiles ProfileFetcher, cfg config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()
	s := &Server{
		profiles: profiles,
		ids:      uuid.New(),
		cfg:      cfg,
		logger:   logger,
	}
	r := chi.NewRouter()
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(metrics.Middleware)
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins))
	if d := cfg.RequestTimeout(); d > 0 {
		r.Use(timeoutMiddleware(d))
	}

	r.Get("/", s.index)
	r.Get("/api/health", s.health)
	r.Get("/api/ig-profile.php", s.profileByQuery)
	r.Get("/api/profile/{username}", s.profileByPath)
	if cfg.Metrics.Enabled {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	r.NotFound(s.notFound)
	r.MethodNotAllowed(s.methodNotAllowed)

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) index(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, indexDocument{
		Message: "Instagram Profile API",
		Version: Version,
		Endpoints: map[string]string{
			"/":                       "API documentation (this page)",
			"/api/ig-profile.php":     "Get Instagram profile (query param: username)",
			"/api/profile/{username}": "Get Instagram profile (path param: username)",
			"/api/health":             "Health check endpoint",
		},
		Example: "/api/ig-profile.php?username=instagram",
		Usage: usageDocument{
			URL:    queryUsage,
			Method: http.MethodGet,
			Params: map[string]string{"username": "Instagram username (required)"},
		},
		Note: "This API scrapes public Instagram data and may be rate-limited",
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "API is running"})
}

func (s *Server) profileByQuery(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("username")
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgUsernameRequired, Usage: queryUsage})
		return
	}
	username := profile.CleanUsername(raw)
	if username == "" {
		writeError(w, http.StatusBadRequest, msgInvalidUsername)
		return
	}
	s.lookup(w, r, username)
}

func (s *Server) profileByPath(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "username")
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	username := profile.CleanUsername(raw)
	if username == "" {
		writeError(w, http.StatusBadRequest, msgPathUsername)
		return
	}
	s.lookup(w, r, username)
}

// lookup runs the fetch detached from client cancellation: upstream calls
// finish or hit their own timeout.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request, username string) {
	logger := logging.FromContext(r.Context(), s.logger).With(zap.String("username", username))

	result, err := s.profiles.Fetch(context.WithoutCancel(r.Context()), username)
	if err == nil {
		logger.Info("profile fetched")
		writeJSON(w, http.StatusOK, profileResponse{Success: true, Result: result})
		return
	}

	if errors.Is(err, profile.ErrNotFound) {
		logger.Info("profile not found")
		writeError(w, http.StatusNotFound, msgUserNotFound)
		return
	}

	reason := err.Error()
	var failure *profile.FailureError
	if errors.As(err, &failure) {
		reason = failure.Reason
	}
	logger.Warn("profile fetch failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, reason)
}

func (s *Server) notFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{
		Error:              msgEndpointNotFound,
		AvailableEndpoints: availableEndpoints,
	})
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
}
