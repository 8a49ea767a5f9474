package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/JakeFAU/ig-profile-api/internal/metrics"
)

const (
	strategyAPI  = "api"
	strategyPage = "page"

	outcomeSuccess  = "success"
	outcomeNotFound = "not_found"
	outcomeFailure  = "failure"
	outcomeFallback = "fallback"
)

var errMissingUser = errors.New("response has no data.user object")

// Service runs the two-step lookup: structured endpoint first, profile page second.
type Service struct {
	fetcher Fetcher
	cfg     Config
	logger  *zap.Logger
}

// NewService constructs a Service.
func NewService(fetcher Fetcher, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()
	return &Service{fetcher: fetcher, cfg: cfg, logger: logger}
}

// Fetch looks a username up on the structured endpoint. A 404 is reported as
// ErrNotFound; any other non-200 status, or a 200 without a user object,
// is handed to FetchFallback. Transport errors are returned as failures
// without falling back.
func (s *Service) Fetch(ctx context.Context, username string) (Result, error) {
	logger := s.logger.With(zap.String("username", username), zap.String("strategy", strategyAPI))

	endpoint, err := s.cfg.profileAPIURL(username)
	if err != nil {
		metrics.ObserveFetch(strategyAPI, outcomeFailure)
		return Result{}, newFailure(err.Error(), err)
	}
	resp, err := s.fetcher.Fetch(ctx, FetchRequest{
		URL:     endpoint,
		Headers: toHeader(s.cfg.apiHeaders(username)),
	})
	if err != nil {
		logger.Warn("profile api request failed", zap.Error(err))
		metrics.ObserveFetch(strategyAPI, outcomeFailure)
		return Result{}, newFailure(err.Error(), err)
	}
	observeUpstream(strategyAPI, resp)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		metrics.ObserveFetch(strategyAPI, outcomeNotFound)
		return Result{}, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		logger.Info("profile api returned unexpected status, falling back", zap.Int("status", resp.StatusCode))
		metrics.ObserveFetch(strategyAPI, outcomeFallback)
		return s.FetchFallback(ctx, username)
	}

	user, err := decodeAPIUser(resp.Body)
	if err != nil {
		logger.Info("profile api response unusable, falling back", zap.Error(err))
		metrics.ObserveFetch(strategyAPI, outcomeFallback)
		return s.FetchFallback(ctx, username)
	}
	metrics.ObserveFetch(strategyAPI, outcomeSuccess)
	return user.toResult(username), nil
}

type edgeCount struct {
	Count *int64 `json:"count"`
}

type apiUser struct {
	Username        *string    `json:"username"`
	FullName        *string    `json:"full_name"`
	Biography       *string    `json:"biography"`
	Media           *edgeCount `json:"edge_owner_to_timeline_media"`
	FollowedBy      *edgeCount `json:"edge_followed_by"`
	Follow          *edgeCount `json:"edge_follow"`
	ProfilePicURLHD *string    `json:"profile_pic_url_hd"`
	ProfilePicURL   *string    `json:"profile_pic_url"`
	IsPrivate       *bool      `json:"is_private"`
	IsVerified      *bool      `json:"is_verified"`
	ExternalURL     *string    `json:"external_url"`
	CategoryName    *string    `json:"category_name"`
}

type apiEnvelope struct {
	Data *struct {
		User *apiUser `json:"user"`
	} `json:"data"`
}

func decodeAPIUser(body []byte) (*apiUser, error) {
	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode profile api response: %w", err)
	}
	if env.Data == nil || env.Data.User == nil {
		return nil, errMissingUser
	}
	return env.Data.User, nil
}

func (u *apiUser) toResult(requested string) Result {
	pic := u.ProfilePicURLHD
	if pic == nil {
		pic = u.ProfilePicURL
	}
	return Result{
		Username:      valueOrDefault(u.Username, requested),
		FullName:      valueOrDefault(u.FullName, DefaultFullName),
		Biography:     valueOrDefault(u.Biography, ""),
		Posts:         u.Media.count(),
		Followers:     u.FollowedBy.count(),
		Following:     u.Follow.count(),
		ProfilePicURL: valueOrDefault(pic, ""),
		IsPrivate:     valueOrDefault(u.IsPrivate, false),
		IsVerified:    valueOrDefault(u.IsVerified, false),
		ExternalURL:   valueOrDefault(u.ExternalURL, ""),
		Category:      valueOrDefault(u.CategoryName, ""),
	}
}

func (e *edgeCount) count() int64 {
	if e == nil || e.Count == nil || *e.Count < 0 {
		return 0
	}
	return *e.Count
}

func valueOrDefault[T any](ptr *T, def T) T {
	if ptr == nil {
		return def
	}
	return *ptr
}

func observeUpstream(strategy string, resp FetchResponse) {
	metrics.ObserveUpstream(strategy, resp.URL, len(resp.Body), resp.Duration)
}
