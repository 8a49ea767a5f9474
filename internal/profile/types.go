// Package profile fetches public profile metadata from the upstream site and
// normalizes it into a Result.
package profile

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// DefaultFullName is reported when the upstream does not expose a display name.
const DefaultFullName = "N/A"

// Result is the normalized profile returned to API clients.
type Result struct {
	Username      string `json:"username"`
	FullName      string `json:"full_name"`
	Biography     string `json:"biography"`
	Posts         int64  `json:"posts"`
	Followers     int64  `json:"followers"`
	Following     int64  `json:"following"`
	ProfilePicURL string `json:"profile_pic_url"`
	IsPrivate     bool   `json:"is_private"`
	IsVerified    bool   `json:"is_verified"`
	ExternalURL   string `json:"external_url"`
	Category      string `json:"category"`
}

// ErrNotFound is returned when the upstream confirms the profile does not exist.
var ErrNotFound = errors.New("profile not found")

// FailureError covers every other fetch problem. Reason is safe to show to clients.
type FailureError struct {
	Reason string
	Err    error
}

func (e *FailureError) Error() string {
	return e.Reason
}

func (e *FailureError) Unwrap() error {
	return e.Err
}

func newFailure(reason string, err error) *FailureError {
	return &FailureError{Reason: reason, Err: err}
}

// FetchRequest captures a single upstream GET.
type FetchRequest struct {
	URL     string
	Headers http.Header
}

// FetchResponse is what the transport hands back for a FetchRequest.
type FetchResponse struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// CleanUsername trims whitespace and leading @ markers.
func CleanUsername(raw string) string {
	return strings.TrimLeft(strings.TrimSpace(raw), "@")
}
