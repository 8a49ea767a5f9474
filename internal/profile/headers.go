package profile

import (
	"net/http"
	"net/url"
	"strings"
)

const (
	apiAccept  = "*/*"
	pageAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptLang = "en-US,en;q=0.9"
)

// Config describes the upstream endpoints and the browser identity presented to them.
type Config struct {
	ProfileAPIURL string
	WebBaseURL    string
	UserAgent     string
	AppID         string
	ASBDID        string
	WWWClaim      string
}

func (c Config) profilePageURL(username string) string {
	return strings.TrimRight(c.WebBaseURL, "/") + "/" + url.PathEscape(username) + "/"
}

func (c Config) profileAPIURL(username string) (string, error) {
	u, err := url.Parse(c.ProfileAPIURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("username", username)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// apiHeaders is the header set the structured endpoint requires before it
// will answer a browser-less client.
func (c Config) apiHeaders(username string) map[string]string {
	return map[string]string{
		"User-Agent":      c.UserAgent,
		"Accept":          apiAccept,
		"Accept-Language": acceptLang,
		"X-IG-App-ID":     c.AppID,
		"X-ASBD-ID":       c.ASBDID,
		"X-IG-WWW-Claim":  c.WWWClaim,
		"Origin":          strings.TrimRight(c.WebBaseURL, "/"),
		"Referer":         c.profilePageURL(username),
		"Sec-Fetch-Dest":  "empty",
		"Sec-Fetch-Mode":  "cors",
		"Sec-Fetch-Site":  "same-origin",
	}
}

func (c Config) pageHeaders() map[string]string {
	return map[string]string{
		"User-Agent": c.UserAgent,
		"Accept":     pageAccept,
	}
}

func toHeader(values map[string]string) http.Header {
	h := make(http.Header, len(values))
	for k, v := range values {
		h.Set(k, v)
	}
	return h
}
