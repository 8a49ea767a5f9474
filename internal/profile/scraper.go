package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/JakeFAU/ig-profile-api/internal/metrics"
)

// ParseFailureReason is reported when the profile page has no usable Person block.
const ParseFailureReason = "Could not parse profile data"

const (
	jsonLDSelector = `script[type="application/ld+json"]`
	personType     = "Person"
)

var errNoJSONLD = errors.New("no JSON-LD object block in page")

// FetchFallback scrapes the public profile page and reads the embedded
// JSON-LD Person block. The block carries no counters or flags, so those
// fields always hold their zero values.
func (s *Service) FetchFallback(ctx context.Context, username string) (Result, error) {
	logger := s.logger.With(zap.String("username", username), zap.String("strategy", strategyPage))

	resp, err := s.fetcher.Fetch(ctx, FetchRequest{
		URL:     s.cfg.profilePageURL(username),
		Headers: toHeader(s.cfg.pageHeaders()),
	})
	if err != nil {
		logger.Warn("profile page request failed", zap.Error(err))
		metrics.ObserveFetch(strategyPage, outcomeFailure)
		return Result{}, newFailure(err.Error(), err)
	}
	observeUpstream(strategyPage, resp)

	if resp.StatusCode != http.StatusOK {
		metrics.ObserveFetch(strategyPage, outcomeFailure)
		return Result{}, newFailure(fmt.Sprintf("HTTP Error: %d", resp.StatusCode), nil)
	}

	person, err := extractPerson(resp.Body)
	if err != nil {
		// Absence and malformed blocks look the same to clients; keep them apart in logs.
		logger.Debug("profile page parse failed", zap.Error(err))
		metrics.ObserveFetch(strategyPage, outcomeFailure)
		return Result{}, newFailure(ParseFailureReason, err)
	}
	metrics.ObserveFetch(strategyPage, outcomeSuccess)
	return person.toResult(username), nil
}

type ldPerson struct {
	Type          string  `json:"@type"`
	AlternateName *string `json:"alternateName"`
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Image         *string `json:"image"`
	URL           *string `json:"url"`
}

func extractPerson(body []byte) (ldPerson, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ldPerson{}, fmt.Errorf("parse profile page: %w", err)
	}
	block, ok := firstJSONLDObject(doc)
	if !ok {
		return ldPerson{}, errNoJSONLD
	}
	var person ldPerson
	if err := json.Unmarshal([]byte(block), &person); err != nil {
		return ldPerson{}, fmt.Errorf("decode JSON-LD block: %w", err)
	}
	if person.Type != personType {
		return ldPerson{}, fmt.Errorf("JSON-LD type %q is not %s", person.Type, personType)
	}
	return person, nil
}

// firstJSONLDObject returns the first JSON-LD script whose body is an object.
func firstJSONLDObject(doc *goquery.Document) (string, bool) {
	var block string
	doc.Find(jsonLDSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if strings.HasPrefix(text, "{") {
			block = text
			return false
		}
		return true
	})
	return block, block != ""
}

func (p ldPerson) toResult(requested string) Result {
	username := requested
	if p.AlternateName != nil {
		if alt := strings.TrimLeft(*p.AlternateName, "@"); alt != "" {
			username = alt
		}
	}
	return Result{
		Username:      username,
		FullName:      valueOrDefault(p.Name, DefaultFullName),
		Biography:     valueOrDefault(p.Description, ""),
		ProfilePicURL: valueOrDefault(p.Image, ""),
		ExternalURL:   valueOrDefault(p.URL, ""),
	}
}
