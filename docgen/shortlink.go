package docgen

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fetchbites/recipecard/config"
)

const shortenTimeout = 5 * time.Second

// Shortener shortens source URLs through an is.gd-style GET endpoint.
// Shortening is strictly best-effort: any failure, timeout or disallowed
// domain yields the original URL, never an error. A rendered card must not
// fail because a link service is down.
type Shortener struct {
	cfg    config.ShortLinks
	client *http.Client
	logger *slog.Logger
}

// NewShortener builds a shortener from configuration. A nil client gets a
// default one with a bounded timeout.
func NewShortener(cfg config.ShortLinks, client *http.Client, logger *slog.Logger) *Shortener {
	if client == nil {
		client = &http.Client{Timeout: shortenTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Shortener{cfg: cfg, client: client, logger: logger.With("component", "shortlink")}
}

// Shorten returns a shortened form of raw, or raw itself when shortening is
// disabled, the host is not allowed, or the service misbehaves.
func (s *Shortener) Shorten(ctx context.Context, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !s.cfg.Enabled {
		return raw
	}
	if !s.domainAllowed(raw) {
		return raw
	}

	endpoint := fmt.Sprintf("%s?format=simple&url=%s", s.cfg.Endpoint, url.QueryEscape(raw))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return raw
	}
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Debug("shorten request failed, keeping original", "error", err)
		return raw
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		s.logger.Debug("shorten service refused, keeping original", "status", resp.StatusCode)
		return raw
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if err != nil {
		return raw
	}
	short := strings.TrimSpace(string(body))
	if short == "" || !strings.HasPrefix(short, "http") {
		return raw
	}
	return short
}

// domainAllowed checks the URL host against the allow-list. An empty list
// allows everything.
func (s *Shortener) domainAllowed(raw string) bool {
	if len(s.cfg.AllowedDomains) == 0 {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, d := range s.cfg.AllowedDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
