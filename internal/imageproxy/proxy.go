// Package imageproxy fetches product thumbnails from Rakuten's image CDN
// on behalf of the browser, which cannot load them directly because the
// CDN rejects cross-origin requests without a Rakuten referer.
package imageproxy

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"otomo/internal/observability"
)

const (
	allowedPrefix = "https://thumbnail.image.rakuten.co.jp/"

	refererHeader = "https://www.rakuten.co.jp/"
	userAgent     = "Mozilla/5.0 (compatible; OtomoImageProxy/1.0)"

	maxImageBytes = 8 << 20
)

var (
	// ErrHostNotAllowed means the requested URL is outside the trusted CDN.
	ErrHostNotAllowed = errors.New("image host not allowed")
	// ErrUpstreamNotFound means the CDN answered with a non-200 status.
	ErrUpstreamNotFound = errors.New("upstream image not found")
	// ErrUpstreamFailed covers transport errors.
	ErrUpstreamFailed = errors.New("upstream fetch failed")
)

type Proxy struct {
	httpClient *http.Client
	allowed    string
	logger     *slog.Logger
}

func New(logger *slog.Logger) *Proxy {
	if logger == nil {
		logger = slog.Default()
	}
	return &Proxy{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		allowed:    allowedPrefix,
		logger:     logger,
	}
}

// Allowed reports whether the URL points at the trusted image CDN.
// The check is a prefix match, so scheme and host cannot be spoofed
// with userinfo tricks like https://thumbnail.image.rakuten.co.jp@evil.
func (p *Proxy) Allowed(rawURL string) bool {
	return strings.HasPrefix(rawURL, p.allowed)
}

// Fetch downloads the image and returns its bytes and content type.
// The content type falls back to image/jpeg when the CDN omits it.
func (p *Proxy) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	if !p.Allowed(rawURL) {
		observability.ImageProxyRequests.WithLabelValues("rejected").Inc()
		return nil, "", ErrHostNotAllowed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		observability.ImageProxyRequests.WithLabelValues("upstream_error").Inc()
		return nil, "", ErrUpstreamFailed
	}
	req.Header.Set("Referer", refererHeader)
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Error("image proxy fetch failed", "url", rawURL, "error", err)
		observability.ImageProxyRequests.WithLabelValues("upstream_error").Inc()
		return nil, "", ErrUpstreamFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Warn("image proxy upstream returned non-200",
			"url", rawURL, "status", resp.StatusCode)
		observability.ImageProxyRequests.WithLabelValues("not_found").Inc()
		return nil, "", ErrUpstreamNotFound
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		p.logger.Error("image proxy body read failed", "url", rawURL, "error", err)
		observability.ImageProxyRequests.WithLabelValues("upstream_error").Inc()
		return nil, "", ErrUpstreamFailed
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	observability.ImageProxyRequests.WithLabelValues("ok").Inc()
	return data, contentType, nil
}
