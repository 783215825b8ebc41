// Package fetch retrieves raw article snapshots over HTTP, respecting
// robots.txt and a global request rate.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ppiankov/crosswiki/internal/model"
)

// Fetcher downloads raw wikitext or Markdown snapshots. Safe for
// concurrent use; the rate limiter is shared across calls.
type Fetcher struct {
	httpClient *http.Client
	robots     *RobotsChecker
	limiter    *rate.Limiter
	userAgent  string
	maxBytes   int64
	logger     *zap.Logger
}

func New(cfg model.HTTPConfig, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	rps := cfg.RequestsPerS
	if rps <= 0 {
		rps = 1
	}
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		robots:    NewRobotsChecker(cfg.UserAgent, cfg.Timeout),
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		logger:    logger,
	}
}

// Result is one downloaded snapshot
type Result struct {
	Body     []byte
	FinalURL string
	Meta     model.ArticleMetadata
}

// WikitextURL builds the raw-wikitext URL for an article title on a
// MediaWiki host.
func WikitextURL(host, title string) string {
	return fmt.Sprintf("https://%s/w/index.php?title=%s&action=raw",
		host, url.QueryEscape(strings.ReplaceAll(title, " ", "_")))
}

// Fetch downloads rawURL, honoring robots.txt and the shared rate limit.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, source model.SourceKind) (*Result, error) {
	allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("robots check: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("fetch %s: disallowed by robots.txt", rawURL)
	}
	if delay > 0 {
		f.logger.Debug("honoring crawl delay", zap.Duration("delay", delay))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	finalURL := resp.Request.URL.String()
	res := &Result{
		Body:     body,
		FinalURL: finalURL,
		Meta: model.ArticleMetadata{
			Source: source,
			Title:  titleFromURL(finalURL),
			URL:    finalURL,
		},
	}
	f.logger.Info("fetched snapshot",
		zap.String("url", finalURL),
		zap.Int("bytes", len(body)))
	return res, nil
}

// titleFromURL recovers a display title from the final URL, preferring the
// MediaWiki title query parameter over the last path segment.
func titleFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if t := parsed.Query().Get("title"); t != "" {
		return strings.ReplaceAll(t, "_", " ")
	}
	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return parsed.Host
	}
	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]
	return strings.ReplaceAll(last, "_", " ")
}
