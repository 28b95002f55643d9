// Package urlcheck checks that cited source URLs still resolve to the page
// they were cited for.
package urlcheck

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status is the outcome of checking one URL.
type Status string

const (
	StatusOK      Status = "ok"
	StatusRemoved Status = "removed"
	StatusFlagged Status = "flagged"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultConcurrency = 4
	defaultTTL         = 7 * 24 * time.Hour
	userAgent          = "kbaudit-urlcheck/1"
)

// Result is the outcome for one URL.
type Result struct {
	URL       string `json:"url"`
	Status    Status `json:"status"`
	Reason    string `json:"reason,omitempty"`
	PageTitle string `json:"page_title,omitempty"`
	Cached    bool   `json:"cached,omitempty"`
}

// Request is one URL to check, with the title it was cited under and the
// document that cites it.
type Request struct {
	Path  string
	URL   string
	Title string
}

// Options configures a Checker.
type Options struct {
	HTTPClient  *http.Client
	Timeout     time.Duration
	Concurrency int
	// Cache is optional; results are cached for TTL.
	Cache  *Cache
	TTL    time.Duration
	Now    func() time.Time
	Logger *slog.Logger
}

// Checker checks URLs over HTTP.
type Checker struct {
	client      *http.Client
	timeout     time.Duration
	concurrency int
	cache       *Cache
	ttl         time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

// New returns a Checker with defaults filled in.
func New(opts Options) *Checker {
	c := &Checker{
		client:      opts.HTTPClient,
		timeout:     opts.Timeout,
		concurrency: opts.Concurrency,
		cache:       opts.Cache,
		ttl:         opts.TTL,
		now:         opts.Now,
		logger:      opts.Logger,
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: c.timeout}
	}
	if c.concurrency <= 0 {
		c.concurrency = defaultConcurrency
	}
	if c.ttl <= 0 {
		c.ttl = defaultTTL
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// IsCheckable reports whether raw is an absolute http(s) URL.
func IsCheckable(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Check fetches rawURL and classifies it. A 404 or 410 means the page is gone;
// any other failure, or a page title sharing no word with citedTitle, flags
// the URL for review. Check never returns an error; failures are results.
func (c *Checker) Check(ctx context.Context, rawURL, citedTitle string) Result {
	if c.cache != nil {
		res, ok, err := c.cache.Get(ctx, rawURL, citedTitle, c.ttl, c.now())
		if err != nil {
			c.logger.Warn("url cache read failed", "url", rawURL, "error", err)
		} else if ok {
			c.logger.Debug("url cache hit", "url", rawURL, "status", res.Status)
			return res
		}
	}

	res := c.fetch(ctx, rawURL, citedTitle)

	if c.cache != nil && ctx.Err() == nil {
		if err := c.cache.Put(ctx, citedTitle, res, c.now()); err != nil {
			c.logger.Warn("url cache write failed", "url", rawURL, "error", err)
		}
	}
	return res
}

func (c *Checker) fetch(ctx context.Context, rawURL, citedTitle string) Result {
	res := Result{URL: rawURL}
	if !IsCheckable(rawURL) {
		res.Status = StatusFlagged
		res.Reason = "not an http(s) URL"
		return res
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		res.Status = StatusFlagged
		res.Reason = err.Error()
		return res
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := c.client.Do(req)
	if err != nil {
		res.Status = StatusFlagged
		res.Reason = fmt.Sprintf("request failed: %v", err)
		return res
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		res.Status = StatusRemoved
		res.Reason = fmt.Sprintf("HTTP %d", resp.StatusCode)
		return res
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		res.Status = StatusFlagged
		res.Reason = fmt.Sprintf("HTTP %d", resp.StatusCode)
		return res
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "html") {
		res.PageTitle = extractTitle(resp.Body)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxTitleScan))

	if citedTitle != "" && res.PageTitle != "" && !titlesShareWord(citedTitle, res.PageTitle) {
		res.Status = StatusFlagged
		res.Reason = fmt.Sprintf("page title %q does not match cited title %q", res.PageTitle, citedTitle)
		return res
	}

	res.Status = StatusOK
	return res
}

// CheckAll checks every request with bounded concurrency. Results are
// returned in request order. One failing URL never stops the others; only
// cancellation of ctx ends the batch early.
func (c *Checker) CheckAll(ctx context.Context, reqs []Request) ([]Result, error) {
	results := make([]Result, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, r := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.Check(gctx, r.URL, r.Title)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	c.logger.Debug("url check finished", "urls", len(reqs))
	return results, nil
}

// Tidy drops expired cache entries and entries for URLs no longer cited by
// reqs. It does nothing when the checker has no cache.
func (c *Checker) Tidy(ctx context.Context, reqs []Request) error {
	if c.cache == nil {
		return nil
	}
	expired, err := c.cache.Prune(ctx, c.ttl, c.now())
	if err != nil {
		return err
	}
	cited := make([]string, 0, len(reqs))
	for _, r := range reqs {
		cited = append(cited, r.URL)
	}
	forgotten, err := c.cache.Retain(ctx, cited)
	if err != nil {
		return err
	}
	c.logger.Debug("url cache tidied", "expired", expired, "uncited", len(forgotten))
	return nil
}
