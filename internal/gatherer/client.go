// Package gatherer fetches checklist and detail pages from the Gatherer card
// catalogue. Detail pages are served from the page cache when present.
package gatherer

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"
	"github.com/guarzo/cardrip/internal/cache"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://gatherer.wizards.com"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultTimeout   = 30 * time.Second

	checklistPath = "/Pages/Search/Default.aspx"
	detailPath    = "/Pages/Card/Details.aspx"
)

var (
	// ErrStatus wraps any non-200 response.
	ErrStatus = errors.New("unexpected HTTP status")
	// ErrEmptyBody is returned when the server answers 200 with no content.
	ErrEmptyBody = errors.New("empty response body")
)

// Config controls how the client talks to the catalogue.
type Config struct {
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64 // <= 0 disables pacing
	Logger            *slog.Logger
}

// Client is a polite, single-connection page source.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	pages     *cache.Cache
	limiter   *rate.Limiter
	logger    *slog.Logger

	// gate keeps at most one request in flight, whoever is calling.
	gate sync.Mutex
}

// NewClient creates a client. pages may be nil to disable caching.
func NewClient(cfg Config, pages *cache.Cache) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		pages:   pages,
		limiter: rate.NewLimiter(limit, 1),
		logger:  cfg.Logger,
	}
}

// ChecklistURL is the set checklist sorted by collector number.
func (c *Client) ChecklistURL(setName string) string {
	quoted, _ := json.Marshal(setName)
	q := url.Values{
		"output": {"checklist"},
		"sort":   {"cn+"},
		"set":    {"[" + string(quoted) + "]"},
	}
	return c.baseURL + checklistPath + "?" + q.Encode()
}

// DetailURL is the oracle-text detail page of one multiverseid.
func (c *Client) DetailURL(id int) string {
	q := url.Values{
		"multiverseid": {strconv.Itoa(id)},
		"printed":      {"false"},
	}
	return c.baseURL + detailPath + "?" + q.Encode()
}

// FetchChecklist downloads and parses a set checklist. Checklists are never
// cached.
func (c *Client) FetchChecklist(ctx context.Context, setName string) (*goquery.Document, error) {
	body, err := c.get(ctx, c.ChecklistURL(setName))
	if err != nil {
		return nil, err
	}
	return parse(body)
}

// FetchDetail returns the detail page for id, from cache when possible.
// Only pages holding at least one card panel are written back to the cache;
// a cached page without panels is dropped and fetched again.
func (c *Client) FetchDetail(ctx context.Context, id int) (*goquery.Document, error) {
	key := cache.DetailKey(id)

	if c.pages != nil {
		body, found, err := c.pages.Get(key)
		switch {
		case err != nil:
			c.logger.Warn("page cache read failed", "multiverseid", id, "err", err)
		case found:
			doc, err := parse(body)
			if err == nil && hasPanels(doc) {
				c.logger.Debug("page cache hit", "multiverseid", id)
				return doc, nil
			}
			c.logger.Warn("dropping unusable cached page", "multiverseid", id)
			if err := c.pages.Remove(key); err != nil {
				c.logger.Warn("page cache remove failed", "multiverseid", id, "err", err)
			}
		}
	}

	body, err := c.get(ctx, c.DetailURL(id))
	if err != nil {
		return nil, err
	}
	doc, err := parse(body)
	if err != nil {
		return nil, err
	}

	if c.pages != nil && hasPanels(doc) {
		if err := c.pages.Put(key, body); err != nil {
			c.logger.Warn("page cache write failed", "multiverseid", id, "err", err)
		}
	}
	return doc, nil
}

// CacheStats returns the page cache counters. ok is false when the client
// runs without a cache.
func (c *Client) CacheStats() (stats cache.Stats, ok bool) {
	if c.pages == nil {
		return cache.Stats{}, false
	}
	return c.pages.Stats(), true
}

func hasPanels(doc *goquery.Document) bool {
	return doc.Find("table.cardDetails").Length() > 0
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	c.gate.Lock()
	defer c.gate.Unlock()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, br")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("fetched page", "url", u, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w %d for %s", ErrStatus, resp.StatusCode, u)
	}

	reader, err := decodeBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to create reader: %w", err)
	}
	defer reader.Close()

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w from %s", ErrEmptyBody, u)
	}
	return body, nil
}

// decodeBody wraps the response body in a decompressor. Closing the result
// does not close resp.Body.
func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "br":
		return io.NopCloser(brotli.NewReader(resp.Body)), nil
	}
	return io.NopCloser(resp.Body), nil
}

func parse(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	return doc, nil
}
