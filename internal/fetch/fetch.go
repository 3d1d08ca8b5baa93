// Package fetch provides HTTP fetching and structured document querying for
// catalog scraping. It centralizes the browser-like request headers, timeout
// handling, and streaming used by the discovery and download components.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout is the default timeout for page fetches.
const DefaultTimeout = 30 * time.Second

// DefaultStreamTimeout is the default timeout for artifact downloads, which
// can run much longer than a page fetch.
const DefaultStreamTimeout = 60 * time.Second

// defaultUserAgent mimics a desktop browser; the catalog site serves reduced
// markup to unknown agents.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36"

// Result holds the response from a page fetch. FinalURL reflects any
// redirects that were followed.
type Result struct {
	URL                string
	FinalURL           string
	HTML               string
	ContentType        string
	ContentDisposition string
	StatusCode         int
}

// Stream holds an open response body for chunked consumption. The caller
// must close Body.
type Stream struct {
	Body          io.ReadCloser
	ContentLength int64
	FinalURL      string
}

// Error represents a failure fetching a URL.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures a Client.
type Options struct {
	Timeout       time.Duration
	StreamTimeout time.Duration
	UserAgent     string
	Headers       map[string]string
}

// DefaultOptions returns the browser-like defaults used against the catalog
// site.
func DefaultOptions() *Options {
	return &Options{
		Timeout:       DefaultTimeout,
		StreamTimeout: DefaultStreamTimeout,
		UserAgent:     defaultUserAgent,
		Headers: map[string]string{
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
			"Connection":      "keep-alive",
		},
	}
}

// Client issues HTTP requests with consistent headers. Redirects are always
// followed; the final URL after redirects is reported on the result.
type Client struct {
	opts       *Options
	pageClient *http.Client
	bodyClient *http.Client
}

// NewClient creates a Client. A nil opts uses DefaultOptions.
func NewClient(opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.StreamTimeout <= 0 {
		opts.StreamTimeout = DefaultStreamTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	return &Client{
		opts:       opts,
		pageClient: &http.Client{Timeout: opts.Timeout},
		bodyClient: &http.Client{Timeout: opts.StreamTimeout},
	}
}

func (c *Client) newRequest(ctx context.Context, urlStr string) (*http.Request, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("User-Agent", c.opts.UserAgent)
	for key, value := range c.opts.Headers {
		req.Header.Set(key, value)
	}
	return req, nil
}

// Get fetches a page and returns its body and response metadata.
// A non-2xx status returns both the populated result and an error so callers
// can inspect the status while treating the fetch as failed.
func (c *Client) Get(ctx context.Context, urlStr string) (*Result, error) {
	req, err := c.newRequest(ctx, urlStr)
	if err != nil {
		return nil, err
	}

	resp, err := c.pageClient.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	result := &Result{
		URL:                urlStr,
		FinalURL:           resp.Request.URL.String(),
		HTML:               string(bodyBytes),
		ContentType:        resp.Header.Get("Content-Type"),
		ContentDisposition: resp.Header.Get("Content-Disposition"),
		StatusCode:         resp.StatusCode,
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return result, nil
}

// GetDocument fetches a page and parses it into a Document.
func (c *Client) GetDocument(ctx context.Context, urlStr string) (*Document, error) {
	result, err := c.Get(ctx, urlStr)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(result.HTML, result.FinalURL)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to parse HTML", Cause: err}
	}
	return doc, nil
}

// GetStream opens a streaming request for a large body. The caller owns the
// returned Body. ContentLength is -1 when the server does not report one.
func (c *Client) GetStream(ctx context.Context, urlStr string) (*Stream, error) {
	req, err := c.newRequest(ctx, urlStr)
	if err != nil {
		return nil, err
	}

	resp, err := c.bodyClient.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	return &Stream{
		Body:          resp.Body,
		ContentLength: resp.ContentLength,
		FinalURL:      resp.Request.URL.String(),
	}, nil
}
