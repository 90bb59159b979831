// Package lookup talks to the federation's public handicap lookup pages. Two
// request shapes exist: the landing page, which embeds the single-use
// verification token required by the search form, and the search itself,
// which returns at most one matching player record.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Record is one player as published by the lookup service.
type Record struct {
	Number string
	Name   string
	Gender string
	HI     string
}

// ErrNoCredential reports a landing page without the embedded token, which
// usually means the site layout changed.
var ErrNoCredential = errors.New("credential token not found in landing page")

// Finder is the part of the client the refresh coordinator depends on.
type Finder interface {
	Credential(ctx context.Context) (string, error)
	Find(ctx context.Context, credential, number string) (Record, bool, error)
}

var _ Finder = (*Client)(nil)

// Client fetches and scrapes the lookup pages.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "teesheet/0.1"
	searchPath       = "/search"
	tokenField       = "__RequestVerificationToken"
)

// NewClient builds a Client for the given base URL. An empty timeout uses
// the default. There is no per-request deadline beyond the timeout: a hung
// lookup stays pending until it resolves or the caller cancels.
func NewClient(base string, timeout time.Duration) (*Client, error) {
	u, err := parseBaseURL(base)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:   u,
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
	}, nil
}

// Credential fetches the landing page and extracts the verification token.
func (c *Client) Credential(ctx context.Context) (string, error) {
	body, err := c.get(ctx, &url.URL{Path: "/"})
	if err != nil {
		return "", err
	}
	token, ok := extractToken(body)
	if !ok {
		return "", ErrNoCredential
	}
	return token, nil
}

// Find queries the search page for one player number. The second return is
// false when the service has no record for the number; that is not an error.
func (c *Client) Find(ctx context.Context, credential, number string) (Record, bool, error) {
	form := url.Values{}
	form.Set("number", number)
	form.Set(tokenField, credential)

	body, err := c.post(ctx, &url.URL{Path: searchPath}, form)
	if err != nil {
		return Record{}, false, err
	}
	rec, ok := extractRecord(body, number)
	return rec, ok, nil
}

func (c *Client) get(ctx context.Context, rel *url.URL) (string, error) {
	return c.do(ctx, http.MethodGet, rel, "", nil)
}

func (c *Client) post(ctx context.Context, rel *url.URL, form url.Values) (string, error) {
	return c.do(ctx, http.MethodPost, rel, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL, contentType string, body io.Reader) (string, error) {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("lookup %s returned status %d", rel.Path, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(data), nil
}

func parseBaseURL(base string) (*url.URL, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		return nil, fmt.Errorf("lookup base url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse lookup url %q: %w", base, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
