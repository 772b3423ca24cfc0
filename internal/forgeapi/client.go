package forgeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ExhaustedError reports that every configured API mirror failed for one
// request path. The caller recovers by skipping that call's data.
type ExhaustedError struct {
	Path string
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("forgeapi: all API mirrors failed for %q", e.Path)
}

// ResponseCache memoizes successful response bodies, keyed by request path
// for API calls and by URL for raw downloads. It outlives any single Client:
// a batch run shares one cache across per-repository clients so repeated
// entries naming the same repository do not re-fetch.
type ResponseCache struct {
	lru *lru.Cache[string, []byte]
}

// NewResponseCache builds a cache sized for one process run.
func NewResponseCache() (*ResponseCache, error) {
	c, err := lru.New[string, []byte](256)
	if err != nil {
		return nil, err
	}
	return &ResponseCache{lru: c}, nil
}

func (rc *ResponseCache) get(key string) ([]byte, bool) { return rc.lru.Get(key) }
func (rc *ResponseCache) add(key string, body []byte)   { rc.lru.Add(key, body) }

// Client issues one logical request against an ordered mirror list, first
// success wins. No equivalence between mirrors is assumed beyond "serves the
// same read API"; disagreement between them is accepted, not reconciled.
//
// A Client is owned by a single repository run. The preferred-endpoint
// affinity is plain state on the struct and must not be shared across
// concurrently processed repositories; the ResponseCache may be.
type Client struct {
	http      *http.Client
	endpoints []string
	token     string
	// preferred is the base URL of the last mirror that answered; it is
	// tried first on subsequent calls in the same run.
	preferred string
	cache     *ResponseCache
}

// NewClient builds a failover client over the given base URLs. token is
// attached only to non-proxy github endpoints and may be empty. cache may be
// nil, in which case the client allocates a private one.
func NewClient(endpoints []string, timeout time.Duration, token string, cache *ResponseCache) (*Client, error) {
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("forgeapi: at least one endpoint is required")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if cache == nil {
		var err error
		cache, err = NewResponseCache()
		if err != nil {
			return nil, err
		}
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		endpoints: append([]string(nil), endpoints...),
		token:     token,
		cache:     cache,
	}, nil
}

// Preferred returns the base URL of the mirror that served the last
// successful call, or "" before any call succeeded.
func (c *Client) Preferred() string { return c.preferred }

// GetJSON fetches path across the mirror list and decodes the response body
// into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("forgeapi: decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	path = strings.TrimLeft(path, "/")
	if body, ok := c.cache.get(path); ok {
		return body, nil
	}

	for _, base := range c.ordered() {
		requestURL := strings.TrimRight(base, "/") + "/" + path
		body, status, err := c.do(ctx, base, requestURL)
		switch {
		case err != nil:
			logrus.Debugf("mirror %s failed for %s: %v", base, path, err)
			continue
		case status == http.StatusNotFound:
			// Absent on this mirror; another may still carry it.
			continue
		case status == http.StatusForbidden && isProxy(base):
			// Rate-limited proxies answer 403 routinely; skip silently.
			continue
		case status < 200 || status >= 300:
			logrus.Debugf("mirror %s returned HTTP %d for %s", base, status, path)
			continue
		}
		c.preferred = base
		c.cache.add(path, body)
		return body, nil
	}
	return nil, &ExhaustedError{Path: path}
}

// Download fetches raw file content from a direct download URL. Unlike API
// calls this does not fail over; errors are reported to the caller, which
// treats them as a skip.
func (c *Client) Download(ctx context.Context, url string) (string, error) {
	if body, ok := c.cache.get(url); ok {
		return string(body), nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("forgeapi: download %s: unexpected status %s", url, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	c.cache.add(url, body)
	return string(body), nil
}

// ordered returns the endpoint list with the preferred mirror moved first.
func (c *Client) ordered() []string {
	if c.preferred == "" {
		return c.endpoints
	}
	out := make([]string, 0, len(c.endpoints))
	out = append(out, c.preferred)
	for _, e := range c.endpoints {
		if e != c.preferred {
			out = append(out, e)
		}
	}
	return out
}

func (c *Client) do(ctx context.Context, base, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", userAgent)
	if !isProxy(base) {
		req.Header.Set("Accept", "application/vnd.github.v3+json")
		if c.token != "" && strings.Contains(base, "github.com") {
			req.Header.Set("Authorization", "token "+c.token)
		}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func isProxy(base string) bool {
	return strings.Contains(base, "ghproxy")
}
