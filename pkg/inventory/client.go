package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/labelsheet/pkg/buildinfo"
	"github.com/matzehuels/labelsheet/pkg/cache"
	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/httputil"
	"github.com/matzehuels/labelsheet/pkg/observability"
)

const (
	httpTimeout = 10 * time.Second

	// TokenHeader carries the session token on authenticated requests.
	TokenHeader = "x-auth-token"

	pathLogin     = "/api/auth/login"
	pathInventory = "/api/inventory"
	pathBatch     = "/api/inventory/batch"

	cacheNamespace = "inventory"
	retryAttempts  = 3
)

// NewHTTPClient creates an HTTP client with the standard request timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// Client calls the inventory API.
type Client struct {
	http       *http.Client
	baseURL    string
	token      string
	cache      cache.Cache
	keyer      cache.Keyer
	ttl        time.Duration
	retryDelay time.Duration
}

// NewClient creates a client for the API at baseURL (scheme and host, with
// an optional path prefix). A nil cache disables response caching; a nil
// keyer uses [cache.NewDefaultKeyer].
func NewClient(baseURL string, c cache.Cache, keyer cache.Keyer) (*Client, error) {
	if err := errors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse inventory URL")
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Client{
		http:       NewHTTPClient(),
		baseURL:    strings.TrimRight(baseURL, "/"),
		cache:      c,
		keyer:      keyer,
		ttl:        cache.TTLHTTP,
		retryDelay: time.Second,
	}, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// WithToken returns a copy of c that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// Login exchanges credentials for a session token. The returned client
// carries the token.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, *Client, error) {
	if username == "" || password == "" {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "username and password are required")
	}
	var resp LoginResponse
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, pathLogin, body, &resp); err != nil {
		return nil, nil, err
	}
	if resp.Token == "" {
		return nil, nil, errors.New(errors.ErrCodeUnauthorized, "login response carried no token")
	}
	return &resp, c.WithToken(resp.Token), nil
}

// List returns every item visible to the client's token, in API order.
// Responses are cached per token; refresh bypasses the cache.
func (c *Client) List(ctx context.Context, refresh bool) ([]Item, error) {
	var items []Item
	key := c.keyer.HTTPKey(cacheNamespace, c.baseURL+pathInventory+"#"+cache.Hash([]byte(c.token))[:16])
	err := c.cached(ctx, key, refresh, &items, func() error {
		items = nil
		return c.do(ctx, http.MethodGet, pathInventory, nil, &items)
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// CreateBatch creates a batch of items and returns them in creation order.
// Batch creation is not idempotent, so it is never retried.
func (c *Client) CreateBatch(ctx context.Context, req BatchRequest) ([]Item, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Faculty == "" {
		req.Faculty = DefaultFaculty
	}
	var items []Item
	if err := c.do(ctx, http.MethodPost, pathBatch, req, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// cached serves v from the cache or runs fetch (with retries) and stores v.
func (c *Client) cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if !refresh {
		if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
			if json.Unmarshal(data, v) == nil {
				observability.Cache().OnCacheHit(ctx, cacheNamespace)
				return nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, cacheNamespace)
	}
	if err := httputil.Retry(ctx, retryAttempts, c.retryDelay, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		if c.cache.Set(ctx, key, data, c.ttl) == nil {
			observability.Cache().OnCacheSet(ctx, cacheNamespace, len(data))
		}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode request")
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(TokenHeader, c.token)
	}

	hooks := observability.HTTP()
	host := req.URL.Host
	hooks.OnRequest(ctx, method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "cannot reach inventory API"))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "decode %s response", path)
	}
	return nil
}

// apiError is the error body the API sends alongside non-2xx statuses.
type apiError struct {
	Msg string `json:"msg"`
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized:
		return errors.New(errors.ErrCodeUnauthorized, "session expired, log in again")
	case code == http.StatusForbidden:
		return errors.New(errors.ErrCodeUnauthorized, "access denied")
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s not found", resp.Request.URL.Path)
	case code >= 500:
		return httputil.Retryable(errors.New(errors.ErrCodeNetwork, "inventory API returned status %d", code))
	}
	var body apiError
	if json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body) == nil && body.Msg != "" {
		return errors.New(errors.ErrCodeInvalidInput, "%s", body.Msg)
	}
	return errors.New(errors.ErrCodeNetwork, "inventory API returned status %d", code)
}
