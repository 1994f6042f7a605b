package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bargroup/pkg/buildinfo"
	"github.com/matzehuels/bargroup/pkg/cache"
	"github.com/matzehuels/bargroup/pkg/errors"
)

const (
	// DefaultMaxBytes bounds a fetched body.
	DefaultMaxBytes = 8 << 20

	// TTLFetch is how long fetched bodies stay cached.
	TTLFetch = 10 * time.Minute

	defaultAttempts = 3
	defaultDelay    = time.Second
	defaultTimeout  = 30 * time.Second
)

// Response is a fetched body.
type Response struct {
	Body        []byte `json:"body"`
	ContentType string `json:"content_type"`
	Cached      bool   `json:"-"`
}

// Fetcher downloads documents over HTTP.
type Fetcher struct {
	client   *http.Client
	store    cache.Cache
	maxBytes int64
	attempts int
	delay    time.Duration
	logger   *log.Logger
}

// Option configures a [Fetcher].
type Option func(*Fetcher)

// WithClient replaces the default client (30s timeout).
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithCache keeps bodies in c for [TTLFetch].
func WithCache(c cache.Cache) Option { return func(f *Fetcher) { f.store = c } }

// WithMaxBytes limits body size. Larger bodies fail with INVALID_INPUT.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// WithRetry sets the attempt count and the first backoff delay.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(f *Fetcher) {
		f.attempts = max(attempts, 1)
		f.delay = max(delay, 0)
	}
}

// WithLogger sets the debug logger.
func WithLogger(l *log.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFetcher returns a fetcher without a cache unless [WithCache] is given.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:   &http.Client{Timeout: defaultTimeout},
		store:    cache.NewNullCache(),
		maxBytes: DefaultMaxBytes,
		attempts: defaultAttempts,
		delay:    defaultDelay,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.store == nil {
		f.store = cache.NewNullCache()
	}
	return f
}

// IsURL reports whether s is an absolute http or https URL.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Get fetches rawURL.
//
// A 404 is NOT_FOUND, other 4xx responses are INVALID_INPUT, and a body over
// the size limit is INVALID_INPUT. Cache failures are logged and ignored.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*Response, error) {
	if !IsURL(rawURL) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "not an http(s) URL: %q", rawURL)
	}

	key := "fetch:" + cache.Hash([]byte(rawURL))
	if data, ok, err := f.store.Get(ctx, key); err != nil {
		f.logger.Debug("fetch cache read failed", "url", rawURL, "err", err)
	} else if ok {
		var resp Response
		if err := json.Unmarshal(data, &resp); err == nil {
			f.logger.Debug("fetch cache hit", "url", rawURL)
			resp.Cached = true
			return &resp, nil
		}
	}

	var resp *Response
	err := Retry(ctx, f.attempts, f.delay, func() error {
		var err error
		resp, err = f.do(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(resp); err == nil {
		if err := f.store.Set(ctx, key, data, TTLFetch); err != nil {
			f.logger.Debug("fetch cache write failed", "url", rawURL, "err", err)
		}
	}
	return resp, nil
}

func (f *Fetcher) do(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("User-Agent", "bargroup/"+buildinfo.Version)
	req.Header.Set("Accept", "application/toml, text/csv;q=0.9, */*;q=0.1")

	start := time.Now()
	res, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: fmt.Errorf("get %s: %w", rawURL, err)}
	}
	defer res.Body.Close()
	f.logger.Debug("fetched", "url", rawURL, "status", res.StatusCode, "duration", time.Since(start))

	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.ErrCodeNotFound, "get %s: %s", rawURL, res.Status)
	case res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= 500:
		return nil, &RetryableError{Err: fmt.Errorf("get %s: %s", rawURL, res.Status)}
	case res.StatusCode >= 400:
		return nil, errors.New(errors.ErrCodeInvalidInput, "get %s: %s", rawURL, res.Status)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, f.maxBytes+1))
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("read %s: %w", rawURL, err)}
	}
	if int64(len(body)) > f.maxBytes {
		return nil, errors.New(errors.ErrCodeInvalidInput, "get %s: body exceeds %d bytes", rawURL, f.maxBytes)
	}
	return &Response{Body: body, ContentType: res.Header.Get("Content-Type")}, nil
}
