package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/bargroup/pkg/cache"
	"github.com/matzehuels/bargroup/pkg/errors"
)

func TestIsURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com/chart.toml", true},
		{"http://localhost:8080/x.csv", true},
		{"chart.toml", false},
		{"/tmp/chart.csv", false},
		{"ftp://example.com/chart.toml", false},
		{"https://", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.in); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFetcherGet(t *testing.T) {
	var flaky atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/ok.csv", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "bargroup/") {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("series,Q1\nnorth,1\n"))
	})
	mux.HandleFunc("/flaky", func(w http.ResponseWriter, r *http.Request) {
		if flaky.Add(1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/down", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	mux.HandleFunc("/forbidden", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	mux.HandleFunc("/big", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := NewFetcher(WithRetry(3, time.Millisecond), WithMaxBytes(32))
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		resp, err := f.Get(ctx, srv.URL+"/ok.csv")
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if resp.ContentType != "text/csv" || !strings.HasPrefix(string(resp.Body), "series") {
			t.Errorf("Get() = %q %q", resp.ContentType, resp.Body)
		}
	})

	t.Run("retries server errors", func(t *testing.T) {
		resp, err := f.Get(ctx, srv.URL+"/flaky")
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if string(resp.Body) != "ok" || flaky.Load() != 2 {
			t.Errorf("Get() body = %q after %d calls, want ok after 2", resp.Body, flaky.Load())
		}
	})

	tests := []struct {
		path string
		code errors.Code
	}{
		{"/missing", errors.ErrCodeNotFound},
		{"/forbidden", errors.ErrCodeInvalidInput},
		{"/big", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if _, err := f.Get(ctx, srv.URL+tt.path); !errors.Is(err, tt.code) {
				t.Errorf("Get() error = %v, want %v", err, tt.code)
			}
		})
	}

	t.Run("gives up", func(t *testing.T) {
		_, err := f.Get(ctx, srv.URL+"/down")
		if err == nil || !isRetryable(err) {
			t.Errorf("Get() error = %v, want retryable failure", err)
		}
	})

	t.Run("rejects non-http", func(t *testing.T) {
		if _, err := f.Get(ctx, "file:///etc/passwd"); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Get() error = %v, want INVALID_INPUT", err)
		}
	})
}

func TestFetcherCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/toml")
		_, _ = w.Write([]byte("title = \"x\"\n"))
	}))
	defer srv.Close()

	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	f := NewFetcher(WithCache(store), WithRetry(1, 0))
	ctx := context.Background()

	first, err := f.Get(ctx, srv.URL+"/chart.toml")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	second, err := f.Get(ctx, srv.URL+"/chart.toml")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if first.Cached || !second.Cached {
		t.Errorf("Cached = %v, %v, want false, true", first.Cached, second.Cached)
	}
	if string(second.Body) != string(first.Body) || second.ContentType != "application/toml" {
		t.Errorf("cached response = %q %q", second.Body, second.ContentType)
	}
	if calls.Load() != 1 {
		t.Errorf("origin calls = %d, want 1", calls.Load())
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()
	transient := &RetryableError{Err: errors.New(errors.ErrCodeInternal, "transient")}

	tests := []struct {
		name      string
		attempts  int
		failUntil int // -1 fails forever
		err       error
		wantCalls int
		wantErr   bool
	}{
		{"first try", 3, 0, nil, 1, false},
		{"permanent error", 3, -1, errors.New(errors.ErrCodeInvalidInput, "bad"), 1, true},
		{"recovers", 3, 2, transient, 3, false},
		{"exhausted", 2, -1, transient, 2, true},
		{"zero attempts runs once", 0, -1, transient, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(ctx, tt.attempts, time.Millisecond, func() error {
				calls++
				if tt.failUntil < 0 || calls <= tt.failUntil {
					return tt.err
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("Retry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, 3, time.Hour, func() error {
		return &RetryableError{Err: context.DeadlineExceeded}
	})
	if err != context.Canceled {
		t.Errorf("Retry() error = %v, want context.Canceled", err)
	}
}
