// Package httputil fetches remote chart documents.
//
// A [Fetcher] issues GET requests with a body size limit, retries transient
// failures (network errors, 5xx and 429 responses) with exponential backoff,
// and can keep bodies in any [cache.Cache] for a short time so repeated
// renders of the same URL do not hit the origin:
//
//	f := httputil.NewFetcher(httputil.WithCache(store))
//	resp, err := f.Get(ctx, "https://example.com/sales.csv")
//
// [Retry] is exported for callers with their own transient failures.
package httputil
