// Package httputil provides the HTTP plumbing used to read remote input
// documents.
//
// # Overview
//
//   - [Client]: GET with retry, size cap and a revalidating response cache
//   - [Cache]: file-based cache of JSON-marshalable values
//   - [Retry]: retry with exponential backoff
//
// # Caching
//
// [Cache] stores entries under ~/.cache/gridshape/http with a TTL. Fresh
// entries are served without a request. Stale entries are still decoded and
// [Client] revalidates them with If-None-Match / If-Modified-Since, so a 304
// costs one round trip and no body.
//
//	cache, _ := httputil.NewCache("", time.Hour)
//	c := &httputil.Client{Cache: cache}
//	body, err := c.Get(ctx, "https://api.example.com/items")
//
// # Retry
//
// [Retry] only repeats errors wrapped in [RetryableError]. [CheckStatus]
// marks 5xx and 429 responses retryable; network failures are retryable
// too. Other 4xx responses fail immediately.
package httputil
