// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements idempotency support for the checkout POST. It
// validates an Idempotency-Key request header, optionally consults a
// user-supplied lookup to detect a previously completed checkout, and
// annotates the request context so downstream code can read the normalized
// key, detect replays, and bypass rate limiting for them. Persistence is
// decoupled behind the narrow IdempotencyLookup function type.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header clients use to convey an
// idempotency key for unsafe operations. The value is expected to be stable
// for a given semantic operation so retries deduplicate safely.
const HeaderIdempotencyKey = "Idempotency-Key"

// Context keys stashing idempotency state, referenced via accessor helpers.
const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyRateBypass = "rate.bypass"
)

// GetIdempotencyKey returns the validated idempotency key stored in the Gin
// context. Handlers should prefer this over reading the header directly.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether this request would replay a previously completed
// checkout. Handlers may then serve the persisted purchase instead of
// re-executing side effects.
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// IdempotencyOptions configures header validation. MaxLen values <= 0 default
// to 200; a nil Pattern uses a conservative RFC7230-like token pattern. TTL
// enforcement belongs inside the lookup, not here.
type IdempotencyOptions struct {
	MaxLen  int
	Pattern *regexp.Regexp
}

// IdempotencyLookup answers whether a successful, still-valid result exists
// for (userID, reportID, key) at the given time. Return an error only for
// lookup failures, which must not block normal processing.
type IdempotencyLookup func(ctx context.Context, userID, reportID, key string, now time.Time) (exists bool, err error)

// IdempotencyValidator validates the Idempotency-Key header when present,
// stashes it in the context, and marks replays so the rate limiter skips
// them. An absent header is a no-op; an invalid one is rejected with 400.
// The middleware never serves a cached payload itself.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			rid, _ := c.Get(requestIDKey)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": asString(rid),
				"code":       "bad_request",
				"message":    "invalid Idempotency-Key header",
			})
			return
		}
		c.Set(ctxKeyIdemKey, key)

		if lookup != nil {
			userID := c.GetHeader("X-User-ID")
			reportID := c.GetHeader("X-Report-ID")
			if exists, err := lookup(c.Request.Context(), userID, reportID, key, time.Now().UTC()); err == nil && exists {
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyRateBypass, true)
			}
		}
		c.Next()
	}
}
