package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/careconnect/careconnect/server/internal/session"
)

// withSubject pins the limiter key for a test, since httptest requests
// all share one client IP and limiters are cached per key.
func withSubject(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(SessionKey, &session.Record{UserID: id})
		c.Next()
	}
}

func TestRateLimitMiddleware_AllowsUnderLimit(t *testing.T) {
	r := gin.New()
	r.Use(withSubject("rl-allow"))
	r.Use(RateLimitMiddleware(10, 2)) // generous rate
	r.GET("/ok", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	w := get(r, "/ok")
	w2 := get(r, "/ok")

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, http.StatusOK, w2.Code)
}

func TestRateLimitMiddleware_BlocksWhenExceeded(t *testing.T) {
	r := gin.New()
	// low rate to force rejections: one token per 500ms
	r.Use(withSubject("rl-block"))
	r.Use(RateLimitMiddleware(2, 1))
	r.GET("/limited", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// first request -> allowed
	w1 := get(r, "/limited")
	require.Equal(t, http.StatusOK, w1.Code)

	// immediate second request -> should be rate-limited
	w2 := get(r, "/limited")
	require.Equal(t, http.StatusTooManyRequests, w2.Code)

	// wait past 500ms to replenish one token and it should be allowed
	time.Sleep(600 * time.Millisecond)
	w3 := get(r, "/limited")
	require.Equal(t, http.StatusOK, w3.Code)
}

func TestRateLimitMiddleware_UsesSubjectWhenPresent(t *testing.T) {
	r := gin.New()
	// a session record injected before the rate limiter, as
	// AccessControl does for authenticated page requests
	r.Use(withSubject("user-123"))
	r.Use(RateLimitMiddleware(0.5, 1))
	r.GET("/u", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// first request allowed
	w1 := get(r, "/u")
	require.Equal(t, http.StatusOK, w1.Code)

	// immediate second request => rejected for same subject
	w2 := get(r, "/u")
	require.Equal(t, http.StatusTooManyRequests, w2.Code)
}
