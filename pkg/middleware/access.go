package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/careconnect/careconnect/server/internal/session"
	"github.com/careconnect/careconnect/server/pkg/metrics"
)

// SessionKey is the gin context key under which the middleware stores
// the validated session record for downstream handlers.
const SessionKey = "session"

// RoleResolver maps a subject to its stored role. A false second
// return means "no role could be resolved" and is never treated as
// admin.
type RoleResolver interface {
	RoleOf(ctx context.Context, userID string) (session.Role, bool)
}

// public page prefixes; "/" is matched exactly, everything else by prefix
var publicRoutes = []string{
	"/auth/login",
	"/auth/signup",
	"/auth/forgot-password",
	"/auth/reset-password",
	"/auth/verify-email",
}

func isPublicRoute(path string) bool {
	if path == "/" {
		return true
	}
	for _, route := range publicRoutes {
		if strings.HasPrefix(path, route) {
			return true
		}
	}
	return false
}

// AccessControl classifies every request before a protected page is
// served. Evaluation order is load-bearing: the API and public-route
// short-circuits come before the session check, and the admin check
// comes before the patient-ownership check.
func AccessControl(codec *session.Codec, roles RoleResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		// API routes carry their own authorization
		if strings.HasPrefix(path, "/api") {
			metrics.AccessDecisions.WithLabelValues("api").Inc()
			c.Next()
			return
		}

		if isPublicRoute(path) {
			metrics.AccessDecisions.WithLabelValues("public").Inc()
			c.Next()
			return
		}

		rec := codec.Read(c)
		if rec == nil {
			redirectToLogin(c, path)
			return
		}
		// a session revoked server-side no longer counts, even if the
		// browser still replays its cookie
		if revoked, err := session.IsSessionRevoked(c.Request.Context(), rec.SessionID); err == nil && revoked {
			redirectToLogin(c, path)
			return
		}

		if strings.HasPrefix(path, "/admin") {
			role, okRole := roles.RoleOf(c.Request.Context(), rec.UserID)
			if !okRole || role != session.RoleAdmin {
				// fail closed to the plain login page; an "access
				// denied" response would leak that the admin area exists
				metrics.AccessDecisions.WithLabelValues("admin_redirect").Inc()
				c.Redirect(http.StatusTemporaryRedirect, "/auth/login")
				c.Abort()
				return
			}
			metrics.AccessDecisions.WithLabelValues("allow").Inc()
			c.Set(SessionKey, rec)
			c.Next()
			return
		}

		if strings.HasPrefix(path, "/patients") {
			// /patients/<subject>/... — the first segment after the
			// namespace names the owning subject
			parts := strings.Split(path, "/")
			if len(parts) > 2 && parts[2] != "" && parts[2] != rec.UserID {
				corrected := strings.Replace(path, "/patients/"+parts[2], "/patients/"+rec.UserID, 1)
				metrics.AccessDecisions.WithLabelValues("ownership_rewrite").Inc()
				c.Redirect(http.StatusTemporaryRedirect, corrected)
				c.Abort()
				return
			}
		}

		metrics.AccessDecisions.WithLabelValues("allow").Inc()
		c.Set(SessionKey, rec)
		c.Next()
	}
}

func redirectToLogin(c *gin.Context, requested string) {
	metrics.AccessDecisions.WithLabelValues("login_redirect").Inc()
	c.Redirect(http.StatusTemporaryRedirect, "/auth/login?redirect="+url.QueryEscape(requested))
	c.Abort()
}

// SessionFromContext returns the record stored by AccessControl, if any.
func SessionFromContext(c *gin.Context) *session.Record {
	v, exists := c.Get(SessionKey)
	if !exists {
		return nil
	}
	rec, _ := v.(*session.Record)
	return rec
}
