package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/careconnect/careconnect/server/internal/provider"
	"github.com/careconnect/careconnect/server/pkg/logger"
)

// Codec serializes session records to and from the signed session
// cookie. Decoding fails closed: a missing, malformed, tampered or
// expired cookie yields no record, never an error and never a
// partially populated record.
type Codec struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewCodec builds a codec. secure controls the cookie Secure attribute
// and should be true in production.
func NewCodec(secret string, ttl time.Duration, secure bool) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl, secure: secure}
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// Issue creates a new record expiring ttl from now and stores it as an
// HTTP-only, SameSite=Lax cookie scoped to the whole application.
func (cd *Codec) Issue(c *gin.Context, userID, sessionID, email string, role Role) (*Record, error) {
	// truncated to seconds so the decoded record matches field-for-field
	rec := &Record{
		UserID:    userID,
		SessionID: sessionID,
		Email:     email,
		Role:      role,
		ExpiresAt: time.Now().Add(cd.ttl).Truncate(time.Second),
	}
	token, err := cd.Encode(rec)
	if err != nil {
		return nil, err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(cd.ttl.Seconds()), "/", "", cd.secure, true)
	return rec, nil
}

// Encode signs a record into the cookie wire form.
func (cd *Codec) Encode(rec *Record) (string, error) {
	claims := sessionClaims{
		SessionID: rec.SessionID,
		Email:     rec.Email,
		Role:      string(rec.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   rec.UserID,
			ExpiresAt: jwt.NewNumericDate(rec.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cd.secret)
}

// Decode parses and validates a cookie value. Returns nil on any
// failure: bad signature, truncation, unknown role or expiry in the
// past.
func (cd *Codec) Decode(token string) *Record {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return cd.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil
	}
	role, ok := ParseRole(claims.Role)
	if !ok || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil
	}
	return &Record{
		UserID:    claims.Subject,
		SessionID: claims.SessionID,
		Email:     claims.Email,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time,
	}
}

// Read returns the current request's session record, or nil when there
// is no valid session.
func (cd *Codec) Read(c *gin.Context) *Record {
	token, err := c.Cookie(CookieName)
	if err != nil {
		return nil
	}
	return cd.Decode(token)
}

// Revoke deletes the session cookie unconditionally and best-effort
// invalidates the provider-side session. Deleting the local cookie is
// the authoritative access-control signal, so provider failures are
// logged and swallowed.
func (cd *Codec) Revoke(c *gin.Context, identity provider.Identity) {
	rec := cd.Read(c)

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", cd.secure, true)

	if rec == nil {
		return
	}
	ctx := c.Request.Context()
	if ttl := time.Until(rec.ExpiresAt); ttl > 0 {
		if err := MarkSessionRevoked(ctx, rec.SessionID, ttl); err != nil {
			logger.Warnf("failed to record revoked session %s: %v", rec.SessionID, err)
		}
	}
	if identity != nil && rec.SessionID != "" {
		if err := identity.DeleteSession(ctx, rec.SessionID); err != nil {
			logger.Warnf("provider session delete failed for %s: %v", rec.SessionID, err)
		}
	}
}
