package session

import "time"

// CookieName is the session cookie issued to browsers.
const CookieName = "careconnect_session"

// Role is the coarse authorization class fixed at account creation.
type Role string

const (
	RolePatient Role = "patient"
	RoleAdmin   Role = "admin"
)

// ParseRole maps a raw preference value to a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RolePatient:
		return RolePatient, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// Record is the application's own short-lived proof of authentication,
// backed by (but independent of) the provider session. A record is
// valid only while the wall clock is strictly before ExpiresAt;
// validity is re-derived on every read. Records are never mutated in
// place — a refresh issues a brand-new record.
type Record struct {
	UserID    string    `json:"userId"`
	SessionID string    `json:"sessionId"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}
