package provider

import "context"

// Account is the identity provider's view of a user. Prefs is the
// provider's untyped preference bag; callers read it through narrow
// typed accessors rather than trusting its shape.
type Account struct {
	ID    string         `json:"id"`
	Email string         `json:"email"`
	Name  string         `json:"name"`
	Prefs map[string]any `json:"prefs"`
}

// Session is a provider-side authentication session.
type Session struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
}

// Identity is the narrow surface of the external identity provider the
// application depends on. All operations are fallible network calls.
type Identity interface {
	CreateAccount(ctx context.Context, email, password, name string) (*Account, error)
	CreateEmailSession(ctx context.Context, email, password string) (*Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	GetAccount(ctx context.Context, userID string) (*Account, error)
	UpdatePrefs(ctx context.Context, userID string, prefs map[string]any) error
	CreateVerification(ctx context.Context, userID, redirectURL string) error
	ConfirmVerification(ctx context.Context, userID, secret string) error
	CreateRecovery(ctx context.Context, email, redirectURL string) error
	ConfirmRecovery(ctx context.Context, userID, secret, newPassword string) error
	ListAccountsByEmail(ctx context.Context, email string) ([]Account, error)
}
