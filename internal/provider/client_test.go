package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/careconnect/careconnect/server/internal/config"
	"github.com/stretchr/testify/require"
)

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(config.ProviderConfig{
		Endpoint: srv.URL,
		Project:  "careconnect-test",
		APIKey:   "key-abc",
		Timeout:  2 * time.Second,
	})
}

func TestCreateAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/users", r.URL.Path)
		require.Equal(t, "careconnect-test", r.Header.Get("X-Provider-Project"))
		require.Equal(t, "key-abc", r.Header.Get("X-Provider-Key"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "a@b.c", body["email"])

		_ = json.NewEncoder(w).Encode(Account{ID: "user-1", Email: body["email"], Name: body["name"]})
	}))
	defer srv.Close()

	c := newTestClient(srv)
	a, err := c.CreateAccount(context.Background(), "a@b.c", "pw123456", "Alice")
	require.NoError(t, err)
	require.Equal(t, "user-1", a.ID)
	require.Equal(t, "a@b.c", a.Email)
}

func TestCreateAccount_ConflictClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"type": "user_already_exists", "message": "user already exists"})
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.CreateAccount(context.Background(), "dup@b.c", "pw123456", "Dup")
	require.Error(t, err)
	require.True(t, IsConflict(err))
	require.False(t, IsUnauthorized(err))
}

func TestCreateEmailSession_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/account/sessions/email", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.CreateEmailSession(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)
	require.True(t, IsUnauthorized(err))
}

func TestDeleteSession(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	require.NoError(t, c.DeleteSession(context.Background(), "sess-9"))
	require.Equal(t, "DELETE /account/sessions/sess-9", gotPath)
}

func TestGetAccountAndPrefs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/user-7", r.URL.Path)
		_ = json.NewEncoder(w).Encode(Account{
			ID:    "user-7",
			Email: "p@b.c",
			Prefs: map[string]any{"role": "patient", "phone": "+100"},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv)
	a, err := c.GetAccount(context.Background(), "user-7")
	require.NoError(t, err)
	require.Equal(t, "patient", a.Prefs["role"])
}

func TestUpdatePrefs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/users/user-7/prefs", r.URL.Path)
		var body struct {
			Prefs map[string]any `json:"prefs"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, true, body.Prefs["emailVerified"])
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	require.NoError(t, c.UpdatePrefs(context.Background(), "user-7", map[string]any{"emailVerified": true}))
}

func TestListAccountsByEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users", r.URL.Path)
		require.Equal(t, "dup@b.c", r.URL.Query().Get("email"))
		_ = json.NewEncoder(w).Encode(map[string]any{"users": []Account{{ID: "user-1", Email: "dup@b.c"}}})
	}))
	defer srv.Close()

	c := newTestClient(srv)
	accts, err := c.ListAccountsByEmail(context.Background(), "dup@b.c")
	require.NoError(t, err)
	require.Len(t, accts, 1)
	require.Equal(t, "user-1", accts[0].ID)
}

func TestRecoveryAndVerificationEndpoints(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	ctx := context.Background()
	c := newTestClient(srv)
	require.NoError(t, c.CreateRecovery(ctx, "a@b.c", "http://app/auth/reset-password"))
	require.NoError(t, c.ConfirmRecovery(ctx, "user-1", "secret", "newpw123"))
	require.NoError(t, c.CreateVerification(ctx, "user-1", "http://app/auth/verify-email"))
	require.NoError(t, c.ConfirmVerification(ctx, "user-1", "secret"))
	require.Equal(t, []string{
		"POST /account/recovery",
		"PUT /account/recovery",
		"POST /users/user-1/verification",
		"PUT /account/verification",
	}, paths)
}
