package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/careconnect/careconnect/server/internal/config"
)

// Client is the HTTP implementation of Identity. It is a pure adapter:
// no local state beyond connection settings, no retries.
type Client struct {
	endpoint string
	project  string
	apiKey   string
	http     *http.Client
}

// NewClient builds a provider client from configuration. The endpoint
// is the provider API base URL, e.g. "https://cloud.example.com/v1".
func NewClient(cfg config.ProviderConfig) *Client {
	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		project:  cfg.Project,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: cfg.Timeout},
	}
}

// do performs one provider API call. Non-2xx responses are decoded
// into an *APIError so callers can classify them.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("provider request encode: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Provider-Project", c.project)
	if c.apiKey != "" {
		req.Header.Set("X-Provider-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		ae := &APIError{Status: resp.StatusCode}
		// body is advisory; a decode failure still yields a classified error
		_ = json.NewDecoder(resp.Body).Decode(ae)
		return ae
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("provider response decode: %w", err)
		}
	}
	return nil
}

func (c *Client) CreateAccount(ctx context.Context, email, password, name string) (*Account, error) {
	var a Account
	body := map[string]string{"email": email, "password": password, "name": name}
	if err := c.do(ctx, http.MethodPost, "/users", body, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) CreateEmailSession(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/account/sessions/email", body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, "/account/sessions/"+url.PathEscape(sessionID), nil, nil)
}

func (c *Client) GetAccount(ctx context.Context, userID string) (*Account, error) {
	var a Account
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) UpdatePrefs(ctx context.Context, userID string, prefs map[string]any) error {
	body := map[string]any{"prefs": prefs}
	return c.do(ctx, http.MethodPatch, "/users/"+url.PathEscape(userID)+"/prefs", body, nil)
}

func (c *Client) CreateVerification(ctx context.Context, userID, redirectURL string) error {
	body := map[string]string{"url": redirectURL}
	return c.do(ctx, http.MethodPost, "/users/"+url.PathEscape(userID)+"/verification", body, nil)
}

func (c *Client) ConfirmVerification(ctx context.Context, userID, secret string) error {
	body := map[string]string{"userId": userID, "secret": secret}
	return c.do(ctx, http.MethodPut, "/account/verification", body, nil)
}

func (c *Client) CreateRecovery(ctx context.Context, email, redirectURL string) error {
	body := map[string]string{"email": email, "url": redirectURL}
	return c.do(ctx, http.MethodPost, "/account/recovery", body, nil)
}

func (c *Client) ConfirmRecovery(ctx context.Context, userID, secret, newPassword string) error {
	body := map[string]string{"userId": userID, "secret": secret, "password": newPassword}
	return c.do(ctx, http.MethodPut, "/account/recovery", body, nil)
}

func (c *Client) ListAccountsByEmail(ctx context.Context, email string) ([]Account, error) {
	var res struct {
		Users []Account `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/users?email="+url.QueryEscape(email), nil, &res); err != nil {
		return nil, err
	}
	return res.Users, nil
}
