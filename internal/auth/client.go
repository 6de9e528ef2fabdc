// Package auth covers account access against the backend: login, register,
// profile, password recovery, and session bookkeeping for the web client.
package auth

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"apagon-map/internal/models"
)

// ErrInvalidCredentials is returned when the token endpoint rejects the
// username/password pair.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// CreateUser is the registration payload.
type CreateUser struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IDCard    string `json:"idCard"`
}

// RecoverPassword carries a recovery-token password change.
type RecoverPassword struct {
	Password string `json:"password"`
	Repeated string `json:"repeated"`
	Token    string `json:"token"`
}

// UpdateUser is the editable subset of a profile.
type UpdateUser struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Client talks to the backend's auth and account endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an auth API client for the given backend base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Login exchanges Basic credentials for a JWT at the token endpoint.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/token", nil)
	if err != nil {
		return "", err
	}
	basic := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	req.Header.Set("Authorization", "Basic "+basic)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var result tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	return result.Token, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, user CreateUser) error {
	return c.postJSON(ctx, "/users/register", "", user, nil)
}

// GetCurrentUser returns the profile behind the token.
func (c *Client) GetCurrentUser(ctx context.Context, token string) (*models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/current", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get current user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("current user returned %d: %s", resp.StatusCode, string(body))
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

// UpdateProfile edits the profile behind the token.
func (c *Client) UpdateProfile(ctx context.Context, token string, update UpdateUser) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshal profile update: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/users/profile", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("profile update returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// SendRecoveryEmail starts password recovery for a username.
func (c *Client) SendRecoveryEmail(ctx context.Context, username string) error {
	return c.postJSON(ctx, "/account/recover/send", "", map[string]string{"username": username}, nil)
}

type validateResponse struct {
	Result bool `json:"result"`
}

// ValidateRecoveryToken checks whether a recovery token is still usable.
func (c *Client) ValidateRecoveryToken(ctx context.Context, token string) (bool, error) {
	var result validateResponse
	path := "/account/recover/validate?token=" + url.QueryEscape(token)
	if err := c.postJSON(ctx, path, "", struct{}{}, &result); err != nil {
		return false, err
	}
	return result.Result, nil
}

// RecoverPassword sets a new password using a recovery token.
func (c *Client) RecoverPassword(ctx context.Context, change RecoverPassword) error {
	return c.postJSON(ctx, "/account/recover", "", change, nil)
}

// postJSON posts a JSON body and optionally decodes the JSON reply.
func (c *Client) postJSON(ctx context.Context, path, token string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
