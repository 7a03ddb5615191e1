// Package identity signs users in against the Firebase Identity Toolkit.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudnative-denmark/conference-companion/internal/auth/domain"
)

const DefaultBaseURL = "https://identitytoolkit.googleapis.com"

// ProviderID names a federated identity provider.
type ProviderID string

const (
	ProviderGoogle ProviderID = "google.com"
	ProviderGitHub ProviderID = "github.com"
)

// ParseProviderID accepts the short provider names used in routes.
func ParseProviderID(s string) (ProviderID, bool) {
	switch s {
	case "google", string(ProviderGoogle):
		return ProviderGoogle, true
	case "github", string(ProviderGitHub):
		return ProviderGitHub, true
	}
	return "", false
}

// Provider is the identity provider's account API.
type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*domain.User, error)
	// SignUp creates the account and sets its display name.
	SignUp(ctx context.Context, email, password, displayName string) (*domain.User, error)
	// SignInWithIdP exchanges a federated credential: an OIDC id token for
	// Google, an OAuth access token for GitHub.
	SignInWithIdP(ctx context.Context, provider ProviderID, token string) (*domain.User, error)
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	now        func() time.Time
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

type accountResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, body any) (*accountResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", method, err)
	}

	endpoint := fmt.Sprintf("%s/v1/accounts:%s?key=%s", c.baseURL, method, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.AuthError{Op: method, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var e errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error.Message == "" {
			return nil, &domain.AuthError{Op: method, Message: fmt.Sprintf("%s failed with status %d", method, resp.StatusCode)}
		}
		return nil, &domain.AuthError{Op: method, Message: e.Error.Message}
	}

	var out accountResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", method, err)
	}
	return &out, nil
}

func (c *Client) toUser(a *accountResponse) *domain.User {
	u := &domain.User{
		UID:          a.LocalID,
		Email:        a.Email,
		DisplayName:  a.DisplayName,
		IDToken:      a.IDToken,
		RefreshToken: a.RefreshToken,
	}
	if secs, err := strconv.Atoi(a.ExpiresIn); err == nil {
		u.ExpiresAt = c.now().Add(time.Duration(secs) * time.Second)
	}
	return u
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*domain.User, error) {
	out, err := c.call(ctx, "signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}
	return c.toUser(out), nil
}

func (c *Client) SignUp(ctx context.Context, email, password, displayName string) (*domain.User, error) {
	created, err := c.call(ctx, "signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}

	updated, err := c.call(ctx, "update", map[string]any{
		"idToken":           created.IDToken,
		"displayName":       displayName,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}

	user := c.toUser(created)
	user.DisplayName = displayName
	if updated.IDToken != "" {
		user.IDToken = updated.IDToken
		user.RefreshToken = updated.RefreshToken
	}
	return user, nil
}

func (c *Client) SignInWithIdP(ctx context.Context, provider ProviderID, token string) (*domain.User, error) {
	form := url.Values{"providerId": {string(provider)}}
	switch provider {
	case ProviderGoogle:
		form.Set("id_token", token)
	case ProviderGitHub:
		form.Set("access_token", token)
	default:
		return nil, &domain.AuthError{Op: "signInWithIdp", Message: fmt.Sprintf("unsupported provider %q", provider)}
	}

	out, err := c.call(ctx, "signInWithIdp", map[string]any{
		"postBody":            form.Encode(),
		"requestUri":          "http://localhost",
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	})
	if err != nil {
		return nil, err
	}
	return c.toUser(out), nil
}
