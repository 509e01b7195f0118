package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/99minutos/todo-render/internal/core/domain"
	"github.com/99minutos/todo-render/internal/pkg/metrics"
)

const (
	pathLogin       = "/auth/login"
	pathGoogleLogin = "/auth/google"
	pathRefresh     = "/auth/refresh"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleLoginRequest struct {
	IDToken string `json:"idToken"`
}

// tokenResponse accepts both token field spellings the API has used.
type tokenResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
}

func (t tokenResponse) value() string {
	if t.AccessToken != "" {
		return t.AccessToken
	}
	return t.Token
}

// Login exchanges email and password for credentials. The refresh cookie set
// by the API is kept alongside the access token.
func (c *Client) Login(ctx context.Context, email, password string) (domain.Credentials, error) {
	return c.authenticate(ctx, pathLogin, loginRequest{Email: email, Password: password})
}

// LoginWithGoogle exchanges a Google identity token for credentials.
func (c *Client) LoginWithGoogle(ctx context.Context, idToken string) (domain.Credentials, error) {
	return c.authenticate(ctx, pathGoogleLogin, googleLoginRequest{IDToken: idToken})
}

func (c *Client) authenticate(ctx context.Context, path string, payload any) (domain.Credentials, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("encode login: %w", err)
	}

	resp, err := c.send(ctx, http.MethodPost, path, body, nil)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("%w: POST %s: %w", domain.ErrRequestFailed, path, err)
	}

	switch {
	case resp.Status == http.StatusBadRequest || resp.Status == http.StatusUnauthorized:
		return domain.Credentials{}, fmt.Errorf("%w: %s", domain.ErrInvalidCredentials, apiMessage(resp))
	case !resp.OK():
		return domain.Credentials{}, fmt.Errorf("%w: POST %s: status %d: %s",
			domain.ErrRequestFailed, path, resp.Status, apiMessage(resp))
	}

	var tr tokenResponse
	if err := json.Unmarshal(resp.Body, &tr); err != nil {
		return domain.Credentials{}, fmt.Errorf("%w: decode login response: %w", domain.ErrRequestFailed, err)
	}
	if tr.value() == "" {
		return domain.Credentials{}, fmt.Errorf("%w: login response carried no token", domain.ErrRequestFailed)
	}

	return domain.Credentials{
		AccessToken: tr.value(),
		Cookies:     mergeCookies(nil, resp.Cookies),
	}, nil
}

// refresh mints a new access token from the refresh cookie. The expired
// access token is not sent.
func (c *Client) refresh(ctx context.Context, creds domain.Credentials) (domain.Credentials, error) {
	resp, err := c.send(ctx, http.MethodPost, pathRefresh, nil, &domain.Credentials{Cookies: creds.Cookies})
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("failure").Inc()
		return domain.Credentials{}, fmt.Errorf("refresh: %w", err)
	}
	if !resp.OK() {
		metrics.TokenRefreshTotal.WithLabelValues("failure").Inc()
		return domain.Credentials{}, fmt.Errorf("refresh: status %d: %s", resp.Status, apiMessage(resp))
	}

	var tr tokenResponse
	if err := json.Unmarshal(resp.Body, &tr); err != nil || tr.value() == "" {
		metrics.TokenRefreshTotal.WithLabelValues("failure").Inc()
		return domain.Credentials{}, fmt.Errorf("refresh: response carried no access token")
	}

	metrics.TokenRefreshTotal.WithLabelValues("success").Inc()
	return domain.Credentials{
		AccessToken: tr.value(),
		Cookies:     mergeCookies(creds.Cookies, resp.Cookies),
	}, nil
}
