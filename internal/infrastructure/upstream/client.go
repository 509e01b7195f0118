// Package upstream talks to the external todo/auth API.
//
// Client handles the unauthenticated calls (login, refresh). Requester wraps
// a Client with a token store and is the only path through which todo calls
// are made: it injects the bearer token and performs at most one
// refresh-and-retry per call.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/todo-render/internal/core/domain"
	"github.com/99minutos/todo-render/internal/core/ports"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 4 << 20
)

// Config captures the settings for reaching the todo API.
type Config struct {
	BaseURL string
	// Timeout bounds a single HTTP attempt. A refresh-and-retry may take up
	// to three attempts. Ignored when HTTPClient is set.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client is a thin JSON client for the todo API.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// Response is a fully read API response.
type Response struct {
	Status  int
	Body    []byte
	Cookies []*http.Cookie
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// NewClient returns a Client for cfg. A default timeout is applied when none
// is provided.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    hc,
		log:     log,
	}
}

// Session returns a Requester that authenticates with tokens.
func (c *Client) Session(tokens ports.TokenStore) *Requester {
	return &Requester{client: c, tokens: tokens}
}

// Todos satisfies ports.Gateway.
func (c *Client) Todos(tokens ports.TokenStore) ports.TodoClient {
	return NewTodoClient(c.Session(tokens))
}

// send performs one HTTP round trip. creds may be nil for anonymous calls;
// an empty access token sends cookies only.
func (c *Client) send(ctx context.Context, method, path string, body []byte, creds *domain.Credentials) (*Response, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if creds != nil {
		if creds.AccessToken != "" {
			req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
		}
		for _, ck := range creds.Cookies {
			req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("upstream call")

	return &Response{Status: resp.StatusCode, Body: data, Cookies: resp.Cookies()}, nil
}

// apiMessage extracts the {"message": "..."} or {"error": "..."} text the API
// puts in error bodies. Falls back to the HTTP status text.
func apiMessage(resp *Response) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return http.StatusText(resp.Status)
}

// mergeCookies applies Set-Cookie headers to the stored cookie set. A cookie
// with MaxAge < 0 or an empty value is removed.
func mergeCookies(stored []domain.Cookie, set []*http.Cookie) []domain.Cookie {
	if len(set) == 0 {
		return stored
	}

	out := make([]domain.Cookie, 0, len(stored)+len(set))
	out = append(out, stored...)
	for _, sc := range set {
		idx := -1
		for i := range out {
			if out[i].Name == sc.Name {
				idx = i
				break
			}
		}
		expired := sc.MaxAge < 0 || sc.Value == ""
		switch {
		case expired && idx >= 0:
			out = append(out[:idx], out[idx+1:]...)
		case expired:
		case idx >= 0:
			out[idx].Value = sc.Value
		default:
			out = append(out, domain.Cookie{Name: sc.Name, Value: sc.Value})
		}
	}
	return out
}
