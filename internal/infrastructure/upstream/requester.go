package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/99minutos/todo-render/internal/core/domain"
	"github.com/99minutos/todo-render/internal/core/ports"
	"github.com/99minutos/todo-render/internal/pkg/metrics"
)

// Requester performs authenticated calls for one token store.
type Requester struct {
	client *Client
	tokens ports.TokenStore
}

// Do sends an authenticated request.
//
//   - no stored token: domain.ErrUnauthenticated, nothing is sent.
//   - 401: one refresh, the new token is stored, the request is retried once.
//   - 403: domain.ErrForbidden, the store is kept.
//   - anything else that is not 2xx, a failed refresh, a 401 after the retry
//     or a transport error: domain.ErrRequestFailed and the store is cleared.
func (r *Requester) Do(ctx context.Context, method, path string, body []byte) (*Response, error) {
	creds, err := r.tokens.Get(ctx)
	if errors.Is(err, domain.ErrNoToken) || (err == nil && creds.AccessToken == "") {
		metrics.UpstreamRequestsTotal.WithLabelValues(method, metrics.OutcomeUnauthenticated).Inc()
		return nil, fmt.Errorf("%w: %s %s", domain.ErrUnauthenticated, method, path)
	}
	if err != nil {
		return nil, r.fail(ctx, method, path, fmt.Errorf("read token: %w", err))
	}

	resp, err := r.client.send(ctx, method, path, body, &creds)
	if err != nil {
		return nil, r.fail(ctx, method, path, err)
	}

	if resp.Status == http.StatusUnauthorized {
		r.client.log.Debug().Str("method", method).Str("path", path).Msg("access token rejected, refreshing")

		creds, err = r.client.refresh(ctx, creds)
		if err != nil {
			return nil, r.fail(ctx, method, path, err)
		}
		if err := r.tokens.Set(ctx, creds); err != nil {
			return nil, r.fail(ctx, method, path, fmt.Errorf("store refreshed token: %w", err))
		}

		resp, err = r.client.send(ctx, method, path, body, &creds)
		if err != nil {
			return nil, r.fail(ctx, method, path, err)
		}
		if resp.Status == http.StatusUnauthorized {
			return nil, r.fail(ctx, method, path, errors.New("still unauthorized after refresh"))
		}
	}

	switch {
	case resp.Status == http.StatusForbidden:
		metrics.UpstreamRequestsTotal.WithLabelValues(method, metrics.OutcomeForbidden).Inc()
		return nil, fmt.Errorf("%w: %s %s: %s", domain.ErrForbidden, method, path, apiMessage(resp))
	case !resp.OK():
		return nil, r.fail(ctx, method, path, fmt.Errorf("status %d: %s", resp.Status, apiMessage(resp)))
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(method, metrics.OutcomeOK).Inc()
	return resp, nil
}

// DoJSON is Do followed by decoding the 2xx body into v. A body that does
// not decode fails the request like any other upstream failure.
func (r *Requester) DoJSON(ctx context.Context, method, path string, body []byte, v any) error {
	resp, err := r.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return r.fail(ctx, method, path, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// fail clears the token store and wraps cause as domain.ErrRequestFailed.
func (r *Requester) fail(ctx context.Context, method, path string, cause error) error {
	metrics.UpstreamRequestsTotal.WithLabelValues(method, metrics.OutcomeFailed).Inc()

	if err := r.tokens.Clear(ctx); err != nil {
		r.client.log.Warn().Err(err).Msg("failed to clear token store")
	}
	r.client.log.Warn().
		Err(cause).
		Str("method", method).
		Str("path", path).
		Msg("upstream request failed, session cleared")

	return fmt.Errorf("%w: %s %s: %w", domain.ErrRequestFailed, method, path, cause)
}
