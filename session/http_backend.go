package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"ckmconsole/api"
	"ckmconsole/domain"
)

// HTTPBackend delegates login and logout to the backend's /api/auth routes.
type HTTPBackend struct {
	client *api.Client
}

func NewHTTPBackend(client *api.Client) *HTTPBackend {
	return &HTTPBackend{client: client}
}

func (b *HTTPBackend) Authenticate(ctx context.Context, username, password string) (*domain.User, string, error) {
	if username == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}
	resp, err := b.client.Login(ctx, username, password)
	if err != nil {
		var he *api.HTTPError
		status := 0
		if errors.As(err, &he) {
			status = he.StatusCode
		}
		if status == http.StatusUnauthorized || status == http.StatusBadRequest || status == http.StatusForbidden {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("login: %w", err)
	}
	if resp == nil || resp.Token == "" || resp.User == nil {
		return nil, "", fmt.Errorf("login: incomplete response for %s", username)
	}
	return resp.User, resp.Token, nil
}

func (b *HTTPBackend) Revoke(ctx context.Context, token string) error {
	if err := b.client.WithToken(token).Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
