package api

import (
	"context"
	"net/http"

	"ckmconsole/domain"
)

const authPath = "/api/auth"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"tokenType"`
	ExpiresIn int64        `json:"expiresIn"`
	User      *domain.User `json:"user"`
	SessionID string       `json:"sessionId,omitempty"`
}

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	return sendJSON[*LoginResponse](ctx, c, http.MethodPost, authPath+"/login", nil, LoginRequest{Username: username, Password: password})
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, authPath+"/logout", nil, nil, nil)
}

// Me returns the user bound to the client's token.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	return getJSON[*domain.User](ctx, c, authPath+"/me", nil)
}
