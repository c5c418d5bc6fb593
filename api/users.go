package api

import (
	"context"
	"net/http"

	"ckmconsole/domain"
)

const usersPath = "/api/users"

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	return getJSON[[]domain.User](ctx, c, usersPath, nil)
}

func (c *Client) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return getJSON[*domain.User](ctx, c, idPath(usersPath, id), nil)
}

func (c *Client) CreateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	return sendJSON[*domain.User](ctx, c, http.MethodPost, usersPath, nil, u)
}

func (c *Client) UpdateUser(ctx context.Context, id int64, u *domain.User) (*domain.User, error) {
	return sendJSON[*domain.User](ctx, c, http.MethodPut, idPath(usersPath, id), nil, u)
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath(usersPath, id), nil, nil, nil)
}
