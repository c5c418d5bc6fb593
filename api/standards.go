package api

import (
	"context"
	"net/http"

	"ckmconsole/domain"
)

const standardsPath = "/api/production-standards"

func (c *Client) ListStandards(ctx context.Context) ([]domain.ProductionStandard, error) {
	return getJSON[[]domain.ProductionStandard](ctx, c, standardsPath, nil)
}

func (c *Client) ListActiveStandards(ctx context.Context) ([]domain.ProductionStandard, error) {
	return getJSON[[]domain.ProductionStandard](ctx, c, standardsPath+"/active", nil)
}

func (c *Client) GetStandard(ctx context.Context, id int64) (*domain.ProductionStandard, error) {
	return getJSON[*domain.ProductionStandard](ctx, c, idPath(standardsPath, id), nil)
}

func (c *Client) CreateStandard(ctx context.Context, s *domain.ProductionStandard) (*domain.ProductionStandard, error) {
	return sendJSON[*domain.ProductionStandard](ctx, c, http.MethodPost, standardsPath, nil, s)
}

func (c *Client) UpdateStandard(ctx context.Context, id int64, s *domain.ProductionStandard) (*domain.ProductionStandard, error) {
	return sendJSON[*domain.ProductionStandard](ctx, c, http.MethodPut, idPath(standardsPath, id), nil, s)
}

func (c *Client) DeleteStandard(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath(standardsPath, id), nil, nil, nil)
}
