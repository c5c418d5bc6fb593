package api

import (
	"context"
	"net/http"

	"ckmconsole/domain"
)

const (
	systemConfigPath = "/api/system/config"
	monitorPath      = "/api/monitor/database"
)

func (c *Client) GetSystemConfig(ctx context.Context) (*domain.SystemConfig, error) {
	return getJSON[*domain.SystemConfig](ctx, c, systemConfigPath, nil)
}

func (c *Client) UpdateSystemConfig(ctx context.Context, cfg *domain.SystemConfig) (*domain.SystemConfig, error) {
	return sendJSON[*domain.SystemConfig](ctx, c, http.MethodPut, systemConfigPath, nil, cfg)
}

// Health checks the backend's database connection endpoint. Any 2xx counts
// as healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, monitorPath+"/test-connection", nil, nil, nil)
}

func (c *Client) Metrics(ctx context.Context) (domain.Report, error) {
	return getJSON[domain.Report](ctx, c, monitorPath+"/metrics", nil)
}
