package api

import (
	"context"
	"net/http"
	"net/url"

	"ckmconsole/domain"
)

func (c *Client) ListQualityTraces(ctx context.Context) ([]domain.QualityTrace, error) {
	return getJSON[[]domain.QualityTrace](ctx, c, c.qualityPath, nil)
}

func (c *Client) GetQualityTrace(ctx context.Context, id int64) (*domain.QualityTrace, error) {
	return getJSON[*domain.QualityTrace](ctx, c, idPath(c.qualityPath, id), nil)
}

func (c *Client) CreateQualityTrace(ctx context.Context, q *domain.QualityTrace) (*domain.QualityTrace, error) {
	return sendJSON[*domain.QualityTrace](ctx, c, http.MethodPost, c.qualityPath, nil, q)
}

func (c *Client) UpdateQualityTrace(ctx context.Context, id int64, q *domain.QualityTrace) (*domain.QualityTrace, error) {
	return sendJSON[*domain.QualityTrace](ctx, c, http.MethodPut, idPath(c.qualityPath, id), nil, q)
}

func (c *Client) DeleteQualityTrace(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath(c.qualityPath, id), nil, nil, nil)
}

func (c *Client) ListQualityTracesByStatus(ctx context.Context, status domain.QualityStatus) ([]domain.QualityTrace, error) {
	return getJSON[[]domain.QualityTrace](ctx, c, c.qualityPath+"/status/"+url.PathEscape(string(status)), nil)
}

func (c *Client) ListExpiringSoon(ctx context.Context) ([]domain.QualityTrace, error) {
	return getJSON[[]domain.QualityTrace](ctx, c, c.qualityPath+"/expiring-soon", nil)
}

func (c *Client) ListExpired(ctx context.Context) ([]domain.QualityTrace, error) {
	return getJSON[[]domain.QualityTrace](ctx, c, c.qualityPath+"/expired", nil)
}

// InspectQualityTrace records an inspection; result is the new status.
func (c *Client) InspectQualityTrace(ctx context.Context, id int64, inspector string, result domain.QualityStatus, notes string) (*domain.QualityTrace, error) {
	q := url.Values{
		"inspector": {inspector},
		"result":    {string(result)},
	}
	if notes != "" {
		q.Set("notes", notes)
	}
	return sendJSON[*domain.QualityTrace](ctx, c, http.MethodPost, idPath(c.qualityPath, id, "inspect"), q, nil)
}
