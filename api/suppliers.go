package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"ckmconsole/domain"
)

const suppliersPath = "/api/suppliers"

func (c *Client) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	return getJSON[[]domain.Supplier](ctx, c, suppliersPath, nil)
}

func (c *Client) ListActiveSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	return getJSON[[]domain.Supplier](ctx, c, suppliersPath+"/active", nil)
}

func (c *Client) TopRatedSuppliers(ctx context.Context, limit int) ([]domain.Supplier, error) {
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	return getJSON[[]domain.Supplier](ctx, c, suppliersPath+"/top-rated", q)
}

func (c *Client) GetSupplier(ctx context.Context, id int64) (*domain.Supplier, error) {
	return getJSON[*domain.Supplier](ctx, c, idPath(suppliersPath, id), nil)
}

func (c *Client) CreateSupplier(ctx context.Context, s *domain.Supplier) (*domain.Supplier, error) {
	return sendJSON[*domain.Supplier](ctx, c, http.MethodPost, suppliersPath, nil, s)
}

func (c *Client) UpdateSupplier(ctx context.Context, id int64, s *domain.Supplier) (*domain.Supplier, error) {
	return sendJSON[*domain.Supplier](ctx, c, http.MethodPut, idPath(suppliersPath, id), nil, s)
}

func (c *Client) DeleteSupplier(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath(suppliersPath, id), nil, nil, nil)
}

func (c *Client) RateSupplier(ctx context.Context, id int64, rating float64) (*domain.Supplier, error) {
	q := url.Values{"rating": {strconv.FormatFloat(rating, 'f', -1, 64)}}
	return sendJSON[*domain.Supplier](ctx, c, http.MethodPost, idPath(suppliersPath, id, "rate"), q, nil)
}

func (c *Client) SetSupplierStatus(ctx context.Context, id int64, status domain.SupplierStatus) (*domain.Supplier, error) {
	q := url.Values{"status": {string(status)}}
	return sendJSON[*domain.Supplier](ctx, c, http.MethodPost, idPath(suppliersPath, id, "status"), q, nil)
}

func (c *Client) SupplierPerformanceReport(ctx context.Context) (domain.Report, error) {
	return getJSON[domain.Report](ctx, c, suppliersPath+"/performance-report", nil)
}
