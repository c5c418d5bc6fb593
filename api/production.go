package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"ckmconsole/domain"
)

const (
	ordersPath    = "/api/production/orders"
	schedulesPath = "/api/production/schedules"
	statsPath     = "/api/production/stats"
)

func actor(key, name string) url.Values {
	return url.Values{key: {name}}
}

func (c *Client) ListOrders(ctx context.Context) ([]domain.ProductionOrder, error) {
	return getJSON[[]domain.ProductionOrder](ctx, c, ordersPath, nil)
}

func (c *Client) GetOrder(ctx context.Context, id int64) (*domain.ProductionOrder, error) {
	return getJSON[*domain.ProductionOrder](ctx, c, idPath(ordersPath, id), nil)
}

func (c *Client) CreateOrder(ctx context.Context, o *domain.ProductionOrder) (*domain.ProductionOrder, error) {
	return sendJSON[*domain.ProductionOrder](ctx, c, http.MethodPost, ordersPath, nil, o)
}

func (c *Client) UpdateOrder(ctx context.Context, id int64, o *domain.ProductionOrder) (*domain.ProductionOrder, error) {
	return sendJSON[*domain.ProductionOrder](ctx, c, http.MethodPut, idPath(ordersPath, id), nil, o)
}

// PatchOrder sends only the given fields.
func (c *Client) PatchOrder(ctx context.Context, id int64, fields map[string]any) (*domain.ProductionOrder, error) {
	return sendJSON[*domain.ProductionOrder](ctx, c, http.MethodPatch, idPath(ordersPath, id), nil, fields)
}

func (c *Client) DeleteOrder(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath(ordersPath, id), nil, nil, nil)
}

func (c *Client) ListOrdersByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.ProductionOrder, error) {
	return getJSON[[]domain.ProductionOrder](ctx, c, ordersPath+"/status/"+url.PathEscape(string(status)), nil)
}

func (c *Client) ListPendingOrders(ctx context.Context) ([]domain.ProductionOrder, error) {
	return getJSON[[]domain.ProductionOrder](ctx, c, ordersPath+"/pending", nil)
}

func (c *Client) ApproveOrder(ctx context.Context, id int64, approvedBy string) (*domain.ProductionOrder, error) {
	return sendJSON[*domain.ProductionOrder](ctx, c, http.MethodPost, idPath(ordersPath, id, "approve"), actor("approvedBy", approvedBy), nil)
}

func (c *Client) ScheduleOrder(ctx context.Context, id int64, scheduledDate time.Time, scheduledBy string) (*domain.ProductionOrder, error) {
	q := actor("scheduledBy", scheduledBy)
	q.Set("scheduledDate", scheduledDate.Format("2006-01-02T15:04:05"))
	return sendJSON[*domain.ProductionOrder](ctx, c, http.MethodPost, idPath(ordersPath, id, "schedule"), q, nil)
}

func (c *Client) CompleteOrder(ctx context.Context, id int64, completedBy string) (*domain.ProductionOrder, error) {
	return sendJSON[*domain.ProductionOrder](ctx, c, http.MethodPost, idPath(ordersPath, id, "complete"), actor("completedBy", completedBy), nil)
}

func (c *Client) ListSchedules(ctx context.Context) ([]domain.ProductionSchedule, error) {
	return getJSON[[]domain.ProductionSchedule](ctx, c, schedulesPath, nil)
}

func (c *Client) GetSchedule(ctx context.Context, id int64) (*domain.ProductionSchedule, error) {
	return getJSON[*domain.ProductionSchedule](ctx, c, idPath(schedulesPath, id), nil)
}

func (c *Client) CreateSchedule(ctx context.Context, s *domain.ProductionSchedule) (*domain.ProductionSchedule, error) {
	return sendJSON[*domain.ProductionSchedule](ctx, c, http.MethodPost, schedulesPath, nil, s)
}

func (c *Client) UpdateSchedule(ctx context.Context, id int64, s *domain.ProductionSchedule) (*domain.ProductionSchedule, error) {
	return sendJSON[*domain.ProductionSchedule](ctx, c, http.MethodPut, idPath(schedulesPath, id), nil, s)
}

func (c *Client) DeleteSchedule(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath(schedulesPath, id), nil, nil, nil)
}

func (c *Client) ListSchedulesByDate(ctx context.Context, date time.Time) ([]domain.ProductionSchedule, error) {
	return getJSON[[]domain.ProductionSchedule](ctx, c, schedulesPath+"/date/"+date.Format("2006-01-02"), nil)
}

func (c *Client) ListSchedulesByLineAndDate(ctx context.Context, line string, date time.Time) ([]domain.ProductionSchedule, error) {
	p := schedulesPath + "/line/" + url.PathEscape(line) + "/date/" + date.Format("2006-01-02")
	return getJSON[[]domain.ProductionSchedule](ctx, c, p, nil)
}

func (c *Client) ConfirmSchedule(ctx context.Context, id int64, confirmedBy string) (*domain.ProductionSchedule, error) {
	return sendJSON[*domain.ProductionSchedule](ctx, c, http.MethodPost, idPath(schedulesPath, id, "confirm"), actor("confirmedBy", confirmedBy), nil)
}

func (c *Client) StartSchedule(ctx context.Context, id int64, startedBy string) (*domain.ProductionSchedule, error) {
	return sendJSON[*domain.ProductionSchedule](ctx, c, http.MethodPost, idPath(schedulesPath, id, "start"), actor("startedBy", startedBy), nil)
}

func (c *Client) CompleteSchedule(ctx context.Context, id int64, completedBy string) (*domain.ProductionSchedule, error) {
	return sendJSON[*domain.ProductionSchedule](ctx, c, http.MethodPost, idPath(schedulesPath, id, "complete"), actor("completedBy", completedBy), nil)
}

func statsRange(start, end time.Time) url.Values {
	return url.Values{
		"startDate": {start.Format("2006-01-02T15:04:05")},
		"endDate":   {end.Format("2006-01-02T15:04:05")},
	}
}

// OrderStats returns the backend's order statistics for [start, end].
func (c *Client) OrderStats(ctx context.Context, start, end time.Time) (map[string]any, error) {
	return getJSON[map[string]any](ctx, c, statsPath+"/orders", statsRange(start, end))
}

func (c *Client) ScheduleStats(ctx context.Context, start, end time.Time) (map[string]any, error) {
	return getJSON[map[string]any](ctx, c, statsPath+"/schedules", statsRange(start, end))
}
