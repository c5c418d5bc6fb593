package www

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"ckmconsole/api"
	"ckmconsole/domain"
	"ckmconsole/rbac"
	"ckmconsole/view"
)

func (h *Handlers) orderPages() *crudPage[domain.ProductionOrder, view.OrderForm] {
	return &crudPage[domain.ProductionOrder, view.OrderForm]{
		h:        h,
		path:     "/production/orders",
		tab:      "orders",
		page:     "production.html",
		resource: rbac.ResourceProduction,
		domain:   "production",
		msgs:     view.Messages{Noun: "订单", LoadFailed: "加载生产订单失败"},
		source: func(c *api.Client) view.Source[domain.ProductionOrder] {
			return view.Source[domain.ProductionOrder]{
				List: c.ListOrders,
				Create: func(ctx context.Context, o *domain.ProductionOrder) error {
					created, err := c.CreateOrder(ctx, o)
					if err == nil {
						*o = *created
					}
					return err
				},
				Update: func(ctx context.Context, id int64, o *domain.ProductionOrder) error {
					_, err := c.UpdateOrder(ctx, id, o)
					return err
				},
				Delete: c.DeleteOrder,
			}
		},
		get:     (*api.Client).GetOrder,
		blank:   view.NewOrderForm,
		from:    view.FromOrder,
		entity:  view.OrderForm.Entity,
		resolve: resolveOrderAction,
		extra: func(r *http.Request, items []domain.ProductionOrder, data map[string]any) {
			data["Counts"] = domain.CountOrders(items)
			data["DefaultScheduleDate"] = time.Now().Add(24 * time.Hour).Format("2006-01-02T15:04")
		},
	}
}

func resolveOrderAction(ctx context.Context, c *api.Client, id int64, name, actor string, form url.Values) (action, error) {
	o, err := c.GetOrder(ctx, id)
	if err != nil {
		return action{}, err
	}
	tr, err := domain.OrderTransitions.Lookup(o.Status, name)
	if err != nil {
		return action{}, err
	}
	switch tr.Action {
	case domain.OrderActionApprove:
		return action{done: "订单已批准", call: func(ctx context.Context) error {
			_, err := c.ApproveOrder(ctx, id, actor)
			return err
		}}, nil
	case domain.OrderActionSchedule:
		when, err := domain.ParseTime(form.Get("scheduledDate"))
		if err != nil || when.IsZero() {
			when = time.Now().Add(24 * time.Hour)
		}
		return action{done: "订单已排程", call: func(ctx context.Context) error {
			_, err := c.ScheduleOrder(ctx, id, when, actor)
			return err
		}}, nil
	default:
		return action{done: "订单已完成", call: func(ctx context.Context) error {
			_, err := c.CompleteOrder(ctx, id, actor)
			return err
		}}, nil
	}
}

func (h *Handlers) schedulePages() *crudPage[domain.ProductionSchedule, view.ScheduleForm] {
	return &crudPage[domain.ProductionSchedule, view.ScheduleForm]{
		h:        h,
		path:     "/production/schedules",
		tab:      "schedules",
		page:     "production.html",
		resource: rbac.ResourceProduction,
		domain:   "schedules",
		msgs:     view.Messages{Noun: "排程", LoadFailed: "加载生产排程失败"},
		source: func(c *api.Client) view.Source[domain.ProductionSchedule] {
			return view.Source[domain.ProductionSchedule]{
				List: c.ListSchedules,
				Create: func(ctx context.Context, s *domain.ProductionSchedule) error {
					created, err := c.CreateSchedule(ctx, s)
					if err == nil {
						*s = *created
					}
					return err
				},
				Update: func(ctx context.Context, id int64, s *domain.ProductionSchedule) error {
					_, err := c.UpdateSchedule(ctx, id, s)
					return err
				},
				Delete: c.DeleteSchedule,
			}
		},
		get:     (*api.Client).GetSchedule,
		blank:   func() view.ScheduleForm { return view.ScheduleForm{} },
		from:    view.FromSchedule,
		entity:  view.ScheduleForm.Entity,
		resolve: resolveScheduleAction,
	}
}

func resolveScheduleAction(ctx context.Context, c *api.Client, id int64, name, actor string, _ url.Values) (action, error) {
	s, err := c.GetSchedule(ctx, id)
	if err != nil {
		return action{}, err
	}
	tr, err := domain.ScheduleTransitions.Lookup(s.Status, name)
	if err != nil {
		return action{}, err
	}
	var call func(context.Context, int64, string) (*domain.ProductionSchedule, error)
	done := "排程已完成"
	switch tr.Action {
	case domain.ScheduleActionConfirm:
		call, done = c.ConfirmSchedule, "排程已确认"
	case domain.ScheduleActionStart:
		call, done = c.StartSchedule, "排程已开始"
	default:
		call = c.CompleteSchedule
	}
	return action{done: done, call: func(ctx context.Context) error {
		_, err := call(ctx, id, actor)
		return err
	}}, nil
}

func (h *Handlers) standardPages() *crudPage[domain.ProductionStandard, view.StandardForm] {
	return &crudPage[domain.ProductionStandard, view.StandardForm]{
		h:        h,
		path:     "/production/standards",
		tab:      "standards",
		page:     "production.html",
		resource: rbac.ResourceProduction,
		domain:   "standards",
		msgs:     view.Messages{Noun: "生产标准", LoadFailed: "加载生产标准失败"},
		source: func(c *api.Client) view.Source[domain.ProductionStandard] {
			return view.Source[domain.ProductionStandard]{
				List: c.ListStandards,
				Create: func(ctx context.Context, s *domain.ProductionStandard) error {
					created, err := c.CreateStandard(ctx, s)
					if err == nil {
						*s = *created
					}
					return err
				},
				Update: func(ctx context.Context, id int64, s *domain.ProductionStandard) error {
					_, err := c.UpdateStandard(ctx, id, s)
					return err
				},
				Delete: c.DeleteStandard,
			}
		},
		get: (*api.Client).GetStandard,
		blank: func() view.StandardForm {
			return view.StandardForm{Status: string(domain.StandardActive)}
		},
		from:   view.FromStandard,
		entity: view.StandardForm.Entity,
	}
}
