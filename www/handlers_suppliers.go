package www

import (
	"context"
	"net/http"
	"net/url"

	"ckmconsole/api"
	"ckmconsole/domain"
	"ckmconsole/rbac"
	"ckmconsole/view"
)

const supplierActionRate = "rate"

func (h *Handlers) supplierPages() *crudPage[domain.Supplier, view.SupplierForm] {
	return &crudPage[domain.Supplier, view.SupplierForm]{
		h:        h,
		path:     "/suppliers",
		page:     "suppliers.html",
		resource: rbac.ResourceSuppliers,
		domain:   "suppliers",
		msgs:     view.Messages{Noun: "供应商", LoadFailed: "加载供应商数据失败"},
		source: func(c *api.Client) view.Source[domain.Supplier] {
			return view.Source[domain.Supplier]{
				List: c.ListSuppliers,
				Create: func(ctx context.Context, s *domain.Supplier) error {
					created, err := c.CreateSupplier(ctx, s)
					if err == nil {
						*s = *created
					}
					return err
				},
				Update: func(ctx context.Context, id int64, s *domain.Supplier) error {
					_, err := c.UpdateSupplier(ctx, id, s)
					return err
				},
				Delete: c.DeleteSupplier,
			}
		},
		get: (*api.Client).GetSupplier,
		blank: func() view.SupplierForm {
			return view.SupplierForm{QualityGrade: "A级"}
		},
		from:    view.FromSupplier,
		entity:  view.SupplierForm.Entity,
		resolve: resolveSupplierAction,
		extra: func(r *http.Request, items []domain.Supplier, data map[string]any) {
			counts := make(map[string]int)
			for _, s := range items {
				counts[string(s.Status)]++
			}
			data["StatusCounts"] = counts
		},
	}
}

func resolveSupplierAction(ctx context.Context, c *api.Client, id int64, name, _ string, form url.Values) (action, error) {
	if name == supplierActionRate {
		rating, err := view.ParseFinite(form.Get("rating"))
		if err != nil || rating < 0 || rating > 5 {
			return action{}, &view.FormError{Fields: map[string]string{"rating": "评分需在 0 到 5 之间"}}
		}
		return action{done: "供应商评分已更新", call: func(ctx context.Context) error {
			_, err := c.RateSupplier(ctx, id, rating)
			return err
		}}, nil
	}
	s, err := c.GetSupplier(ctx, id)
	if err != nil {
		return action{}, err
	}
	tr, err := domain.SupplierTransitions.Lookup(s.Status, name)
	if err != nil {
		return action{}, err
	}
	return action{done: "供应商状态已更新为" + domain.SupplierStatuses.Label(tr.Next), call: func(ctx context.Context) error {
		_, err := c.SetSupplierStatus(ctx, id, tr.Next)
		return err
	}}, nil
}
