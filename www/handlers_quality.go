package www

import (
	"context"
	"log"
	"net/http"
	"net/url"

	"ckmconsole/api"
	"ckmconsole/domain"
	"ckmconsole/rbac"
	"ckmconsole/view"
)

func (h *Handlers) qualityPages() *crudPage[domain.QualityTrace, view.QualityForm] {
	return &crudPage[domain.QualityTrace, view.QualityForm]{
		h:        h,
		path:     "/quality",
		page:     "quality.html",
		resource: rbac.ResourceQuality,
		domain:   "quality",
		msgs:     view.Messages{Noun: "质量追溯记录", LoadFailed: "获取质量追溯记录失败"},
		source: func(c *api.Client) view.Source[domain.QualityTrace] {
			return view.Source[domain.QualityTrace]{
				List: c.ListQualityTraces,
				Create: func(ctx context.Context, q *domain.QualityTrace) error {
					created, err := c.CreateQualityTrace(ctx, q)
					if err == nil {
						*q = *created
					}
					return err
				},
				Update: func(ctx context.Context, id int64, q *domain.QualityTrace) error {
					_, err := c.UpdateQualityTrace(ctx, id, q)
					return err
				},
				Delete: c.DeleteQualityTrace,
			}
		},
		get:     (*api.Client).GetQualityTrace,
		blank:   func() view.QualityForm { return view.QualityForm{} },
		from:    view.FromQualityTrace,
		entity:  view.QualityForm.Entity,
		resolve: resolveQualityAction,
		extra: func(r *http.Request, items []domain.QualityTrace, data map[string]any) {
			data["Summary"] = domain.SummarizeQuality(items)
			expiring, err := h.client(r).ListExpiringSoon(r.Context())
			if err != nil {
				log.Printf("www: expiring traces: %v", err)
				return
			}
			data["Expiring"] = expiring
		},
	}
}

// resolveQualityAction sends every transition through the inspect
// endpoint with the target status as the result.
func resolveQualityAction(ctx context.Context, c *api.Client, id int64, name, actor string, form url.Values) (action, error) {
	q, err := c.GetQualityTrace(ctx, id)
	if err != nil {
		return action{}, err
	}
	tr, err := domain.QualityTransitions.Lookup(q.Status, name)
	if err != nil {
		return action{}, err
	}
	notes := form.Get("notes")
	return action{done: "检验结果已记录: " + tr.Label, call: func(ctx context.Context) error {
		_, err := c.InspectQualityTrace(ctx, id, actor, tr.Next, notes)
		return err
	}}, nil
}
