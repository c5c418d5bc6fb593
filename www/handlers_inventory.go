package www

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"ckmconsole/api"
	"ckmconsole/domain"
	"ckmconsole/rbac"
	"ckmconsole/view"
)

const inventoryActionStock = "stock"

func (h *Handlers) inventoryPages() *crudPage[domain.InventoryItem, view.InventoryForm] {
	return &crudPage[domain.InventoryItem, view.InventoryForm]{
		h:        h,
		path:     "/inventory",
		page:     "inventory.html",
		resource: rbac.ResourceInventory,
		domain:   "inventory",
		msgs:     view.Messages{Noun: "库存项目", LoadFailed: "加载库存数据失败"},
		source: func(c *api.Client) view.Source[domain.InventoryItem] {
			return view.Source[domain.InventoryItem]{
				List: c.ListInventory,
				Create: func(ctx context.Context, it *domain.InventoryItem) error {
					created, err := c.CreateInventoryItem(ctx, it)
					if err == nil {
						*it = *created
					}
					return err
				},
				Update: func(ctx context.Context, id int64, it *domain.InventoryItem) error {
					_, err := c.UpdateInventoryItem(ctx, id, it)
					return err
				},
				Delete: c.DeleteInventoryItem,
			}
		},
		get:     (*api.Client).GetInventoryItem,
		blank:   func() view.InventoryForm { return view.InventoryForm{} },
		from:    view.FromInventoryItem,
		entity:  view.InventoryForm.Entity,
		resolve: resolveInventoryAction,
		extra: func(r *http.Request, items []domain.InventoryItem, data map[string]any) {
			data["LowStock"] = domain.LowStock(items)
		},
	}
}

// resolveInventoryAction handles the inline stock adjustment, the only
// action an inventory row offers.
func resolveInventoryAction(_ context.Context, c *api.Client, id int64, name, _ string, form url.Values) (action, error) {
	if name != inventoryActionStock {
		return action{}, fmt.Errorf("%w: %s", domain.ErrInvalidTransition, name)
	}
	stock, err := view.ParseFinite(form.Get("currentStock"))
	if err != nil || stock < 0 {
		return action{}, &view.FormError{Fields: map[string]string{"currentStock": "请输入有效数字"}}
	}
	return action{done: "库存已调整", call: func(ctx context.Context) error {
		_, err := c.PatchInventoryItem(ctx, id, map[string]any{"currentStock": stock})
		return err
	}}, nil
}
