package api

import (
	"context"
	"net/http"

	"ckmconsole/domain"
)

const inventoryPath = "/api/inventory"

func (c *Client) ListInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	return getJSON[[]domain.InventoryItem](ctx, c, inventoryPath, nil)
}

func (c *Client) ListLowStock(ctx context.Context) ([]domain.InventoryItem, error) {
	return getJSON[[]domain.InventoryItem](ctx, c, inventoryPath+"/low-stock", nil)
}

func (c *Client) GetInventoryItem(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	return getJSON[*domain.InventoryItem](ctx, c, idPath(inventoryPath, id), nil)
}

func (c *Client) CreateInventoryItem(ctx context.Context, it *domain.InventoryItem) (*domain.InventoryItem, error) {
	return sendJSON[*domain.InventoryItem](ctx, c, http.MethodPost, inventoryPath, nil, it)
}

func (c *Client) UpdateInventoryItem(ctx context.Context, id int64, it *domain.InventoryItem) (*domain.InventoryItem, error) {
	return sendJSON[*domain.InventoryItem](ctx, c, http.MethodPut, idPath(inventoryPath, id), nil, it)
}

// PatchInventoryItem sends only the given fields, e.g. a stock adjustment.
func (c *Client) PatchInventoryItem(ctx context.Context, id int64, fields map[string]any) (*domain.InventoryItem, error) {
	return sendJSON[*domain.InventoryItem](ctx, c, http.MethodPatch, idPath(inventoryPath, id), nil, fields)
}

func (c *Client) DeleteInventoryItem(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath(inventoryPath, id), nil, nil, nil)
}
