package domain

type StockStatus string

const (
	StockLow    StockStatus = "LOW"
	StockNormal StockStatus = "NORMAL"
	StockHigh   StockStatus = "HIGH"
)

type InventoryItem struct {
	ID           int64       `json:"id,omitempty"`
	Name         string      `json:"name"`
	Category     string      `json:"category"`
	CurrentStock float64     `json:"currentStock"`
	MinStock     float64     `json:"minStock"`
	MaxStock     float64     `json:"maxStock"`
	Unit         string      `json:"unit"`
	Status       StockStatus `json:"status,omitempty"`
	LastUpdated  Date        `json:"lastUpdated"`
}

func (i InventoryItem) RecordID() int64 { return i.ID }

var StockStatuses = StatusTable[StockStatus]{
	StockLow:    {Label: "库存不足", Color: ColorError},
	StockNormal: {Label: "库存正常", Color: ColorSuccess},
	StockHigh:   {Label: "库存充足", Color: ColorWarning},
}

// LowStock returns the items the backend flagged LOW, in list order.
func LowStock(items []InventoryItem) []InventoryItem {
	var low []InventoryItem
	for _, it := range items {
		if it.Status == StockLow {
			low = append(low, it)
		}
	}
	return low
}
