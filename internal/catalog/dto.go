package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpoint/posadmin-backend/pkg/db/models"
	"github.com/retailpoint/posadmin-backend/pkg/enums"
)

// UncategorizedName labels products that have no category assigned.
const UncategorizedName = "Uncategorized"

// defaultReorderPoint applies when a product has no inventory rows to read a
// threshold from.
const defaultReorderPoint = 10

// StockLine is one warehouse's share of a product's stock.
type StockLine struct {
	WarehouseID   uuid.UUID `json:"warehouse_id"`
	WarehouseName string    `json:"warehouse_name,omitempty"`
	StockLevel    int       `json:"stock_level"`
	ReorderPoint  int       `json:"reorder_point"`
}

// ProductView is the catalog read model served to the terminal.
type ProductView struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	SKU          string            `json:"sku"`
	Price        decimal.Decimal   `json:"price"`
	Barcode      *string           `json:"barcode,omitempty"`
	CategoryName string            `json:"category_name"`
	TotalStock   int               `json:"total_stock"`
	Status       enums.StockStatus `json:"status"`
	Inventory    []StockLine       `json:"inventory"`
}

// BuildProductView derives the read model for one product. Total stock is the
// sum of all warehouse rows; the low-stock threshold comes from the first
// inventory row only.
func BuildProductView(product models.Product) ProductView {
	view := ProductView{
		ID:           product.ID,
		Name:         product.Name,
		SKU:          product.SKU,
		Price:        product.Price,
		Barcode:      product.Barcode,
		CategoryName: UncategorizedName,
	}
	if product.Category != nil && product.Category.Name != "" {
		view.CategoryName = product.Category.Name
	}

	total := 0
	threshold := defaultReorderPoint
	for i, record := range product.Inventory {
		total += record.StockLevel
		if i == 0 {
			threshold = record.ReorderPoint
		}
		line := StockLine{
			WarehouseID:  record.WarehouseID,
			StockLevel:   record.StockLevel,
			ReorderPoint: record.ReorderPoint,
		}
		if record.Warehouse != nil {
			line.WarehouseName = record.Warehouse.Name
		}
		view.Inventory = append(view.Inventory, line)
	}

	view.TotalStock = total
	view.Status = enums.DeriveStockStatus(total, threshold)
	return view
}
