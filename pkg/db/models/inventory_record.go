package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryRecord tracks the stock level of one product in one warehouse.
// At most one row exists per (product, warehouse) pair.
type InventoryRecord struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	ProductID    uuid.UUID  `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_inventory_product_warehouse"`
	WarehouseID  uuid.UUID  `gorm:"column:warehouse_id;type:uuid;not null;uniqueIndex:idx_inventory_product_warehouse"`
	Warehouse    *Warehouse `gorm:"foreignKey:WarehouseID"`
	StockLevel   int        `gorm:"column:stock_level;not null;default:0"`
	ReorderPoint int        `gorm:"column:reorder_point;not null;default:10"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *InventoryRecord) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
