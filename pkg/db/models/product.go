package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a sellable catalog entry.
type Product struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Name        string            `gorm:"column:name;not null"`
	SKU         string            `gorm:"column:sku;not null;uniqueIndex"`
	Price       decimal.Decimal   `gorm:"column:price;type:numeric(10,2);not null"`
	Barcode     *string           `gorm:"column:barcode"`
	CategoryID  *uuid.UUID        `gorm:"column:category_id;type:uuid"`
	Category    *Category         `gorm:"foreignKey:CategoryID"`
	Inventory   []InventoryRecord `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Description *string           `gorm:"column:description"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
