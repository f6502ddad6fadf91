package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockTransferItem is one product line inside a stock transfer.
type StockTransferItem struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	StockTransferID uuid.UUID `gorm:"column:stock_transfer_id;type:uuid;not null"`
	ProductID       uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Quantity        int       `gorm:"column:quantity;not null"`
}

func (s *StockTransferItem) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
