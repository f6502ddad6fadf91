package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailpoint/posadmin-backend/pkg/enums"
)

// StockTransfer moves inventory between two warehouses.
type StockTransfer struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	TransferNumber  string              `gorm:"column:transfer_number;not null"`
	FromWarehouseID uuid.UUID           `gorm:"column:from_warehouse_id;type:uuid;not null"`
	ToWarehouseID   uuid.UUID           `gorm:"column:to_warehouse_id;type:uuid;not null"`
	FromWarehouse   *Warehouse          `gorm:"foreignKey:FromWarehouseID"`
	ToWarehouse     *Warehouse          `gorm:"foreignKey:ToWarehouseID"`
	Status          enums.TransferStatus `gorm:"column:status;type:text;not null;default:pending"`
	Notes           *string             `gorm:"column:notes"`
	Items           []StockTransferItem `gorm:"foreignKey:StockTransferID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *StockTransfer) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
