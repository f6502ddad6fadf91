package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/retailpoint/posadmin-backend/pkg/enums"
)

// Transaction is the immutable header of a completed sale. Rows are written
// once by checkout settlement and never updated.
type Transaction struct {
	ID                uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	TransactionNumber string                  `gorm:"column:transaction_number;not null"`
	UserID            uuid.UUID               `gorm:"column:user_id;type:uuid;not null"`
	PaymentMethod     enums.PaymentMethod     `gorm:"column:payment_method;type:text;not null"`
	Status            enums.TransactionStatus `gorm:"column:status;type:text;not null"`
	Subtotal          decimal.Decimal         `gorm:"column:subtotal;type:numeric(10,2);not null"`
	TaxAmount         decimal.Decimal         `gorm:"column:tax_amount;type:numeric(10,2);not null"`
	TotalAmount       decimal.Decimal         `gorm:"column:total_amount;type:numeric(10,2);not null"`
	CustomerName      string                  `gorm:"column:customer_name;not null"`
	Items             []TransactionItem       `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime"`
}

func (t *Transaction) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
