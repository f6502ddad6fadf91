package sales

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailpoint/posadmin-backend/pkg/db/models"
)

// Repository persists settlement state: the transaction header, its items,
// and inventory deductions.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateTransaction inserts the header together with its items.
func (r *Repository) CreateTransaction(ctx context.Context, transaction *models.Transaction) (*models.Transaction, error) {
	if err := r.db.WithContext(ctx).Create(transaction).Error; err != nil {
		return nil, err
	}
	return transaction, nil
}

// ListInventoryForDeduction loads the product's inventory rows largest stock
// first, which is the order deduction walks them in.
func (r *Repository) ListInventoryForDeduction(ctx context.Context, productID uuid.UUID) ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("stock_level DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// SetStockLevel writes the new stock level for one inventory row.
func (r *Repository) SetStockLevel(ctx context.Context, recordID uuid.UUID, level int) error {
	return r.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Where("id = ?", recordID).
		Update("stock_level", level).Error
}

// TotalStock sums the product's stock across all warehouses.
func (r *Repository) TotalStock(ctx context.Context, productID uuid.UUID) (int, error) {
	var total *int
	err := r.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Where("product_id = ?", productID).
		Select("SUM(stock_level)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
