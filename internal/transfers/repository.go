package transfers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailpoint/posadmin-backend/pkg/db/models"
)

// Repository persists stock transfers and the inventory rows they move.
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

// Create inserts the transfer together with its items.
func (r *Repository) Create(ctx context.Context, transfer *models.StockTransfer) (*models.StockTransfer, error) {
	if err := r.db.WithContext(ctx).Create(transfer).Error; err != nil {
		return nil, err
	}
	return transfer, nil
}

func (r *Repository) Update(ctx context.Context, transfer *models.StockTransfer) (*models.StockTransfer, error) {
	if err := r.db.WithContext(ctx).Save(transfer).Error; err != nil {
		return nil, err
	}
	return transfer, nil
}

// FindByID loads the transfer with items and both warehouses.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.StockTransfer, error) {
	var transfer models.StockTransfer
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("FromWarehouse").
		Preload("ToWarehouse").
		First(&transfer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

// List loads transfers newest first with warehouse joins.
func (r *Repository) List(ctx context.Context) ([]models.StockTransfer, error) {
	var transfers []models.StockTransfer
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("FromWarehouse").
		Preload("ToWarehouse").
		Order("created_at DESC").
		Find(&transfers).Error
	if err != nil {
		return nil, err
	}
	return transfers, nil
}

// FindInventory loads the row for one product in one warehouse, or nil when
// none exists.
func (r *Repository) FindInventory(ctx context.Context, productID, warehouseID uuid.UUID) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	err := r.db.WithContext(ctx).
		First(&record, "product_id = ? AND warehouse_id = ?", productID, warehouseID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// SetStockLevel writes the new stock level for one inventory row.
func (r *Repository) SetStockLevel(ctx context.Context, recordID uuid.UUID, level int) error {
	return r.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Where("id = ?", recordID).
		Update("stock_level", level).Error
}

// CreateInventory inserts a fresh inventory row at the destination.
func (r *Repository) CreateInventory(ctx context.Context, record *models.InventoryRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}
