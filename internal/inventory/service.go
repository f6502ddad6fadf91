package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailpoint/posadmin-backend/pkg/db"
	"github.com/retailpoint/posadmin-backend/pkg/db/models"
	pkgerrors "github.com/retailpoint/posadmin-backend/pkg/errors"
)

// Service exposes inventory record management.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.InventoryRecord, error)
	SetLevels(ctx context.Context, recordID uuid.UUID, input UpdateInput) (*models.InventoryRecord, error)
	Delete(ctx context.Context, recordID uuid.UUID) error
	List(ctx context.Context, warehouseID *uuid.UUID) ([]models.InventoryRecord, error)
}

// CreateInput registers a product's stock in one warehouse.
type CreateInput struct {
	ProductID    uuid.UUID
	WarehouseID  uuid.UUID
	StockLevel   int
	ReorderPoint *int
}

// UpdateInput mutates stock or threshold on an existing row.
type UpdateInput struct {
	StockLevel   *int
	ReorderPoint *int
}

type service struct {
	repo *Repository
}

// NewService constructs an inventory service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.InventoryRecord, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.WarehouseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "warehouse id required")
	}
	if input.StockLevel < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock level cannot be negative")
	}

	record := &models.InventoryRecord{
		ProductID:   input.ProductID,
		WarehouseID: input.WarehouseID,
		StockLevel:  input.StockLevel,
	}
	if input.ReorderPoint != nil {
		if *input.ReorderPoint < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "reorder point cannot be negative")
		}
		record.ReorderPoint = *input.ReorderPoint
	} else {
		record.ReorderPoint = 10
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_inventory_product_warehouse") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "inventory row already exists for this product and warehouse")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert inventory record")
	}
	return created, nil
}

func (s *service) SetLevels(ctx context.Context, recordID uuid.UUID, input UpdateInput) (*models.InventoryRecord, error) {
	record, err := s.repo.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find inventory record")
	}

	if input.StockLevel != nil {
		if *input.StockLevel < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock level cannot be negative")
		}
		record.StockLevel = *input.StockLevel
	}
	if input.ReorderPoint != nil {
		if *input.ReorderPoint < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "reorder point cannot be negative")
		}
		record.ReorderPoint = *input.ReorderPoint
	}

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update inventory record")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, recordID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, recordID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find inventory record")
	}
	if err := s.repo.Delete(ctx, recordID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete inventory record")
	}
	return nil
}

func (s *service) List(ctx context.Context, warehouseID *uuid.UUID) ([]models.InventoryRecord, error) {
	records, err := s.repo.List(ctx, warehouseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list inventory records")
	}
	return records, nil
}
