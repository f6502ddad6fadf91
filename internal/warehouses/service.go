package warehouses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailpoint/posadmin-backend/pkg/db/models"
	pkgerrors "github.com/retailpoint/posadmin-backend/pkg/errors"
)

// Service exposes warehouse management.
type Service interface {
	Create(ctx context.Context, input WarehouseInput) (*models.Warehouse, error)
	Update(ctx context.Context, warehouseID uuid.UUID, input WarehouseInput) (*models.Warehouse, error)
	Delete(ctx context.Context, warehouseID uuid.UUID) error
	List(ctx context.Context) ([]models.Warehouse, error)
	Get(ctx context.Context, warehouseID uuid.UUID) (*models.Warehouse, error)
}

// WarehouseInput carries the mutable warehouse fields.
type WarehouseInput struct {
	Name         string
	Location     string
	ContactEmail *string
	ContactPhone *string
}

type service struct {
	repo *Repository
}

// NewService constructs a warehouse service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("warehouses repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input WarehouseInput) (*models.Warehouse, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	warehouse := &models.Warehouse{
		Name:         strings.TrimSpace(input.Name),
		Location:     strings.TrimSpace(input.Location),
		ContactEmail: input.ContactEmail,
		ContactPhone: input.ContactPhone,
	}
	created, err := s.repo.Create(ctx, warehouse)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert warehouse")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, warehouseID uuid.UUID, input WarehouseInput) (*models.Warehouse, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	warehouse, err := s.repo.FindByID(ctx, warehouseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find warehouse")
	}

	warehouse.Name = strings.TrimSpace(input.Name)
	warehouse.Location = strings.TrimSpace(input.Location)
	if input.ContactEmail != nil {
		warehouse.ContactEmail = input.ContactEmail
	}
	if input.ContactPhone != nil {
		warehouse.ContactPhone = input.ContactPhone
	}

	updated, err := s.repo.Update(ctx, warehouse)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update warehouse")
	}
	return updated, nil
}

// Delete refuses when any inventory row or stock transfer still references
// the warehouse. The pre-checks run before any delete is issued, so a refusal
// leaves the database untouched.
func (s *service) Delete(ctx context.Context, warehouseID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, warehouseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find warehouse")
	}

	inventoryCount, err := s.repo.CountInventoryRecords(ctx, warehouseID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count warehouse inventory")
	}
	if inventoryCount > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "warehouse still holds inventory").WithDetails(map[string]any{
			"inventory_records": inventoryCount,
		})
	}

	transferCount, err := s.repo.CountStockTransfers(ctx, warehouseID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count warehouse transfers")
	}
	if transferCount > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "warehouse is referenced by stock transfers").WithDetails(map[string]any{
			"stock_transfers": transferCount,
		})
	}

	if err := s.repo.Delete(ctx, warehouseID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete warehouse")
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]models.Warehouse, error) {
	warehouses, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list warehouses")
	}
	return warehouses, nil
}

func (s *service) Get(ctx context.Context, warehouseID uuid.UUID) (*models.Warehouse, error) {
	warehouse, err := s.repo.FindByID(ctx, warehouseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find warehouse")
	}
	return warehouse, nil
}

func validateInput(input WarehouseInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "warehouse name is required")
	}
	if strings.TrimSpace(input.Location) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "warehouse location is required")
	}
	return nil
}
