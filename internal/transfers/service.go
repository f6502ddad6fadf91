package transfers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailpoint/posadmin-backend/pkg/db"
	"github.com/retailpoint/posadmin-backend/pkg/db/models"
	"github.com/retailpoint/posadmin-backend/pkg/enums"
	pkgerrors "github.com/retailpoint/posadmin-backend/pkg/errors"
)

// TransferItemInput is one product line on a transfer.
type TransferItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateInput opens a new pending transfer.
type CreateInput struct {
	FromWarehouseID uuid.UUID
	ToWarehouseID   uuid.UUID
	Notes           *string
	Items           []TransferItemInput
}

// Service exposes stock transfer management.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.StockTransfer, error)
	Execute(ctx context.Context, transferID uuid.UUID) (*models.StockTransfer, error)
	Cancel(ctx context.Context, transferID uuid.UUID) (*models.StockTransfer, error)
	List(ctx context.Context) ([]models.StockTransfer, error)
	Get(ctx context.Context, transferID uuid.UUID) (*models.StockTransfer, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	now      func() time.Time
}

// NewService constructs a transfer service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("transfers repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient, now: time.Now}, nil
}

// TransferNumber derives the transfer number the same way receipts are
// numbered: "TR-" plus the last six digits of unix milliseconds.
func TransferNumber(at time.Time) string {
	millis := fmt.Sprintf("%d", at.UnixMilli())
	if len(millis) > 6 {
		millis = millis[len(millis)-6:]
	}
	return "TR-" + millis
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.StockTransfer, error) {
	if input.FromWarehouseID == uuid.Nil || input.ToWarehouseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "both warehouses are required")
	}
	if input.FromWarehouseID == input.ToWarehouseID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "source and destination must differ")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transfer needs at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
	}

	transfer := &models.StockTransfer{
		TransferNumber:  TransferNumber(s.now()),
		FromWarehouseID: input.FromWarehouseID,
		ToWarehouseID:   input.ToWarehouseID,
		Status:          enums.TransferStatusPending,
		Notes:           input.Notes,
	}
	for _, item := range input.Items {
		transfer.Items = append(transfer.Items, models.StockTransferItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	created, err := s.repo.Create(ctx, transfer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert stock transfer")
	}
	return created, nil
}

// Execute moves the stock: each item is deducted at the source and added at
// the destination, creating destination rows as needed. The whole movement
// and the status flip commit in one database transaction.
func (s *service) Execute(ctx context.Context, transferID uuid.UUID) (*models.StockTransfer, error) {
	transfer, err := s.loadTransfer(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transfer.Status != enums.TransferStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "transfer is not pending").WithDetails(map[string]any{
			"status": transfer.Status.String(),
		})
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		for _, item := range transfer.Items {
			source, err := txRepo.FindInventory(ctx, item.ProductID, transfer.FromWarehouseID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find source inventory")
			}
			if source == nil || source.StockLevel < item.Quantity {
				available := 0
				if source != nil {
					available = source.StockLevel
				}
				return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock at source warehouse").WithDetails(map[string]any{
					"product_id": item.ProductID.String(),
					"requested":  item.Quantity,
					"available":  available,
				})
			}

			if err := txRepo.SetStockLevel(ctx, source.ID, source.StockLevel-item.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deduct source inventory")
			}

			dest, err := txRepo.FindInventory(ctx, item.ProductID, transfer.ToWarehouseID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find destination inventory")
			}
			if dest == nil {
				record := &models.InventoryRecord{
					ProductID:    item.ProductID,
					WarehouseID:  transfer.ToWarehouseID,
					StockLevel:   item.Quantity,
					ReorderPoint: source.ReorderPoint,
				}
				if err := txRepo.CreateInventory(ctx, record); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create destination inventory")
				}
				continue
			}
			if err := txRepo.SetStockLevel(ctx, dest.ID, dest.StockLevel+item.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: add destination inventory")
			}
		}

		transfer.Status = enums.TransferStatusCompleted
		if _, err := txRepo.Update(ctx, transfer); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update transfer status")
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: execute transfer")
	}

	return transfer, nil
}

func (s *service) Cancel(ctx context.Context, transferID uuid.UUID) (*models.StockTransfer, error) {
	transfer, err := s.loadTransfer(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transfer.Status != enums.TransferStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "only pending transfers can be cancelled")
	}

	transfer.Status = enums.TransferStatusCancelled
	updated, err := s.repo.Update(ctx, transfer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: cancel transfer")
	}
	return updated, nil
}

func (s *service) List(ctx context.Context) ([]models.StockTransfer, error) {
	transfers, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list transfers")
	}
	return transfers, nil
}

func (s *service) Get(ctx context.Context, transferID uuid.UUID) (*models.StockTransfer, error) {
	return s.loadTransfer(ctx, transferID)
}

func (s *service) loadTransfer(ctx context.Context, transferID uuid.UUID) (*models.StockTransfer, error) {
	transfer, err := s.repo.FindByID(ctx, transferID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transfer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find transfer")
	}
	return transfer, nil
}
