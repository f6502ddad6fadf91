package transfers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/retailpoint/posadmin-backend/pkg/db"
	"github.com/retailpoint/posadmin-backend/pkg/db/models"
	"github.com/retailpoint/posadmin-backend/pkg/enums"
	pkgerrors "github.com/retailpoint/posadmin-backend/pkg/errors"
)

func setupTransfersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:transfers_%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(
		&models.Product{},
		&models.Warehouse{},
		&models.InventoryRecord{},
		&models.StockTransfer{},
		&models.StockTransferItem{},
	))
	return gdb
}

type transferFixture struct {
	svc       Service
	gdb       *gorm.DB
	product   *models.Product
	from, to  *models.Warehouse
	sourceRow *models.InventoryRecord
}

func newTransferFixture(t *testing.T, sourceStock int) *transferFixture {
	t.Helper()
	gdb := setupTransfersTestDB(t)
	svc, err := NewService(NewRepository(gdb), db.NewFromGorm(gdb))
	require.NoError(t, err)

	product := &models.Product{Name: "P", SKU: "SKU-" + uuid.NewString(), Price: decimal.NewFromInt(1)}
	require.NoError(t, gdb.Create(product).Error)
	from := &models.Warehouse{Name: "From", Location: "A"}
	require.NoError(t, gdb.Create(from).Error)
	to := &models.Warehouse{Name: "To", Location: "B"}
	require.NoError(t, gdb.Create(to).Error)

	sourceRow := &models.InventoryRecord{
		ProductID:   product.ID,
		WarehouseID: from.ID,
		StockLevel:  sourceStock,
	}
	require.NoError(t, gdb.Create(sourceRow).Error)

	return &transferFixture{svc: svc, gdb: gdb, product: product, from: from, to: to, sourceRow: sourceRow}
}

func (f *transferFixture) stock(t *testing.T, warehouseID uuid.UUID) int {
	t.Helper()
	var record models.InventoryRecord
	err := f.gdb.First(&record, "product_id = ? AND warehouse_id = ?", f.product.ID, warehouseID).Error
	if err == gorm.ErrRecordNotFound {
		return 0
	}
	require.NoError(t, err)
	return record.StockLevel
}

func TestTransferNumberFormat(t *testing.T) {
	at := time.UnixMilli(1756400123456)
	assert.Equal(t, "TR-123456", TransferNumber(at))
}

func TestCreateTransferValidation(t *testing.T) {
	f := newTransferFixture(t, 10)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateInput{
		FromWarehouseID: f.from.ID,
		ToWarehouseID:   f.from.ID,
		Items:           []TransferItemInput{{ProductID: f.product.ID, Quantity: 1}},
	})
	require.Error(t, err)

	_, err = f.svc.Create(ctx, CreateInput{
		FromWarehouseID: f.from.ID,
		ToWarehouseID:   f.to.ID,
	})
	require.Error(t, err)

	_, err = f.svc.Create(ctx, CreateInput{
		FromWarehouseID: f.from.ID,
		ToWarehouseID:   f.to.ID,
		Items:           []TransferItemInput{{ProductID: f.product.ID, Quantity: 0}},
	})
	require.Error(t, err)
}

func TestExecuteTransferMovesStock(t *testing.T) {
	f := newTransferFixture(t, 10)
	ctx := context.Background()

	transfer, err := f.svc.Create(ctx, CreateInput{
		FromWarehouseID: f.from.ID,
		ToWarehouseID:   f.to.ID,
		Items:           []TransferItemInput{{ProductID: f.product.ID, Quantity: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, enums.TransferStatusPending, transfer.Status)

	executed, err := f.svc.Execute(ctx, transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.TransferStatusCompleted, executed.Status)

	assert.Equal(t, 6, f.stock(t, f.from.ID))
	assert.Equal(t, 4, f.stock(t, f.to.ID))
}

func TestExecuteTransferAddsToExistingDestinationRow(t *testing.T) {
	f := newTransferFixture(t, 10)
	ctx := context.Background()

	require.NoError(t, f.gdb.Create(&models.InventoryRecord{
		ProductID:   f.product.ID,
		WarehouseID: f.to.ID,
		StockLevel:  3,
	}).Error)

	transfer, err := f.svc.Create(ctx, CreateInput{
		FromWarehouseID: f.from.ID,
		ToWarehouseID:   f.to.ID,
		Items:           []TransferItemInput{{ProductID: f.product.ID, Quantity: 5}},
	})
	require.NoError(t, err)

	_, err = f.svc.Execute(ctx, transfer.ID)
	require.NoError(t, err)

	assert.Equal(t, 5, f.stock(t, f.from.ID))
	assert.Equal(t, 8, f.stock(t, f.to.ID))
}

func TestExecuteTransferInsufficientStockRollsBack(t *testing.T) {
	f := newTransferFixture(t, 2)
	ctx := context.Background()

	transfer, err := f.svc.Create(ctx, CreateInput{
		FromWarehouseID: f.from.ID,
		ToWarehouseID:   f.to.ID,
		Items:           []TransferItemInput{{ProductID: f.product.ID, Quantity: 5}},
	})
	require.NoError(t, err)

	_, err = f.svc.Execute(ctx, transfer.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	// nothing moved, still pending
	assert.Equal(t, 2, f.stock(t, f.from.ID))
	assert.Equal(t, 0, f.stock(t, f.to.ID))

	reloaded, err := f.svc.Get(ctx, transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.TransferStatusPending, reloaded.Status)
}

func TestExecuteTransferTwiceRejected(t *testing.T) {
	f := newTransferFixture(t, 10)
	ctx := context.Background()

	transfer, err := f.svc.Create(ctx, CreateInput{
		FromWarehouseID: f.from.ID,
		ToWarehouseID:   f.to.ID,
		Items:           []TransferItemInput{{ProductID: f.product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.svc.Execute(ctx, transfer.ID)
	require.NoError(t, err)

	_, err = f.svc.Execute(ctx, transfer.ID)
	require.Error(t, err)
}

func TestCancelPendingTransfer(t *testing.T) {
	f := newTransferFixture(t, 10)
	ctx := context.Background()

	transfer, err := f.svc.Create(ctx, CreateInput{
		FromWarehouseID: f.from.ID,
		ToWarehouseID:   f.to.ID,
		Items:           []TransferItemInput{{ProductID: f.product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.TransferStatusCancelled, cancelled.Status)

	// stock untouched
	assert.Equal(t, 10, f.stock(t, f.from.ID))
}
