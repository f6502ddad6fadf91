package warehouses

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/retailpoint/posadmin-backend/pkg/db/models"
	"github.com/retailpoint/posadmin-backend/pkg/enums"
	pkgerrors "github.com/retailpoint/posadmin-backend/pkg/errors"
)

func setupWarehousesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:warehouses_%s?mode=memory&cache=shared", uuid.NewString())
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

func newWarehousesService(t *testing.T, gdb *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(gdb))
	require.NoError(t, err)
	return svc
}

func TestDeleteWarehouseBlockedByInventory(t *testing.T) {
	gdb := setupWarehousesTestDB(t)
	svc := newWarehousesService(t, gdb)
	ctx := context.Background()

	warehouse, err := svc.Create(ctx, WarehouseInput{Name: "Main", Location: "Downtown"})
	require.NoError(t, err)

	product := &models.Product{Name: "P", SKU: "SKU-1", Price: decimal.NewFromInt(1)}
	require.NoError(t, gdb.Create(product).Error)
	require.NoError(t, gdb.Create(&models.InventoryRecord{
		ProductID:   product.ID,
		WarehouseID: warehouse.ID,
		StockLevel:  3,
	}).Error)

	err = svc.Delete(ctx, warehouse.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	// warehouse untouched
	var count int64
	require.NoError(t, gdb.Model(&models.Warehouse{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteWarehouseBlockedByStockTransfers(t *testing.T) {
	gdb := setupWarehousesTestDB(t)
	svc := newWarehousesService(t, gdb)
	ctx := context.Background()

	from, err := svc.Create(ctx, WarehouseInput{Name: "From", Location: "A"})
	require.NoError(t, err)
	to, err := svc.Create(ctx, WarehouseInput{Name: "To", Location: "B"})
	require.NoError(t, err)

	require.NoError(t, gdb.Create(&models.StockTransfer{
		TransferNumber:  "TR-000001",
		FromWarehouseID: from.ID,
		ToWarehouseID:   to.ID,
		Status:          enums.TransferStatusCompleted,
	}).Error)

	for _, id := range []uuid.UUID{from.ID, to.ID} {
		err = svc.Delete(ctx, id)
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	}
}

func TestDeleteUnreferencedWarehouseSucceeds(t *testing.T) {
	gdb := setupWarehousesTestDB(t)
	svc := newWarehousesService(t, gdb)
	ctx := context.Background()

	warehouse, err := svc.Create(ctx, WarehouseInput{Name: "Spare", Location: "Uptown"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, warehouse.ID))

	var count int64
	require.NoError(t, gdb.Model(&models.Warehouse{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCreateWarehouseValidation(t *testing.T) {
	svc := newWarehousesService(t, setupWarehousesTestDB(t))

	_, err := svc.Create(context.Background(), WarehouseInput{Name: "", Location: "X"})
	require.Error(t, err)

	_, err = svc.Create(context.Background(), WarehouseInput{Name: "X", Location: "  "})
	require.Error(t, err)
}
