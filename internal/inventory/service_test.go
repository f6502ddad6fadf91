package inventory

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
	pkgerrors "github.com/retailpoint/posadmin-backend/pkg/errors"
)

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:inventory_%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(
		&models.Product{},
		&models.Warehouse{},
		&models.InventoryRecord{},
	))
	return gdb
}

func seedProductAndWarehouse(t *testing.T, gdb *gorm.DB) (uuid.UUID, uuid.UUID) {
	t.Helper()
	product := &models.Product{Name: "P", SKU: "SKU-" + uuid.NewString(), Price: decimal.NewFromInt(1)}
	require.NoError(t, gdb.Create(product).Error)
	warehouse := &models.Warehouse{Name: "WH", Location: "Here"}
	require.NoError(t, gdb.Create(warehouse).Error)
	return product.ID, warehouse.ID
}

func TestCreateInventoryDefaultsReorderPoint(t *testing.T) {
	gdb := setupInventoryTestDB(t)
	svc, err := NewService(NewRepository(gdb))
	require.NoError(t, err)

	productID, warehouseID := seedProductAndWarehouse(t, gdb)
	record, err := svc.Create(context.Background(), CreateInput{
		ProductID:   productID,
		WarehouseID: warehouseID,
		StockLevel:  25,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, record.ReorderPoint)
	assert.Equal(t, 25, record.StockLevel)
}

func TestCreateInventoryRejectsDuplicatePair(t *testing.T) {
	gdb := setupInventoryTestDB(t)
	svc, err := NewService(NewRepository(gdb))
	require.NoError(t, err)
	ctx := context.Background()

	productID, warehouseID := seedProductAndWarehouse(t, gdb)
	_, err = svc.Create(ctx, CreateInput{ProductID: productID, WarehouseID: warehouseID, StockLevel: 5})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{ProductID: productID, WarehouseID: warehouseID, StockLevel: 7})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestCreateInventoryRejectsNegativeStock(t *testing.T) {
	gdb := setupInventoryTestDB(t)
	svc, err := NewService(NewRepository(gdb))
	require.NoError(t, err)

	productID, warehouseID := seedProductAndWarehouse(t, gdb)
	_, err = svc.Create(context.Background(), CreateInput{
		ProductID:   productID,
		WarehouseID: warehouseID,
		StockLevel:  -1,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSetLevelsUpdatesStockAndThreshold(t *testing.T) {
	gdb := setupInventoryTestDB(t)
	svc, err := NewService(NewRepository(gdb))
	require.NoError(t, err)
	ctx := context.Background()

	productID, warehouseID := seedProductAndWarehouse(t, gdb)
	record, err := svc.Create(ctx, CreateInput{ProductID: productID, WarehouseID: warehouseID, StockLevel: 5})
	require.NoError(t, err)

	stock := 40
	reorder := 15
	updated, err := svc.SetLevels(ctx, record.ID, UpdateInput{StockLevel: &stock, ReorderPoint: &reorder})
	require.NoError(t, err)
	assert.Equal(t, 40, updated.StockLevel)
	assert.Equal(t, 15, updated.ReorderPoint)

	negative := -2
	_, err = svc.SetLevels(ctx, record.ID, UpdateInput{StockLevel: &negative})
	require.Error(t, err)
}

func TestListFiltersByWarehouse(t *testing.T) {
	gdb := setupInventoryTestDB(t)
	svc, err := NewService(NewRepository(gdb))
	require.NoError(t, err)
	ctx := context.Background()

	productID, warehouseID := seedProductAndWarehouse(t, gdb)
	otherProductID, otherWarehouseID := seedProductAndWarehouse(t, gdb)

	_, err = svc.Create(ctx, CreateInput{ProductID: productID, WarehouseID: warehouseID, StockLevel: 1})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{ProductID: otherProductID, WarehouseID: otherWarehouseID, StockLevel: 2})
	require.NoError(t, err)

	all, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := svc.List(ctx, &warehouseID)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, warehouseID, filtered[0].WarehouseID)
}
