package catalog

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
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:catalog_%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Warehouse{},
		&models.InventoryRecord{},
	))
	return gdb
}

func TestBuildProductViewSumsStockAcrossWarehouses(t *testing.T) {
	product := models.Product{
		ID:    uuid.New(),
		Name:  "Espresso Beans",
		SKU:   "SKU-1",
		Price: decimal.RequireFromString("12.50"),
		Inventory: []models.InventoryRecord{
			{StockLevel: 15, ReorderPoint: 10},
			{StockLevel: 5, ReorderPoint: 10},
		},
	}

	view := BuildProductView(product)
	assert.Equal(t, 20, view.TotalStock)
	assert.Equal(t, enums.StockStatusInStock, view.Status)
	assert.Equal(t, UncategorizedName, view.CategoryName)
}

func TestBuildProductViewStatusDerivation(t *testing.T) {
	cases := []struct {
		name     string
		levels   []int
		reorder  int
		expected enums.StockStatus
	}{
		{"no rows is out of stock", nil, 0, enums.StockStatusOutOfStock},
		{"all zero is out of stock", []int{0, 0}, 10, enums.StockStatusOutOfStock},
		{"at threshold is low stock", []int{6, 4}, 10, enums.StockStatusLowStock},
		{"above threshold is in stock", []int{6, 5}, 10, enums.StockStatusInStock},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			product := models.Product{Name: "P", SKU: "S", Price: decimal.NewFromInt(1)}
			for _, level := range tc.levels {
				product.Inventory = append(product.Inventory, models.InventoryRecord{
					StockLevel:   level,
					ReorderPoint: tc.reorder,
				})
			}
			view := BuildProductView(product)
			assert.Equal(t, tc.expected, view.Status)
		})
	}
}

func TestBuildProductViewThresholdComesFromFirstRow(t *testing.T) {
	// first row's reorder point is 3: total 4 stays in stock even though the
	// second row carries a higher threshold
	product := models.Product{
		Name:  "P",
		SKU:   "S",
		Price: decimal.NewFromInt(1),
		Inventory: []models.InventoryRecord{
			{StockLevel: 2, ReorderPoint: 3},
			{StockLevel: 2, ReorderPoint: 50},
		},
	}
	view := BuildProductView(product)
	assert.Equal(t, enums.StockStatusInStock, view.Status)
}

func TestServiceListProductsAnnotatesCategory(t *testing.T) {
	gdb := setupCatalogTestDB(t)
	ctx := context.Background()

	category := &models.Category{Name: "Beverages"}
	require.NoError(t, gdb.Create(category).Error)

	withCategory := &models.Product{
		Name:       "Cold Brew",
		SKU:        "SKU-CB",
		Price:      decimal.RequireFromString("4.00"),
		CategoryID: &category.ID,
	}
	require.NoError(t, gdb.Create(withCategory).Error)

	orphan := &models.Product{
		Name:  "Mystery Item",
		SKU:   "SKU-MY",
		Price: decimal.RequireFromString("1.00"),
	}
	require.NoError(t, gdb.Create(orphan).Error)

	svc, err := NewService(NewRepository(gdb))
	require.NoError(t, err)

	views, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)

	byName := map[string]ProductView{}
	for _, v := range views {
		byName[v.Name] = v
	}
	assert.Equal(t, "Beverages", byName["Cold Brew"].CategoryName)
	assert.Equal(t, UncategorizedName, byName["Mystery Item"].CategoryName)
	assert.Equal(t, enums.StockStatusOutOfStock, byName["Mystery Item"].Status)
}

func TestServiceGetProductNotFound(t *testing.T) {
	gdb := setupCatalogTestDB(t)
	svc, err := NewService(NewRepository(gdb))
	require.NoError(t, err)

	_, err = svc.GetProduct(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
