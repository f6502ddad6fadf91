package sales

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

	"github.com/retailpoint/posadmin-backend/internal/cart"
	"github.com/retailpoint/posadmin-backend/pkg/config"
	"github.com/retailpoint/posadmin-backend/pkg/db"
	"github.com/retailpoint/posadmin-backend/pkg/db/models"
	"github.com/retailpoint/posadmin-backend/pkg/enums"
	pkgerrors "github.com/retailpoint/posadmin-backend/pkg/errors"
)

func setupSalesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:sales_%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(
		&models.Product{},
		&models.Warehouse{},
		&models.InventoryRecord{},
		&models.Transaction{},
		&models.TransactionItem{},
	))
	return gdb
}

func newTestService(t *testing.T, gdb *gorm.DB, cfg config.SalesConfig) Service {
	t.Helper()
	svc, err := NewService(NewRepository(gdb), db.NewFromGorm(gdb), cfg, nil, nil)
	require.NoError(t, err)
	return svc
}

func seedProductWithStock(t *testing.T, gdb *gorm.DB, price string, levels ...int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:  "Widget",
		SKU:   "SKU-" + uuid.NewString(),
		Price: decimal.RequireFromString(price),
	}
	require.NoError(t, gdb.Create(product).Error)

	for _, level := range levels {
		warehouse := &models.Warehouse{Name: "WH", Location: "Here"}
		require.NoError(t, gdb.Create(warehouse).Error)
		record := &models.InventoryRecord{
			ProductID:   product.ID,
			WarehouseID: warehouse.ID,
			StockLevel:  level,
		}
		require.NoError(t, gdb.Create(record).Error)
	}
	return product
}

func stockLevels(t *testing.T, gdb *gorm.DB, productID uuid.UUID) []int {
	t.Helper()
	var records []models.InventoryRecord
	require.NoError(t, gdb.Where("product_id = ?", productID).
		Order("stock_level DESC").Find(&records).Error)
	levels := make([]int, 0, len(records))
	for _, r := range records {
		levels = append(levels, r.StockLevel)
	}
	return levels
}

func TestTransactionNumberUsesLastSixMillisDigits(t *testing.T) {
	at := time.UnixMilli(1756400123456)
	assert.Equal(t, "TX-123456", TransactionNumber(at))
}

func TestCheckoutPersistsTransactionWithFrozenPrices(t *testing.T) {
	gdb := setupSalesTestDB(t)
	svc := newTestService(t, gdb, config.SalesConfig{AllowOversell: true})
	product := seedProductWithStock(t, gdb, "12.50", 20)

	result, err := svc.Checkout(context.Background(), CheckoutInput{
		UserID:        uuid.New(),
		PaymentMethod: enums.PaymentMethodCash,
		Lines: []CheckoutLine{
			{ProductID: product.ID, Quantity: 2, UnitPrice: product.Price},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Transaction)
	assert.False(t, result.Oversold)
	assert.NoError(t, result.DeductionErr)

	var stored models.Transaction
	require.NoError(t, gdb.Preload("Items").First(&stored, "id = ?", result.Transaction.ID).Error)

	assert.Equal(t, enums.TransactionStatusCompleted, stored.Status)
	assert.Equal(t, "Walk-in Customer", stored.CustomerName)
	require.Len(t, stored.Items, 1)
	assert.True(t, stored.Items[0].UnitPrice.Equal(decimal.RequireFromString("12.50")))
	assert.True(t, stored.Items[0].TotalPrice.Equal(decimal.RequireFromString("25.00")))
}

func TestCheckoutTotalsInvariants(t *testing.T) {
	gdb := setupSalesTestDB(t)
	svc := newTestService(t, gdb, config.SalesConfig{AllowOversell: true})
	first := seedProductWithStock(t, gdb, "3.99", 50)
	second := seedProductWithStock(t, gdb, "0.99", 50)

	result, err := svc.Checkout(context.Background(), CheckoutInput{
		UserID:        uuid.New(),
		PaymentMethod: enums.PaymentMethodCard,
		Lines: []CheckoutLine{
			{ProductID: first.ID, Quantity: 3, UnitPrice: first.Price},
			{ProductID: second.ID, Quantity: 5, UnitPrice: second.Price},
		},
	})
	require.NoError(t, err)

	tx := result.Transaction
	itemSum := decimal.Zero
	for _, item := range tx.Items {
		itemSum = itemSum.Add(item.TotalPrice)
	}
	assert.True(t, tx.Subtotal.Equal(itemSum), "subtotal %s item sum %s", tx.Subtotal, itemSum)
	assert.True(t, tx.TaxAmount.Equal(tx.Subtotal.Mul(decimal.RequireFromString("0.08")).Round(2)))
	assert.True(t, tx.TotalAmount.Equal(tx.Subtotal.Add(tx.TaxAmount)))
}

func TestCheckoutTotalsMatchCartAggregator(t *testing.T) {
	gdb := setupSalesTestDB(t)
	svc := newTestService(t, gdb, config.SalesConfig{AllowOversell: true})
	first := seedProductWithStock(t, gdb, "19.99", 50)
	second := seedProductWithStock(t, gdb, "0.35", 50)

	basket := cart.New()
	basket.Add(cart.Item{ProductID: first.ID, UnitPrice: first.Price})
	basket.SetQuantity(first.ID, 4)
	basket.Add(cart.Item{ProductID: second.ID, UnitPrice: second.Price})
	basket.SetQuantity(second.ID, 7)

	result, err := svc.Checkout(context.Background(), CheckoutInput{
		UserID:        uuid.New(),
		PaymentMethod: enums.PaymentMethodCard,
		Lines: []CheckoutLine{
			{ProductID: first.ID, Quantity: 4, UnitPrice: first.Price},
			{ProductID: second.ID, Quantity: 7, UnitPrice: second.Price},
		},
	})
	require.NoError(t, err)

	tx := result.Transaction
	rate := decimal.RequireFromString("0.08")
	assert.True(t, tx.Subtotal.Equal(basket.Subtotal()), "subtotal %s cart %s", tx.Subtotal, basket.Subtotal())
	assert.True(t, tx.TaxAmount.Equal(basket.Tax(rate)))
	assert.True(t, tx.TotalAmount.Equal(basket.Total(rate)))
}

func TestCheckoutDeductsLargestStockFirst(t *testing.T) {
	gdb := setupSalesTestDB(t)
	svc := newTestService(t, gdb, config.SalesConfig{AllowOversell: true})

	// 15/5 split, sell 12: the 15-unit warehouse absorbs it all
	product := seedProductWithStock(t, gdb, "1.00", 15, 5)
	result, err := svc.Checkout(context.Background(), CheckoutInput{
		UserID:        uuid.New(),
		PaymentMethod: enums.PaymentMethodCash,
		Lines:         []CheckoutLine{{ProductID: product.ID, Quantity: 12, UnitPrice: product.Price}},
	})
	require.NoError(t, err)
	assert.False(t, result.Oversold)
	assert.Equal(t, []int{5, 3}, stockLevels(t, gdb, product.ID))
}

func TestCheckoutDeductionSpillsToNextWarehouse(t *testing.T) {
	gdb := setupSalesTestDB(t)
	svc := newTestService(t, gdb, config.SalesConfig{AllowOversell: true})

	// 15/5 split, sell 18: 15 then 3 from the smaller warehouse
	product := seedProductWithStock(t, gdb, "1.00", 15, 5)
	result, err := svc.Checkout(context.Background(), CheckoutInput{
		UserID:        uuid.New(),
		PaymentMethod: enums.PaymentMethodCash,
		Lines:         []CheckoutLine{{ProductID: product.ID, Quantity: 18, UnitPrice: product.Price}},
	})
	require.NoError(t, err)
	assert.False(t, result.Oversold)
	assert.Equal(t, []int{2, 0}, stockLevels(t, gdb, product.ID))
}

func TestCheckoutOversellDeductsOnlyAvailable(t *testing.T) {
	gdb := setupSalesTestDB(t)
	svc := newTestService(t, gdb, config.SalesConfig{AllowOversell: true})

	product := seedProductWithStock(t, gdb, "1.00", 4, 2)
	result, err := svc.Checkout(context.Background(), CheckoutInput{
		UserID:        uuid.New(),
		PaymentMethod: enums.PaymentMethodCash,
		Lines:         []CheckoutLine{{ProductID: product.ID, Quantity: 10, UnitPrice: product.Price}},
	})
	require.NoError(t, err)
	assert.True(t, result.Oversold)
	// stock never goes negative, and the sale still persisted
	assert.Equal(t, []int{0, 0}, stockLevels(t, gdb, product.ID))

	var count int64
	require.NoError(t, gdb.Model(&models.Transaction{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCheckoutRejectsOversellWhenDisallowed(t *testing.T) {
	gdb := setupSalesTestDB(t)
	svc := newTestService(t, gdb, config.SalesConfig{AllowOversell: false})

	product := seedProductWithStock(t, gdb, "1.00", 4)
	_, err := svc.Checkout(context.Background(), CheckoutInput{
		UserID:        uuid.New(),
		PaymentMethod: enums.PaymentMethodCash,
		Lines:         []CheckoutLine{{ProductID: product.ID, Quantity: 5, UnitPrice: product.Price}},
	})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	// nothing written
	var count int64
	require.NoError(t, gdb.Model(&models.Transaction{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	assert.Equal(t, []int{4}, stockLevels(t, gdb, product.ID))
}

func TestCheckoutValidation(t *testing.T) {
	gdb := setupSalesTestDB(t)
	svc := newTestService(t, gdb, config.SalesConfig{AllowOversell: true})

	cases := []struct {
		name  string
		input CheckoutInput
	}{
		{"empty cart", CheckoutInput{UserID: uuid.New(), PaymentMethod: enums.PaymentMethodCash}},
		{"missing user", CheckoutInput{PaymentMethod: enums.PaymentMethodCash, Lines: []CheckoutLine{{ProductID: uuid.New(), Quantity: 1}}}},
		{"bad payment method", CheckoutInput{UserID: uuid.New(), PaymentMethod: "barter", Lines: []CheckoutLine{{ProductID: uuid.New(), Quantity: 1}}}},
		{"zero quantity", CheckoutInput{UserID: uuid.New(), PaymentMethod: enums.PaymentMethodCash, Lines: []CheckoutLine{{ProductID: uuid.New(), Quantity: 0}}}},
		{"duplicate product line", func() CheckoutInput {
			productID := uuid.New()
			return CheckoutInput{UserID: uuid.New(), PaymentMethod: enums.PaymentMethodCash, Lines: []CheckoutLine{
				{ProductID: productID, Quantity: 1, UnitPrice: decimal.RequireFromString("1.00")},
				{ProductID: productID, Quantity: 2, UnitPrice: decimal.RequireFromString("1.00")},
			}}
		}()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Checkout(context.Background(), tc.input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestCheckoutCustomCustomerName(t *testing.T) {
	gdb := setupSalesTestDB(t)
	svc := newTestService(t, gdb, config.SalesConfig{AllowOversell: true})
	product := seedProductWithStock(t, gdb, "2.00", 10)

	result, err := svc.Checkout(context.Background(), CheckoutInput{
		UserID:        uuid.New(),
		PaymentMethod: enums.PaymentMethodMobile,
		CustomerName:  "Dana",
		Lines:         []CheckoutLine{{ProductID: product.ID, Quantity: 1, UnitPrice: product.Price}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Dana", result.Transaction.CustomerName)
}
