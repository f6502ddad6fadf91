package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testItem(name, price string) Item {
	return Item{
		ProductID: uuid.New(),
		Name:      name,
		SKU:       "SKU-" + name,
		UnitPrice: decimal.RequireFromString(price),
	}
}

func TestAddIncrementsExistingLine(t *testing.T) {
	c := New()
	item := testItem("espresso", "3.50")

	c.Add(item)
	c.Add(item)

	lines := c.Lines()
	assert.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, c.Subtotal().Equal(decimal.RequireFromString("7.00")))
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	c := New()
	first := testItem("first", "1.00")
	second := testItem("second", "2.00")
	c.Add(first)
	c.Add(second)
	c.Add(first)

	lines := c.Lines()
	assert.Equal(t, "first", lines[0].Name)
	assert.Equal(t, "second", lines[1].Name)
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	c := New()
	item := testItem("espresso", "3.50")
	c.Add(item)

	c.SetQuantity(item.ProductID, 0)
	assert.Equal(t, 0, c.Len())

	// negative behaves the same
	c.Add(item)
	c.SetQuantity(item.ProductID, -3)
	assert.Equal(t, 0, c.Len())
}

func TestSetQuantityReplacesValue(t *testing.T) {
	c := New()
	item := testItem("espresso", "3.50")
	c.Add(item)
	c.SetQuantity(item.ProductID, 7)

	lines := c.Lines()
	assert.Equal(t, 7, lines[0].Quantity)
}

func TestSetQuantityUnknownProductIsNoOp(t *testing.T) {
	c := New()
	c.Add(testItem("espresso", "3.50"))
	c.SetQuantity(uuid.New(), 4)
	assert.Equal(t, 1, c.Len())
}

func TestRemoveReindexesRemainingLines(t *testing.T) {
	c := New()
	first := testItem("first", "1.00")
	second := testItem("second", "2.00")
	third := testItem("third", "3.00")
	c.Add(first)
	c.Add(second)
	c.Add(third)

	c.Remove(first.ProductID)
	c.SetQuantity(third.ProductID, 2)

	lines := c.Lines()
	assert.Len(t, lines, 2)
	assert.Equal(t, "second", lines[0].Name)
	assert.Equal(t, 2, lines[1].Quantity)
}

func TestTotalsWithDefaultRate(t *testing.T) {
	c := New()
	item := testItem("beans", "12.50")
	c.Add(item)
	c.SetQuantity(item.ProductID, 2)

	subtotal := c.Subtotal()
	tax := c.Tax(DefaultTaxRate)
	total := c.Total(DefaultTaxRate)

	assert.True(t, subtotal.Equal(decimal.RequireFromString("25.00")), "subtotal %s", subtotal)
	assert.True(t, tax.Equal(decimal.RequireFromString("2.00")), "tax %s", tax)
	assert.True(t, total.Equal(subtotal.Add(tax)), "total %s", total)
}

func TestTaxRoundsToTwoPlaces(t *testing.T) {
	c := New()
	// 3 x 0.99 = 2.97, tax 0.2376 rounds to 0.24
	item := testItem("gum", "0.99")
	c.Add(item)
	c.SetQuantity(item.ProductID, 3)

	assert.True(t, c.Tax(DefaultTaxRate).Equal(decimal.RequireFromString("0.24")))
	assert.True(t, c.Total(DefaultTaxRate).Equal(decimal.RequireFromString("3.21")))
}

func TestEmptyCartTotalsAreZero(t *testing.T) {
	c := New()
	assert.True(t, c.Subtotal().IsZero())
	assert.True(t, c.Tax(DefaultTaxRate).IsZero())
	assert.True(t, c.Total(DefaultTaxRate).IsZero())
}
