package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultTaxRate applies when the caller does not supply a configured rate.
var DefaultTaxRate = decimal.RequireFromString("0.08")

// Line is one product entry in the cart. UnitPrice is captured when the
// product is first added and reused for every quantity change.
type Line struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// LineTotal is price times quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an in-memory collection of lines keyed by product ID. Insertion
// order is preserved. Cart does no stock checking; callers guard availability
// before adding.
type Cart struct {
	lines []Line
	index map[uuid.UUID]int
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{index: map[uuid.UUID]int{}}
}

// Item identifies a product being added.
type Item struct {
	ProductID uuid.UUID
	Name      string
	SKU       string
	UnitPrice decimal.Decimal
}

// Add increments the quantity when the product is already present, otherwise
// appends a new line with quantity 1.
func (c *Cart) Add(item Item) {
	if pos, ok := c.index[item.ProductID]; ok {
		c.lines[pos].Quantity++
		return
	}
	c.index[item.ProductID] = len(c.lines)
	c.lines = append(c.lines, Line{
		ProductID: item.ProductID,
		Name:      item.Name,
		SKU:       item.SKU,
		UnitPrice: item.UnitPrice,
		Quantity:  1,
	})
}

// SetQuantity replaces the quantity for the product. Zero or negative removes
// the line. Setting a quantity for an absent product is a no-op.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int) {
	pos, ok := c.index[productID]
	if !ok {
		return
	}
	if quantity <= 0 {
		c.removeAt(pos)
		return
	}
	c.lines[pos].Quantity = quantity
}

// Remove drops the product's line regardless of quantity.
func (c *Cart) Remove(productID uuid.UUID) {
	if pos, ok := c.index[productID]; ok {
		c.removeAt(pos)
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
	c.index = map[uuid.UUID]int{}
}

// Lines returns a copy of the cart contents in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len reports the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Subtotal is the sum of all line totals.
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range c.lines {
		subtotal = subtotal.Add(line.LineTotal())
	}
	return subtotal
}

// Tax applies the rate to the subtotal, rounded to two decimal places.
func (c *Cart) Tax(rate decimal.Decimal) decimal.Decimal {
	return c.Subtotal().Mul(rate).Round(2)
}

// Total is subtotal plus tax at the given rate.
func (c *Cart) Total(rate decimal.Decimal) decimal.Decimal {
	return c.Subtotal().Add(c.Tax(rate))
}

func (c *Cart) removeAt(pos int) {
	removed := c.lines[pos].ProductID
	c.lines = append(c.lines[:pos], c.lines[pos+1:]...)
	delete(c.index, removed)
	for i := pos; i < len(c.lines); i++ {
		c.index[c.lines[i].ProductID] = i
	}
}
