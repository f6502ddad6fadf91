package enums

// StockStatus is the derived availability badge for a product.
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// String implements fmt.Stringer.
func (s StockStatus) String() string {
	return string(s)
}

// DeriveStockStatus computes the availability badge from the summed stock and
// the reorder point of the product's first inventory record. Only that first
// record's threshold gates the whole product; the asymmetry is inherited from
// the management screens and kept intact.
func DeriveStockStatus(totalStock, firstReorderPoint int) StockStatus {
	switch {
	case totalStock == 0:
		return StockStatusOutOfStock
	case totalStock <= firstReorderPoint:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}
