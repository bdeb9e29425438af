package dto

// LowStockItem is one row of the low-stock listing.
type LowStockItem struct {
	ProductID string
	VariantID string
	SKU       string
	Name      string
	Size      string
	Color     string
	Stock     int
}

// Decrement is a stock deduction for one variant.
type Decrement struct {
	ProductID string
	VariantID string
	Qty       int
}
