package model

// CartLine references catalog entries by id; the price is captured when the
// line is added and is not re-read afterwards.
type CartLine struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	VariantID string  `json:"variant_id"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
}
