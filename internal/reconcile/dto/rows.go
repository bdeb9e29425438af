// Package dto holds the flattened row shapes of the remote tables. Every
// column except the primary key is nullable so partially-populated rows
// still scan.
package dto

import "database/sql"

type ProductRow struct {
	ID       string          `db:"id"`
	Name     sql.NullString  `db:"name"`
	SKU      sql.NullString  `db:"sku"`
	Category sql.NullString  `db:"category"`
	Cost     sql.NullFloat64 `db:"cost"`
	Price    sql.NullFloat64 `db:"price"`
	Notes    sql.NullString  `db:"notes"`
	ImageURL sql.NullString  `db:"image_url"`
	Position sql.NullInt64   `db:"position"`
}

type VariantRow struct {
	ID        string          `db:"id"`
	ProductID sql.NullString  `db:"product_id"`
	Size      sql.NullString  `db:"size"`
	Color     sql.NullString  `db:"color"`
	Stock     sql.NullInt64   `db:"stock"`
	Price     sql.NullFloat64 `db:"price"`
	Position  sql.NullInt64   `db:"position"`
}

type CustomerRow struct {
	ID       string         `db:"id"`
	Name     sql.NullString `db:"name"`
	Phone    sql.NullString `db:"phone"`
	Email    sql.NullString `db:"email"`
	Notes    sql.NullString `db:"notes"`
	Position sql.NullInt64  `db:"position"`
}

type SaleRow struct {
	ID               string          `db:"id"`
	CreatedAt        sql.NullString  `db:"created_at"`
	Subtotal         sql.NullFloat64 `db:"subtotal"`
	Discount         sql.NullFloat64 `db:"discount"`
	TaxRate          sql.NullFloat64 `db:"tax_rate"`
	TaxAmount        sql.NullFloat64 `db:"tax_amount"`
	Total            sql.NullFloat64 `db:"total"`
	PaymentMethod    sql.NullString  `db:"payment_method"`
	CustomerID       sql.NullString  `db:"customer_id"`
	CustomerSnapshot sql.NullString  `db:"customer_snapshot"`
	Notes            sql.NullString  `db:"notes"`
	Position         sql.NullInt64   `db:"position"`
}

type SaleItemRow struct {
	ID        string          `db:"id"`
	SaleID    sql.NullString  `db:"sale_id"`
	ProductID sql.NullString  `db:"product_id"`
	VariantID sql.NullString  `db:"variant_id"`
	SKU       sql.NullString  `db:"sku"`
	Name      sql.NullString  `db:"name"`
	Size      sql.NullString  `db:"size"`
	Color     sql.NullString  `db:"color"`
	Qty       sql.NullInt64   `db:"qty"`
	Price     sql.NullFloat64 `db:"price"`
	Position  sql.NullInt64   `db:"position"`
}

// Rows is one full set of the five remote tables.
type Rows struct {
	Products  []ProductRow
	Variants  []VariantRow
	Customers []CustomerRow
	Sales     []SaleRow
	SaleItems []SaleItemRow
}
