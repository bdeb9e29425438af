package reconcile

import (
	"database/sql"
	"encoding/json"
	"sort"
	"time"

	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/reconcile/dto"
)

// Flatten turns nested local state into the five remote row sets.
func Flatten(products []model.Product, customers []model.Customer, sales []model.Sale) dto.Rows {
	rows := dto.Rows{
		Products:  make([]dto.ProductRow, 0, len(products)),
		Variants:  []dto.VariantRow{},
		Customers: make([]dto.CustomerRow, 0, len(customers)),
		Sales:     make([]dto.SaleRow, 0, len(sales)),
		SaleItems: []dto.SaleItemRow{},
	}

	for pi, p := range products {
		rows.Products = append(rows.Products, dto.ProductRow{
			ID:       p.ID,
			Name:     str(p.Name),
			SKU:      str(p.SKU),
			Category: str(p.Category),
			Cost:     num(p.Cost),
			Price:    num(p.Price),
			Notes:    str(p.Notes),
			ImageURL: str(p.ImageURL),
			Position: pos(pi),
		})
		for i, v := range p.Variants {
			row := dto.VariantRow{
				ID:        v.ID,
				ProductID: str(p.ID),
				Size:      str(v.Size),
				Color:     str(v.Color),
				Stock:     sql.NullInt64{Int64: int64(v.Stock), Valid: true},
				Position:  pos(i),
			}
			if v.Price != nil {
				row.Price = num(*v.Price)
			}
			rows.Variants = append(rows.Variants, row)
		}
	}

	for ci, c := range customers {
		rows.Customers = append(rows.Customers, dto.CustomerRow{
			ID:       c.ID,
			Name:     str(c.Name),
			Phone:    str(c.Phone),
			Email:    str(c.Email),
			Notes:    str(c.Notes),
			Position: pos(ci),
		})
	}

	for si, s := range sales {
		row := dto.SaleRow{
			ID:            s.ID,
			CreatedAt:     str(s.CreatedAt.UTC().Format(time.RFC3339Nano)),
			Subtotal:      num(s.Subtotal),
			Discount:      num(s.Discount),
			TaxRate:       num(s.TaxRate),
			TaxAmount:     num(s.TaxAmount),
			Total:         num(s.Total),
			PaymentMethod: str(string(s.PaymentMethod)),
			CustomerID:    nullIfEmpty(s.CustomerID),
			Notes:         str(s.Notes),
			Position:      pos(si),
		}
		if s.Customer != nil {
			if b, err := json.Marshal(s.Customer); err == nil {
				row.CustomerSnapshot = str(string(b))
			}
		}
		rows.Sales = append(rows.Sales, row)

		for i, it := range s.Items {
			rows.SaleItems = append(rows.SaleItems, dto.SaleItemRow{
				ID:        it.ID,
				SaleID:    str(s.ID),
				ProductID: nullIfEmpty(it.ProductID),
				VariantID: nullIfEmpty(it.VariantID),
				SKU:       str(it.SKU),
				Name:      str(it.Name),
				Size:      str(it.Size),
				Color:     str(it.Color),
				Qty:       sql.NullInt64{Int64: int64(it.Qty), Valid: true},
				Price:     num(it.Price),
				Position:  pos(i),
			})
		}
	}

	return rows
}

// Rebuild reconstructs nested local state from remote rows. Variants and
// sale items whose parent row is missing are dropped.
//
// Every collection comes back in the order of its position column. Rows
// without a position, or sharing one, fall back to products by SKU,
// customers by name then id, sales by created_at then id.
func Rebuild(rows dto.Rows) ([]model.Product, []model.Customer, []model.Sale) {
	productRows := append([]dto.ProductRow(nil), rows.Products...)
	sort.SliceStable(productRows, func(i, j int) bool {
		a, b := productRows[i], productRows[j]
		if less, ok := byPosition(a.Position, b.Position); ok {
			return less
		}
		return a.SKU.String < b.SKU.String
	})

	products := make([]model.Product, 0, len(productRows))
	productIdx := make(map[string]int, len(productRows))
	for _, r := range productRows {
		productIdx[r.ID] = len(products)
		products = append(products, model.Product{
			ID:       r.ID,
			Name:     r.Name.String,
			SKU:      r.SKU.String,
			Category: r.Category.String,
			Cost:     r.Cost.Float64,
			Price:    r.Price.Float64,
			Notes:    r.Notes.String,
			ImageURL: r.ImageURL.String,
		})
	}

	variants := append([]dto.VariantRow(nil), rows.Variants...)
	sort.SliceStable(variants, func(i, j int) bool {
		less, _ := byPosition(variants[i].Position, variants[j].Position)
		return less
	})
	for _, r := range variants {
		idx, ok := productIdx[r.ProductID.String]
		if !ok {
			continue
		}
		v := model.Variant{
			ID:    r.ID,
			Size:  r.Size.String,
			Color: r.Color.String,
			Stock: int(r.Stock.Int64),
		}
		if v.Stock < 0 {
			v.Stock = 0
		}
		if r.Price.Valid {
			price := r.Price.Float64
			v.Price = &price
		}
		products[idx].Variants = append(products[idx].Variants, v)
	}

	customerRows := append([]dto.CustomerRow(nil), rows.Customers...)
	sort.SliceStable(customerRows, func(i, j int) bool {
		a, b := customerRows[i], customerRows[j]
		if less, ok := byPosition(a.Position, b.Position); ok {
			return less
		}
		if a.Name.String != b.Name.String {
			return a.Name.String < b.Name.String
		}
		return a.ID < b.ID
	})

	customers := make([]model.Customer, 0, len(customerRows))
	for _, r := range customerRows {
		customers = append(customers, model.Customer{
			ID:    r.ID,
			Name:  r.Name.String,
			Phone: r.Phone.String,
			Email: r.Email.String,
			Notes: r.Notes.String,
		})
	}

	saleRows := append([]dto.SaleRow(nil), rows.Sales...)
	sort.SliceStable(saleRows, func(i, j int) bool {
		a, b := saleRows[i], saleRows[j]
		if less, ok := byPosition(a.Position, b.Position); ok {
			return less
		}
		at, bt := parseTime(a.CreatedAt.String), parseTime(b.CreatedAt.String)
		if !at.Equal(bt) {
			return at.Before(bt)
		}
		return a.ID < b.ID
	})

	sales := make([]model.Sale, 0, len(saleRows))
	saleIdx := make(map[string]int, len(saleRows))
	for _, r := range saleRows {
		s := model.Sale{
			ID:            r.ID,
			CreatedAt:     parseTime(r.CreatedAt.String),
			Subtotal:      r.Subtotal.Float64,
			Discount:      r.Discount.Float64,
			TaxRate:       r.TaxRate.Float64,
			TaxAmount:     r.TaxAmount.Float64,
			Total:         r.Total.Float64,
			PaymentMethod: model.PaymentMethod(r.PaymentMethod.String),
			CustomerID:    r.CustomerID.String,
			Notes:         r.Notes.String,
		}
		if r.CustomerSnapshot.Valid && r.CustomerSnapshot.String != "" {
			var snap model.CustomerSnapshot
			if err := json.Unmarshal([]byte(r.CustomerSnapshot.String), &snap); err == nil {
				s.Customer = &snap
			}
		}
		saleIdx[r.ID] = len(sales)
		sales = append(sales, s)
	}

	items := append([]dto.SaleItemRow(nil), rows.SaleItems...)
	sort.SliceStable(items, func(i, j int) bool {
		less, _ := byPosition(items[i].Position, items[j].Position)
		return less
	})
	for _, r := range items {
		idx, ok := saleIdx[r.SaleID.String]
		if !ok {
			continue
		}
		sales[idx].Items = append(sales[idx].Items, model.SaleItem{
			ID:        r.ID,
			ProductID: r.ProductID.String,
			VariantID: r.VariantID.String,
			SKU:       r.SKU.String,
			Name:      r.Name.String,
			Size:      r.Size.String,
			Color:     r.Color.String,
			Qty:       int(r.Qty.Int64),
			Price:     r.Price.Float64,
		})
	}

	return products, customers, sales
}

// byPosition orders set positions ascending and ahead of NULL ones. ok is
// false when the pair is tied and needs another key.
func byPosition(a, b sql.NullInt64) (less, ok bool) {
	switch {
	case a.Valid && b.Valid:
		return a.Int64 < b.Int64, a.Int64 != b.Int64
	case a.Valid != b.Valid:
		return a.Valid, true
	}
	return false, false
}

func pos(i int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(i), Valid: true}
}

func str(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func num(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: true}
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return str(s)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}
