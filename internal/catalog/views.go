package catalog

import (
	"strings"

	"github.com/fekuna/omnipos-register/internal/apperror"
	"github.com/fekuna/omnipos-register/internal/catalog/dto"
	"github.com/fekuna/omnipos-register/internal/model"
)

// InventoryValue sums stock×cost and stock×effective price over all variants.
// Products without variants carry no stock and contribute nothing.
func (s *Store) InventoryValue() (atCost, atRetail float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.products {
		p := &s.products[i]
		for j := range p.Variants {
			v := &p.Variants[j]
			atCost += float64(v.Stock) * p.Cost
			atRetail += float64(v.Stock) * p.EffectivePrice(v)
		}
	}
	return atCost, atRetail
}

// LowStock lists variants whose stock is at or below threshold.
func (s *Store) LowStock(threshold int) []dto.LowStockItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := []dto.LowStockItem{}
	for i := range s.products {
		p := &s.products[i]
		for j := range p.Variants {
			v := &p.Variants[j]
			if v.Stock > threshold {
				continue
			}
			items = append(items, dto.LowStockItem{
				ProductID: p.ID,
				VariantID: v.ID,
				SKU:       p.DisplaySKU(v),
				Name:      p.Name,
				Size:      v.Size,
				Color:     v.Color,
				Stock:     v.Stock,
			})
		}
	}
	return items
}

// ResolveSKU maps a scanned code to a product and optional variant.
//
// A bare product SKU resolves to the product's first variant, or to the
// product itself when it has none. A composite {sku}-{size}-{color} resolves
// to that exact variant. A code that starts with a known product SKU but
// names no variant falls back to that product's first variant.
func (s *Store) ResolveSKU(code string) (model.Product, *model.Variant, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return model.Product{}, nil, apperror.Required("sku", "code")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if p := s.productBySKU(code); p != nil {
		return firstVariant(p)
	}

	for i := range s.products {
		p := &s.products[i]
		for j := range p.Variants {
			if strings.EqualFold(p.DisplaySKU(&p.Variants[j]), code) {
				out := p.Clone()
				return out, &out.Variants[j], nil
			}
		}
	}

	var best *model.Product
	for i := range s.products {
		p := &s.products[i]
		if len(p.Variants) == 0 || len(p.SKU) >= len(code) {
			continue
		}
		prefix := code[:len(p.SKU)]
		if strings.EqualFold(prefix, p.SKU) && code[len(p.SKU)] == '-' {
			if best == nil || len(p.SKU) > len(best.SKU) {
				best = p
			}
		}
	}
	if best != nil {
		return firstVariant(best)
	}

	return model.Product{}, nil, apperror.NotFound("sku", code)
}

func firstVariant(p *model.Product) (model.Product, *model.Variant, error) {
	out := p.Clone()
	if len(out.Variants) == 0 {
		return out, nil, nil
	}
	return out, &out.Variants[0], nil
}
