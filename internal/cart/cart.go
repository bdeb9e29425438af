// Package cart stages the lines of an in-progress sale.
package cart

import (
	"github.com/fekuna/omnipos-register/internal/apperror"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/money"
	"github.com/google/uuid"
)

// Catalog is the lookup surface the cart prices lines from.
type Catalog interface {
	Resolve(productID, variantID string) (model.Product, *model.Variant, bool)
	ResolveSKU(code string) (model.Product, *model.Variant, error)
}

type Cart struct {
	catalog        Catalog
	lines          []model.CartLine
	discount       float64
	taxRate        float64
	defaultTaxRate float64
	newID          func() string
}

// New returns an empty cart whose tax rate starts at, and resets to,
// defaultTaxRate.
func New(catalog Catalog, defaultTaxRate float64) *Cart {
	return &Cart{
		catalog:        catalog,
		taxRate:        defaultTaxRate,
		defaultTaxRate: defaultTaxRate,
		newID:          uuid.NewString,
	}
}

// Add appends a line for the product (and variant, if given) with qty 1.
// Without a variant id a product that has variants is added as its first
// variant. It reports false and changes nothing when the ids do not resolve.
func (c *Cart) Add(productID, variantID string) (model.CartLine, bool) {
	p, v, ok := c.catalog.Resolve(productID, variantID)
	if !ok {
		return model.CartLine{}, false
	}
	return c.appendLine(p, v), true
}

// AddBySKU resolves a bare or composite SKU and appends the match.
func (c *Cart) AddBySKU(code string) (model.CartLine, error) {
	p, v, err := c.catalog.ResolveSKU(code)
	if err != nil {
		return model.CartLine{}, err
	}
	return c.appendLine(p, v), nil
}

func (c *Cart) appendLine(p model.Product, v *model.Variant) model.CartLine {
	line := model.CartLine{
		ID:        c.newID(),
		ProductID: p.ID,
		Qty:       1,
		UnitPrice: p.EffectivePrice(v),
	}
	if v != nil {
		line.VariantID = v.ID
	}
	c.lines = append(c.lines, line)
	return line
}

// UpdateQuantity sets a line's quantity, clamped to at least 1.
func (c *Cart) UpdateQuantity(lineID string, qty int) bool {
	if qty < 1 {
		qty = 1
	}
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines[i].Qty = qty
			return true
		}
	}
	return false
}

func (c *Cart) Remove(lineID string) {
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear drops all lines and resets discount and tax rate.
func (c *Cart) Clear() {
	c.lines = nil
	c.discount = 0
	c.taxRate = c.defaultTaxRate
}

func (c *Cart) SetDiscount(amount float64) error {
	if amount < 0 {
		return apperror.Invalid("cart", "discount", "must not be negative")
	}
	c.discount = amount
	return nil
}

func (c *Cart) SetTaxRate(rate float64) error {
	if rate < 0 {
		return apperror.Invalid("cart", "tax rate", "must not be negative")
	}
	c.taxRate = rate
	return nil
}

func (c *Cart) Discount() float64 { return c.discount }
func (c *Cart) TaxRate() float64  { return c.taxRate }
func (c *Cart) Len() int          { return len(c.lines) }

func (c *Cart) Lines() []model.CartLine {
	out := make([]model.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Totals prices the cart with its current discount and tax rate.
func (c *Cart) Totals() money.Totals {
	lines := make([]money.Line, len(c.lines))
	for i, l := range c.lines {
		lines[i] = money.Line{UnitPrice: l.UnitPrice, Qty: l.Qty}
	}
	return money.Calculate(lines, c.discount, c.taxRate)
}
