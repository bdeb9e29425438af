// Package catalog holds the in-memory product and customer collections the
// register sells from.
package catalog

import (
	"strings"
	"sync"

	"github.com/fekuna/omnipos-register/internal/apperror"
	"github.com/fekuna/omnipos-register/internal/catalog/dto"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/google/uuid"
)

// Store owns products, their variants and customers. Reads return copies;
// callers never hold pointers into the store.
type Store struct {
	mu        sync.RWMutex
	products  []model.Product
	customers []model.Customer
	newID     func() string
}

func NewStore(products []model.Product, customers []model.Customer) *Store {
	s := &Store{newID: uuid.NewString}
	s.Replace(products, customers)
	return s
}

// Replace swaps both collections wholesale.
func (s *Store) Replace(products []model.Product, customers []model.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = make([]model.Product, 0, len(products))
	for _, p := range products {
		s.products = append(s.products, p.Clone())
	}
	s.customers = make([]model.Customer, len(customers))
	copy(s.customers, customers)
}

func (s *Store) Products() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Product, len(s.products))
	for i, p := range s.products {
		out[i] = p.Clone()
	}
	return out
}

func (s *Store) Customers() []model.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Customer, len(s.customers))
	copy(out, s.customers)
	return out
}

func (s *Store) Product(id string) (model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p := s.productByID(id); p != nil {
		return p.Clone(), true
	}
	return model.Product{}, false
}

func (s *Store) ProductBySKU(sku string) (model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p := s.productBySKU(sku); p != nil {
		return p.Clone(), true
	}
	return model.Product{}, false
}

// Resolve returns the product and, when variantID is set, its variant. An
// empty variantID on a product with variants resolves to the first one.
// ok is false if either id does not resolve.
func (s *Store) Resolve(productID, variantID string) (model.Product, *model.Variant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.productByID(productID)
	if p == nil {
		return model.Product{}, nil, false
	}
	if variantID == "" {
		out, v, _ := firstVariant(p)
		return out, v, true
	}
	out := p.Clone()
	v := out.FindVariant(variantID)
	if v == nil {
		return model.Product{}, nil, false
	}
	return out, v, true
}

func (s *Store) Customer(id string) (model.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.customers {
		if c.ID == id {
			return c, true
		}
	}
	return model.Customer{}, false
}

func (s *Store) CreateProduct(input dto.CreateProductInput) (model.Product, error) {
	name := strings.TrimSpace(input.Name)
	sku := strings.TrimSpace(input.SKU)
	if name == "" {
		return model.Product{}, apperror.Required("product", "name")
	}
	if sku == "" {
		return model.Product{}, apperror.Required("product", "sku")
	}
	if input.Price < 0 || input.Cost < 0 {
		return model.Product{}, apperror.Invalid("product", "price", "must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.productBySKU(sku) != nil {
		return model.Product{}, apperror.Invalid("product", "sku", "already exists: "+sku)
	}

	p := model.Product{
		ID:       s.newID(),
		Name:     name,
		SKU:      sku,
		Category: strings.TrimSpace(input.Category),
		Cost:     input.Cost,
		Price:    input.Price,
		Notes:    input.Notes,
		ImageURL: strings.TrimSpace(input.ImageURL),
	}
	s.products = append(s.products, p)
	return p.Clone(), nil
}

func (s *Store) UpdateProduct(input dto.UpdateProductInput) (model.Product, error) {
	name := strings.TrimSpace(input.Name)
	sku := strings.TrimSpace(input.SKU)
	if name == "" {
		return model.Product{}, apperror.Required("product", "name")
	}
	if sku == "" {
		return model.Product{}, apperror.Required("product", "sku")
	}
	if input.Price < 0 || input.Cost < 0 {
		return model.Product{}, apperror.Invalid("product", "price", "must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.productByID(input.ID)
	if p == nil {
		return model.Product{}, apperror.NotFound("product", input.ID)
	}
	if !strings.EqualFold(p.SKU, sku) {
		if other := s.productBySKU(sku); other != nil && other.ID != p.ID {
			return model.Product{}, apperror.Invalid("product", "sku", "already exists: "+sku)
		}
	}

	p.Name = name
	p.SKU = sku
	p.Category = strings.TrimSpace(input.Category)
	p.Cost = input.Cost
	p.Price = input.Price
	p.Notes = input.Notes
	p.ImageURL = strings.TrimSpace(input.ImageURL)
	return p.Clone(), nil
}

func (s *Store) AddVariant(input dto.CreateVariantInput) (model.Variant, error) {
	size := strings.TrimSpace(input.Size)
	color := strings.TrimSpace(input.Color)
	if size == "" && color == "" {
		return model.Variant{}, apperror.Required("variant", "size or color")
	}
	if input.Stock < 0 {
		return model.Variant{}, apperror.Invalid("variant", "stock", "must not be negative")
	}
	if input.Price != nil && *input.Price < 0 {
		return model.Variant{}, apperror.Invalid("variant", "price", "must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.productByID(input.ProductID)
	if p == nil {
		return model.Variant{}, apperror.NotFound("product", input.ProductID)
	}
	for _, v := range p.Variants {
		if strings.EqualFold(v.Size, size) && strings.EqualFold(v.Color, color) {
			return model.Variant{}, apperror.Invalid("variant", "size/color", "already exists: "+p.DisplaySKU(&v))
		}
	}

	v := model.Variant{
		ID:    s.newID(),
		Size:  size,
		Color: color,
		Stock: input.Stock,
	}
	if input.Price != nil {
		price := *input.Price
		v.Price = &price
	}
	p.Variants = append(p.Variants, v)
	return v.Clone(), nil
}

// AdjustStock applies a manual restock or shrink. The result may not go
// below zero.
func (s *Store) AdjustStock(productID, variantID string, delta int) (model.Variant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.productByID(productID)
	if p == nil {
		return model.Variant{}, apperror.NotFound("product", productID)
	}
	v := p.FindVariant(variantID)
	if v == nil {
		return model.Variant{}, apperror.NotFound("variant", variantID)
	}
	if v.Stock+delta < 0 {
		return model.Variant{}, &apperror.StockError{
			ProductID: p.ID,
			VariantID: v.ID,
			SKU:       p.DisplaySKU(v),
			Name:      p.Name,
			Requested: -delta,
			Available: v.Stock,
		}
	}
	v.Stock += delta
	return v.Clone(), nil
}

// ApplyDecrements deducts stock for a settled sale. Quantities for the same
// variant are summed and every total is checked before any is applied;
// applied counters are floored at zero.
func (s *Store) ApplyDecrements(decs []dto.Decrement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var targets []*model.Variant
	totals := map[*model.Variant]int{}
	for _, d := range decs {
		p := s.productByID(d.ProductID)
		if p == nil {
			return apperror.NotFound("product", d.ProductID)
		}
		v := p.FindVariant(d.VariantID)
		if v == nil {
			return apperror.NotFound("variant", d.VariantID)
		}
		if _, seen := totals[v]; !seen {
			targets = append(targets, v)
		}
		totals[v] += d.Qty
		if v.Stock < totals[v] {
			return &apperror.StockError{
				ProductID: p.ID,
				VariantID: v.ID,
				SKU:       p.DisplaySKU(v),
				Name:      p.Name,
				Requested: totals[v],
				Available: v.Stock,
			}
		}
	}

	for _, v := range targets {
		v.Stock -= totals[v]
		if v.Stock < 0 {
			v.Stock = 0
		}
	}
	return nil
}

func (s *Store) CreateCustomer(input dto.CreateCustomerInput) (model.Customer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return model.Customer{}, apperror.Required("customer", "name")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := model.Customer{
		ID:    s.newID(),
		Name:  name,
		Phone: strings.TrimSpace(input.Phone),
		Email: strings.TrimSpace(input.Email),
		Notes: input.Notes,
	}
	s.customers = append(s.customers, c)
	return c, nil
}

func (s *Store) UpdateCustomer(input dto.UpdateCustomerInput) (model.Customer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return model.Customer{}, apperror.Required("customer", "name")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.customers {
		if s.customers[i].ID != input.ID {
			continue
		}
		s.customers[i].Name = name
		s.customers[i].Phone = strings.TrimSpace(input.Phone)
		s.customers[i].Email = strings.TrimSpace(input.Email)
		s.customers[i].Notes = input.Notes
		return s.customers[i], nil
	}
	return model.Customer{}, apperror.NotFound("customer", input.ID)
}

func (s *Store) productByID(id string) *model.Product {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i]
		}
	}
	return nil
}

func (s *Store) productBySKU(sku string) *model.Product {
	sku = strings.TrimSpace(sku)
	for i := range s.products {
		if strings.EqualFold(s.products[i].SKU, sku) {
			return &s.products[i]
		}
	}
	return nil
}
