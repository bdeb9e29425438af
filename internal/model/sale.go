package model

import "time"

// PaymentMethod is an open string enum; deployments disagree on the set.
type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "cash"
	PaymentCard    PaymentMethod = "card"
	PaymentDigital PaymentMethod = "digital"
	PaymentOther   PaymentMethod = "other"
	PaymentUPI     PaymentMethod = "upi"
)

const (
	PaymentProfileStandard = "standard"
	PaymentProfileUPI      = "upi"
)

// PaymentMethods returns the canonical set for a deployment profile.
// Unknown profiles get the standard set.
func PaymentMethods(profile string) []PaymentMethod {
	switch profile {
	case PaymentProfileUPI:
		return []PaymentMethod{PaymentCash, PaymentCard, PaymentUPI}
	default:
		return []PaymentMethod{PaymentCash, PaymentCard, PaymentDigital, PaymentOther}
	}
}

// Accepts reports whether m is in the profile's canonical set.
func (m PaymentMethod) Accepts(profile string) bool {
	for _, allowed := range PaymentMethods(profile) {
		if m == allowed {
			return true
		}
	}
	return false
}

type Sale struct {
	ID            string            `json:"id" yaml:"id"`
	CreatedAt     time.Time         `json:"created_at" yaml:"created_at"`
	Items         []SaleItem        `json:"items" yaml:"items"`
	Subtotal      float64           `json:"subtotal" yaml:"subtotal"`
	Discount      float64           `json:"discount" yaml:"discount"`
	TaxRate       float64           `json:"tax_rate" yaml:"tax_rate"`
	TaxAmount     float64           `json:"tax_amount" yaml:"tax_amount"`
	Total         float64           `json:"total" yaml:"total"`
	PaymentMethod PaymentMethod     `json:"payment_method" yaml:"payment_method"`
	CustomerID    string            `json:"customer_id" yaml:"customer_id"`
	Customer      *CustomerSnapshot `json:"customer,omitempty" yaml:"customer,omitempty"`
	Notes         string            `json:"notes" yaml:"notes"`
}

type SaleItem struct {
	ID        string  `json:"id" yaml:"id"`
	ProductID string  `json:"product_id" yaml:"product_id"`
	VariantID string  `json:"variant_id" yaml:"variant_id"`
	SKU       string  `json:"sku" yaml:"sku"`
	Name      string  `json:"name" yaml:"name"`
	Size      string  `json:"size" yaml:"size"`
	Color     string  `json:"color" yaml:"color"`
	Qty       int     `json:"qty" yaml:"qty"`
	Price     float64 `json:"price" yaml:"price"` // Unit price at sale time
}

func (s Sale) Clone() Sale {
	out := s
	if s.Items != nil {
		out.Items = make([]SaleItem, len(s.Items))
		copy(out.Items, s.Items)
	}
	if s.Customer != nil {
		c := *s.Customer
		out.Customer = &c
	}
	return out
}
