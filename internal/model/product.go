package model

import "strings"

type Product struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	SKU      string    `json:"sku" yaml:"sku"`
	Category string    `json:"category" yaml:"category"`
	Cost     float64   `json:"cost" yaml:"cost"`
	Price    float64   `json:"price" yaml:"price"`
	Notes    string    `json:"notes" yaml:"notes"`
	ImageURL string    `json:"image_url" yaml:"image_url"`
	Variants []Variant `json:"variants" yaml:"variants"`
}

type Variant struct {
	ID    string   `json:"id" yaml:"id"`
	Size  string   `json:"size" yaml:"size"`
	Color string   `json:"color" yaml:"color"`
	Stock int      `json:"stock" yaml:"stock"`
	Price *float64 `json:"price,omitempty" yaml:"price,omitempty"` // Nil means use the product price
}

// EffectivePrice returns the variant override, falling back to the product price.
func (p *Product) EffectivePrice(v *Variant) float64 {
	if v != nil && v.Price != nil {
		return *v.Price
	}
	return p.Price
}

// DisplaySKU is the composite {sku}-{size}-{color} code printed on tags.
func (p *Product) DisplaySKU(v *Variant) string {
	if v == nil {
		return p.SKU
	}
	return strings.Join([]string{p.SKU, v.Size, v.Color}, "-")
}

// FindVariant returns a pointer into p.Variants, or nil.
func (p *Product) FindVariant(id string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}

// Clone returns a deep copy that shares no memory with p.
func (p Product) Clone() Product {
	out := p
	if p.Variants != nil {
		out.Variants = make([]Variant, len(p.Variants))
		for i, v := range p.Variants {
			out.Variants[i] = v.Clone()
		}
	}
	return out
}

func (v Variant) Clone() Variant {
	out := v
	if v.Price != nil {
		price := *v.Price
		out.Price = &price
	}
	return out
}
