package dto

type CreateProductInput struct {
	Name     string
	SKU      string
	Category string
	Cost     float64
	Price    float64
	Notes    string
	ImageURL string
}

type UpdateProductInput struct {
	ID       string
	Name     string
	SKU      string
	Category string
	Cost     float64
	Price    float64
	Notes    string
	ImageURL string
}

type CreateVariantInput struct {
	ProductID string
	Size      string
	Color     string
	Stock     int
	Price     *float64 // Optional override
}

type CreateCustomerInput struct {
	Name  string
	Phone string
	Email string
	Notes string
}

type UpdateCustomerInput struct {
	ID    string
	Name  string
	Phone string
	Email string
	Notes string
}
