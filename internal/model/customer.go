package model

type Customer struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Phone string `json:"phone" yaml:"phone"`
	Email string `json:"email" yaml:"email"`
	Notes string `json:"notes" yaml:"notes"`
}

// CustomerSnapshot is a customer's fields frozen into a sale at checkout.
type CustomerSnapshot struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Phone string `json:"phone" yaml:"phone"`
	Email string `json:"email" yaml:"email"`
	Notes string `json:"notes" yaml:"notes"`
}

func (c Customer) Snapshot() *CustomerSnapshot {
	return &CustomerSnapshot{
		ID:    c.ID,
		Name:  c.Name,
		Phone: c.Phone,
		Email: c.Email,
		Notes: c.Notes,
	}
}
