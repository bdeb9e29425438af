package dto

import "github.com/fekuna/omnipos-register/internal/model"

// CheckoutInput carries what the cart does not: discount and tax rate are
// read from the cart itself.
type CheckoutInput struct {
	PaymentMethod model.PaymentMethod
	CustomerID    string // Optional
	Notes         string
}
