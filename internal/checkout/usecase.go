package checkout

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/cart"
	"github.com/fekuna/omnipos-register/internal/checkout/dto"
	"github.com/fekuna/omnipos-register/internal/model"
)

type UseCase interface {
	// Checkout validates every line against current stock, builds the sale,
	// then decrements stock, records the sale and clears the cart. Any error
	// leaves catalog, history and cart untouched.
	Checkout(ctx context.Context, c *cart.Cart, input dto.CheckoutInput) (*model.Sale, error)
	SetPaymentProfile(profile string)
}
