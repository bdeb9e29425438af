package reconcile

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/reconcile/dto"
)

const (
	TableProducts        = "products"
	TableProductVariants = "product_variants"
	TableCustomers       = "customers"
	TableSales           = "sales"
	TableSaleItems       = "sale_items"
)

// Repository is the remote store: upsert-by-id and select-all per table.
type Repository interface {
	UpsertProducts(ctx context.Context, rows []dto.ProductRow) error
	UpsertVariants(ctx context.Context, rows []dto.VariantRow) error
	UpsertCustomers(ctx context.Context, rows []dto.CustomerRow) error
	UpsertSales(ctx context.Context, rows []dto.SaleRow) error
	UpsertSaleItems(ctx context.Context, rows []dto.SaleItemRow) error

	ListProducts(ctx context.Context) ([]dto.ProductRow, error)
	ListVariants(ctx context.Context) ([]dto.VariantRow, error)
	ListCustomers(ctx context.Context) ([]dto.CustomerRow, error)
	ListSales(ctx context.Context) ([]dto.SaleRow, error)
	ListSaleItems(ctx context.Context) ([]dto.SaleItemRow, error)
}
