package repository

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-register/internal/reconcile"
	"github.com/fekuna/omnipos-register/internal/reconcile/dto"
	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var schema string

var _ reconcile.Repository = (*PGRepository)(nil)

type PGRepository struct {
	DB      *sqlx.DB
	timeout time.Duration
}

// NewPGRepository applies timeout to every call; zero disables it.
func NewPGRepository(db *sqlx.DB, timeout time.Duration) *PGRepository {
	return &PGRepository{DB: db, timeout: timeout}
}

// Migrate creates the five remote tables when missing.
func (r *PGRepository) Migrate(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (r *PGRepository) UpsertProducts(ctx context.Context, rows []dto.ProductRow) error {
	query := `
        INSERT INTO products (id, name, sku, category, cost, price, notes, image_url, position)
        VALUES (:id, :name, :sku, :category, :cost, :price, :notes, :image_url, :position)
        ON CONFLICT (id)
        DO UPDATE SET
            name = EXCLUDED.name,
            sku = EXCLUDED.sku,
            category = EXCLUDED.category,
            cost = EXCLUDED.cost,
            price = EXCLUDED.price,
            notes = EXCLUDED.notes,
            image_url = EXCLUDED.image_url,
            position = EXCLUDED.position
    `
	return upsert(ctx, r, reconcile.TableProducts, query, rows)
}

func (r *PGRepository) UpsertVariants(ctx context.Context, rows []dto.VariantRow) error {
	query := `
        INSERT INTO product_variants (id, product_id, size, color, stock, price, position)
        VALUES (:id, :product_id, :size, :color, :stock, :price, :position)
        ON CONFLICT (id)
        DO UPDATE SET
            product_id = EXCLUDED.product_id,
            size = EXCLUDED.size,
            color = EXCLUDED.color,
            stock = EXCLUDED.stock,
            price = EXCLUDED.price,
            position = EXCLUDED.position
    `
	return upsert(ctx, r, reconcile.TableProductVariants, query, rows)
}

func (r *PGRepository) UpsertCustomers(ctx context.Context, rows []dto.CustomerRow) error {
	query := `
        INSERT INTO customers (id, name, phone, email, notes, position)
        VALUES (:id, :name, :phone, :email, :notes, :position)
        ON CONFLICT (id)
        DO UPDATE SET
            name = EXCLUDED.name,
            phone = EXCLUDED.phone,
            email = EXCLUDED.email,
            notes = EXCLUDED.notes,
            position = EXCLUDED.position
    `
	return upsert(ctx, r, reconcile.TableCustomers, query, rows)
}

func (r *PGRepository) UpsertSales(ctx context.Context, rows []dto.SaleRow) error {
	query := `
        INSERT INTO sales (
            id, created_at, subtotal, discount, tax_rate, tax_amount, total,
            payment_method, customer_id, customer_snapshot, notes, position
        )
        VALUES (
            :id, :created_at, :subtotal, :discount, :tax_rate, :tax_amount, :total,
            :payment_method, :customer_id, :customer_snapshot, :notes, :position
        )
        ON CONFLICT (id)
        DO UPDATE SET
            created_at = EXCLUDED.created_at,
            subtotal = EXCLUDED.subtotal,
            discount = EXCLUDED.discount,
            tax_rate = EXCLUDED.tax_rate,
            tax_amount = EXCLUDED.tax_amount,
            total = EXCLUDED.total,
            payment_method = EXCLUDED.payment_method,
            customer_id = EXCLUDED.customer_id,
            customer_snapshot = EXCLUDED.customer_snapshot,
            notes = EXCLUDED.notes,
            position = EXCLUDED.position
    `
	return upsert(ctx, r, reconcile.TableSales, query, rows)
}

func (r *PGRepository) UpsertSaleItems(ctx context.Context, rows []dto.SaleItemRow) error {
	query := `
        INSERT INTO sale_items (id, sale_id, product_id, variant_id, sku, name, size, color, qty, price, position)
        VALUES (:id, :sale_id, :product_id, :variant_id, :sku, :name, :size, :color, :qty, :price, :position)
        ON CONFLICT (id)
        DO UPDATE SET
            sale_id = EXCLUDED.sale_id,
            product_id = EXCLUDED.product_id,
            variant_id = EXCLUDED.variant_id,
            sku = EXCLUDED.sku,
            name = EXCLUDED.name,
            size = EXCLUDED.size,
            color = EXCLUDED.color,
            qty = EXCLUDED.qty,
            price = EXCLUDED.price,
            position = EXCLUDED.position
    `
	return upsert(ctx, r, reconcile.TableSaleItems, query, rows)
}

func (r *PGRepository) ListProducts(ctx context.Context) ([]dto.ProductRow, error) {
	var rows []dto.ProductRow
	query := `SELECT id, name, sku, category, cost, price, notes, image_url, position FROM products`
	return rows, r.selectAll(ctx, &rows, query)
}

func (r *PGRepository) ListVariants(ctx context.Context) ([]dto.VariantRow, error) {
	var rows []dto.VariantRow
	query := `SELECT id, product_id, size, color, stock, price, position FROM product_variants`
	return rows, r.selectAll(ctx, &rows, query)
}

func (r *PGRepository) ListCustomers(ctx context.Context) ([]dto.CustomerRow, error) {
	var rows []dto.CustomerRow
	query := `SELECT id, name, phone, email, notes, position FROM customers`
	return rows, r.selectAll(ctx, &rows, query)
}

func (r *PGRepository) ListSales(ctx context.Context) ([]dto.SaleRow, error) {
	var rows []dto.SaleRow
	query := `
        SELECT id, created_at, subtotal, discount, tax_rate, tax_amount, total,
               payment_method, customer_id, customer_snapshot, notes, position
        FROM sales
    `
	return rows, r.selectAll(ctx, &rows, query)
}

func (r *PGRepository) ListSaleItems(ctx context.Context) ([]dto.SaleItemRow, error) {
	var rows []dto.SaleItemRow
	query := `
        SELECT id, sale_id, product_id, variant_id, sku, name, size, color, qty, price, position
        FROM sale_items
    `
	return rows, r.selectAll(ctx, &rows, query)
}

func (r *PGRepository) selectAll(ctx context.Context, dest interface{}, query string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.DB.SelectContext(ctx, dest, query)
}

func (r *PGRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// upsert writes one table inside a single transaction so a table is either
// fully written or untouched.
func upsert[T any](ctx context.Context, r *PGRepository, table, query string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare %s upsert: %w", table, err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row); err != nil {
			return fmt.Errorf("upsert %s: %w", table, err)
		}
	}
	return tx.Commit()
}
