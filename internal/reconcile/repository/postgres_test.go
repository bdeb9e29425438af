package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/reconcile"
	"github.com/fekuna/omnipos-register/internal/reconcile/dto"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// setupTestDB runs the same upsert SQL against an in-memory SQLite engine.
func setupTestDB(t *testing.T) *PGRepository {
	t.Helper()

	sqlx.BindDriver("sqlite", sqlx.QUESTION)
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	repo := NewPGRepository(db, 5*time.Second)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func count(t *testing.T, repo *PGRepository, table string) int {
	t.Helper()
	var n int
	require.NoError(t, repo.DB.Get(&n, "SELECT count(*) FROM "+table))
	return n
}

func TestUpsertProducts_IdempotentAndUpdatesInPlace(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	rows := []dto.ProductRow{
		{ID: "p1", Name: sql.NullString{String: "Tee", Valid: true}, SKU: sql.NullString{String: "TEE", Valid: true}, Price: sql.NullFloat64{Float64: 12, Valid: true}},
		{ID: "p2", Name: sql.NullString{String: "Cap", Valid: true}},
	}
	require.NoError(t, repo.UpsertProducts(ctx, rows))
	require.NoError(t, repo.UpsertProducts(ctx, rows))
	assert.Equal(t, 2, count(t, repo, "products"))

	rows[0].Price = sql.NullFloat64{Float64: 14, Valid: true}
	require.NoError(t, repo.UpsertProducts(ctx, rows[:1]))

	got, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, r := range got {
		if r.ID == "p1" {
			assert.Equal(t, 14.0, r.Price.Float64)
		}
	}
}

func TestUpsert_EmptyIsNoop(t *testing.T) {
	repo := setupTestDB(t)
	require.NoError(t, repo.UpsertSaleItems(context.Background(), nil))
	assert.Equal(t, 0, count(t, repo, "sale_items"))
}

func TestList_NullColumnsScan(t *testing.T) {
	repo := setupTestDB(t)
	_, err := repo.DB.Exec(`INSERT INTO product_variants (id, product_id) VALUES ('v1', 'p1')`)
	require.NoError(t, err)

	got, err := repo.ListVariants(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Stock.Valid)
	assert.False(t, got[0].Price.Valid)
	assert.False(t, got[0].Size.Valid)
}

func TestService_RoundTripThroughSQL(t *testing.T) {
	repo := setupTestDB(t)
	svc := reconcile.NewService(repo, logger.NewNop())
	override := 15.0

	local := model.Snapshot{
		Settings: model.DefaultSettings(),
		Products: []model.Product{
			{
				ID: "p1", Name: "Basic Tee", SKU: "TEE-001", Cost: 4, Price: 12,
				Variants: []model.Variant{
					{ID: "v2", Size: "L", Color: "White", Stock: 1, Price: &override},
					{ID: "v1", Size: "M", Color: "Black", Stock: 3},
				},
			},
			{ID: "p2", Name: "Apron", SKU: "APR-01", Price: 20},
		},
		Customers: []model.Customer{
			{ID: "c2", Name: "Zoe"},
			{ID: "c1", Name: "Ana", Email: "ana@example.com"},
		},
		Sales: []model.Sale{{
			ID: "INV-2506-0001", CreatedAt: time.Date(2025, time.June, 15, 9, 30, 0, 0, time.UTC),
			Subtotal: 24, Total: 24, PaymentMethod: model.PaymentCash, CustomerID: "c1",
			Customer: &model.CustomerSnapshot{ID: "c1", Name: "Ana", Email: "ana@example.com"},
			Items: []model.SaleItem{
				{ID: "i1", ProductID: "p1", VariantID: "v1", SKU: "TEE-001-M-Black", Name: "Basic Tee", Size: "M", Color: "Black", Qty: 2, Price: 12},
			},
		}},
	}

	require.NoError(t, svc.Push(context.Background(), local))
	require.NoError(t, svc.Push(context.Background(), local))
	assert.Equal(t, 2, count(t, repo, "product_variants"))

	got, err := svc.Sync(context.Background(), reconcile.DirectionPull, model.Snapshot{Settings: local.Settings})
	require.NoError(t, err)
	assert.Equal(t, local, got)
}
