// Package register hosts one register's state: it owns the catalog, the
// sale history and the cart, and serializes every operation that touches
// them.
package register

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/fekuna/omnipos-register/internal/cart"
	"github.com/fekuna/omnipos-register/internal/catalog"
	catdto "github.com/fekuna/omnipos-register/internal/catalog/dto"
	"github.com/fekuna/omnipos-register/internal/checkout"
	"github.com/fekuna/omnipos-register/internal/checkout/dto"
	"github.com/fekuna/omnipos-register/internal/events"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/money"
	"github.com/fekuna/omnipos-register/internal/reconcile"
	"github.com/fekuna/omnipos-register/internal/sale"
	"github.com/fekuna/omnipos-register/internal/snapshot"
	"go.uber.org/zap"
)

type Options struct {
	// Seed replaces the settings of a snapshot that has never been saved.
	Seed      *model.Settings
	Remote    reconcile.UseCase // Nil means sync is not configured
	Locker    checkout.Locker
	Publisher events.Publisher
	Clock     func() time.Time
}

type Register struct {
	mu       sync.Mutex
	repo     snapshot.Repository
	settings model.Settings
	catalog  *catalog.Store
	history  *sale.History
	cart     *cart.Cart
	engine   checkout.UseCase
	remote   reconcile.UseCase
	clock    func() time.Time
	logger   logger.ZapLogger
}

// Open loads the stored snapshot and builds the register around it.
func Open(ctx context.Context, repo snapshot.Repository, log logger.ZapLogger, opts Options) (*Register, error) {
	snap, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if opts.Seed != nil && isFresh(snap) {
		snap.Settings = *opts.Seed
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Remote == nil {
		opts.Remote = reconcile.NewService(nil, log)
	}

	r := &Register{
		repo:     repo,
		settings: snap.Settings,
		catalog:  catalog.NewStore(snap.Products, snap.Customers),
		history:  sale.NewHistory(snap.Sales),
		remote:   opts.Remote,
		clock:    opts.Clock,
		logger:   log,
	}
	r.cart = cart.New(r.catalog, r.settings.TaxRate)
	r.engine = checkout.NewEngine(r.catalog, r.history, log, checkout.Options{
		PaymentProfile: r.settings.PaymentProfile,
		Locker:         opts.Locker,
		Publisher:      opts.Publisher,
		Clock:          opts.Clock,
	})

	log.Debug("register opened",
		zap.Int("products", len(snap.Products)),
		zap.Int("customers", len(snap.Customers)),
		zap.Int("sales", len(snap.Sales)),
	)
	return r, nil
}

func isFresh(snap *model.Snapshot) bool {
	return len(snap.Products) == 0 && len(snap.Customers) == 0 && len(snap.Sales) == 0 &&
		snap.Settings == model.DefaultSettings()
}

// Snapshot returns a copy of the whole state.
func (r *Register) Snapshot() model.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

func (r *Register) snapshot() model.Snapshot {
	return model.Snapshot{
		Settings:  r.settings,
		Products:  r.catalog.Products(),
		Customers: r.catalog.Customers(),
		Sales:     r.history.All(),
	}
}

func (r *Register) Save(ctx context.Context) error {
	r.mu.Lock()
	snap := r.snapshot()
	r.mu.Unlock()

	if err := r.repo.Save(ctx, &snap); err != nil {
		r.logger.Error("failed to save snapshot", zap.Error(err))
		return err
	}
	return nil
}

// replace swaps the whole state. Caller holds mu.
func (r *Register) replace(snap model.Snapshot) {
	r.settings = snap.Settings
	r.catalog.Replace(snap.Products, snap.Customers)
	r.history.Replace(snap.Sales)
	r.engine.SetPaymentProfile(r.settings.PaymentProfile)
	r.cart = cart.New(r.catalog, r.settings.TaxRate)
}

func (r *Register) Settings() model.Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings
}

// Catalog

func (r *Register) Products() []model.Product   { return r.catalog.Products() }
func (r *Register) Customers() []model.Customer { return r.catalog.Customers() }
func (r *Register) Sales() []model.Sale         { return r.history.All() }

func (r *Register) CreateProduct(input catdto.CreateProductInput) (model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.catalog.CreateProduct(input)
}

func (r *Register) UpdateProduct(input catdto.UpdateProductInput) (model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.catalog.UpdateProduct(input)
}

func (r *Register) AddVariant(input catdto.CreateVariantInput) (model.Variant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.catalog.AddVariant(input)
}

func (r *Register) AdjustStock(productID, variantID string, delta int) (model.Variant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.catalog.AdjustStock(productID, variantID, delta)
}

func (r *Register) CreateCustomer(input catdto.CreateCustomerInput) (model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.catalog.CreateCustomer(input)
}

func (r *Register) UpdateCustomer(input catdto.UpdateCustomerInput) (model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.catalog.UpdateCustomer(input)
}

// Cart

func (r *Register) AddToCart(productID, variantID string) (model.CartLine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cart.Add(productID, variantID)
}

func (r *Register) AddBySKU(code string) (model.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cart.AddBySKU(code)
}

func (r *Register) UpdateQuantity(lineID string, qty int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cart.UpdateQuantity(lineID, qty)
}

func (r *Register) RemoveLine(lineID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cart.Remove(lineID)
}

func (r *Register) ClearCart() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cart.Clear()
}

func (r *Register) SetDiscount(amount float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cart.SetDiscount(amount)
}

func (r *Register) SetTaxRate(rate float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cart.SetTaxRate(rate)
}

func (r *Register) CartLines() []model.CartLine {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cart.Lines()
}

func (r *Register) CartTotals() money.Totals {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cart.Totals()
}

func (r *Register) Checkout(ctx context.Context, input dto.CheckoutInput) (*model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engine.Checkout(ctx, r.cart, input)
}

// Sync

func (r *Register) Push(ctx context.Context) error {
	snap := r.Snapshot()
	return r.remote.Push(ctx, snap)
}

// Pull replaces products, customers and sales with the remote copy. The
// register lock is held for the whole pull so no checkout interleaves.
func (r *Register) Pull(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, err := r.remote.Sync(ctx, reconcile.DirectionPull, r.snapshot())
	if err != nil {
		return err
	}
	r.replace(next)
	return nil
}

// Export / import

func (r *Register) Export(w io.Writer, format snapshot.Format) error {
	snap := r.Snapshot()
	return snapshot.Export(w, &snap, format)
}

// Import decodes fully before applying, so a malformed document changes
// nothing.
func (r *Register) Import(reader io.Reader, format snapshot.Format) error {
	doc, err := snapshot.Import(reader, format)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.snapshot()
	doc.ApplyTo(&snap)
	r.replace(snap)
	r.logger.Info("snapshot imported",
		zap.Bool("settings", doc.Settings != nil),
		zap.Bool("products", doc.Products != nil),
		zap.Bool("customers", doc.Customers != nil),
		zap.Bool("sales", doc.Sales != nil),
	)
	return nil
}

// Report

type Report struct {
	Currency          string
	SalesCount        int
	TodayTotal        float64
	InventoryAtCost   float64
	InventoryAtRetail float64
	LowStock          []catdto.LowStockItem
}

func (r *Register) Report() Report {
	r.mu.Lock()
	defer r.mu.Unlock()

	atCost, atRetail := r.catalog.InventoryValue()
	return Report{
		Currency:          r.settings.Currency,
		SalesCount:        r.history.Count(),
		TodayTotal:        r.history.TodayTotal(r.clock()),
		InventoryAtCost:   atCost,
		InventoryAtRetail: atRetail,
		LowStock:          r.catalog.LowStock(r.settings.LowStockThreshold),
	}
}
