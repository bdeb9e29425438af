// Package checkout settles a cart into an immutable sale.
package checkout

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fekuna/omnipos-register/internal/apperror"
	"github.com/fekuna/omnipos-register/internal/cart"
	"github.com/fekuna/omnipos-register/internal/catalog"
	catdto "github.com/fekuna/omnipos-register/internal/catalog/dto"
	"github.com/fekuna/omnipos-register/internal/checkout/dto"
	"github.com/fekuna/omnipos-register/internal/events"
	"github.com/fekuna/omnipos-register/internal/invoice"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/sale"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/fekuna/omnipos-register/internal/checkout")

type Options struct {
	PaymentProfile string
	Locker         Locker // Optional cross-process lock
	Publisher      events.Publisher
	Clock          func() time.Time
}

type engine struct {
	mu        sync.Mutex
	catalog   *catalog.Store
	history   *sale.History
	profile   string
	locker    Locker
	publisher events.Publisher
	clock     func() time.Time
	newID     func() string
	logger    logger.ZapLogger
}

func NewEngine(store *catalog.Store, history *sale.History, log logger.ZapLogger, opts Options) UseCase {
	if opts.Publisher == nil {
		opts.Publisher = events.NopPublisher{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &engine{
		catalog:   store,
		history:   history,
		profile:   opts.PaymentProfile,
		locker:    opts.Locker,
		publisher: opts.Publisher,
		clock:     opts.Clock,
		newID:     uuid.NewString,
		logger:    log,
	}
}

func (e *engine) SetPaymentProfile(profile string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profile = profile
}

type resolvedLine struct {
	line    model.CartLine
	product model.Product
	variant *model.Variant
}

func (e *engine) Checkout(ctx context.Context, c *cart.Cart, input dto.CheckoutInput) (*model.Sale, error) {
	ctx, span := tracer.Start(ctx, "checkout.Checkout",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.Int("cart.lines", c.Len())),
	)
	defer span.End()

	s, err := e.checkout(ctx, c, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("sale.id", s.ID),
		attribute.Int("sale.items", len(s.Items)),
		attribute.Float64("sale.total", s.Total),
	)

	if err := e.publisher.PublishSale(ctx, *s); err != nil {
		e.logger.Warn("failed to publish sale event", zap.String("sale_id", s.ID), zap.Error(err))
	}
	return s, nil
}

func (e *engine) checkout(ctx context.Context, c *cart.Cart, input dto.CheckoutInput) (*model.Sale, error) {
	lines := c.Lines()
	if len(lines) == 0 {
		return nil, apperror.ErrEmptyCart
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	method := model.PaymentMethod(strings.ToLower(strings.TrimSpace(string(input.PaymentMethod))))
	if method == "" {
		method = model.PaymentCash
	}
	if !method.Accepts(e.profile) {
		return nil, apperror.Invalid("sale", "payment method", fmt.Sprintf("%q is not accepted", method))
	}

	var snapshot *model.CustomerSnapshot
	if input.CustomerID != "" {
		customer, ok := e.catalog.Customer(input.CustomerID)
		if !ok {
			return nil, apperror.NotFound("customer", input.CustomerID)
		}
		snapshot = customer.Snapshot()
	}

	if e.locker != nil {
		release, err := e.locker.Acquire(ctx, variantLockKeys(lines))
		if err != nil {
			return nil, err
		}
		defer release()
	}

	// 1. Validate
	resolved, decs, err := e.validate(lines)
	if err != nil {
		return nil, err
	}

	// 2. Price
	totals := c.Totals()

	// 3. Build
	now := e.clock().UTC()
	s := model.Sale{
		ID:            invoice.Generate(now, e.history.Count()),
		CreatedAt:     now,
		Items:         make([]model.SaleItem, 0, len(resolved)),
		Subtotal:      totals.Subtotal,
		Discount:      c.Discount(),
		TaxRate:       c.TaxRate(),
		TaxAmount:     totals.TaxAmount,
		Total:         totals.Total,
		PaymentMethod: method,
		CustomerID:    input.CustomerID,
		Customer:      snapshot,
		Notes:         strings.TrimSpace(input.Notes),
	}
	for _, r := range resolved {
		item := model.SaleItem{
			ID:        e.newID(),
			ProductID: r.product.ID,
			SKU:       r.product.DisplaySKU(r.variant),
			Name:      r.product.Name,
			Qty:       r.line.Qty,
			Price:     r.line.UnitPrice,
		}
		if r.variant != nil {
			item.VariantID = r.variant.ID
			item.Size = r.variant.Size
			item.Color = r.variant.Color
		}
		s.Items = append(s.Items, item)
	}

	// 4. Commit
	if err := e.catalog.ApplyDecrements(decs); err != nil {
		return nil, err
	}
	e.history.Append(s)
	c.Clear()

	e.logger.Info("sale completed",
		zap.String("sale_id", s.ID),
		zap.Int("items", len(s.Items)),
		zap.Float64("total", s.Total),
		zap.String("payment_method", string(s.PaymentMethod)),
	)

	out := s.Clone()
	return &out, nil
}

// validate resolves every line and checks stock with quantities summed per
// variant, so split lines cannot oversell one counter.
func (e *engine) validate(lines []model.CartLine) ([]resolvedLine, []catdto.Decrement, error) {
	resolved := make([]resolvedLine, 0, len(lines))
	requested := map[string]int{}
	var decs []catdto.Decrement

	for _, line := range lines {
		p, v, ok := e.catalog.Resolve(line.ProductID, line.VariantID)
		if !ok {
			if _, exists := e.catalog.Product(line.ProductID); !exists {
				return nil, nil, apperror.NotFound("product", line.ProductID)
			}
			return nil, nil, apperror.NotFound("variant", line.VariantID)
		}
		if line.VariantID == "" && v != nil {
			return nil, nil, apperror.Invalid("cart line", "variant", p.SKU+" is sold by variant")
		}
		resolved = append(resolved, resolvedLine{line: line, product: p, variant: v})
		if v == nil {
			continue
		}

		requested[v.ID] += line.Qty
		if v.Stock < requested[v.ID] {
			return nil, nil, &apperror.StockError{
				ProductID: p.ID,
				VariantID: v.ID,
				SKU:       p.DisplaySKU(v),
				Name:      p.Name,
				Requested: requested[v.ID],
				Available: v.Stock,
			}
		}
		decs = append(decs, catdto.Decrement{ProductID: p.ID, VariantID: v.ID, Qty: line.Qty})
	}
	return resolved, decs, nil
}

func variantLockKeys(lines []model.CartLine) []string {
	seen := map[string]bool{}
	keys := []string{}
	for _, l := range lines {
		if l.VariantID == "" || seen[l.VariantID] {
			continue
		}
		seen[l.VariantID] = true
		keys = append(keys, VariantLockKey(l.VariantID))
	}
	sort.Strings(keys)
	return keys
}
