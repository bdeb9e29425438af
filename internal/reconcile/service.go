// Package reconcile mirrors local register state to and from the remote
// store through idempotent upserts and full-replace pulls.
package reconcile

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-register/internal/apperror"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/reconcile/dto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("github.com/fekuna/omnipos-register/internal/reconcile")

type Direction string

const (
	DirectionPush Direction = "push"
	DirectionPull Direction = "pull"
)

// Pulled is the remote copy of the collections a pull replaces.
type Pulled struct {
	Products  []model.Product
	Customers []model.Customer
	Sales     []model.Sale
}

type service struct {
	repo   Repository
	logger logger.ZapLogger
}

// NewService accepts a nil repo; every operation then fails with
// apperror.ErrNotConfigured.
func NewService(repo Repository, log logger.ZapLogger) UseCase {
	return &service{repo: repo, logger: log}
}

func (s *service) Configured() bool {
	return s.repo != nil
}

func (s *service) Sync(ctx context.Context, direction Direction, local model.Snapshot) (model.Snapshot, error) {
	switch direction {
	case DirectionPush:
		if err := s.Push(ctx, local); err != nil {
			return local, err
		}
		return local, nil
	case DirectionPull:
		pulled, err := s.Pull(ctx)
		if err != nil {
			return local, err
		}
		local.Products = pulled.Products
		local.Customers = pulled.Customers
		local.Sales = pulled.Sales
		return local, nil
	default:
		return local, apperror.Invalid("sync", "direction", fmt.Sprintf("unknown %q", direction))
	}
}

func (s *service) Push(ctx context.Context, local model.Snapshot) (err error) {
	if !s.Configured() {
		return apperror.ErrNotConfigured
	}

	ctx, span := tracer.Start(ctx, "reconcile.Push")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	rows := Flatten(local.Products, local.Customers, local.Sales)
	span.SetAttributes(
		attribute.Int("rows.products", len(rows.Products)),
		attribute.Int("rows.product_variants", len(rows.Variants)),
		attribute.Int("rows.customers", len(rows.Customers)),
		attribute.Int("rows.sales", len(rows.Sales)),
		attribute.Int("rows.sale_items", len(rows.SaleItems)),
	)

	steps := []struct {
		table string
		count int
		run   func(context.Context) error
	}{
		{TableProducts, len(rows.Products), func(ctx context.Context) error { return s.repo.UpsertProducts(ctx, rows.Products) }},
		{TableProductVariants, len(rows.Variants), func(ctx context.Context) error { return s.repo.UpsertVariants(ctx, rows.Variants) }},
		{TableCustomers, len(rows.Customers), func(ctx context.Context) error { return s.repo.UpsertCustomers(ctx, rows.Customers) }},
		{TableSales, len(rows.Sales), func(ctx context.Context) error { return s.repo.UpsertSales(ctx, rows.Sales) }},
		{TableSaleItems, len(rows.SaleItems), func(ctx context.Context) error { return s.repo.UpsertSaleItems(ctx, rows.SaleItems) }},
	}

	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			s.logger.Error("push failed", zap.String("table", step.table), zap.Error(err))
			return &apperror.SyncError{Table: step.table, Op: "upsert", Err: err}
		}
		s.logger.Debug("pushed table", zap.String("table", step.table), zap.Int("rows", step.count))
	}

	s.logger.Info("push completed",
		zap.Int("products", len(rows.Products)),
		zap.Int("customers", len(rows.Customers)),
		zap.Int("sales", len(rows.Sales)),
	)
	return nil
}

func (s *service) Pull(ctx context.Context) (pulled Pulled, err error) {
	if !s.Configured() {
		return Pulled{}, apperror.ErrNotConfigured
	}

	ctx, span := tracer.Start(ctx, "reconcile.Pull")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var rows dto.Rows
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.repo.ListProducts(gctx)
		if err != nil {
			return &apperror.SyncError{Table: TableProducts, Op: "select", Err: err}
		}
		rows.Products = r
		return nil
	})
	g.Go(func() error {
		r, err := s.repo.ListVariants(gctx)
		if err != nil {
			return &apperror.SyncError{Table: TableProductVariants, Op: "select", Err: err}
		}
		rows.Variants = r
		return nil
	})
	g.Go(func() error {
		r, err := s.repo.ListCustomers(gctx)
		if err != nil {
			return &apperror.SyncError{Table: TableCustomers, Op: "select", Err: err}
		}
		rows.Customers = r
		return nil
	})
	g.Go(func() error {
		r, err := s.repo.ListSales(gctx)
		if err != nil {
			return &apperror.SyncError{Table: TableSales, Op: "select", Err: err}
		}
		rows.Sales = r
		return nil
	})
	g.Go(func() error {
		r, err := s.repo.ListSaleItems(gctx)
		if err != nil {
			return &apperror.SyncError{Table: TableSaleItems, Op: "select", Err: err}
		}
		rows.SaleItems = r
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("pull failed", zap.Error(err))
		return Pulled{}, err
	}

	products, customers, sales := Rebuild(rows)
	s.logger.Info("pull completed",
		zap.Int("products", len(products)),
		zap.Int("customers", len(customers)),
		zap.Int("sales", len(sales)),
	)
	return Pulled{Products: products, Customers: customers, Sales: sales}, nil
}
