package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/polkiloo/quickmart/internal/domain/model"
	"github.com/polkiloo/quickmart/internal/domain/repository"
	"github.com/polkiloo/quickmart/internal/report"
)

// ReportUseCase exports storefront data as CSV.
type ReportUseCase struct {
	users    repository.UserRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
	logger   *slog.Logger
}

// NewReportUseCase constructs ReportUseCase.
func NewReportUseCase(users repository.UserRepository, products repository.ProductRepository, orders repository.OrderRepository, logger *slog.Logger) *ReportUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportUseCase{users: users, products: products, orders: orders, logger: logger}
}

// Export loads datasets required by kind concurrently and writes CSV into w.
func (u *ReportUseCase) Export(ctx context.Context, kind string, filter model.OrderFilter, w io.Writer) error {
	k, err := report.ParseKind(kind)
	if err != nil {
		return err
	}

	needUsers, needProducts, needOrders := k.Needs()
	var data report.Dataset

	g, gctx := errgroup.WithContext(ctx)
	if needUsers {
		g.Go(func() error {
			users, err := u.users.List(gctx)
			if err != nil {
				return fmt.Errorf("load users: %w", err)
			}
			data.Users = users
			return nil
		})
	}
	if needProducts {
		g.Go(func() error {
			products, err := u.products.List(gctx, nil)
			if err != nil {
				return fmt.Errorf("load products: %w", err)
			}
			data.Products = products
			return nil
		})
	}
	if needOrders {
		g.Go(func() error {
			orders, err := u.orders.List(gctx, filter)
			if err != nil {
				return fmt.Errorf("load orders: %w", err)
			}
			data.Orders = orders
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := report.Write(w, k, data); err != nil {
		return err
	}

	u.logger.Info("report exported",
		slog.String("kind", string(k)),
		slog.Int("users", len(data.Users)),
		slog.Int("products", len(data.Products)),
		slog.Int("orders", len(data.Orders)),
	)
	return nil
}
