package usecase

import (
	"go.uber.org/fx"

	"github.com/polkiloo/quickmart/internal/config"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newOrderNumberGenerator,
	NewAuthUseCase,
	NewOrderUseCase,
	NewCheckoutUseCase,
	NewCatalogUseCase,
	NewReportUseCase,
)

func newOrderNumberGenerator(cfg *config.Config) *OrderNumberGenerator {
	return NewOrderNumberGenerator(cfg.OrderNumberPrefix)
}
