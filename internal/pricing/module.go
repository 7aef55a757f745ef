package pricing

import (
	"go.uber.org/fx"

	"github.com/polkiloo/quickmart/internal/config"
)

// Module provides the cart pricing calculator built from configured fee table.
var Module = fx.Provide(newCalculator)

func newCalculator(cfg *config.Config) (*Calculator, error) {
	table, err := LoadFeeTable(cfg.FeeTableFile)
	if err != nil {
		return nil, err
	}
	return NewCalculator(table), nil
}
