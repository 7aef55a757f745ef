package pricing

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/polkiloo/quickmart/internal/domain/model"
)

// FeeTable holds delivery fee policy. It is business data, not code.
type FeeTable struct {
	FreeFirstOrder   bool
	FreeThreshold    decimal.Decimal
	DefaultFee       decimal.Decimal
	ExpressSurcharge decimal.Decimal
	Zones            map[string]decimal.Decimal
}

type feeTableFile struct {
	FreeFirstOrder   *bool              `yaml:"free_first_order"`
	FreeThreshold    *float64           `yaml:"free_threshold"`
	DefaultFee       *float64           `yaml:"default_fee"`
	ExpressSurcharge *float64           `yaml:"express_surcharge"`
	Zones            map[string]float64 `yaml:"zones"`
}

// DefaultFeeTable returns the built-in policy used when no file is configured.
func DefaultFeeTable() FeeTable {
	return FeeTable{
		FreeFirstOrder:   true,
		FreeThreshold:    decimal.NewFromInt(1000),
		DefaultFee:       decimal.NewFromInt(40),
		ExpressSurcharge: decimal.NewFromInt(20),
		Zones: map[string]decimal.Decimal{
			"central":  decimal.NewFromInt(25),
			"inner":    decimal.NewFromInt(35),
			"outer":    decimal.NewFromInt(50),
			"suburban": decimal.NewFromInt(70),
		},
	}
}

// LoadFeeTable reads YAML overrides on top of the defaults. Empty path yields defaults.
func LoadFeeTable(path string) (FeeTable, error) {
	table := DefaultFeeTable()
	if path == "" {
		return table, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return FeeTable{}, fmt.Errorf("read fee table: %w", err)
	}
	return ParseFeeTable(content)
}

// ParseFeeTable decodes YAML fee policy over the defaults.
func ParseFeeTable(content []byte) (FeeTable, error) {
	table := DefaultFeeTable()

	var raw feeTableFile
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return FeeTable{}, fmt.Errorf("parse fee table: %w", err)
	}

	if raw.FreeFirstOrder != nil {
		table.FreeFirstOrder = *raw.FreeFirstOrder
	}
	if raw.FreeThreshold != nil {
		table.FreeThreshold = decimal.NewFromFloat(*raw.FreeThreshold)
	}
	if raw.DefaultFee != nil {
		table.DefaultFee = decimal.NewFromFloat(*raw.DefaultFee)
	}
	if raw.ExpressSurcharge != nil {
		table.ExpressSurcharge = decimal.NewFromFloat(*raw.ExpressSurcharge)
	}
	if raw.Zones != nil {
		table.Zones = make(map[string]decimal.Decimal, len(raw.Zones))
		for zone, fee := range raw.Zones {
			table.Zones[normalizeZone(zone)] = decimal.NewFromFloat(fee)
		}
	}

	if table.DefaultFee.IsNegative() || table.FreeThreshold.IsNegative() || table.ExpressSurcharge.IsNegative() {
		return FeeTable{}, fmt.Errorf("fee table values must not be negative")
	}
	for zone, fee := range table.Zones {
		if fee.IsNegative() {
			return FeeTable{}, fmt.Errorf("fee for zone %q must not be negative", zone)
		}
	}

	return table, nil
}

// DeliveryFee applies the tier rules: first order free, large orders free,
// otherwise zone fee (default when zone unknown) plus express surcharge.
func (t FeeTable) DeliveryFee(net decimal.Decimal, zone string, firstOrder bool, delivery model.DeliveryType) decimal.Decimal {
	if firstOrder && t.FreeFirstOrder {
		return decimal.Zero
	}
	if t.FreeThreshold.IsPositive() && net.GreaterThan(t.FreeThreshold) {
		return decimal.Zero
	}

	fee, ok := t.Zones[normalizeZone(zone)]
	if !ok {
		fee = t.DefaultFee
	}
	if delivery == model.DeliveryExpress {
		fee = fee.Add(t.ExpressSurcharge)
	}
	return fee
}

func normalizeZone(zone string) string {
	return strings.ToLower(strings.TrimSpace(zone))
}
