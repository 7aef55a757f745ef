package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkiloo/quickmart/internal/domain/model"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestDeliveryFeeRules(t *testing.T) {
	table := DefaultFeeTable()

	cases := []struct {
		name       string
		net        string
		zone       string
		firstOrder bool
		delivery   model.DeliveryType
		want       string
	}{
		{"first order is free", "200", "outer", true, model.DeliveryStandard, "0"},
		{"above threshold is free", "1000.01", "outer", false, model.DeliveryExpress, "0"},
		{"threshold itself is charged", "1000", "central", false, model.DeliveryStandard, "25"},
		{"zone fee", "300", "Suburban ", false, model.DeliveryStandard, "70"},
		{"unknown zone uses default", "300", "mars", false, model.DeliveryStandard, "40"},
		{"express surcharge", "300", "inner", false, model.DeliveryExpress, "55"},
		{"scheduled behaves as standard", "300", "", false, model.DeliveryScheduled, "40"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := table.DeliveryFee(dec(tc.net), tc.zone, tc.firstOrder, tc.delivery)
			assert.True(t, got.Equal(dec(tc.want)), "expected %s, got %s", tc.want, got)
		})
	}
}

func TestParseFeeTableOverrides(t *testing.T) {
	table, err := ParseFeeTable([]byte(`
free_first_order: false
free_threshold: 500
default_fee: 30
zones:
  North: 15
`))
	require.NoError(t, err)

	assert.False(t, table.FreeFirstOrder)
	assert.True(t, table.FreeThreshold.Equal(dec("500")))
	assert.True(t, table.DefaultFee.Equal(dec("30")))
	assert.True(t, table.ExpressSurcharge.Equal(dec("20")), "unset keys keep defaults")
	require.Len(t, table.Zones, 1)
	assert.True(t, table.Zones["north"].Equal(dec("15")))
}

func TestParseFeeTableRejectsNegative(t *testing.T) {
	_, err := ParseFeeTable([]byte("default_fee: -1\n"))
	assert.Error(t, err)

	_, err = ParseFeeTable([]byte("zones:\n  a: -5\n"))
	assert.Error(t, err)

	_, err = ParseFeeTable([]byte("zones: [broken"))
	assert.Error(t, err)
}

func TestLoadFeeTable(t *testing.T) {
	table, err := LoadFeeTable("")
	require.NoError(t, err)
	assert.True(t, table.DefaultFee.Equal(DefaultFeeTable().DefaultFee))

	path := filepath.Join(t.TempDir(), "fees.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_fee: 45\n"), 0o600))
	table, err = LoadFeeTable(path)
	require.NoError(t, err)
	assert.True(t, table.DefaultFee.Equal(dec("45")))

	_, err = LoadFeeTable(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCalculatorQuote(t *testing.T) {
	discounted := dec("75")
	stock := 10
	milk := model.Product{ID: 1, SupplierID: 7, Name: "Milk", Price: dec("100"), DiscountedPrice: &discounted, Stock: &stock}
	bread := model.Product{ID: 2, SupplierID: 8, Name: "Bread", Price: dec("40")}

	calc := NewCalculator(DefaultFeeTable())
	q := calc.Quote(QuoteInput{
		Lines:    []Line{{Product: milk, Quantity: 2}, {Product: bread, Quantity: 3}},
		Zone:     "central",
		Delivery: model.DeliveryStandard,
	})

	require.Len(t, q.Lines, 2)
	assert.Equal(t, 25, q.Lines[0].DiscountPercent)
	assert.True(t, q.Lines[0].LineTotal.Equal(dec("200")))
	assert.True(t, q.Lines[0].Savings.Equal(dec("50")))
	assert.True(t, q.Subtotal.Equal(dec("320")), "subtotal %s", q.Subtotal)
	assert.True(t, q.Discount.Equal(dec("50")), "discount %s", q.Discount)
	assert.True(t, q.DeliveryFee.Equal(dec("25")), "fee %s", q.DeliveryFee)
	assert.True(t, q.Total.Equal(q.Subtotal.Add(q.DeliveryFee).Sub(q.Discount)))
	assert.True(t, q.Total.Equal(dec("295")), "total %s", q.Total)
}

func TestCalculatorQuoteThresholdUsesNetAmount(t *testing.T) {
	discounted := dec("900")
	p := model.Product{ID: 1, Price: dec("1200"), DiscountedPrice: &discounted}

	q := NewCalculator(DefaultFeeTable()).Quote(QuoteInput{
		Lines: []Line{{Product: p, Quantity: 1}},
		Zone:  "outer",
	})

	assert.True(t, q.DeliveryFee.Equal(dec("50")), "net 900 is below threshold, got %s", q.DeliveryFee)
	assert.True(t, q.Total.Equal(dec("950")), "total %s", q.Total)
}
