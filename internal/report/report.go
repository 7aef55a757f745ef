// Package report renders storefront datasets as CSV exports.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/quickmart/internal/domain/errors"
	"github.com/polkiloo/quickmart/internal/domain/model"
)

// Kind names an export.
type Kind string

const (
	KindSales     Kind = "sales"
	KindOrders    Kind = "orders"
	KindUsers     Kind = "users"
	KindProducts  Kind = "products"
	KindSuppliers Kind = "suppliers"
)

// Kinds lists every supported export.
var Kinds = []Kind{KindSales, KindOrders, KindUsers, KindProducts, KindSuppliers}

const (
	dayLayout       = "2006-01-02"
	timestampLayout = time.RFC3339
)

// ParseKind validates raw report name.
func ParseKind(raw string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown report %q", domainErrors.ErrValidationFailed, raw)
}

// Needs reports which datasets the export reads.
func (k Kind) Needs() (users, products, orders bool) {
	switch k {
	case KindSales, KindOrders:
		return false, false, true
	case KindUsers:
		return true, false, false
	case KindProducts:
		return false, true, false
	case KindSuppliers:
		return true, true, true
	}
	return false, false, false
}

// Dataset holds loaded records an export is built from.
type Dataset struct {
	Users    []model.User
	Products []model.Product
	Orders   []model.Order
}

// Write renders kind as CSV into w.
func Write(w io.Writer, kind Kind, data Dataset) error {
	var (
		header []string
		rows   [][]string
	)

	switch kind {
	case KindSales:
		header, rows = salesHeader, salesRows(data.Orders)
	case KindOrders:
		header, rows = ordersHeader, orderRows(data.Orders)
	case KindUsers:
		header, rows = usersHeader, userRows(data.Users)
	case KindProducts:
		header, rows = productsHeader, productRows(data.Products)
	case KindSuppliers:
		header, rows = suppliersHeader, supplierRows(data)
	default:
		return fmt.Errorf("%w: unknown report %q", domainErrors.ErrValidationFailed, kind)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

var (
	salesHeader     = []string{"date", "orders", "items_sold", "gross", "delivery_fees", "discounts", "revenue"}
	ordersHeader    = []string{"order_number", "order_id", "customer_id", "status", "items", "subtotal", "delivery_fee", "discount", "total", "payment_method", "payment_status", "created_at", "delivered_at"}
	usersHeader     = []string{"user_id", "email", "name", "role", "created_at"}
	productsHeader  = []string{"product_id", "supplier_id", "name", "price", "discounted_price", "discount_percent", "stock"}
	suppliersHeader = []string{"supplier_id", "name", "email", "products", "orders", "revenue"}
)

type dailySales struct {
	orders    int
	items     int
	gross     decimal.Decimal
	fees      decimal.Decimal
	discounts decimal.Decimal
	revenue   decimal.Decimal
}

func salesRows(orders []model.Order) [][]string {
	days := make(map[string]*dailySales)
	for _, o := range orders {
		if o.Status == model.OrderStatusCancelled {
			continue
		}
		key := o.CreatedAt.UTC().Format(dayLayout)
		day, ok := days[key]
		if !ok {
			day = &dailySales{}
			days[key] = day
		}
		day.orders++
		day.items += o.ItemCount()
		day.gross = day.gross.Add(o.Subtotal)
		day.fees = day.fees.Add(o.DeliveryFee)
		day.discounts = day.discounts.Add(o.Discount)
		day.revenue = day.revenue.Add(o.Total)
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		d := days[k]
		rows = append(rows, []string{
			k,
			strconv.Itoa(d.orders),
			strconv.Itoa(d.items),
			money(d.gross),
			money(d.fees),
			money(d.discounts),
			money(d.revenue),
		})
	}
	return rows
}

func orderRows(orders []model.Order) [][]string {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		delivered := ""
		if o.ActualDelivery != nil {
			delivered = o.ActualDelivery.UTC().Format(timestampLayout)
		}
		rows = append(rows, []string{
			o.Number,
			o.ID.String(),
			strconv.FormatInt(o.CustomerID, 10),
			o.Status.String(),
			strconv.Itoa(o.ItemCount()),
			money(o.Subtotal),
			money(o.DeliveryFee),
			money(o.Discount),
			money(o.Total),
			string(o.PaymentMethod),
			string(o.PaymentStatus),
			o.CreatedAt.UTC().Format(timestampLayout),
			delivered,
		})
	}
	return rows
}

func userRows(users []model.User) [][]string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			strconv.FormatInt(u.ID, 10),
			u.Email,
			u.Name,
			string(u.Role),
			u.CreatedAt.UTC().Format(timestampLayout),
		})
	}
	return rows
}

func productRows(products []model.Product) [][]string {
	rows := make([][]string, 0, len(products))
	for i := range products {
		p := &products[i]
		discounted, stock := "", ""
		if p.DiscountedPrice != nil {
			discounted = money(*p.DiscountedPrice)
		}
		if p.Stock != nil {
			stock = strconv.Itoa(*p.Stock)
		}
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			strconv.FormatInt(p.SupplierID, 10),
			p.Name,
			money(p.Price),
			discounted,
			strconv.Itoa(p.DiscountPercent()),
			stock,
		})
	}
	return rows
}

type supplierTotals struct {
	products int
	orders   int
	revenue  decimal.Decimal
}

func supplierRows(data Dataset) [][]string {
	totals := make(map[int64]*supplierTotals)
	get := func(id int64) *supplierTotals {
		t, ok := totals[id]
		if !ok {
			t = &supplierTotals{}
			totals[id] = t
		}
		return t
	}

	for _, p := range data.Products {
		get(p.SupplierID).products++
	}
	for _, o := range data.Orders {
		if o.Status == model.OrderStatusCancelled {
			continue
		}
		counted := make(map[int64]bool)
		for _, item := range o.Items {
			t := get(item.SupplierID)
			t.revenue = t.revenue.Add(item.LineTotal)
			if !counted[item.SupplierID] {
				t.orders++
				counted[item.SupplierID] = true
			}
		}
	}

	rows := make([][]string, 0)
	for _, u := range data.Users {
		if u.Role != model.RoleSupplier {
			continue
		}
		t := get(u.ID)
		rows = append(rows, []string{
			strconv.FormatInt(u.ID, 10),
			u.Name,
			u.Email,
			strconv.Itoa(t.products),
			strconv.Itoa(t.orders),
			money(t.revenue),
		})
	}
	return rows
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
