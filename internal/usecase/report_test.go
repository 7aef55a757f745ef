package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/quickmart/internal/domain/errors"
	"github.com/polkiloo/quickmart/internal/domain/model"
	testhelpers "github.com/polkiloo/quickmart/internal/test"
)

func TestReportUseCaseExport(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	f.place(t)

	users := testhelpers.NewUserRepositoryStub()
	if _, err := users.Create(ctx, &model.User{Email: "dairy@example.com", Name: "Dairy", Role: model.RoleSupplier}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	products := &testhelpers.ProductRepositoryStub{Products: []model.Product{{ID: 1, SupplierID: 1, Name: "Milk", Price: decimal.NewFromInt(60)}}}

	uc := NewReportUseCase(users, products, f.store, nil)

	var buf bytes.Buffer
	if err := uc.Export(ctx, "sales", model.OrderFilter{}, &buf); err != nil {
		t.Fatalf("export returned error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || lines[0] != "date,orders,items_sold,gross,delivery_fees,discounts,revenue" {
		t.Fatalf("unexpected sales report %q", buf.String())
	}
	if lines[1] != "2024-05-01,1,3,160.00,25.00,20.00,165.00" {
		t.Fatalf("unexpected sales row %q", lines[1])
	}

	buf.Reset()
	if err := uc.Export(ctx, "suppliers", model.OrderFilter{}, &buf); err != nil {
		t.Fatalf("export returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "1,Dairy,dairy@example.com,1,0,0.00") {
		t.Fatalf("unexpected suppliers report %q", buf.String())
	}
}

func TestReportUseCaseExportErrors(t *testing.T) {
	f := newOrderFixture()
	uc := NewReportUseCase(testhelpers.NewUserRepositoryStub(), &testhelpers.ProductRepositoryStub{}, f.store, nil)
	ctx := context.Background()

	var buf bytes.Buffer
	if err := uc.Export(ctx, "inventory", model.OrderFilter{}, &buf); !errors.Is(err, domainErrors.ErrValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}

	f.store.Err = errors.New("db down")
	if err := uc.Export(ctx, "orders", model.OrderFilter{}, &buf); err == nil || !strings.Contains(err.Error(), "load orders") {
		t.Fatalf("expected load error, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatal("failed export must not write output")
	}
}
