package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/quickmart/internal/domain/errors"
	"github.com/polkiloo/quickmart/internal/domain/model"
	"github.com/polkiloo/quickmart/internal/domain/repository"
)

const (
	// CancellationWindow is how long after creation a customer may cancel a progressed order.
	CancellationWindow = 5 * time.Minute

	standardDeliveryETA = 60 * time.Minute
	expressDeliveryETA  = 30 * time.Minute

	defaultListLimit = 50
	maxListLimit     = 200

	placedNote       = "Order placed"
	cancelNotePrefix = "Cancelled by customer: "
)

// TransitionRecorder observes successful status changes.
type TransitionRecorder interface {
	RecordTransition(status model.OrderStatus)
}

type noopRecorder struct{}

func (noopRecorder) RecordTransition(model.OrderStatus) {}

// CreateOrderInput carries a fully priced order submitted for placement.
type CreateOrderInput struct {
	CustomerID    int64
	Items         []model.OrderItem
	Subtotal      decimal.Decimal
	DeliveryFee   decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	Address       model.Address
	Instructions  string
	DeliveryType  model.DeliveryType
	ScheduledAt   *time.Time
	PaymentMethod model.PaymentMethod
}

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders  repository.OrderRepository
	numbers *OrderNumberGenerator
	metrics TransitionRecorder
	logger  *slog.Logger
	now     func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, numbers *OrderNumberGenerator, metrics TransitionRecorder, logger *slog.Logger) *OrderUseCase {
	if metrics == nil {
		metrics = noopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderUseCase{
		orders:  orders,
		numbers: numbers,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Create validates a priced order and persists it in placed status.
func (u *OrderUseCase) Create(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	now := u.now()

	if in.DeliveryType == "" {
		in.DeliveryType = model.DeliveryStandard
	}
	if err := validateCreateInput(in, now); err != nil {
		return nil, err
	}

	order := &model.Order{
		Number:               u.numbers.Next(now),
		CustomerID:           in.CustomerID,
		Items:                append([]model.OrderItem(nil), in.Items...),
		Subtotal:             in.Subtotal,
		DeliveryFee:          in.DeliveryFee,
		Discount:             in.Discount,
		Total:                in.Total,
		DeliveryAddress:      normalizeAddress(in.Address),
		DeliveryInstructions: strings.TrimSpace(in.Instructions),
		DeliveryType:         in.DeliveryType,
		PaymentMethod:        in.PaymentMethod,
		PaymentStatus:        model.PaymentStatusPending,
		EstimatedDelivery:    estimateDelivery(in.DeliveryType, in.ScheduledAt, now),
		CreatedAt:            now,
	}
	order.AppendStatus(model.OrderStatusPlaced, now, placedNote)

	created, err := u.orders.Create(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	u.metrics.RecordTransition(model.OrderStatusPlaced)
	u.logger.Info("order created",
		slog.String("order_id", created.ID.String()),
		slog.String("number", created.Number),
		slog.Int64("customer_id", created.CustomerID),
		slog.String("total", created.Total.StringFixed(2)),
	)
	return created, nil
}

// Transition moves order to status appending a history entry. Allowed moves follow the status table.
func (u *OrderUseCase) Transition(ctx context.Context, id uuid.UUID, status model.OrderStatus, note string) (*model.Order, error) {
	return u.transition(ctx, id, status, note, nil)
}

// TransitionAs applies Transition on behalf of a back-office principal.
// Suppliers may only move orders that contain their products.
func (u *OrderUseCase) TransitionAs(ctx context.Context, principal model.Principal, id uuid.UUID, status model.OrderStatus, note string) (*model.Order, error) {
	switch principal.Role {
	case model.RoleAdmin:
		return u.transition(ctx, id, status, note, nil)
	case model.RoleSupplier:
		return u.transition(ctx, id, status, note, func(o *model.Order, _ time.Time) error {
			if !o.HasSupplier(principal.UserID) {
				return domainErrors.ErrPermissionDenied
			}
			return nil
		})
	default:
		return nil, domainErrors.ErrPermissionDenied
	}
}

// Cancel cancels order if the cancellation rule allows it.
func (u *OrderUseCase) Cancel(ctx context.Context, id uuid.UUID, reason string) (*model.Order, error) {
	return u.cancel(ctx, id, reason, nil)
}

// CancelAs cancels on behalf of principal. Only the owner or an admin may cancel.
func (u *OrderUseCase) CancelAs(ctx context.Context, principal model.Principal, id uuid.UUID, reason string) (*model.Order, error) {
	return u.cancel(ctx, id, reason, func(o *model.Order) error {
		if principal.Role == model.RoleAdmin || o.CustomerID == principal.UserID {
			return nil
		}
		return domainErrors.ErrPermissionDenied
	})
}

func (u *OrderUseCase) cancel(ctx context.Context, id uuid.UUID, reason string, access func(*model.Order) error) (*model.Order, error) {
	note := cancelNotePrefix + strings.TrimSpace(reason)
	return u.transition(ctx, id, model.OrderStatusCancelled, note, func(o *model.Order, now time.Time) error {
		if access != nil {
			if err := access(o); err != nil {
				return err
			}
		}
		if o.Status.IsTerminal() {
			return fmt.Errorf("%w: %s -> %s", domainErrors.ErrInvalidTransition, o.Status, model.OrderStatusCancelled)
		}
		if now.Sub(o.CreatedAt) > CancellationWindow && o.Status != model.OrderStatusPlaced {
			return domainErrors.ErrCancellationWindowExpired
		}
		return nil
	})
}

// guardFn runs against the locked order before the transition table is consulted.
type guardFn func(o *model.Order, now time.Time) error

func (u *OrderUseCase) transition(ctx context.Context, id uuid.UUID, status model.OrderStatus, note string, guard guardFn) (*model.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domainErrors.ErrInvalidTransition, status)
	}

	var from model.OrderStatus
	order, err := u.orders.Mutate(ctx, id, func(o *model.Order) error {
		now := u.now()
		if guard != nil {
			if err := guard(o, now); err != nil {
				return err
			}
		}
		if !o.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: %s -> %s", domainErrors.ErrInvalidTransition, o.Status, status)
		}

		from = o.Status
		o.AppendStatus(status, now, note)
		if status == model.OrderStatusDelivered && o.PaymentMethod == model.PaymentCashOnDelivery {
			o.PaymentStatus = model.PaymentStatusPaid
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.metrics.RecordTransition(status)
	u.logger.Info("order status changed",
		slog.String("order_id", order.ID.String()),
		slog.String("number", order.Number),
		slog.String("from", from.String()),
		slog.String("to", status.String()),
	)
	return order, nil
}

// AddReview stores customer feedback on a delivered order.
func (u *OrderUseCase) AddReview(ctx context.Context, id uuid.UUID, rating int, text string) (*model.Order, error) {
	return u.addReview(ctx, id, rating, text, nil)
}

// ReviewAs stores feedback on behalf of the order owner.
func (u *OrderUseCase) ReviewAs(ctx context.Context, principal model.Principal, id uuid.UUID, rating int, text string) (*model.Order, error) {
	return u.addReview(ctx, id, rating, text, func(o *model.Order) error {
		if o.CustomerID != principal.UserID {
			return domainErrors.ErrPermissionDenied
		}
		return nil
	})
}

func (u *OrderUseCase) addReview(ctx context.Context, id uuid.UUID, rating int, text string, access func(*model.Order) error) (*model.Order, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domainErrors.ErrValidationFailed)
	}

	order, err := u.orders.Mutate(ctx, id, func(o *model.Order) error {
		if access != nil {
			if err := access(o); err != nil {
				return err
			}
		}
		if o.Status != model.OrderStatusDelivered {
			return domainErrors.ErrReviewNotAllowed
		}
		if o.Review != nil {
			return fmt.Errorf("review: %w", domainErrors.ErrAlreadyExists)
		}

		now := u.now()
		o.Review = &model.Review{Rating: rating, Text: strings.TrimSpace(text), CreatedAt: now}
		o.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("order reviewed", slog.String("order_id", order.ID.String()), slog.Int("rating", rating))
	return order, nil
}

// Get returns order with items and history.
func (u *OrderUseCase) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return u.orders.GetByID(ctx, id)
}

// GetAs returns order if principal may see it.
func (u *OrderUseCase) GetAs(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanView(principal, order) {
		return nil, domainErrors.ErrPermissionDenied
	}
	return order, nil
}

// ListByCustomer returns customer's orders newest first.
func (u *OrderUseCase) ListByCustomer(ctx context.Context, customerID int64, status *model.OrderStatus, limit int) ([]model.Order, error) {
	return u.orders.List(ctx, model.OrderFilter{
		CustomerID: &customerID,
		Status:     status,
		Limit:      normalizeLimit(limit),
	})
}

// ListBySupplier returns orders containing supplier's products newest first.
func (u *OrderUseCase) ListBySupplier(ctx context.Context, supplierID int64, status *model.OrderStatus, limit int) ([]model.Order, error) {
	return u.orders.List(ctx, model.OrderFilter{
		SupplierID: &supplierID,
		Status:     status,
		Limit:      normalizeLimit(limit),
	})
}

// ListFor returns orders visible to principal newest first.
func (u *OrderUseCase) ListFor(ctx context.Context, principal model.Principal, status *model.OrderStatus, limit int) ([]model.Order, error) {
	switch principal.Role {
	case model.RoleAdmin:
		return u.orders.List(ctx, model.OrderFilter{Status: status, Limit: normalizeLimit(limit)})
	case model.RoleSupplier:
		return u.ListBySupplier(ctx, principal.UserID, status, limit)
	default:
		return u.ListByCustomer(ctx, principal.UserID, status, limit)
	}
}

// ListAll returns orders matching filter without a default limit.
func (u *OrderUseCase) ListAll(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	return u.orders.List(ctx, filter)
}

// CanView reports whether principal may read order.
func CanView(principal model.Principal, order *model.Order) bool {
	switch principal.Role {
	case model.RoleAdmin:
		return true
	case model.RoleSupplier:
		return order.HasSupplier(principal.UserID)
	default:
		return order.CustomerID == principal.UserID
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func estimateDelivery(kind model.DeliveryType, scheduled *time.Time, now time.Time) time.Time {
	switch kind {
	case model.DeliveryExpress:
		return now.Add(expressDeliveryETA)
	case model.DeliveryScheduled:
		return *scheduled
	default:
		return now.Add(standardDeliveryETA)
	}
}

func normalizeAddress(a model.Address) model.Address {
	return model.Address{
		Line1:      strings.TrimSpace(a.Line1),
		Line2:      strings.TrimSpace(a.Line2),
		City:       strings.TrimSpace(a.City),
		PostalCode: strings.TrimSpace(a.PostalCode),
		Zone:       strings.ToLower(strings.TrimSpace(a.Zone)),
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domainErrors.ErrValidationFailed, fmt.Sprintf(format, args...))
}

func validateCreateInput(in CreateOrderInput, now time.Time) error {
	if in.CustomerID <= 0 {
		return invalid("customer is required")
	}
	if len(in.Items) == 0 {
		return invalid("order has no items")
	}
	if strings.TrimSpace(in.Address.Line1) == "" || strings.TrimSpace(in.Address.City) == "" {
		return invalid("delivery address requires line1 and city")
	}
	if !in.DeliveryType.Valid() {
		return invalid("unknown delivery type %q", in.DeliveryType)
	}
	if in.DeliveryType == model.DeliveryScheduled && (in.ScheduledAt == nil || !in.ScheduledAt.After(now)) {
		return invalid("scheduled delivery requires a future time")
	}
	if !in.PaymentMethod.Valid() {
		return invalid("unknown payment method %q", in.PaymentMethod)
	}

	subtotal := decimal.Zero
	for i, item := range in.Items {
		if item.Quantity < 1 {
			return invalid("item %d: quantity must be at least 1", i)
		}
		if item.UnitPrice.IsNegative() {
			return invalid("item %d: unit price must not be negative", i)
		}
		if !item.LineTotal.Equal(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))) {
			return invalid("item %d: line total does not match unit price and quantity", i)
		}
		subtotal = subtotal.Add(item.LineTotal)
	}

	if in.Subtotal.IsNegative() || in.DeliveryFee.IsNegative() || in.Discount.IsNegative() || in.Total.IsNegative() {
		return invalid("amounts must not be negative")
	}
	if !in.Subtotal.Equal(subtotal) {
		return invalid("subtotal %s does not match items %s", in.Subtotal, subtotal)
	}
	if in.Discount.GreaterThan(in.Subtotal.Add(in.DeliveryFee)) {
		return invalid("discount exceeds order amount")
	}
	expected := in.Subtotal.Add(in.DeliveryFee).Sub(in.Discount)
	if !in.Total.Equal(expected) {
		return invalid("total %s does not equal %s", in.Total, expected)
	}
	return nil
}
