package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/quickmart/internal/domain/errors"
	"github.com/polkiloo/quickmart/internal/domain/model"
	"github.com/polkiloo/quickmart/internal/domain/repository"
)

const orderColumns = `id, number, customer_id, subtotal, delivery_fee, discount, total, address, instructions,
       delivery_type, payment_method, payment_status, status, estimated_delivery, actual_delivery,
       review_rating, review_text, reviewed_at, created_at, updated_at`

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	const insertOrder = `INSERT INTO orders (` + orderColumns + `)
                         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	const insertItem = `INSERT INTO order_items (order_id, position, product_id, supplier_id, name, unit_price, quantity, line_total)
                        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	o := *order
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = o.CreatedAt
	}
	rating, text, reviewedAt := reviewColumns(o.Review)

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insertOrder,
			o.ID, o.Number, o.CustomerID, o.Subtotal, o.DeliveryFee, o.Discount, o.Total,
			o.DeliveryAddress, o.DeliveryInstructions, o.DeliveryType, o.PaymentMethod, o.PaymentStatus,
			o.Status, o.EstimatedDelivery, o.ActualDelivery, rating, text, reviewedAt, o.CreatedAt, o.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domainErrors.ErrAlreadyExists
			}
			return err
		}

		for i, item := range o.Items {
			if _, err := tx.Exec(ctx, insertItem, o.ID, i, item.ProductID, item.SupplierID, item.Name, item.UnitPrice, item.Quantity, item.LineTotal); err != nil {
				return err
			}
		}
		for _, entry := range o.StatusHistory {
			if err := recordStatus(ctx, tx, &o, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	orders := []model.Order{*order}
	if err := hydrate(ctx, r.storage.pool, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	query, args := buildListQuery(filter)
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}
	if err := hydrate(ctx, r.storage.pool, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) CountByCustomer(ctx context.Context, customerID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM orders WHERE customer_id=$1`
	var count int
	if err := r.storage.pool.QueryRow(ctx, query, customerID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *orderRepository) Mutate(ctx context.Context, id uuid.UUID, fn repository.OrderMutation) (*model.Order, error) {
	const selectQuery = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1 FOR UPDATE`
	const updateQuery = `UPDATE orders
                         SET status=$1, payment_status=$2, actual_delivery=$3, review_rating=$4,
                             review_text=$5, reviewed_at=$6, updated_at=$7
                         WHERE id=$8`

	var result *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		order, err := scanOrder(tx.QueryRow(ctx, selectQuery, id))
		if err != nil {
			return err
		}
		orders := []model.Order{*order}
		if err := hydrate(ctx, tx, orders); err != nil {
			return err
		}

		current := &orders[0]
		seen := len(current.StatusHistory)
		if err := fn(current); err != nil {
			return err
		}

		rating, text, reviewedAt := reviewColumns(current.Review)
		if _, err := tx.Exec(ctx, updateQuery,
			current.Status, current.PaymentStatus, current.ActualDelivery, rating, text, reviewedAt, current.UpdatedAt, current.ID,
		); err != nil {
			return err
		}
		for _, entry := range current.StatusHistory[seen:] {
			if err := recordStatus(ctx, tx, current, entry); err != nil {
				return err
			}
		}

		result = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.storage.logger.Debug("order mutated",
		slog.String("order_id", result.ID.String()),
		slog.String("status", result.Status.String()),
	)
	return result, nil
}

// recordStatus appends a history row and its outbox event in the same transaction.
func recordStatus(ctx context.Context, tx pgx.Tx, order *model.Order, entry model.StatusEntry) error {
	const insertHistory = `INSERT INTO order_status_history (order_id, status, note, occurred_at) VALUES ($1, $2, $3, $4)`
	const insertEvent = `INSERT INTO order_events (event_id, order_id, order_number, customer_id, status, note, occurred_at)
                         VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if _, err := tx.Exec(ctx, insertHistory, order.ID, entry.Status, entry.Note, entry.Timestamp); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, insertEvent, uuid.New(), order.ID, order.Number, order.CustomerID, entry.Status, entry.Note, entry.Timestamp); err != nil {
		return err
	}
	return nil
}

func buildListQuery(filter model.OrderFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.CustomerID != nil {
		add("customer_id = $%d", *filter.CustomerID)
	}
	if filter.SupplierID != nil {
		add("EXISTS (SELECT 1 FROM order_items i WHERE i.order_id = orders.id AND i.supplier_id = $%d)", *filter.SupplierID)
	}
	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}
	if filter.From != nil {
		add("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("created_at < $%d", *filter.To)
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + orderColumns + ` FROM orders`)
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY created_at DESC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	return b.String(), args
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o          model.Order
		rating     *int
		text       *string
		reviewedAt *time.Time
	)
	err := row.Scan(
		&o.ID, &o.Number, &o.CustomerID, &o.Subtotal, &o.DeliveryFee, &o.Discount, &o.Total,
		&o.DeliveryAddress, &o.DeliveryInstructions, &o.DeliveryType, &o.PaymentMethod, &o.PaymentStatus,
		&o.Status, &o.EstimatedDelivery, &o.ActualDelivery, &rating, &text, &reviewedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if rating != nil {
		o.Review = &model.Review{Rating: *rating}
		if text != nil {
			o.Review.Text = *text
		}
		if reviewedAt != nil {
			o.Review.CreatedAt = *reviewedAt
		}
	}
	return &o, nil
}

// hydrate loads items and status history for orders in two round trips.
func hydrate(ctx context.Context, q querier, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	const itemsQuery = `SELECT order_id, product_id, supplier_id, name, unit_price, quantity, line_total
                        FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, position`
	const historyQuery = `SELECT order_id, status, note, occurred_at
                          FROM order_status_history WHERE order_id = ANY($1) ORDER BY id`

	ids := make([]uuid.UUID, len(orders))
	index := make(map[uuid.UUID]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = i
	}

	rows, err := q.Query(ctx, itemsQuery, ids)
	if err != nil {
		return err
	}
	err = forEachRow(rows, func(rows pgx.Rows) error {
		var (
			orderID uuid.UUID
			item    model.OrderItem
		)
		if err := rows.Scan(&orderID, &item.ProductID, &item.SupplierID, &item.Name, &item.UnitPrice, &item.Quantity, &item.LineTotal); err != nil {
			return err
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
		return nil
	})
	if err != nil {
		return err
	}

	rows, err = q.Query(ctx, historyQuery, ids)
	if err != nil {
		return err
	}
	return forEachRow(rows, func(rows pgx.Rows) error {
		var (
			orderID uuid.UUID
			entry   model.StatusEntry
		)
		if err := rows.Scan(&orderID, &entry.Status, &entry.Note, &entry.Timestamp); err != nil {
			return err
		}
		if i, ok := index[orderID]; ok {
			orders[i].StatusHistory = append(orders[i].StatusHistory, entry)
		}
		return nil
	})
}

func forEachRow(rows pgx.Rows, fn func(pgx.Rows) error) error {
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func reviewColumns(review *model.Review) (*int, *string, *time.Time) {
	if review == nil {
		return nil, nil, nil
	}
	rating, text, at := review.Rating, review.Text, review.CreatedAt
	return &rating, &text, &at
}
