package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/quickmart/internal/domain/model"
)

const productColumns = `id, supplier_id, name, price, discounted_price, stock, created_at`

func (r *productRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	const query = `INSERT INTO products (supplier_id, name, price, discounted_price, stock)
                   VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	p := *product
	err := r.storage.pool.QueryRow(ctx, query, p.SupplierID, p.Name, p.Price, p.DiscountedPrice, p.Stock).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1) ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *productRepository) List(ctx context.Context, supplierID *int64) ([]model.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products
                   WHERE ($1::BIGINT IS NULL OR supplier_id = $1) ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, supplierID)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func collectProducts(rows pgx.Rows) ([]model.Product, error) {
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.SupplierID, &p.Name, &p.Price, &p.DiscountedPrice, &p.Stock, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
