package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/agrisense/agrisense-be/internal/models"
	"github.com/agrisense/agrisense-be/internal/storage"
)

const orderColumns = `id, user_id, items, shipping, payment_method, total_price, is_paid, paid_at, is_delivered, delivered_at, created_at`

// CreateOrder inserts a new order. Items and shipping travel as JSONB.
func (s *Store) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return models.Order{}, fmt.Errorf("encode order items: %w", err)
	}
	shipping, err := json.Marshal(order.Shipping)
	if err != nil {
		return models.Order{}, fmt.Errorf("encode shipping address: %w", err)
	}
	const query = `
	INSERT INTO orders (user_id, items, shipping, payment_method, total_price)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING ` + orderColumns + `;`
	row := s.db.QueryRow(ctx, query, order.UserID, items, shipping, order.PaymentMethod, order.TotalPrice)
	return scanOrder(row)
}

// FindOrder fetches an order by primary key.
func (s *Store) FindOrder(ctx context.Context, id uuid.UUID) (models.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1;`
	return scanOrder(s.db.QueryRow(ctx, query, id))
}

// OrdersByUser returns all orders placed by one user, newest first.
func (s *Store) OrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC;`
	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("orders by user: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

// ListOrders returns every order, newest first.
func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC;`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

// MarkOrderPaid records payment time.
func (s *Store) MarkOrderPaid(ctx context.Context, id uuid.UUID) (models.Order, error) {
	const query = `
	UPDATE orders SET is_paid = TRUE, paid_at = NOW()
	WHERE id = $1
	RETURNING ` + orderColumns + `;`
	return scanOrder(s.db.QueryRow(ctx, query, id))
}

// MarkOrderDelivered records delivery time.
func (s *Store) MarkOrderDelivered(ctx context.Context, id uuid.UUID) (models.Order, error) {
	const query = `
	UPDATE orders SET is_delivered = TRUE, delivered_at = NOW()
	WHERE id = $1
	RETURNING ` + orderColumns + `;`
	return scanOrder(s.db.QueryRow(ctx, query, id))
}

func collectOrders(rows pgx.Rows) ([]models.Order, error) {
	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func scanOrder(row pgx.Row) (models.Order, error) {
	var order models.Order
	var items, shipping []byte
	err := row.Scan(&order.ID, &order.UserID, &items, &shipping, &order.PaymentMethod,
		&order.TotalPrice, &order.IsPaid, &order.PaidAt, &order.IsDelivered, &order.DeliveredAt, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, storage.ErrNotFound
		}
		return models.Order{}, err
	}
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return models.Order{}, fmt.Errorf("decode order items: %w", err)
	}
	if err := json.Unmarshal(shipping, &order.Shipping); err != nil {
		return models.Order{}, fmt.Errorf("decode shipping address: %w", err)
	}
	return order, nil
}
