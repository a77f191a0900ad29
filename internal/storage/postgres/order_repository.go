package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dualtech/ordenes-api/internal/domain"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

func (r *orderRepository) Create(order domain.Order) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO orders (client_id, tax, subtotal, total)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, order.ClientID, order.Tax, order.Subtotal, order.Total).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}
	order.Lines = nil
	return order, nil
}

func (r *orderRepository) Get(id domain.ID) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	order, err := r.selectOrder(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (r *orderRepository) GetWithLines(id domain.ID) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	order, err := r.selectOrder(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}

	lines, err := r.loadLines(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	order.Lines = lines
	return order, nil
}

// Delete удаляет заказ; позиции каскадируются по FK.
func (r *orderRepository) Delete(id domain.ID) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete order rows affected: %w", err)
	}
	if affected == 0 {
		return domain.NewOrderNotFound(id)
	}
	return nil
}

func (r *orderRepository) UpdateTotals(id domain.ID, tax, subtotal, total float64) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var order domain.Order
	err := r.db.QueryRowContext(ctx, `
		UPDATE orders
		SET tax = $2, subtotal = $3, total = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING id, client_id, tax, subtotal, total, created_at, updated_at
	`, id, tax, subtotal, total).Scan(
		&order.ID, &order.ClientID, &order.Tax, &order.Subtotal, &order.Total,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.NewOrderNotFound(id)
		}
		return domain.Order{}, fmt.Errorf("update order totals: %w", err)
	}
	return order, nil
}

func (r *orderRepository) CreateLine(line domain.OrderLine) (domain.OrderLine, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO order_lines (order_id, product_id, quantity, tax, subtotal, total)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, line.OrderID, line.ProductID, line.Quantity, line.Tax, line.Subtotal, line.Total).
		Scan(&line.ID, &line.CreatedAt)
	if err != nil {
		return domain.OrderLine{}, fmt.Errorf("insert order line: %w", err)
	}
	return line, nil
}

func (r *orderRepository) selectOrder(ctx context.Context, id domain.ID) (domain.Order, error) {
	var order domain.Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, client_id, tax, subtotal, total, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&order.ID, &order.ClientID, &order.Tax, &order.Subtotal, &order.Total,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.NewOrderNotFound(id)
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}
	return order, nil
}

func (r *orderRepository) loadLines(ctx context.Context, orderID domain.ID) ([]domain.OrderLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, tax, subtotal, total, created_at
		FROM order_lines
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()

	lines := make([]domain.OrderLine, 0)
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(
			&line.ID, &line.OrderID, &line.ProductID, &line.Quantity,
			&line.Tax, &line.Subtotal, &line.Total, &line.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order line row: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order line rows: %w", err)
	}
	return lines, nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
