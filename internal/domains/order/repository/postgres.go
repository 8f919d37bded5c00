package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookmarket-backend/internal/domains/order/model"
)

const orderColumns = `id, book_id, user_email, status, payment_status, checkout_session_id, paid_at, created_at`

type postgresOrderRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &postgresOrderRepository{pool: pool}
}

func (r *postgresOrderRepository) Create(ctx context.Context, o *model.Order) error {
	query := `
		INSERT INTO orders (id, book_id, user_email, status, payment_status, checkout_session_id, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		o.ID,
		o.BookID,
		o.UserEmail,
		o.Status,
		o.PaymentStatus,
		o.CheckoutSessionID,
		o.PaidAt,
		o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *postgresOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	o, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Order])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	return &o, nil
}

func (r *postgresOrderRepository) ListByUserEmail(ctx context.Context, email string) ([]model.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE user_email = $1
		ORDER BY created_at DESC
	`, orderColumns)

	return r.collect(r.pool.Query(ctx, query, email))
}

func (r *postgresOrderRepository) ListPaidByUserEmail(ctx context.Context, email string) ([]model.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE user_email = $1 AND payment_status = $2
		ORDER BY paid_at DESC
	`, orderColumns)

	return r.collect(r.pool.Query(ctx, query, email, model.PaymentStatusPaid))
}

func (r *postgresOrderRepository) ListByBookIDs(ctx context.Context, bookIDs []uuid.UUID) ([]model.Order, error) {
	if len(bookIDs) == 0 {
		return []model.Order{}, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE book_id = ANY($1)
		ORDER BY created_at DESC
	`, orderColumns)

	return r.collect(r.pool.Query(ctx, query, bookIDs))
}

func (r *postgresOrderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders ORDER BY created_at DESC`, orderColumns)

	return r.collect(r.pool.Query(ctx, query))
}

func (r *postgresOrderRepository) collect(rows pgx.Rows, err error) ([]model.Order, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Order])
	if err != nil {
		return nil, fmt.Errorf("failed to collect orders: %w", err)
	}

	return orders, nil
}

func (r *postgresOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error {
	query := `UPDATE orders SET status = $2 WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	return nil
}

func (r *postgresOrderRepository) MarkPaid(ctx context.Context, id uuid.UUID, sessionID *string) error {
	query := `
		UPDATE orders
		SET status = $2, payment_status = $3, checkout_session_id = COALESCE($4, checkout_session_id), paid_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, model.OrderStatusProcessing, model.PaymentStatusPaid, sessionID)
	if err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	return nil
}

func (r *postgresOrderRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE orders SET status = $2, payment_status = $3 WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, model.OrderStatusCancelled, model.PaymentStatusCancelled)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	return nil
}

func (r *postgresOrderRepository) DeleteByBookID(ctx context.Context, bookID uuid.UUID) (int64, error) {
	query := `DELETE FROM orders WHERE book_id = $1`

	result, err := r.pool.Exec(ctx, query, bookID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete orders by book: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *postgresOrderRepository) HasPaidOrder(ctx context.Context, email string, bookID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM orders
			WHERE user_email = $1 AND book_id = $2 AND payment_status = $3
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, email, bookID, model.PaymentStatusPaid).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check paid order: %w", err)
	}

	return exists, nil
}
