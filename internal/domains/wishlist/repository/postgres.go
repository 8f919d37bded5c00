package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookmarket-backend/internal/domains/wishlist/model"
)

const uniqueViolationCode = "23505"

type postgresWishlistRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresWishlistRepository(pool *pgxpool.Pool) WishlistRepository {
	return &postgresWishlistRepository{pool: pool}
}

func (r *postgresWishlistRepository) Add(ctx context.Context, item *model.WishlistItem) error {
	query := `
		INSERT INTO wishlist_items (id, user_email, book_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query, item.ID, item.UserEmail, item.BookID, item.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return model.ErrAlreadyInWishlist
		}
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}

	return nil
}

func (r *postgresWishlistRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.WishlistItem, error) {
	query := `
		SELECT id, user_email, book_id, created_at
		FROM wishlist_items
		WHERE id = $1
	`

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get wishlist item: %w", err)
	}

	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.WishlistItem])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
	}

	return &item, nil
}

func (r *postgresWishlistRepository) ListByUserEmail(ctx context.Context, email string) ([]model.WishlistItem, error) {
	query := `
		SELECT id, user_email, book_id, created_at
		FROM wishlist_items
		WHERE user_email = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist items: %w", err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.WishlistItem])
	if err != nil {
		return nil, fmt.Errorf("failed to collect wishlist items: %w", err)
	}

	return items, nil
}

func (r *postgresWishlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM wishlist_items WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete wishlist item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrItemNotFound
	}

	return nil
}
