package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"bookmarket-backend/internal/domains/book/model"
)

const bookColumns = `id, title, author, category, description, image_url, price, status, owner_email, rating, review_count, created_at, updated_at`

type postgresBookRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresBookRepository(pool *pgxpool.Pool) BookRepository {
	return &postgresBookRepository{pool: pool}
}

func (r *postgresBookRepository) Create(ctx context.Context, b *model.Book) error {
	query := `
		INSERT INTO books (id, title, author, category, description, image_url, price, status, owner_email, rating, review_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		b.ID,
		b.Title,
		b.Author,
		b.Category,
		b.Description,
		b.ImageURL,
		b.Price,
		b.Status,
		b.OwnerEmail,
		b.Rating,
		b.ReviewCount,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}

	return nil
}

func (r *postgresBookRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE id = $1`, bookColumns)

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	b, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to scan book: %w", err)
	}

	return &b, nil
}

// buildListConditions turns the filter into a WHERE clause shared by the
// page query and the count query, so the total always matches the filter.
func buildListConditions(filter model.ListFilter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, filter.Status)
		argIndex++
	}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR author ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, filter.Category)
		argIndex++
	}

	if filter.MinRating != nil {
		conditions = append(conditions, fmt.Sprintf("rating >= $%d", argIndex))
		args = append(args, *filter.MinRating)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	return whereClause, args
}

func (r *postgresBookRepository) List(ctx context.Context, filter model.ListFilter) (*model.ListResult, error) {
	whereClause, args := buildListConditions(filter)

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM books %s`, whereClause)

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count books: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM books
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, bookColumns, whereClause, len(args)+1, len(args)+2)

	args = append(args, filter.Size, filter.Page*filter.Size)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return nil, fmt.Errorf("failed to collect books: %w", err)
	}

	return &model.ListResult{Books: books, Total: total}, nil
}

func (r *postgresBookRepository) Latest(ctx context.Context, limit int) ([]model.Book, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM books
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, bookColumns)

	rows, err := r.pool.Query(ctx, query, model.BookStatusPublished, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest books: %w", err)
	}

	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return nil, fmt.Errorf("failed to collect latest books: %w", err)
	}

	return books, nil
}

func (r *postgresBookRepository) ListAll(ctx context.Context) ([]model.Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books ORDER BY created_at DESC`, bookColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list all books: %w", err)
	}

	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return nil, fmt.Errorf("failed to collect all books: %w", err)
	}

	return books, nil
}

func (r *postgresBookRepository) ListIDsByOwner(ctx context.Context, ownerEmail string) ([]uuid.UUID, error) {
	query := `SELECT id FROM books WHERE owner_email = $1`

	rows, err := r.pool.Query(ctx, query, ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to list book ids by owner: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("failed to collect book ids: %w", err)
	}

	return ids, nil
}

func (r *postgresBookRepository) UpdateFields(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) error {
	setClauses := []string{}
	args := []interface{}{id}
	argIndex := 2

	appendSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if req.Title != nil {
		appendSet("title", *req.Title)
	}
	if req.Author != nil {
		appendSet("author", *req.Author)
	}
	if req.Category != nil {
		appendSet("category", *req.Category)
	}
	if req.Description != nil {
		appendSet("description", *req.Description)
	}
	if req.ImageURL != nil {
		appendSet("image_url", *req.ImageURL)
	}
	if req.Price != nil {
		appendSet("price", *req.Price)
	}

	if len(setClauses) == 0 {
		// Nothing to change; still verify the book exists.
		_, err := r.GetByID(ctx, id)
		return err
	}

	setClauses = append(setClauses, "updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE books SET %s WHERE id = $1`, strings.Join(setClauses, ", "))

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	return nil
}

func (r *postgresBookRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookStatus) error {
	query := `UPDATE books SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update book status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	return nil
}

func (r *postgresBookRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating decimal.Decimal, reviewCount int) error {
	query := `UPDATE books SET rating = $2, review_count = $3, updated_at = NOW() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, rating, reviewCount)
	if err != nil {
		return fmt.Errorf("failed to update book rating: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	return nil
}

func (r *postgresBookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM books WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	return nil
}
