package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/agrisense/agrisense-be/internal/models"
	"github.com/agrisense/agrisense-be/internal/storage"
)

const productColumns = `id, name, price, description, image, category, count_in_stock, rating, num_reviews, created_at, updated_at`

// CreateProduct inserts a new catalog entry.
func (s *Store) CreateProduct(ctx context.Context, product models.Product) (models.Product, error) {
	const query = `
	INSERT INTO products (name, price, description, image, category, count_in_stock)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING ` + productColumns + `;`
	row := s.db.QueryRow(ctx, query,
		product.Name, product.Price, product.Description, product.Image, product.Category, product.CountInStock)
	return scanProduct(row)
}

// ListProducts returns products filtered by an optional case-insensitive
// name substring and an optional exact category.
func (s *Store) ListProducts(ctx context.Context, keyword, category string) ([]models.Product, error) {
	const query = `
	SELECT ` + productColumns + ` FROM products
	WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
	  AND ($2 = '' OR category = $2)
	ORDER BY created_at DESC;`
	rows, err := s.db.Query(ctx, query, keyword, category)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// TopProducts returns the highest-rated products.
func (s *Store) TopProducts(ctx context.Context, limit int) ([]models.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products ORDER BY rating DESC LIMIT $1;`
	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// FindProduct fetches a product by primary key.
func (s *Store) FindProduct(ctx context.Context, id uuid.UUID) (models.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE id = $1;`
	return scanProduct(s.db.QueryRow(ctx, query, id))
}

// UpdateProduct overwrites the editable fields of a product.
func (s *Store) UpdateProduct(ctx context.Context, product models.Product) (models.Product, error) {
	const query = `
	UPDATE products
	SET name = $2, price = $3, description = $4, image = $5, category = $6, count_in_stock = $7, updated_at = NOW()
	WHERE id = $1
	RETURNING ` + productColumns + `;`
	row := s.db.QueryRow(ctx, query,
		product.ID, product.Name, product.Price, product.Description, product.Image, product.Category, product.CountInStock)
	return scanProduct(row)
}

// DeleteProduct removes a product and, via cascade, its reviews.
func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM products WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// AddReview stores a review and refreshes the product's aggregate rating in
// the same transaction.
func (s *Store) AddReview(ctx context.Context, review models.Review) error {
	const insertReview = `
	INSERT INTO product_reviews (product_id, user_id, name, rating, comment)
	VALUES ($1, $2, $3, $4, $5);`
	const refreshRating = `
	UPDATE products
	SET num_reviews = sub.cnt, rating = sub.avg_rating, updated_at = NOW()
	FROM (
		SELECT COUNT(*) AS cnt, COALESCE(AVG(rating), 0) AS avg_rating
		FROM product_reviews WHERE product_id = $1
	) sub
	WHERE products.id = $1;`

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin review tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, insertReview,
		review.ProductID, review.UserID, review.Name, review.Rating, review.Comment); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return storage.ErrAlreadyExists
			case pgerrcode.ForeignKeyViolation:
				return storage.ErrNotFound
			}
		}
		return fmt.Errorf("insert review: %w", err)
	}
	if _, err := tx.Exec(ctx, refreshRating, review.ProductID); err != nil {
		return fmt.Errorf("refresh product rating: %w", err)
	}
	return tx.Commit(ctx)
}

func collectProducts(rows pgx.Rows) ([]models.Product, error) {
	products := []models.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func scanProduct(row pgx.Row) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Image, &p.Category,
		&p.CountInStock, &p.Rating, &p.NumReviews, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Product{}, storage.ErrNotFound
		}
		return models.Product{}, err
	}
	return p, nil
}
