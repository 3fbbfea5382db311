package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/openbasket/catalog/internal/domain"
	"github.com/openbasket/catalog/internal/repository"
	"github.com/openbasket/catalog/pkg/database"
	apperrors "github.com/openbasket/catalog/pkg/errors"
)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
// The embedded review list is stored in a JSONB column on the product row.
type ProductRepository struct {
	db database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a new product into the database.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	reviewsJSON, err := json.Marshal(p.Reviews)
	if err != nil {
		return fmt.Errorf("marshal reviews: %w", err)
	}

	query := `
		INSERT INTO products (id, name, description, brand, category, price, stock, image, rating, num_reviews, user_id, reviews, external_id, source, is_external, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err = r.db.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.Brand,
		p.Category,
		p.Price,
		p.Stock,
		p.Image,
		p.Rating,
		p.NumReviews,
		p.UserID,
		reviewsJSON,
		p.ExternalID,
		p.Source,
		p.IsExternal,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product", "name", p.Name)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT id, name, description, brand, category, price, stock, image, rating, num_reviews, user_id, reviews, external_id, source, is_external, created_at, updated_at
		FROM products
		WHERE id = $1`

	return r.scanProduct(ctx, query, id)
}

// Count returns the number of products matching the optional search term.
func (r *ProductRepository) Count(ctx context.Context, search *string) (int, error) {
	query := `SELECT count(*) FROM products`
	var args []any

	if search != nil {
		query += ` WHERE name ILIKE $1`
		args = append(args, "%"+*search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}

	return total, nil
}

// List returns products matching the given filter, newest first.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argIndex))
		args = append(args, "%"+*filter.Search+"%")
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT id, name, description, brand, category, price, stock, image, rating, num_reviews, user_id, reviews, external_id, source, is_external, created_at, updated_at
		FROM products
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIndex, argIndex+1,
	)

	args = append(args, filter.Limit, filter.Skip)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// Top returns the n highest-rated products, rating descending.
func (r *ProductRepository) Top(ctx context.Context, n int) ([]domain.Product, error) {
	query := `
		SELECT id, name, description, brand, category, price, stock, image, rating, num_reviews, user_id, reviews, external_id, source, is_external, created_at, updated_at
		FROM products
		ORDER BY rating DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// Update modifies an existing product in the database.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	reviewsJSON, err := json.Marshal(p.Reviews)
	if err != nil {
		return fmt.Errorf("marshal reviews: %w", err)
	}

	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE products
		SET name = $1, description = $2, brand = $3, category = $4, price = $5,
		    stock = $6, image = $7, rating = $8, num_reviews = $9, reviews = $10, updated_at = $11
		WHERE id = $12`

	ct, err := r.db.Exec(ctx, query,
		p.Name,
		p.Description,
		p.Brand,
		p.Category,
		p.Price,
		p.Stock,
		p.Image,
		p.Rating,
		p.NumReviews,
		reviewsJSON,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product", "name", p.Name)
		}
		return fmt.Errorf("update product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}

	return nil
}

// UpdateReviews persists only the embedded review document and the aggregate
// rating fields.
func (r *ProductRepository) UpdateReviews(ctx context.Context, p *domain.Product) error {
	reviewsJSON, err := json.Marshal(p.Reviews)
	if err != nil {
		return fmt.Errorf("marshal reviews: %w", err)
	}

	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE products
		SET reviews = $1, rating = $2, num_reviews = $3, updated_at = $4
		WHERE id = $5`

	ct, err := r.db.Exec(ctx, query,
		reviewsJSON,
		p.Rating,
		p.NumReviews,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product reviews: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}

	return nil
}

// Delete removes a product from the database by its ID.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM products WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}

	return nil
}

// Upsert inserts a product unless one of its uniqueness surfaces (name, or
// (external_id, source) for external records) already exists. The bare ON
// CONFLICT DO NOTHING covers both constraints in a single atomic statement,
// so concurrent sync runs cannot insert duplicates. Reports whether a row was
// inserted; false means the record was deduplicated.
func (r *ProductRepository) Upsert(ctx context.Context, p *domain.Product) (bool, error) {
	reviewsJSON, err := json.Marshal(p.Reviews)
	if err != nil {
		return false, fmt.Errorf("marshal reviews: %w", err)
	}

	query := `
		INSERT INTO products (id, name, description, brand, category, price, stock, image, rating, num_reviews, user_id, reviews, external_id, source, is_external, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT DO NOTHING`

	ct, err := r.db.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.Brand,
		p.Category,
		p.Price,
		p.Stock,
		p.Image,
		p.Rating,
		p.NumReviews,
		p.UserID,
		reviewsJSON,
		p.ExternalID,
		p.Source,
		p.IsExternal,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("upsert product: %w", err)
	}

	return ct.RowsAffected() == 1, nil
}

// scanProduct is a helper that executes a query expected to return a single product row.
func (r *ProductRepository) scanProduct(ctx context.Context, query string, args ...any) (*domain.Product, error) {
	var (
		p           domain.Product
		reviewsJSON []byte
	)

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Brand,
		&p.Category,
		&p.Price,
		&p.Stock,
		&p.Image,
		&p.Rating,
		&p.NumReviews,
		&p.UserID,
		&reviewsJSON,
		&p.ExternalID,
		&p.Source,
		&p.IsExternal,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	if reviewsJSON != nil {
		if err := json.Unmarshal(reviewsJSON, &p.Reviews); err != nil {
			return nil, fmt.Errorf("unmarshal reviews: %w", err)
		}
	}

	return &p, nil
}

// collectProducts drains a multi-row result set into a slice, never nil.
func collectProducts(rows pgx.Rows) ([]domain.Product, error) {
	var products []domain.Product

	for rows.Next() {
		var (
			p           domain.Product
			reviewsJSON []byte
		)

		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Brand,
			&p.Category,
			&p.Price,
			&p.Stock,
			&p.Image,
			&p.Rating,
			&p.NumReviews,
			&p.UserID,
			&reviewsJSON,
			&p.ExternalID,
			&p.Source,
			&p.IsExternal,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}

		if reviewsJSON != nil {
			if err := json.Unmarshal(reviewsJSON, &p.Reviews); err != nil {
				return nil, fmt.Errorf("unmarshal reviews: %w", err)
			}
		}

		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
