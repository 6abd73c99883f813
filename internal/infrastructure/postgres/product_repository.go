package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	domain "github.com/grocermart/grocermart/internal/domain/catalog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, name, quantity, price::text, image, description, category, COALESCE(visible, TRUE), created_at, updated_at`

func (r *ProductRepository) Get(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanProduct: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) ListVisible(ctx context.Context) ([]*domain.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE COALESCE(visible, TRUE) ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *ProductRepository) ListAll(ctx context.Context) ([]*domain.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *ProductRepository) Search(ctx context.Context, filter domain.SearchFilter) ([]*domain.Product, error) {
	sql := `SELECT ` + productColumns + ` FROM products WHERE TRUE`
	var args []any

	if !filter.IncludeHidden {
		sql += ` AND COALESCE(visible, TRUE)`
	}
	if filter.Term != "" {
		args = append(args, "%"+filter.Term+"%")
		n := strconv.Itoa(len(args))
		sql += ` AND (name ILIKE $` + n + ` OR id::text LIKE $` + n + `)`
	}
	if filter.Category != "" && filter.Category != "all" {
		args = append(args, filter.Category)
		sql += ` AND category = $` + strconv.Itoa(len(args))
	}
	if filter.MinPrice != nil {
		args = append(args, filter.MinPrice.String())
		sql += ` AND price >= $` + strconv.Itoa(len(args)) + `::numeric`
	}
	if filter.MaxPrice != nil {
		args = append(args, filter.MaxPrice.String())
		sql += ` AND price <= $` + strconv.Itoa(len(args)) + `::numeric`
	}

	switch filter.Sort {
	case domain.SortPriceAsc:
		sql += ` ORDER BY price ASC`
	case domain.SortPriceDesc:
		sql += ` ORDER BY price DESC`
	default:
		sql += ` ORDER BY id ASC`
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *ProductRepository) Insert(ctx context.Context, p *domain.Product) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO products (name, quantity, price, image, description, category, visible)
		 VALUES ($1, $2, $3::numeric, $4, $5, $6, TRUE)
		 RETURNING id`,
		p.Name, p.Quantity, p.Price.String(), p.Image, p.Description, p.Category,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("pool.QueryRow: %w", err)
	}
	return id, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	// NULLIF keeps the stored image when the caller supplies an empty one.
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET
			name = $1, quantity = $2, price = $3::numeric,
			image = COALESCE(NULLIF($4, ''), image),
			description = $5, category = $6, updated_at = now()
		 WHERE id = $7`,
		p.Name, p.Quantity, p.Price.String(), p.Image, p.Description, p.Category, p.ID,
	)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) SetVisibility(ctx context.Context, id int64, visible bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET visible = $1, updated_at = now() WHERE id = $2`, visible, id)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) DecrementStock(ctx context.Context, id int64, quantity int) error {
	// Clamped at zero; insufficient stock is not an error here.
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET quantity = GREATEST(0, quantity - $1), updated_at = now() WHERE id = $2`,
		quantity, id)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p     domain.Product
		price string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Quantity, &price, &p.Image, &p.Description,
		&p.Category, &p.Visible, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}

	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("price[%s] is not valid: %w", price, err)
	}
	p.Price = parsed
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]*domain.Product, error) {
	var out []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanProduct: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}
	return out, nil
}
