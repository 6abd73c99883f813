package postgres

import (
	"context"
	"fmt"

	domain "github.com/grocermart/grocermart/internal/domain/wishlist"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type WishlistRepository struct {
	pool *pgxpool.Pool
}

func NewWishlistRepository(pool *pgxpool.Pool) *WishlistRepository {
	return &WishlistRepository{pool: pool}
}

func (r *WishlistRepository) Add(ctx context.Context, userID, productID int64, notes string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO wishlist (user_id, product_id, notes)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, product_id) DO UPDATE SET notes = EXCLUDED.notes`,
		userID, productID, notes)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	return nil
}

func (r *WishlistRepository) Remove(ctx context.Context, userID, productID int64) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM wishlist WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	return nil
}

func (r *WishlistRepository) List(ctx context.Context, userID int64) ([]*domain.Entry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT w.user_id, w.product_id, w.notes, w.added_at,
		        p.name, p.price::text, p.quantity, p.image, p.category, COALESCE(p.visible, TRUE)
		 FROM wishlist w
		 INNER JOIN products p ON p.id = w.product_id
		 WHERE w.user_id = $1
		 ORDER BY w.added_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var out []*domain.Entry
	for rows.Next() {
		var (
			e     domain.Entry
			price string
		)
		if err := rows.Scan(&e.UserID, &e.ProductID, &e.Notes, &e.AddedAt,
			&e.ProductName, &price, &e.Stock, &e.Image, &e.Category, &e.Visible); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		parsed, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("price[%s] is not valid: %w", price, err)
		}
		e.Price = parsed
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}
	return out, nil
}

func (r *WishlistRepository) UpdateNotes(ctx context.Context, userID, productID int64, notes string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE wishlist SET notes = $1 WHERE user_id = $2 AND product_id = $3`,
		notes, userID, productID)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *WishlistRepository) Clear(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM wishlist WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	return nil
}
