package postgres

import (
	"context"
	"fmt"

	domain "github.com/grocermart/grocermart/internal/domain/order"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// OrderRepository performs unconditioned sequential writes: header first,
// then lines. A failed line insert leaves the header behind for
// reconciliation rather than rolling back.
type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) InsertOrder(ctx context.Context, userID int64, total decimal.Decimal, meta domain.Meta) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO orders (user_id, total, display_currency, bnpl_months, created_at)
		 VALUES ($1, $2::numeric, NULLIF($3, ''), NULLIF($4, 0), now())
		 RETURNING id`,
		userID, total.String(), meta.DisplayCurrency, meta.BNPLMonths,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("pool.QueryRow: %w", err)
	}
	return id, nil
}

func (r *OrderRepository) InsertItems(ctx context.Context, orderID int64, items []domain.Item) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(
			`INSERT INTO order_items (order_id, product_id, product_name, price, quantity)
			 VALUES ($1, $2, $3, $4::numeric, $5)`,
			orderID, it.ProductID, it.ProductName, it.Price.String(), it.Quantity,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range items {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch.Exec: %w", err)
		}
	}
	return nil
}

const orderJoin = `
	SELECT o.id, o.user_id, o.total::text, o.created_at,
	       COALESCE(o.display_currency, ''), COALESCE(o.bnpl_months, 0),
	       oi.product_id, oi.product_name, oi.price::text, oi.quantity
	FROM orders o
	LEFT JOIN order_items oi ON oi.order_id = o.id`

func (r *OrderRepository) Get(ctx context.Context, id int64) (*domain.Order, error) {
	rows, err := r.pool.Query(ctx, orderJoin+` WHERE o.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, domain.ErrNotFound
	}
	return orders[0], nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx,
		orderJoin+` WHERE o.user_id = $1 ORDER BY o.created_at DESC, o.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx, orderJoin+` ORDER BY o.created_at DESC, o.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// collectOrders groups the flat joined rows into headers with items,
// preserving row order.
func collectOrders(rows pgx.Rows) ([]*domain.Order, error) {
	var (
		out   []*domain.Order
		index = make(map[int64]*domain.Order)
	)

	for rows.Next() {
		var (
			header      domain.Order
			total       string
			productID   *int64
			productName *string
			price       *string
			quantity    *int
		)
		if err := rows.Scan(&header.ID, &header.UserID, &total, &header.CreatedAt,
			&header.DisplayCurrency, &header.BNPLMonths,
			&productID, &productName, &price, &quantity); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}

		o, ok := index[header.ID]
		if !ok {
			parsed, err := decimal.NewFromString(total)
			if err != nil {
				return nil, fmt.Errorf("total[%s] is not valid: %w", total, err)
			}
			header.Total = parsed
			o = &header
			index[o.ID] = o
			out = append(out, o)
		}

		// LEFT JOIN: an itemless (orphaned) order yields NULL line columns.
		if productID == nil {
			continue
		}
		linePrice, err := decimal.NewFromString(*price)
		if err != nil {
			return nil, fmt.Errorf("price[%s] is not valid: %w", *price, err)
		}
		o.Items = append(o.Items, domain.Item{
			OrderID:     o.ID,
			ProductID:   *productID,
			ProductName: *productName,
			Price:       linePrice,
			Quantity:    *quantity,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}
	return out, nil
}
