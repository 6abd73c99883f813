package postgres_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	domain "github.com/grocermart/grocermart/internal/domain/order"
	"github.com/grocermart/grocermart/internal/infrastructure/postgres"
)

type orderRepositorySuite struct {
	suite.Suite

	repo *postgres.OrderRepository
	pool *pgxpool.Pool
}

func TestOrderRepositorySuite(t *testing.T) {
	suite.Run(t, new(orderRepositorySuite))
}

func (s *orderRepositorySuite) SetupSuite() {
	ctx := s.T().Context()

	_, connStr, err := startPostgres(ctx)
	s.Require().NoError(err)

	s.pool, err = pgxpool.New(ctx, connStr)
	s.Require().NoError(err)

	s.repo = postgres.NewOrderRepository(s.pool)
}

func (s *orderRepositorySuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *orderRepositorySuite) deleteAll() {
	ctx := s.T().Context()
	_, err := s.pool.Exec(ctx, "DELETE FROM order_items")
	s.Require().NoError(err)
	_, err = s.pool.Exec(ctx, "DELETE FROM orders")
	s.Require().NoError(err)
}

func randomItems(n int) []domain.Item {
	items := make([]domain.Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, domain.Item{
			ProductID:   int64(gofakeit.Number(1, 10_000)),
			ProductName: gofakeit.ProductName(),
			Price:       decimal.NewFromFloat(gofakeit.Price(0.5, 99)).Round(2),
			Quantity:    gofakeit.Number(1, 5),
		})
	}
	return items
}

func (s *orderRepositorySuite) TestInsertAndGet() {
	defer s.deleteAll()
	t := s.T()
	ctx := t.Context()

	items := randomItems(2)
	total := domain.ItemsTotal(items)

	orderID, err := s.repo.InsertOrder(ctx, 42, total, domain.Meta{
		DisplayCurrency: "USD",
		BNPLMonths:      6,
	})
	require.NoError(t, err)
	require.NoError(t, s.repo.InsertItems(ctx, orderID, items))

	got, err := s.repo.Get(ctx, orderID)
	require.NoError(t, err)

	require.Equal(t, int64(42), got.UserID)
	require.True(t, got.Total.Equal(total), "want %s, got %s", total, got.Total)
	require.Equal(t, "USD", got.DisplayCurrency)
	require.Equal(t, 6, got.BNPLMonths)
	require.Len(t, got.Items, 2)
	for i, it := range got.Items {
		require.Equal(t, orderID, it.OrderID)
		require.Equal(t, items[i].ProductName, it.ProductName)
		require.True(t, it.Price.Equal(items[i].Price))
		require.Equal(t, items[i].Quantity, it.Quantity)
	}
}

func (s *orderRepositorySuite) TestInsertOrder_EmptyMetaStoredAsNull() {
	defer s.deleteAll()
	t := s.T()
	ctx := t.Context()

	orderID, err := s.repo.InsertOrder(ctx, 1, decimal.RequireFromString("5.00"), domain.Meta{})
	require.NoError(t, err)

	got, err := s.repo.Get(ctx, orderID)
	require.NoError(t, err)
	require.Empty(t, got.DisplayCurrency)
	require.Zero(t, got.BNPLMonths)
}

func (s *orderRepositorySuite) TestGet_OrphanedHeaderHasNoItems() {
	defer s.deleteAll()
	t := s.T()
	ctx := t.Context()

	// A header without lines is exactly what a failed item insert leaves
	// behind; reads must tolerate it.
	orderID, err := s.repo.InsertOrder(ctx, 7, decimal.RequireFromString("9.99"), domain.Meta{})
	require.NoError(t, err)

	got, err := s.repo.Get(ctx, orderID)
	require.NoError(t, err)
	require.Empty(t, got.Items)
	require.True(t, got.Total.Equal(decimal.RequireFromString("9.99")))
}

func (s *orderRepositorySuite) TestGet_NotFound() {
	t := s.T()

	_, err := s.repo.Get(t.Context(), 424242)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (s *orderRepositorySuite) TestListByUser_NewestFirst() {
	defer s.deleteAll()
	t := s.T()
	ctx := t.Context()

	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := s.repo.InsertOrder(ctx, 5, decimal.NewFromInt(int64(i+1)), domain.Meta{})
		require.NoError(t, err)
		require.NoError(t, s.repo.InsertItems(ctx, id, randomItems(1)))
		ids = append(ids, id)
	}

	// Another user's order must not leak in.
	_, err := s.repo.InsertOrder(ctx, 6, decimal.NewFromInt(99), domain.Meta{})
	require.NoError(t, err)

	got, err := s.repo.ListByUser(ctx, 5)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, ids[2], got[0].ID)
	require.Equal(t, ids[0], got[2].ID)
	for _, o := range got {
		require.Len(t, o.Items, 1)
	}
}

func (s *orderRepositorySuite) TestInsertItems_Empty() {
	defer s.deleteAll()
	t := s.T()

	orderID, err := s.repo.InsertOrder(t.Context(), 1, decimal.Zero, domain.Meta{})
	require.NoError(t, err)
	require.NoError(t, s.repo.InsertItems(t.Context(), orderID, nil))
}
