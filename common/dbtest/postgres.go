// Package dbtest starts a throwaway PostgreSQL for integration tests and
// seeds the rows they need.
package dbtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/wishstock/wishlist/common/config"
	"github.com/wishstock/wishlist/common/db"
	"github.com/wishstock/wishlist/common/logger"
)

// StartPostgres runs a postgres container, applies the schema and returns a
// DB bound to it. The container is terminated when the test ends.
func StartPostgres(t testing.TB) *db.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("wishlist"),
		postgres.WithUsername("wishlist"),
		postgres.WithPassword("wishlist"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(ctx, pool))

	return db.Wrap(pool, config.StoreConfig{
		IsolationLevel: "read committed",
		TxTimeout:      10 * time.Second,
	}, logger.Discard())
}

// SeedUser inserts an active user and returns its id.
func SeedUser(t testing.TB, q db.Querier, username string) int64 {
	t.Helper()
	var id int64
	err := q.QueryRow(context.Background(),
		`INSERT INTO users (username, email) VALUES ($1, $2) RETURNING id`,
		username, username+"@example.com",
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// SeedWishlists inserts n wishlists for user at ranks 0..n-1 and returns
// their ids in rank order.
func SeedWishlists(t testing.TB, q db.Querier, userID int64, n int) []int64 {
	t.Helper()
	ids := make([]int64, n)
	for i := 0; i < n; i++ {
		err := q.QueryRow(context.Background(),
			`INSERT INTO wishlists (user_id, name, order_num) VALUES ($1, $2, $3) RETURNING id`,
			userID, fmt.Sprintf("list-%d", i), i,
		).Scan(&ids[i])
		require.NoError(t, err)
	}
	return ids
}

// SeedStock inserts a stock and returns its id.
func SeedStock(t testing.TB, q db.Querier, code, name string, price int64) int64 {
	t.Helper()
	var id int64
	err := q.QueryRow(context.Background(),
		`INSERT INTO stocks (code, market, name, price) VALUES ($1, 'KOSPI', $2, $3) RETURNING id`,
		code, name, price,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// Ranks returns id -> order_num for every wishlist of user.
func Ranks(t testing.TB, q db.Querier, userID int64) map[int64]int {
	t.Helper()
	rows, err := q.Query(context.Background(),
		`SELECT id, order_num FROM wishlists WHERE user_id = $1`, userID)
	require.NoError(t, err)
	defer rows.Close()

	out := make(map[int64]int)
	for rows.Next() {
		var id int64
		var r int
		require.NoError(t, rows.Scan(&id, &r))
		out[id] = r
	}
	require.NoError(t, rows.Err())
	return out
}
