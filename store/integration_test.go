package store

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"storefront/models"
)

// openTestDB connects to TEST_DATABASE_URL and skips the test when it is unset.
// `make test-integration` starts a throwaway Postgres and sets it.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := Open(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, db))
	t.Cleanup(func() { db.Close() })
	return db
}

func TestConcurrentAddOrMergeNeverLosesIncrements(t *testing.T) {
	db := openTestDB(t)
	s := New(db)
	ctx := context.Background()

	user := models.User{Email: uuid.NewString() + "@example.test", PasswordHash: "x"}
	require.NoError(t, s.Users.Create(ctx, &user))
	product := models.Product{Name: "Counter", Price: models.MustMoney("1.00")}
	require.NoError(t, s.Products.Create(ctx, &product))
	t.Cleanup(func() {
		db.Exec(`DELETE FROM users WHERE id = $1`, user.ID)
		db.Exec(`DELETE FROM products WHERE id = $1`, product.ID)
	})

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Carts.AddOrMerge(ctx, user.ID, product.ID, 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	items, err := s.Carts.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, n, items[0].Quantity)
}

func TestLineAddedDuringCheckoutSurvivesRemoval(t *testing.T) {
	db := openTestDB(t)
	s := New(db)
	ctx := context.Background()

	user := models.User{Email: uuid.NewString() + "@example.test", PasswordHash: "x"}
	require.NoError(t, s.Users.Create(ctx, &user))
	first := models.Product{Name: "First", Price: models.MustMoney("3.00")}
	require.NoError(t, s.Products.Create(ctx, &first))
	late := models.Product{Name: "Late", Price: models.MustMoney("4.00")}
	require.NoError(t, s.Products.Create(ctx, &late))
	t.Cleanup(func() {
		db.Exec(`DELETE FROM cart_items WHERE user_id = $1`, user.ID)
		db.Exec(`DELETE FROM users WHERE id = $1`, user.ID)
		db.Exec(`DELETE FROM products WHERE id IN ($1, $2)`, first.ID, late.ID)
	})

	_, err := s.Carts.AddOrMerge(ctx, user.ID, first.ID, 1)
	require.NoError(t, err)

	err = s.InTx(ctx, func(tx *Tx) error {
		lines, err := tx.Carts.LockedLines(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, lines, 1)

		// Commits on its own connection while the transaction above is open.
		_, err = s.Carts.AddOrMerge(ctx, user.ID, late.ID, 2)
		require.NoError(t, err)

		return tx.Carts.RemoveLines(ctx, user.ID, []int64{lines[0].ID})
	})
	require.NoError(t, err)

	items, err := s.Carts.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, late.ID, items[0].ProductID)
	require.Equal(t, 2, items[0].Quantity)
}
