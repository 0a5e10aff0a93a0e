package store

import (
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var (
	productCols = []string{"id", "name", "description", "price", "original_price", "image_url",
		"brand", "category_id", "stock", "rating", "review_count", "featured", "created_at"}
	cartLineCols = []string{"id", "user_id", "product_id", "quantity", "created_at"}
	orderCols    = []string{"id", "user_id", "status", "subtotal", "shipping", "tax", "total", "shipping_address", "created_at"}
	fixedTime    = time.Date(2025, 3, 14, 9, 26, 0, 0, time.UTC)
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return New(db), mock
}

func productValues(id int64, name, price string) []driver.Value {
	return []driver.Value{id, name, name + " description", price, nil, nil,
		"Acme", int64(1), int64(10), "4.5", int64(3), false, fixedTime}
}

func cols(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func values(groups ...[]driver.Value) []driver.Value {
	var out []driver.Value
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
