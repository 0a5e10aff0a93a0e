package store

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/apperr"
)

func TestCartAddOrMergeUpserts(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = ci.quantity + EXCLUDED.quantity")).
		WithArgs(int64(7), int64(3), int64(2)).
		WillReturnRows(sqlmock.NewRows(cartLineCols).AddRow(int64(11), int64(7), int64(3), int64(5), fixedTime))

	line, err := s.Carts.AddOrMerge(context.Background(), 7, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(11), line.ID)
	assert.Equal(t, 5, line.Quantity)
}

func TestCartAddOrMergeUnknownProduct(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery("INSERT INTO cart_items").
		WillReturnError(&pq.Error{Code: "23503", Message: "violates foreign key constraint"})

	_, err := s.Carts.AddOrMerge(context.Background(), 7, 999, 1)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCartAddOrMergeRejectsNonPositive(t *testing.T) {
	s, _ := newMock(t)
	_, err := s.Carts.AddOrMerge(context.Background(), 7, 3, 0)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCartSetQuantityZeroRemoves(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items WHERE id = $1 AND user_id = $2")).
		WithArgs(int64(11), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	line, err := s.Carts.SetQuantity(context.Background(), 7, 11, 0)
	require.NoError(t, err)
	assert.Nil(t, line)
}

func TestCartSetQuantityReplaces(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE cart_items AS ci SET quantity = $1")).
		WithArgs(int64(4), int64(11), int64(7)).
		WillReturnRows(sqlmock.NewRows(cartLineCols).AddRow(int64(11), int64(7), int64(3), int64(4), fixedTime))

	line, err := s.Carts.SetQuantity(context.Background(), 7, 11, 4)
	require.NoError(t, err)
	require.NotNil(t, line)
	assert.Equal(t, 4, line.Quantity)
}

func TestCartSetQuantityOtherUsersLine(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery("UPDATE cart_items").
		WithArgs(int64(4), int64(11), int64(8)).
		WillReturnRows(sqlmock.NewRows(cartLineCols))

	_, err := s.Carts.SetQuantity(context.Background(), 8, 11, 4)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCartRemoveMissing(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec("DELETE FROM cart_items").
		WithArgs(int64(11), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Carts.Remove(context.Background(), 7, 11)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCartClear(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items WHERE user_id = $1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, s.Carts.Clear(context.Background(), 7))
}

func TestCartRemoveLinesTargetsOnlyGivenIDs(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items WHERE user_id = $1 AND id = ANY($2)")).
		WithArgs(int64(7), "{4,9}").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, s.Carts.RemoveLines(context.Background(), 7, []int64{4, 9}))
}

func TestCartRemoveLinesEmptyIsNoop(t *testing.T) {
	s, _ := newMock(t)
	require.NoError(t, s.Carts.RemoveLines(context.Background(), 7, nil))
}

func TestCartListJoinsProducts(t *testing.T) {
	s, mock := newMock(t)
	rows := sqlmock.NewRows(cols(cartLineCols, productCols)).
		AddRow(values([]driver.Value{int64(1), int64(7), int64(2), int64(2), fixedTime}, productValues(2, "Mouse", "10.00"))...).
		AddRow(values([]driver.Value{int64(2), int64(7), int64(5), int64(1), fixedTime}, productValues(5, "Pad", "5.00"))...)
	mock.ExpectQuery(regexp.QuoteMeta("JOIN products p ON p.id = ci.product_id")).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	items, err := s.Carts.List(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), items[0].ProductID)
	assert.Equal(t, "Mouse", items[0].Product.Name)
	assert.Equal(t, "10.00", items[0].Product.Price.String())
	assert.Equal(t, 1, items[1].Quantity)
}

func TestCartLockedLinesTakesRowLocks(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF ci")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(cols(cartLineCols, productCols)))

	items, err := s.Carts.LockedLines(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, items)
}
