package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:   http.StatusBadRequest,
		KindEmptyCart:    http.StatusBadRequest,
		KindUnauthorized: http.StatusUnauthorized,
		KindForbidden:    http.StatusForbidden,
		KindNotFound:     http.StatusNotFound,
		KindConflict:     http.StatusConflict,
		KindInternal:     http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.Status(), kind.String())
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("placing order: %w", ErrEmptyCart)
	assert.Equal(t, KindEmptyCart, KindOf(err))
	assert.True(t, errors.Is(err, ErrEmptyCart))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestPublicMessageHidesInternal(t *testing.T) {
	err := Internal("query products", errors.New("connection refused"))
	assert.Equal(t, "internal server error", PublicMessage(err))
	assert.ErrorContains(t, err, "connection refused")

	assert.Equal(t, "order 7 not found", PublicMessage(NotFound("order %d not found", 7)))
}
