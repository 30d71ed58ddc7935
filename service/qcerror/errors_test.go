package qcerror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeOf(t *testing.T) {
	wrapped := fmt.Errorf("record: %w", Conflict("slot %s already completed", "s1"))

	assert.Equal(t, ErrorTypeConflict, TypeOf(wrapped))
	assert.True(t, IsType(wrapped, ErrorTypeConflict))
	assert.False(t, IsType(wrapped, ErrorTypeNotFound))
	assert.Equal(t, ErrorTypeInternal, TypeOf(errors.New("boom")))
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal(cause, "load parameter")

	assert.Equal(t, "load parameter: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "parameter p1 not found", NotFound("parameter %s not found", "p1").Error())
}

func TestHTTPStatus(t *testing.T) {
	cases := map[error]int{
		NotFound("x"):          http.StatusNotFound,
		Validation("x"):        http.StatusBadRequest,
		Conflict("x"):          http.StatusConflict,
		Internal(nil, "x"):     http.StatusInternalServerError,
		errors.New("untyped"): http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, HTTPStatus(err), err.Error())
	}
}
