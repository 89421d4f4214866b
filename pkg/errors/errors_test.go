package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFound(t *testing.T) {
	err := NotFound("product", "64b000000000000000000001")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Contains(t, err.Message, "product")
}

func TestConflict_MapsTo400(t *testing.T) {
	err := Conflict("User already exists")

	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, http.StatusBadRequest, err.Status)
}

func TestForbidden_MapsTo401(t *testing.T) {
	err := Forbidden("Not authorized as admin")

	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, http.StatusUnauthorized, err.Status)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", NotFound("order", "x"), http.StatusNotFound},
		{"conflict", Conflict("dup"), http.StatusBadRequest},
		{"invalid input", InvalidInput("bad"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("no"), http.StatusUnauthorized},
		{"forbidden", Forbidden("no"), http.StatusUnauthorized},
		{"internal", Internal(errors.New("boom")), http.StatusInternalServerError},
		{"wrapped sentinel", Wrap(ErrNotFound, "lookup failed"), http.StatusNotFound},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestIsOperational(t *testing.T) {
	assert.True(t, IsOperational(NotFound("user", "x")))
	assert.True(t, IsOperational(Conflict("dup")))
	assert.False(t, IsOperational(errors.New("boom")))
	assert.False(t, IsOperational(Internal(errors.New("boom"))))
}

func TestWrap_PreservesChain(t *testing.T) {
	err := Wrap(Conflict("dup"), "create user")

	assert.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "create user")
}
