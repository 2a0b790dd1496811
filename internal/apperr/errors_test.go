package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{Validation("missing"), http.StatusBadRequest},
		{Conflict("exists"), http.StatusConflict},
		{Auth("invalid token"), http.StatusUnauthorized},
		{NotFound("video not found"), http.StatusNotFound},
		{Forbidden("denied"), http.StatusForbidden},
		{Internal("boom", errors.New("db down")), http.StatusInternalServerError},
		{&Error{Kind: KindAuth, Message: "token not provided", Status: http.StatusForbidden}, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.err.Kind.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.HTTPStatus())
		})
	}
}

func TestAsWrapsUnknownErrors(t *testing.T) {
	cause := errors.New("connection refused")

	got := As(cause)
	require.NotNil(t, got)
	assert.Equal(t, KindInternal, got.Kind)
	assert.ErrorIs(t, got, cause)

	assert.Nil(t, As(nil))
}

func TestAsFindsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("get video: %w", Forbidden("denied"))

	got := As(wrapped)
	assert.Equal(t, KindForbidden, got.Kind)
	assert.Equal(t, "denied", got.Message)
	assert.True(t, IsKind(wrapped, KindForbidden))
	assert.False(t, IsKind(wrapped, KindNotFound))
}
