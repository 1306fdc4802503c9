package apperr

import (
	"errors"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{NotFound("x"), http.StatusNotFound},
		{Validation("x"), http.StatusBadRequest},
		{BadRequest("x"), http.StatusBadRequest},
		{InvalidState("x"), http.StatusConflict},
		{Unauthorized("x"), http.StatusUnauthorized},
		{Forbidden("x"), http.StatusForbidden},
		{Internal("x"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := c.err.HTTPStatus(); got != c.want {
			t.Fatalf("kind %d: expected status %d, got %d", c.err.Kind, c.want, got)
		}
	}
}

func TestWrapPreservesUnderlyingError(t *testing.T) {
	inner := errors.New("connection refused")
	wrapped := Wrap(KindBadRequest, "quote creation failed: connection refused", inner)

	if !errors.Is(wrapped, inner) {
		t.Fatal("expected errors.Is to find the wrapped error")
	}
	if wrapped.HTTPStatus() != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", wrapped.HTTPStatus())
	}
}

func TestIsChecksKind(t *testing.T) {
	if !Is(InvalidState("x"), KindInvalidState) {
		t.Fatal("expected KindInvalidState match")
	}
	if Is(errors.New("plain"), KindInvalidState) {
		t.Fatal("plain errors must not match a kind")
	}
}
