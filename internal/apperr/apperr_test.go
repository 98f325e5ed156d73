package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestToFiberStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{NotFound("session"), fiber.StatusNotFound},
		{Referential("exercise"), fiber.StatusNotFound},
		{Validation("bad input"), fiber.StatusBadRequest},
		{Forbidden("not yours"), fiber.StatusForbidden},
		{Conflict("already active"), fiber.StatusConflict},
		{errors.New("disk on fire"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		var fe *fiber.Error
		if !errors.As(ToFiber(tc.err), &fe) {
			t.Fatalf("expected fiber error for %v", tc.err)
		}
		if fe.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, fe.Code)
		}
	}
}

func TestInternalErrorsAreOpaque(t *testing.T) {
	var fe *fiber.Error
	if !errors.As(ToFiber(errors.New("pg: connection refused")), &fe) {
		t.Fatalf("expected fiber error")
	}
	if fe.Message != "internal error" {
		t.Fatalf("internal detail must not leak, got %q", fe.Message)
	}
}

func TestToFiberUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("adding set: %w", Referential("exercise"))
	var fe *fiber.Error
	if !errors.As(ToFiber(wrapped), &fe) {
		t.Fatalf("expected fiber error")
	}
	if fe.Code != fiber.StatusNotFound || fe.Message != "exercise does not exist" {
		t.Fatalf("unexpected mapping: %d %q", fe.Code, fe.Message)
	}
}
