package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorMessage(t *testing.T) {
	err := NotFoundWithID("Booking", "SB-7F3K2M9Q")
	if err.Code != CodeNotFound {
		t.Errorf("expected code %s, got %s", CodeNotFound, err.Code)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", err.HTTPStatus)
	}
	if err.Details["id"] != "SB-7F3K2M9Q" {
		t.Errorf("expected id detail to carry the reference, got %v", err.Details["id"])
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Internal("Failed to persist booking", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
	if err.Error() == cause.Error() {
		t.Error("expected AppError message to include its own context")
	}
}

func TestIsAppError(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Conflict("reference code already taken"))
	if !IsAppError(wrapped) {
		t.Error("expected IsAppError to see through wrapping")
	}
	if IsAppError(errors.New("plain")) {
		t.Error("plain error should not be an AppError")
	}
}
