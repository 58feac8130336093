// Package errors tests for error code definitions.
package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

// TestAppError_Error verifies message formatting with and without a cause.
func TestAppError_Error(t *testing.T) {
	plain := New(ErrSessionNotFound, "no session")
	if got := plain.Error(); got != "[SESSION_NOT_FOUND] no session" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := Wrap(ErrStorage, "write failed", fmt.Errorf("disk full"))
	if got := wrapped.Error(); got != "[STORAGE_ERROR] write failed: disk full" {
		t.Errorf("Error() = %q", got)
	}
}

// TestAppError_Unwrap verifies the cause chain survives wrapping.
func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	wrapped := Wrap(ErrStorage, "write failed", cause)

	if !stderrors.Is(wrapped, cause) {
		t.Error("errors.Is did not reach the wrapped cause")
	}
}

// TestIs matches on codes, not messages.
func TestIs(t *testing.T) {
	err := New(ErrRoomNameEmpty, "room name is blank")

	if !Is(err, ErrRoomNameEmpty) {
		t.Error("Is() rejected a matching code")
	}
	if Is(err, ErrSessionNotFound) {
		t.Error("Is() matched a different code")
	}
	if Is(fmt.Errorf("plain"), ErrRoomNameEmpty) {
		t.Error("Is() matched a non-AppError")
	}
}
