package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"kiranapos/internal/core/id"
)

func TestStockConflictRoundTrip(t *testing.T) {
	ids := []id.ID{id.New(), id.New()}
	err := NewStockConflict(ids)

	if !IsStockConflict(err) {
		t.Fatal("expected IsStockConflict to be true")
	}
	if got := GetHTTPStatus(err); got != http.StatusConflict {
		t.Errorf("status = %d, want %d", got, http.StatusConflict)
	}

	got, ok := StockConflictItems(err)
	if !ok {
		t.Fatal("expected StockConflictItems to recognize the error")
	}
	if len(got) != 2 || got[0] != ids[0] || got[1] != ids[1] {
		t.Errorf("item ids = %v, want %v", got, ids)
	}
}

func TestStockConflictItemsRejectsOtherErrors(t *testing.T) {
	if _, ok := StockConflictItems(NewInvalidInput("nope")); ok {
		t.Error("invalid input should not parse as a stock conflict")
	}
	if _, ok := StockConflictItems(errors.New("plain")); ok {
		t.Error("plain error should not parse as a stock conflict")
	}
}

func TestCodeHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"invalid input", NewInvalidInput("bad"), IsInvalidInput},
		{"not allowed", NewNotAllowed("no"), IsNotAllowed},
		{"not found", NewNotFound("item", "x"), IsNotFound},
		{"stock conflict", NewStockConflict(nil), IsStockConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Errorf("%s not recognized by its own helper", tt.name)
			}
			// Wrapping must not break recognition.
			if !tt.check(fmt.Errorf("outer: %w", tt.err)) {
				t.Errorf("%s not recognized through wrapping", tt.name)
			}
		})
	}
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("pgx: connection refused")
	err := NewInternal(cause)

	if err.Message != "internal error" {
		t.Errorf("message = %q, leaks cause", err.Message)
	}
	if !errors.Is(err, cause) {
		t.Error("cause should still unwrap for logging")
	}
	if GetHTTPStatus(err) != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", GetHTTPStatus(err))
	}
}

func TestGetHTTPStatusDefaultsTo500(t *testing.T) {
	if got := GetHTTPStatus(errors.New("anything")); got != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", got)
	}
}
