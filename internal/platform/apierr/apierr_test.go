package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAsUnwrapsChain(t *testing.T) {
	base := errors.New("content too large")
	wrapped := fmt.Errorf("save plan: %w", New(http.StatusBadRequest, "content_too_large", base))

	ae, ok := As(wrapped)
	if !ok {
		t.Fatalf("expected *Error in chain")
	}
	if ae.Status != http.StatusBadRequest || ae.Code != "content_too_large" {
		t.Fatalf("unexpected: %+v", ae)
	}
	if !errors.Is(wrapped, base) {
		t.Fatalf("expected errors.Is to reach base error")
	}
}

func TestErrorMessageFallbacks(t *testing.T) {
	if got := New(http.StatusNotFound, "idea_not_found", nil).Error(); got != "idea_not_found" {
		t.Fatalf("got %q", got)
	}
	if got := New(http.StatusTeapot, "", nil).Error(); got != "api error (418)" {
		t.Fatalf("got %q", got)
	}
	if _, ok := As(errors.New("plain")); ok {
		t.Fatalf("plain error should not match")
	}
}
