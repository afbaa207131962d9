package lending

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	if got := KindOf(NotFound("book 1 not found")); got != KindNotFound {
		t.Errorf("expected not_found, got %s", got)
	}
	if got := KindOf(Conflict("already borrowed")); got != KindConflict {
		t.Errorf("expected conflict, got %s", got)
	}
	if got := KindOf(errors.New("dial tcp: refused")); got != KindTransport {
		t.Errorf("plain errors should map to transport, got %s", got)
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("borrow failed: %w", Conflict("book 1 is already borrowed"))
	if !IsKind(err, KindConflict) {
		t.Errorf("wrapped conflict should keep its kind")
	}
}

func TestValidationFields(t *testing.T) {
	err := Validation(map[string]string{"title": "Title is required"})
	if err.Kind != KindValidation {
		t.Fatalf("expected validation kind, got %s", err.Kind)
	}
	if err.Fields["title"] != "Title is required" {
		t.Errorf("field message lost: %v", err.Fields)
	}
}
