package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/shelfwise/lending/common/lending"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var le *lending.Error
	if !errors.As(err, &le) {
		t.Fatalf("expected *lending.Error, got %T: %v", err, err)
	}
	if le.Kind != lending.KindValidation {
		t.Fatalf("expected validation kind, got %s", le.Kind)
	}
	return le.Fields
}

func TestAddBookInput_Valid(t *testing.T) {
	in := AddBookInput{Title: "Dune", Author: "Herbert"}
	if err := in.Validate(); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
}

func TestAddBookInput_MissingFields(t *testing.T) {
	tests := []struct {
		name      string
		input     AddBookInput
		wantField string
		wantMsg   string
	}{
		{"empty title", AddBookInput{Title: "", Author: "Herbert"}, "title", "Title is required"},
		{"blank title", AddBookInput{Title: "   ", Author: "Herbert"}, "title", "Title is required"},
		{"empty author", AddBookInput{Title: "Dune", Author: ""}, "author", "Author is required"},
		{"long title", AddBookInput{Title: strings.Repeat("x", 256), Author: "Herbert"}, "title", "Title is too long"},
		{"long author", AddBookInput{Title: "Dune", Author: strings.Repeat("x", 256)}, "author", "Author is too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := fieldsOf(t, tt.input.Validate())
			if got := fields[tt.wantField]; got != tt.wantMsg {
				t.Errorf("field %s: expected %q, got %q", tt.wantField, tt.wantMsg, got)
			}
		})
	}
}

func TestAddBookInput_BothFieldsReported(t *testing.T) {
	fields := fieldsOf(t, AddBookInput{}.Validate())
	if len(fields) != 2 {
		t.Fatalf("expected 2 field errors, got %d: %v", len(fields), fields)
	}
}

func TestAddBookInput_MaxLengthBoundary(t *testing.T) {
	in := AddBookInput{Title: strings.Repeat("x", 255), Author: "A"}
	if err := in.Validate(); err != nil {
		t.Fatalf("255 chars should be valid, got %v", err)
	}
}

func TestAddMemberInput(t *testing.T) {
	if err := (AddMemberInput{Name: "Alice"}).Validate(); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}

	fields := fieldsOf(t, AddMemberInput{Name: " "}.Validate())
	if fields["name"] != "Name is required" {
		t.Errorf("expected name required message, got %q", fields["name"])
	}
}

func TestBorrowReturnInput(t *testing.T) {
	if err := (BorrowReturnInput{BookID: 1, MemberID: 2}).Validate(); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}

	fields := fieldsOf(t, BorrowReturnInput{BookID: 0, MemberID: -1}.Validate())
	if fields["bookId"] != "Please select a book" {
		t.Errorf("unexpected bookId message: %q", fields["bookId"])
	}
	if fields["memberId"] != "Please select a member" {
		t.Errorf("unexpected memberId message: %q", fields["memberId"])
	}
}
