// Package validation holds the structural input checks that run before any
// mutation is attempted. Purely shape/range rules: no network and no ledger
// access happens here.
package validation

import (
	"strings"

	"github.com/shelfwise/lending/common/lending"
)

// maxTextLength bounds title, author and name fields
const maxTextLength = 255

// AddBookInput is a candidate book registration
type AddBookInput struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// AddMemberInput is a candidate member registration
type AddMemberInput struct {
	Name string `json:"name"`
}

// BorrowReturnInput identifies the book and member of a borrow or return
type BorrowReturnInput struct {
	BookID   int64 `json:"bookId"`
	MemberID int64 `json:"memberId"`
}

// Validate checks the add-book input.
// Returns nil when valid, otherwise a validation error mapping field names
// to human-readable messages.
func (in AddBookInput) Validate() error {
	fields := make(map[string]string)

	if msg := checkText(in.Title, "Title"); msg != "" {
		fields["title"] = msg
	}
	if msg := checkText(in.Author, "Author"); msg != "" {
		fields["author"] = msg
	}

	if len(fields) > 0 {
		return lending.Validation(fields)
	}
	return nil
}

// Validate checks the add-member input
func (in AddMemberInput) Validate() error {
	fields := make(map[string]string)

	if msg := checkText(in.Name, "Name"); msg != "" {
		fields["name"] = msg
	}

	if len(fields) > 0 {
		return lending.Validation(fields)
	}
	return nil
}

// Validate checks that both ids are positive integers
func (in BorrowReturnInput) Validate() error {
	fields := make(map[string]string)

	if in.BookID <= 0 {
		fields["bookId"] = "Please select a book"
	}
	if in.MemberID <= 0 {
		fields["memberId"] = "Please select a member"
	}

	if len(fields) > 0 {
		return lending.Validation(fields)
	}
	return nil
}

// checkText validates a required text field.
// Returns an error message if invalid, empty string if valid.
func checkText(value, label string) string {
	trimmed := strings.TrimSpace(value)

	if trimmed == "" {
		return label + " is required"
	}
	if len(trimmed) > maxTextLength {
		return label + " is too long"
	}

	return "" // Valid
}
