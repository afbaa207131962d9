// Package store holds the authoritative lending state: books, members and
// active loans. The store is the single writer of a book's availability
// flag; borrow and return are atomic check-and-set transitions per book.
package store

import (
	"context"

	"github.com/shelfwise/lending/common/models"
)

// Store is the ledger's persistence boundary.
//
// Implementations must guarantee that for every book, Available == true iff
// no active loan references it, and that overlapping borrow requests for the
// same book serialize so only the first succeeds. Failed transitions return
// lending.Error values (not_found, conflict) and leave state untouched.
type Store interface {
	// AddBook registers a book, assigning a new unique id with
	// available=true. No title uniqueness is enforced.
	AddBook(ctx context.Context, title, author string) (*models.Book, error)

	// AddMember registers a member, assigning a new unique id.
	AddMember(ctx context.Context, name string) (*models.Member, error)

	// GetBook retrieves a single book.
	GetBook(ctx context.Context, bookID int64) (*models.Book, error)

	// ListBooks returns all books in creation order.
	ListBooks(ctx context.Context) ([]*models.Book, error)

	// ListMembers returns all members in creation order.
	ListMembers(ctx context.Context) ([]*models.Member, error)

	// BorrowBook creates the loan and flips the book to unavailable.
	BorrowBook(ctx context.Context, bookID, memberID int64) (*models.Book, error)

	// ReturnBook destroys the loan and flips the book back to available.
	ReturnBook(ctx context.Context, bookID, memberID int64) (*models.Book, error)

	// Close releases any held resources.
	Close() error
}
