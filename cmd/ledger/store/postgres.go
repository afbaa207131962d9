package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/shelfwise/lending/common/db"
	"github.com/shelfwise/lending/common/lending"
	"github.com/shelfwise/lending/common/logger"
	"github.com/shelfwise/lending/common/models"
	"github.com/shelfwise/lending/common/repository"
)

// PostgresStore is the production ledger implementation.
// Borrow/return run inside a transaction that locks the book row
// (SELECT ... FOR UPDATE), so overlapping transitions on the same book
// serialize at the database and only the first one succeeds.
type PostgresStore struct {
	db      *db.DB
	books   *repository.BookRepository
	members *repository.MemberRepository
	loans   *repository.LoanRepository
	log     *logger.Logger
}

// NewPostgresStore creates a Postgres-backed ledger store
func NewPostgresStore(database *db.DB, log *logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:      database,
		books:   repository.NewBookRepository(database),
		members: repository.NewMemberRepository(database),
		loans:   repository.NewLoanRepository(database),
		log:     log,
	}
}

// AddBook registers a book
func (s *PostgresStore) AddBook(ctx context.Context, title, author string) (*models.Book, error) {
	return s.books.Create(ctx, title, author)
}

// AddMember registers a member
func (s *PostgresStore) AddMember(ctx context.Context, name string) (*models.Member, error) {
	return s.members.Create(ctx, name)
}

// GetBook retrieves a single book
func (s *PostgresStore) GetBook(ctx context.Context, bookID int64) (*models.Book, error) {
	book, err := s.books.GetByID(ctx, bookID)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, lending.NotFound("book %d not found", bookID)
	}
	return book, err
}

// ListBooks returns all books in creation order
func (s *PostgresStore) ListBooks(ctx context.Context) ([]*models.Book, error) {
	return s.books.List(ctx)
}

// ListMembers returns all members in creation order
func (s *PostgresStore) ListMembers(ctx context.Context) ([]*models.Member, error) {
	return s.members.List(ctx)
}

// BorrowBook applies the borrow transition transactionally
func (s *PostgresStore) BorrowBook(ctx context.Context, bookID, memberID int64) (*models.Book, error) {
	exists, err := s.members.Exists(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, lending.NotFound("member %d not found", memberID)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	book, err := s.books.GetForUpdate(ctx, tx, bookID)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, lending.NotFound("book %d not found", bookID)
	}
	if err != nil {
		return nil, err
	}

	if !book.Available {
		return nil, lending.Conflict("book %d is already borrowed", bookID)
	}

	if _, err := s.loans.Create(ctx, tx, bookID, memberID); err != nil {
		return nil, err
	}

	book, err = s.books.UpdateAvailability(ctx, tx, bookID, false)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit borrow: %w", err)
	}

	s.log.Debug("book borrowed", "book_id", bookID, "member_id", memberID)
	return book, nil
}

// ReturnBook applies the return transition transactionally
func (s *PostgresStore) ReturnBook(ctx context.Context, bookID, memberID int64) (*models.Book, error) {
	exists, err := s.members.Exists(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, lending.NotFound("member %d not found", memberID)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	book, err := s.books.GetForUpdate(ctx, tx, bookID)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, lending.NotFound("book %d not found", bookID)
	}
	if err != nil {
		return nil, err
	}

	if book.Available {
		return nil, lending.Conflict("book %d is not currently borrowed", bookID)
	}

	loan, err := s.loans.GetActiveByBook(ctx, tx, bookID)
	if errors.Is(err, repository.ErrNoRows) {
		// Flag says borrowed but no loan row exists: invariant violation
		return nil, fmt.Errorf("book %d unavailable without an active loan", bookID)
	}
	if err != nil {
		return nil, err
	}

	if loan.MemberID != memberID {
		return nil, lending.Conflict("book %d is not borrowed by member %d", bookID, memberID)
	}

	if err := s.loans.Delete(ctx, tx, bookID); err != nil {
		return nil, err
	}

	book, err = s.books.UpdateAvailability(ctx, tx, bookID, true)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit return: %w", err)
	}

	s.log.Debug("book returned", "book_id", bookID, "member_id", memberID)
	return book, nil
}

// Close releases store resources. The pool is owned by bootstrap, which
// closes it during shutdown.
func (s *PostgresStore) Close() error {
	return nil
}
