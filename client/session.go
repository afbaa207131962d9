// Package client implements the catalog-facing side of the lending system:
// input validation, the per-book concurrency guard, the mutation gateway
// against the ledger's HTTP API, and the cached read model.
package client

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shelfwise/lending/common/cache"
	"github.com/shelfwise/lending/common/clients"
	"github.com/shelfwise/lending/common/logger"
	"github.com/shelfwise/lending/common/models"
	"github.com/shelfwise/lending/common/validation"
)

// Session is one client session against the ledger.
//
// Every mutation follows the same path: validate the intent, acquire the
// per-book guard (borrow/return only), issue the RPC, invalidate the
// affected read model, release the guard. Ledger errors are terminal for
// the attempt; there are no automatic retries.
type Session struct {
	id        string
	ledger    *clients.LedgerClient
	guard     Guard
	readModel *ReadModel
	log       *logger.Logger
}

// NewSession creates a session. An empty id gets a fresh one; callers that
// share a session across processes (redis guard) pass their own.
func NewSession(id string, ledger *clients.LedgerClient, guard Guard, c cache.Cache, ttl time.Duration, log *logger.Logger) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{
		id:        id,
		ledger:    ledger,
		guard:     guard,
		readModel: NewReadModel(ledger, c, ttl, log),
		log:       log.WithSessionID(id),
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// ListBooks returns the book list from the read model
func (s *Session) ListBooks(ctx context.Context) ([]*models.Book, error) {
	return s.readModel.Books(s.withSession(ctx))
}

// ListMembers returns the member list from the read model
func (s *Session) ListMembers(ctx context.Context) ([]*models.Member, error) {
	return s.readModel.Members(s.withSession(ctx))
}

// GetBook fetches a single book directly from the ledger
func (s *Session) GetBook(ctx context.Context, bookID int64) (*models.Book, error) {
	return s.ledger.GetBook(s.withSession(ctx), bookID)
}

// AddBook validates and registers a new book
func (s *Session) AddBook(ctx context.Context, in validation.AddBookInput) (*models.Book, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	book, err := s.ledger.AddBook(s.withSession(ctx), in)
	if err != nil {
		return nil, err
	}

	s.readModel.InvalidateBooks(ctx)
	s.log.Info("book added", "book_id", book.ID, "title", book.Title)
	return book, nil
}

// AddMember validates and registers a new member
func (s *Session) AddMember(ctx context.Context, in validation.AddMemberInput) (*models.Member, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	member, err := s.ledger.AddMember(s.withSession(ctx), in)
	if err != nil {
		return nil, err
	}

	s.readModel.InvalidateMembers(ctx)
	s.log.Info("member added", "member_id", member.ID)
	return member, nil
}

// BorrowBook borrows a book for a member
func (s *Session) BorrowBook(ctx context.Context, in validation.BorrowReturnInput) (*models.Book, error) {
	return s.mutateBook(ctx, in, s.ledger.BorrowBook)
}

// ReturnBook returns a borrowed book
func (s *Session) ReturnBook(ctx context.Context, in validation.BorrowReturnInput) (*models.Book, error) {
	return s.mutateBook(ctx, in, s.ledger.ReturnBook)
}

// mutateBook runs the shared borrow/return path:
// validate -> guard acquire -> RPC -> read model invalidation -> release.
func (s *Session) mutateBook(
	ctx context.Context,
	in validation.BorrowReturnInput,
	op func(ctx context.Context, bookID, memberID int64) (*models.Book, error),
) (*models.Book, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if err := s.guard.Acquire(ctx, in.BookID); err != nil {
		s.log.Debug("guard rejected mutation", "book_id", in.BookID, "error", err)
		return nil, err
	}
	// Release unconditionally: transport failures and ledger errors must
	// free the book for a retry just like success does.
	defer s.guard.Release(ctx, in.BookID)

	book, err := op(s.withSession(ctx), in.BookID, in.MemberID)
	if err != nil {
		return nil, err
	}

	s.readModel.InvalidateBooks(ctx)
	return book, nil
}

func (s *Session) withSession(ctx context.Context) context.Context {
	return clients.WithSessionID(ctx, s.id)
}
