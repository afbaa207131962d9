package service

import (
	"context"
	"strings"

	"github.com/shelfwise/lending/cmd/ledger/store"
	"github.com/shelfwise/lending/common/logger"
	"github.com/shelfwise/lending/common/models"
	"github.com/shelfwise/lending/common/validation"
)

// LedgerService applies lending transitions against the store.
// It re-runs the structural validation rules server-side so the ledger
// stays defended even when a client skips its own checks.
type LedgerService struct {
	store store.Store
	log   *logger.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(s store.Store, log *logger.Logger) *LedgerService {
	return &LedgerService{
		store: s,
		log:   log,
	}
}

// AddBook validates and registers a new book
func (s *LedgerService) AddBook(ctx context.Context, in validation.AddBookInput) (*models.Book, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	book, err := s.store.AddBook(ctx, strings.TrimSpace(in.Title), strings.TrimSpace(in.Author))
	if err != nil {
		return nil, err
	}

	s.log.Info("book added", "book_id", book.ID, "title", book.Title)
	return book, nil
}

// AddMember validates and registers a new member
func (s *LedgerService) AddMember(ctx context.Context, in validation.AddMemberInput) (*models.Member, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	member, err := s.store.AddMember(ctx, strings.TrimSpace(in.Name))
	if err != nil {
		return nil, err
	}

	s.log.Info("member added", "member_id", member.ID, "name", member.Name)
	return member, nil
}

// GetBook retrieves a single book
func (s *LedgerService) GetBook(ctx context.Context, bookID int64) (*models.Book, error) {
	return s.store.GetBook(ctx, bookID)
}

// ListBooks returns all books in creation order
func (s *LedgerService) ListBooks(ctx context.Context) ([]*models.Book, error) {
	return s.store.ListBooks(ctx)
}

// ListMembers returns all members in creation order
func (s *LedgerService) ListMembers(ctx context.Context) ([]*models.Member, error) {
	return s.store.ListMembers(ctx)
}

// BorrowBook validates the intent and applies the borrow transition
func (s *LedgerService) BorrowBook(ctx context.Context, in validation.BorrowReturnInput) (*models.Book, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	book, err := s.store.BorrowBook(ctx, in.BookID, in.MemberID)
	if err != nil {
		s.log.Warn("borrow rejected", "book_id", in.BookID, "member_id", in.MemberID, "error", err)
		return nil, err
	}

	s.log.Info("book borrowed", "book_id", book.ID, "member_id", in.MemberID)
	return book, nil
}

// ReturnBook validates the intent and applies the return transition
func (s *LedgerService) ReturnBook(ctx context.Context, in validation.BorrowReturnInput) (*models.Book, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	book, err := s.store.ReturnBook(ctx, in.BookID, in.MemberID)
	if err != nil {
		s.log.Warn("return rejected", "book_id", in.BookID, "member_id", in.MemberID, "error", err)
		return nil, err
	}

	s.log.Info("book returned", "book_id", book.ID, "member_id", in.MemberID)
	return book, nil
}
