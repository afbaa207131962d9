package store

import (
	"context"
	"sync"
	"time"

	"github.com/shelfwise/lending/common/lending"
	"github.com/shelfwise/lending/common/logger"
	"github.com/shelfwise/lending/common/models"
)

// MemoryStore is the in-memory ledger implementation.
// A single mutex makes every check-and-set transition atomic, which is all
// the serialization the availability invariant needs at this scale.
type MemoryStore struct {
	mu sync.Mutex

	books   []*models.Book
	members []*models.Member
	loans   map[int64]*models.Loan // keyed by book id, active loans only

	bookIndex   map[int64]*models.Book
	memberIndex map[int64]*models.Member

	nextBookID   int64
	nextMemberID int64

	log *logger.Logger
}

// NewMemoryStore creates an empty in-memory ledger
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		loans:       make(map[int64]*models.Loan),
		bookIndex:   make(map[int64]*models.Book),
		memberIndex: make(map[int64]*models.Member),
		log:         log,
	}
}

// AddBook registers a book with a fresh id and available=true
func (s *MemoryStore) AddBook(ctx context.Context, title, author string) (*models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextBookID++
	now := time.Now().UTC()

	book := &models.Book{
		ID:        s.nextBookID,
		Title:     title,
		Author:    author,
		Available: true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.books = append(s.books, book)
	s.bookIndex[book.ID] = book

	s.log.Debug("book added", "book_id", book.ID, "title", title)
	return copyBook(book), nil
}

// AddMember registers a member with a fresh id
func (s *MemoryStore) AddMember(ctx context.Context, name string) (*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextMemberID++
	now := time.Now().UTC()

	member := &models.Member{
		ID:        s.nextMemberID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.members = append(s.members, member)
	s.memberIndex[member.ID] = member

	s.log.Debug("member added", "member_id", member.ID, "name", name)
	return copyMember(member), nil
}

// GetBook retrieves a single book
func (s *MemoryStore) GetBook(ctx context.Context, bookID int64) (*models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.bookIndex[bookID]
	if !ok {
		return nil, lending.NotFound("book %d not found", bookID)
	}
	return copyBook(book), nil
}

// ListBooks returns all books in insertion order
func (s *MemoryStore) ListBooks(ctx context.Context) ([]*models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books := make([]*models.Book, len(s.books))
	for i, b := range s.books {
		books[i] = copyBook(b)
	}
	return books, nil
}

// ListMembers returns all members in insertion order
func (s *MemoryStore) ListMembers(ctx context.Context) ([]*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	members := make([]*models.Member, len(s.members))
	for i, m := range s.members {
		members[i] = copyMember(m)
	}
	return members, nil
}

// BorrowBook applies the borrow transition.
// The loan record and the availability flip happen under one lock so a book
// can never be simultaneously available and loaned.
func (s *MemoryStore) BorrowBook(ctx context.Context, bookID, memberID int64) (*models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.bookIndex[bookID]
	if !ok {
		return nil, lending.NotFound("book %d not found", bookID)
	}
	if _, ok := s.memberIndex[memberID]; !ok {
		return nil, lending.NotFound("member %d not found", memberID)
	}
	if !book.Available {
		return nil, lending.Conflict("book %d is already borrowed", bookID)
	}

	s.loans[bookID] = &models.Loan{
		BookID:     bookID,
		MemberID:   memberID,
		BorrowedAt: time.Now().UTC(),
	}
	book.Available = false
	book.UpdatedAt = time.Now().UTC()

	s.log.Debug("book borrowed", "book_id", bookID, "member_id", memberID)
	return copyBook(book), nil
}

// ReturnBook applies the return transition
func (s *MemoryStore) ReturnBook(ctx context.Context, bookID, memberID int64) (*models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.bookIndex[bookID]
	if !ok {
		return nil, lending.NotFound("book %d not found", bookID)
	}
	if _, ok := s.memberIndex[memberID]; !ok {
		return nil, lending.NotFound("member %d not found", memberID)
	}
	if book.Available {
		return nil, lending.Conflict("book %d is not currently borrowed", bookID)
	}

	loan := s.loans[bookID]
	if loan == nil || loan.MemberID != memberID {
		return nil, lending.Conflict("book %d is not borrowed by member %d", bookID, memberID)
	}

	delete(s.loans, bookID)
	book.Available = true
	book.UpdatedAt = time.Now().UTC()

	s.log.Debug("book returned", "book_id", bookID, "member_id", memberID)
	return copyBook(book), nil
}

// Close releases store resources (nothing to do for memory)
func (s *MemoryStore) Close() error {
	return nil
}

// ActiveLoan reports the active loan for a book, for invariant checks in
// tests. Not part of the Store interface: loans have no client-visible
// identity.
func (s *MemoryStore) ActiveLoan(bookID int64) (*models.Loan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loan, ok := s.loans[bookID]
	if !ok {
		return nil, false
	}
	cp := *loan
	return &cp, true
}

func copyBook(b *models.Book) *models.Book {
	cp := *b
	return &cp
}

func copyMember(m *models.Member) *models.Member {
	cp := *m
	return &cp
}
