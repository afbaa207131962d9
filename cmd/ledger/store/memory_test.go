package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/lending/common/lending"
	"github.com/shelfwise/lending/common/logger"
)

func newTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	return NewMemoryStore(logger.New("error", "json"))
}

// checkAvailabilityInvariant asserts that for every book, available == true
// iff no active loan references it.
func checkAvailabilityInvariant(t *testing.T, s *MemoryStore) {
	t.Helper()
	books, err := s.ListBooks(context.Background())
	require.NoError(t, err)

	for _, b := range books {
		_, hasLoan := s.ActiveLoan(b.ID)
		require.Equalf(t, !hasLoan, b.Available,
			"book %d: available=%v but hasLoan=%v", b.ID, b.Available, hasLoan)
	}
}

func TestAddBook_AssignsSequentialIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b1, err := s.AddBook(ctx, "Dune", "Herbert")
	require.NoError(t, err)
	b2, err := s.AddBook(ctx, "Dune", "Herbert") // no title uniqueness
	require.NoError(t, err)

	assert.Equal(t, int64(1), b1.ID)
	assert.Equal(t, int64(2), b2.ID)
	assert.True(t, b1.Available)
	assert.False(t, b1.CreatedAt.IsZero())
	checkAvailabilityInvariant(t, s)
}

func TestListBooks_InsertionOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	titles := []string{"A", "B", "C"}
	for _, title := range titles {
		_, err := s.AddBook(ctx, title, "X")
		require.NoError(t, err)
	}

	books, err := s.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 3)
	for i, b := range books {
		assert.Equal(t, titles[i], b.Title)
	}
}

func TestBorrowBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book, _ := s.AddBook(ctx, "Dune", "Herbert")
	member, _ := s.AddMember(ctx, "Alice")

	got, err := s.BorrowBook(ctx, book.ID, member.ID)
	require.NoError(t, err)
	assert.False(t, got.Available)
	assert.True(t, got.UpdatedAt.After(book.UpdatedAt) || got.UpdatedAt.Equal(book.UpdatedAt))

	loan, ok := s.ActiveLoan(book.ID)
	require.True(t, ok)
	assert.Equal(t, member.ID, loan.MemberID)
	checkAvailabilityInvariant(t, s)
}

func TestBorrowBook_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	member, _ := s.AddMember(ctx, "Alice")
	_, err := s.BorrowBook(ctx, 42, member.ID)
	assert.True(t, lending.IsKind(err, lending.KindNotFound))

	book, _ := s.AddBook(ctx, "Dune", "Herbert")
	_, err = s.BorrowBook(ctx, book.ID, 42)
	assert.True(t, lending.IsKind(err, lending.KindNotFound))

	// Failed borrows leave no trace
	got, _ := s.GetBook(ctx, book.ID)
	assert.True(t, got.Available)
	checkAvailabilityInvariant(t, s)
}

func TestBorrowBook_AlreadyBorrowed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book, _ := s.AddBook(ctx, "Dune", "Herbert")
	alice, _ := s.AddMember(ctx, "Alice")
	bob, _ := s.AddMember(ctx, "Bob")

	_, err := s.BorrowBook(ctx, book.ID, alice.ID)
	require.NoError(t, err)

	before, _ := s.GetBook(ctx, book.ID)

	_, err = s.BorrowBook(ctx, book.ID, bob.ID)
	assert.True(t, lending.IsKind(err, lending.KindConflict))

	// Conflict never mutates state: loan holder and timestamps unchanged
	after, _ := s.GetBook(ctx, book.ID)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	loan, ok := s.ActiveLoan(book.ID)
	require.True(t, ok)
	assert.Equal(t, alice.ID, loan.MemberID)
	checkAvailabilityInvariant(t, s)
}

func TestReturnBook_NotBorrowed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book, _ := s.AddBook(ctx, "Dune", "Herbert")
	alice, _ := s.AddMember(ctx, "Alice")

	_, err := s.ReturnBook(ctx, book.ID, alice.ID)
	assert.True(t, lending.IsKind(err, lending.KindConflict))
	checkAvailabilityInvariant(t, s)
}

func TestReturnBook_WrongMember(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book, _ := s.AddBook(ctx, "Dune", "Herbert")
	alice, _ := s.AddMember(ctx, "Alice")
	bob, _ := s.AddMember(ctx, "Bob")

	_, err := s.BorrowBook(ctx, book.ID, alice.ID)
	require.NoError(t, err)

	_, err = s.ReturnBook(ctx, book.ID, bob.ID)
	assert.True(t, lending.IsKind(err, lending.KindConflict))

	// The loan is unchanged
	loan, ok := s.ActiveLoan(book.ID)
	require.True(t, ok)
	assert.Equal(t, alice.ID, loan.MemberID)
	checkAvailabilityInvariant(t, s)
}

func TestReturnBook_UnknownMemberIsNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book, _ := s.AddBook(ctx, "Dune", "Herbert")
	alice, _ := s.AddMember(ctx, "Alice")
	_, err := s.BorrowBook(ctx, book.ID, alice.ID)
	require.NoError(t, err)

	_, err = s.ReturnBook(ctx, book.ID, 99)
	assert.True(t, lending.IsKind(err, lending.KindNotFound))
}

func TestBorrowReturn_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book, _ := s.AddBook(ctx, "Dune", "Herbert")
	alice, _ := s.AddMember(ctx, "Alice")

	_, err := s.BorrowBook(ctx, book.ID, alice.ID)
	require.NoError(t, err)
	got, err := s.ReturnBook(ctx, book.ID, alice.ID)
	require.NoError(t, err)

	assert.True(t, got.Available)
	_, hasLoan := s.ActiveLoan(book.ID)
	assert.False(t, hasLoan)

	// The book reappears in the list identical except updatedAt
	books, err := s.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, book.ID, books[0].ID)
	assert.Equal(t, book.Title, books[0].Title)
	assert.Equal(t, book.Author, books[0].Author)
	assert.Equal(t, book.CreatedAt, books[0].CreatedAt)
	assert.True(t, books[0].Available)
	checkAvailabilityInvariant(t, s)
}

func TestLedgerScenario_EndToEnd(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice, err := s.AddMember(ctx, "Alice")
	require.NoError(t, err)
	require.Equal(t, int64(1), alice.ID)

	book, err := s.AddBook(ctx, "Dune", "Herbert")
	require.NoError(t, err)
	require.Equal(t, int64(1), book.ID)
	require.True(t, book.Available)

	book, err = s.BorrowBook(ctx, 1, 1)
	require.NoError(t, err)
	require.False(t, book.Available)

	_, err = s.BorrowBook(ctx, 1, 1)
	require.True(t, lending.IsKind(err, lending.KindConflict))

	book, err = s.ReturnBook(ctx, 1, 1)
	require.NoError(t, err)
	require.True(t, book.Available)

	_, err = s.ReturnBook(ctx, 1, 1)
	require.True(t, lending.IsKind(err, lending.KindConflict))
	checkAvailabilityInvariant(t, s)
}
