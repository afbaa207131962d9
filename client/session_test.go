package client

import (
	"context"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/lending/cmd/ledger/handlers"
	"github.com/shelfwise/lending/cmd/ledger/service"
	"github.com/shelfwise/lending/cmd/ledger/store"
	"github.com/shelfwise/lending/common/cache"
	"github.com/shelfwise/lending/common/clients"
	"github.com/shelfwise/lending/common/lending"
	"github.com/shelfwise/lending/common/logger"
	"github.com/shelfwise/lending/common/models"
	"github.com/shelfwise/lending/common/validation"
)

// instrumentedStore wraps the memory store to observe traffic that reaches
// the ledger and, optionally, to hold a borrow open mid-flight.
type instrumentedStore struct {
	store.Store

	listBookCalls atomic.Int64
	addBookCalls  atomic.Int64

	borrowEntered chan struct{}
	borrowRelease chan struct{}
}

func (s *instrumentedStore) ListBooks(ctx context.Context) ([]*models.Book, error) {
	s.listBookCalls.Add(1)
	return s.Store.ListBooks(ctx)
}

func (s *instrumentedStore) AddBook(ctx context.Context, title, author string) (*models.Book, error) {
	s.addBookCalls.Add(1)
	return s.Store.AddBook(ctx, title, author)
}

func (s *instrumentedStore) BorrowBook(ctx context.Context, bookID, memberID int64) (*models.Book, error) {
	if s.borrowEntered != nil {
		s.borrowEntered <- struct{}{}
		<-s.borrowRelease
	}
	return s.Store.BorrowBook(ctx, bookID, memberID)
}

func newLedgerServer(t *testing.T, st store.Store) *httptest.Server {
	t.Helper()
	log := logger.New("error", "json")
	ledger := service.NewLedgerService(st, log)

	e := echo.New()
	books := handlers.NewBookHandler(ledger)
	members := handlers.NewMemberHandler(ledger)
	e.GET("/api/v1/books", books.ListBooks)
	e.POST("/api/v1/books", books.AddBook)
	e.GET("/api/v1/books/:id", books.GetBook)
	e.POST("/api/v1/books/:id/borrow", books.BorrowBook)
	e.POST("/api/v1/books/:id/return", books.ReturnBook)
	e.GET("/api/v1/members", members.ListMembers)
	e.POST("/api/v1/members", members.AddMember)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func newTestSession(t *testing.T, baseURL string) *Session {
	t.Helper()
	log := logger.New("error", "json")
	ledger := clients.NewLedgerClient(baseURL, 5*time.Second, log)
	return NewSession("", ledger, NewLocalGuard(), cache.NewMemoryCache(log), time.Minute, log)
}

func TestSession_EndToEndScenario(t *testing.T) {
	st := &instrumentedStore{Store: store.NewMemoryStore(logger.New("error", "json"))}
	srv := newLedgerServer(t, st)
	session := newTestSession(t, srv.URL)
	ctx := context.Background()

	member, err := session.AddMember(ctx, validation.AddMemberInput{Name: "Alice"})
	require.NoError(t, err)
	require.Equal(t, int64(1), member.ID)

	book, err := session.AddBook(ctx, validation.AddBookInput{Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)
	require.Equal(t, int64(1), book.ID)
	require.True(t, book.Available)

	book, err = session.BorrowBook(ctx, validation.BorrowReturnInput{BookID: 1, MemberID: 1})
	require.NoError(t, err)
	require.False(t, book.Available)

	_, err = session.BorrowBook(ctx, validation.BorrowReturnInput{BookID: 1, MemberID: 1})
	require.Error(t, err)
	assert.True(t, lending.IsKind(err, lending.KindConflict))

	book, err = session.ReturnBook(ctx, validation.BorrowReturnInput{BookID: 1, MemberID: 1})
	require.NoError(t, err)
	require.True(t, book.Available)

	_, err = session.ReturnBook(ctx, validation.BorrowReturnInput{BookID: 1, MemberID: 1})
	require.Error(t, err)
	assert.True(t, lending.IsKind(err, lending.KindConflict))
}

func TestSession_ValidationNeverReachesLedger(t *testing.T) {
	st := &instrumentedStore{Store: store.NewMemoryStore(logger.New("error", "json"))}
	srv := newLedgerServer(t, st)
	session := newTestSession(t, srv.URL)

	_, err := session.AddBook(context.Background(), validation.AddBookInput{Title: "", Author: "Herbert"})
	require.True(t, lending.IsKind(err, lending.KindValidation))

	var le *lending.Error
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "Title is required", le.Fields["title"])
	assert.Equal(t, int64(0), st.addBookCalls.Load(), "validation failures must not produce RPCs")
}

func TestSession_ReadModelCachesAndInvalidates(t *testing.T) {
	st := &instrumentedStore{Store: store.NewMemoryStore(logger.New("error", "json"))}
	srv := newLedgerServer(t, st)
	session := newTestSession(t, srv.URL)
	ctx := context.Background()

	_, err := session.AddMember(ctx, validation.AddMemberInput{Name: "Alice"})
	require.NoError(t, err)
	_, err = session.AddBook(ctx, validation.AddBookInput{Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)

	// Two list calls, one fetch: the second is served from cache
	_, err = session.ListBooks(ctx)
	require.NoError(t, err)
	_, err = session.ListBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.listBookCalls.Load())

	// A successful borrow invalidates the cached book list
	_, err = session.BorrowBook(ctx, validation.BorrowReturnInput{BookID: 1, MemberID: 1})
	require.NoError(t, err)

	books, err := session.ListBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.listBookCalls.Load(), "mutation must force a re-fetch")
	require.Len(t, books, 1)
	assert.False(t, books[0].Available, "refreshed view reflects ledger state")
}

func TestSession_SecondBorrowIsBusyWhileFirstInFlight(t *testing.T) {
	st := &instrumentedStore{
		Store:         store.NewMemoryStore(logger.New("error", "json")),
		borrowEntered: make(chan struct{}),
		borrowRelease: make(chan struct{}),
	}
	srv := newLedgerServer(t, st)
	session := newTestSession(t, srv.URL)
	ctx := context.Background()

	_, err := session.AddMember(ctx, validation.AddMemberInput{Name: "Alice"})
	require.NoError(t, err)
	_, err = session.AddBook(ctx, validation.AddBookInput{Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)

	firstDone := make(chan error, 1)
	go func() {
		_, err := session.BorrowBook(ctx, validation.BorrowReturnInput{BookID: 1, MemberID: 1})
		firstDone <- err
	}()

	// Wait until the first borrow is inside the ledger call
	select {
	case <-st.borrowEntered:
	case <-time.After(5 * time.Second):
		t.Fatal("first borrow never reached the ledger")
	}

	// The second attempt is rejected locally, before any RPC
	_, err = session.BorrowBook(ctx, validation.BorrowReturnInput{BookID: 1, MemberID: 1})
	require.Error(t, err)
	assert.True(t, lending.IsKind(err, lending.KindBusy))

	// Let the first borrow finish; it proceeds normally
	close(st.borrowRelease)
	require.NoError(t, <-firstDone)
}

func TestSession_GuardReleasesAfterTransportFailure(t *testing.T) {
	st := &instrumentedStore{Store: store.NewMemoryStore(logger.New("error", "json"))}
	srv := newLedgerServer(t, st)
	session := newTestSession(t, srv.URL)
	ctx := context.Background()

	// Kill the server so the borrow fails at the transport
	srv.Close()

	_, err := session.BorrowBook(ctx, validation.BorrowReturnInput{BookID: 1, MemberID: 1})
	require.Error(t, err)
	assert.True(t, lending.IsKind(err, lending.KindTransport))

	// The guard released on failure: the next attempt is not busy
	_, err = session.BorrowBook(ctx, validation.BorrowReturnInput{BookID: 1, MemberID: 1})
	require.Error(t, err)
	assert.False(t, lending.IsKind(err, lending.KindBusy))
}
