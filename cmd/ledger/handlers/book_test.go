package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/lending/cmd/ledger/service"
	"github.com/shelfwise/lending/cmd/ledger/store"
	"github.com/shelfwise/lending/common/lending"
	"github.com/shelfwise/lending/common/logger"
)

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	log := logger.New("error", "json")
	ledger := service.NewLedgerService(store.NewMemoryStore(log), log)

	e := echo.New()
	books := NewBookHandler(ledger)
	members := NewMemberHandler(ledger)

	e.GET("/api/v1/books", books.ListBooks)
	e.POST("/api/v1/books", books.AddBook)
	e.GET("/api/v1/books/:id", books.GetBook)
	e.POST("/api/v1/books/:id/borrow", books.BorrowBook)
	e.POST("/api/v1/books/:id/return", books.ReturnBook)
	e.GET("/api/v1/members", members.ListMembers)
	e.POST("/api/v1/members", members.AddMember)

	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env struct {
		Data  json.RawMessage `json:"data"`
		Error *lending.Error  `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return Envelope{Data: env.Data, Error: env.Error}
}

func TestAddBook_CreatedEnvelope(t *testing.T) {
	e := newTestEcho(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/books", `{"title":"Dune","author":"Herbert"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	env := decodeEnvelope(t, rec)
	require.Nil(t, env.Error)
	require.NotNil(t, env.Data)
}

func TestAddBook_ValidationError(t *testing.T) {
	e := newTestEcho(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/books", `{"title":"","author":"Herbert"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, lending.KindValidation, env.Error.Kind)
	assert.Equal(t, "Title is required", env.Error.Fields["title"])
}

func TestGetBook_NotFound(t *testing.T) {
	e := newTestEcho(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/books/99", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, lending.KindNotFound, env.Error.Kind)
}

func TestGetBook_BadID(t *testing.T) {
	e := newTestEcho(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/books/abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBorrowConflict_MapsTo409(t *testing.T) {
	e := newTestEcho(t)

	doJSON(e, http.MethodPost, "/api/v1/members", `{"name":"Alice"}`)
	doJSON(e, http.MethodPost, "/api/v1/books", `{"title":"Dune","author":"Herbert"}`)

	rec := doJSON(e, http.MethodPost, "/api/v1/books/1/borrow", `{"member_id":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/v1/books/1/borrow", `{"member_id":1}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, lending.KindConflict, env.Error.Kind)
}

func TestListBooks_Empty(t *testing.T) {
	e := newTestEcho(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/books", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestReturn_WrongMember(t *testing.T) {
	e := newTestEcho(t)

	doJSON(e, http.MethodPost, "/api/v1/members", `{"name":"Alice"}`)
	doJSON(e, http.MethodPost, "/api/v1/members", `{"name":"Bob"}`)
	doJSON(e, http.MethodPost, "/api/v1/books", `{"title":"Dune","author":"Herbert"}`)
	doJSON(e, http.MethodPost, "/api/v1/books/1/borrow", `{"member_id":1}`)

	rec := doJSON(e, http.MethodPost, "/api/v1/books/1/return", `{"member_id":2}`)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestBorrow_UnknownMember(t *testing.T) {
	e := newTestEcho(t)

	doJSON(e, http.MethodPost, "/api/v1/books", `{"title":"Dune","author":"Herbert"}`)

	rec := doJSON(e, http.MethodPost, fmt.Sprintf("/api/v1/books/%d/borrow", 1), `{"member_id":5}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
