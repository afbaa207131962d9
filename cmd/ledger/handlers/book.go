package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shelfwise/lending/cmd/ledger/service"
	"github.com/shelfwise/lending/common/lending"
	"github.com/shelfwise/lending/common/validation"
)

// BookHandler handles book-related requests
type BookHandler struct {
	ledger *service.LedgerService
}

// NewBookHandler creates a new book handler
func NewBookHandler(ledger *service.LedgerService) *BookHandler {
	return &BookHandler{
		ledger: ledger,
	}
}

// borrowReturnRequest is the body of borrow/return calls; the book id comes
// from the path.
type borrowReturnRequest struct {
	MemberID int64 `json:"member_id"`
}

// ListBooks lists all books in creation order
// GET /api/v1/books
func (h *BookHandler) ListBooks(c echo.Context) error {
	books, err := h.ledger.ListBooks(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusOK, books)
}

// GetBook retrieves a single book
// GET /api/v1/books/:id
func (h *BookHandler) GetBook(c echo.Context) error {
	bookID, err := parseID(c.Param("id"), "bookId")
	if err != nil {
		return respondError(c, err)
	}

	book, err := h.ledger.GetBook(c.Request().Context(), bookID)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusOK, book)
}

// AddBook registers a new book
// POST /api/v1/books
func (h *BookHandler) AddBook(c echo.Context) error {
	var in validation.AddBookInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, lending.Validation(map[string]string{
			"body": "malformed request body",
		}))
	}

	book, err := h.ledger.AddBook(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusCreated, book)
}

// BorrowBook borrows a book for a member
// POST /api/v1/books/:id/borrow
func (h *BookHandler) BorrowBook(c echo.Context) error {
	in, err := h.bindBorrowReturn(c)
	if err != nil {
		return respondError(c, err)
	}

	book, err := h.ledger.BorrowBook(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusOK, book)
}

// ReturnBook returns a borrowed book
// POST /api/v1/books/:id/return
func (h *BookHandler) ReturnBook(c echo.Context) error {
	in, err := h.bindBorrowReturn(c)
	if err != nil {
		return respondError(c, err)
	}

	book, err := h.ledger.ReturnBook(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusOK, book)
}

func (h *BookHandler) bindBorrowReturn(c echo.Context) (validation.BorrowReturnInput, error) {
	bookID, err := parseID(c.Param("id"), "bookId")
	if err != nil {
		return validation.BorrowReturnInput{}, err
	}

	var req borrowReturnRequest
	if err := c.Bind(&req); err != nil {
		return validation.BorrowReturnInput{}, lending.Validation(map[string]string{
			"body": "malformed request body",
		})
	}

	return validation.BorrowReturnInput{
		BookID:   bookID,
		MemberID: req.MemberID,
	}, nil
}

func parseID(raw, field string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, lending.Validation(map[string]string{
			field: "must be a positive integer",
		})
	}
	return id, nil
}
