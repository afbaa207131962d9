package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shelfwise/lending/common/lending"
	"github.com/shelfwise/lending/common/models"
	"github.com/shelfwise/lending/common/validation"
)

// envelope mirrors the gateway's uniform response shape
type envelope struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Error *lending.Error  `json:"error,omitempty"`
}

// LedgerClient is the typed client for the ledger's HTTP API.
//
// Failures split into two surfaces: errors the ledger itself produced come
// back as *lending.Error with their kind, message and fields intact, while
// failures of the RPC itself (dial, timeout, undecodable response) become
// transport errors.
type LedgerClient struct {
	baseURL string
	http    *HTTPClient
	logger  Logger
}

// NewLedgerClient creates a client for the ledger at baseURL
func NewLedgerClient(baseURL string, timeout time.Duration, logger Logger) *LedgerClient {
	return &LedgerClient{
		baseURL: baseURL,
		http:    NewHTTPClient(&http.Client{Timeout: timeout}, logger),
		logger:  logger,
	}
}

// ListBooks fetches all books in creation order
func (c *LedgerClient) ListBooks(ctx context.Context) ([]*models.Book, error) {
	var books []*models.Book
	if err := c.call(ctx, http.MethodGet, "/api/v1/books", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// ListMembers fetches all members in creation order
func (c *LedgerClient) ListMembers(ctx context.Context) ([]*models.Member, error) {
	var members []*models.Member
	if err := c.call(ctx, http.MethodGet, "/api/v1/members", nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// GetBook fetches a single book
func (c *LedgerClient) GetBook(ctx context.Context, bookID int64) (*models.Book, error) {
	book := &models.Book{}
	path := fmt.Sprintf("/api/v1/books/%d", bookID)
	if err := c.call(ctx, http.MethodGet, path, nil, book); err != nil {
		return nil, err
	}
	return book, nil
}

// AddBook registers a new book
func (c *LedgerClient) AddBook(ctx context.Context, in validation.AddBookInput) (*models.Book, error) {
	book := &models.Book{}
	if err := c.call(ctx, http.MethodPost, "/api/v1/books", in, book); err != nil {
		return nil, err
	}
	return book, nil
}

// AddMember registers a new member
func (c *LedgerClient) AddMember(ctx context.Context, in validation.AddMemberInput) (*models.Member, error) {
	member := &models.Member{}
	if err := c.call(ctx, http.MethodPost, "/api/v1/members", in, member); err != nil {
		return nil, err
	}
	return member, nil
}

// BorrowBook requests the borrow transition for a book
func (c *LedgerClient) BorrowBook(ctx context.Context, bookID, memberID int64) (*models.Book, error) {
	book := &models.Book{}
	path := fmt.Sprintf("/api/v1/books/%d/borrow", bookID)
	body := map[string]int64{"member_id": memberID}
	if err := c.call(ctx, http.MethodPost, path, body, book); err != nil {
		return nil, err
	}
	return book, nil
}

// ReturnBook requests the return transition for a book
func (c *LedgerClient) ReturnBook(ctx context.Context, bookID, memberID int64) (*models.Book, error) {
	book := &models.Book{}
	path := fmt.Sprintf("/api/v1/books/%d/return", bookID)
	body := map[string]int64{"member_id": memberID}
	if err := c.call(ctx, http.MethodPost, path, body, book); err != nil {
		return nil, err
	}
	return book, nil
}

// call executes one request/response cycle and decodes the envelope into out
func (c *LedgerClient) call(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return lending.Transport(fmt.Errorf("failed to encode request: %w", err))
		}
		reqBody = bytes.NewReader(payload)
	}

	resp, err := c.http.DoRequest(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		c.logger.Warn("ledger request failed", "method", method, "path", path, "error", err)
		return lending.Transport(err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		c.logger.Warn("ledger response undecodable", "path", path, "status", resp.StatusCode, "error", err)
		return lending.Transport(fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err))
	}

	if env.Error != nil {
		// Surface the ledger's error verbatim, kind and all
		return env.Error
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return lending.Transport(fmt.Errorf("failed to decode response data: %w", err))
		}
	}

	c.logger.Debug("ledger request ok", "method", method, "path", path, "status", resp.StatusCode)
	return nil
}
