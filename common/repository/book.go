package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shelfwise/lending/common/db"
	"github.com/shelfwise/lending/common/models"
)

// ErrNoRows is returned when a referenced row does not exist.
// The store maps it to the domain's not_found kind.
var ErrNoRows = errors.New("no rows found")

// BookRepository handles database operations for books
type BookRepository struct {
	db *db.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *db.DB) *BookRepository {
	return &BookRepository{db: db}
}

// Create inserts a new book and returns it with server-assigned fields
func (r *BookRepository) Create(ctx context.Context, title, author string) (*models.Book, error) {
	query := `
		INSERT INTO book (title, author, available)
		VALUES ($1, $2, TRUE)
		RETURNING id, title, author, available, created_at, updated_at
	`

	book := &models.Book{}
	err := r.db.QueryRow(ctx, query, title, author).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Available,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	return book, nil
}

// GetByID retrieves a book by id
func (r *BookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	query := `
		SELECT id, title, author, available, created_at, updated_at
		FROM book
		WHERE id = $1
	`

	book := &models.Book{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Available,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return book, nil
}

// GetForUpdate locks the book row for the duration of the transaction.
// This is the per-book mutual exclusion behind borrow/return: overlapping
// requests for the same book serialize here.
func (r *BookRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*models.Book, error) {
	query := `
		SELECT id, title, author, available, created_at, updated_at
		FROM book
		WHERE id = $1
		FOR UPDATE
	`

	book := &models.Book{}
	err := tx.QueryRow(ctx, query, id).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Available,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock book: %w", err)
	}

	return book, nil
}

// UpdateAvailability flips the availability flag and bumps updated_at
func (r *BookRepository) UpdateAvailability(ctx context.Context, tx pgx.Tx, id int64, available bool) (*models.Book, error) {
	query := `
		UPDATE book
		SET available = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, title, author, available, created_at, updated_at
	`

	book := &models.Book{}
	err := tx.QueryRow(ctx, query, id, available).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Available,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update book availability: %w", err)
	}

	return book, nil
}

// List retrieves all books in creation order
func (r *BookRepository) List(ctx context.Context) ([]*models.Book, error) {
	query := `
		SELECT id, title, author, available, created_at, updated_at
		FROM book
		ORDER BY id ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []*models.Book
	for rows.Next() {
		book := &models.Book{}
		err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&book.Available,
			&book.CreatedAt,
			&book.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating books: %w", err)
	}

	return books, nil
}
