package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shelfwise/lending/common/db"
	"github.com/shelfwise/lending/common/models"
)

// LoanRepository handles database operations for active loans.
// All methods take a transaction: loan rows only ever change together with
// the owning book's availability flag.
type LoanRepository struct {
	db *db.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *db.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

// Create records a new active loan
func (r *LoanRepository) Create(ctx context.Context, tx pgx.Tx, bookID, memberID int64) (*models.Loan, error) {
	query := `
		INSERT INTO loan (book_id, member_id)
		VALUES ($1, $2)
		RETURNING book_id, member_id, borrowed_at
	`

	loan := &models.Loan{}
	err := tx.QueryRow(ctx, query, bookID, memberID).Scan(
		&loan.BookID,
		&loan.MemberID,
		&loan.BorrowedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}

	return loan, nil
}

// GetActiveByBook retrieves the active loan for a book, if any
func (r *LoanRepository) GetActiveByBook(ctx context.Context, tx pgx.Tx, bookID int64) (*models.Loan, error) {
	query := `
		SELECT book_id, member_id, borrowed_at
		FROM loan
		WHERE book_id = $1
	`

	loan := &models.Loan{}
	err := tx.QueryRow(ctx, query, bookID).Scan(
		&loan.BookID,
		&loan.MemberID,
		&loan.BorrowedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}

	return loan, nil
}

// Delete destroys the active loan for a book
func (r *LoanRepository) Delete(ctx context.Context, tx pgx.Tx, bookID int64) error {
	query := `DELETE FROM loan WHERE book_id = $1`

	result, err := tx.Exec(ctx, query, bookID)
	if err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("no active loan for book %d", bookID)
	}

	return nil
}
