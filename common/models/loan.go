package models

import "time"

// Loan is the relation between a book and the member currently holding it.
// Maps to: loan table
//
// At most one active loan exists per book. The ledger exclusively owns the
// loan lifecycle: created by a successful borrow, destroyed by a successful
// return. Loans have no identity exposed to clients; their existence is
// observed only through Book.Available.
type Loan struct {
	BookID     int64     `db:"book_id" json:"book_id"`
	MemberID   int64     `db:"member_id" json:"member_id"`
	BorrowedAt time.Time `db:"borrowed_at" json:"borrowed_at"`
}
