package models

import "time"

// Book represents a single catalogued book.
// Maps to: book table
//
// Available is derived state owned by the ledger: true iff no active loan
// references this book. Clients never set it directly.
type Book struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Author    string    `db:"author" json:"author"`
	Available bool      `db:"available" json:"available"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
