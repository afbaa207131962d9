package repository

import (
	"context"
	"fmt"

	"github.com/shelfwise/lending/common/db"
)

// schema holds the DDL for the ledger tables.
// loan carries a uniqueness constraint on book_id: at most one active loan
// per book is enforced by the database itself, not only by application code.
const schema = `
CREATE TABLE IF NOT EXISTS book (
	id         BIGSERIAL PRIMARY KEY,
	title      VARCHAR(255) NOT NULL,
	author     VARCHAR(255) NOT NULL,
	available  BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS member (
	id         BIGSERIAL PRIMARY KEY,
	name       VARCHAR(255) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS loan (
	book_id     BIGINT NOT NULL UNIQUE REFERENCES book(id),
	member_id   BIGINT NOT NULL REFERENCES member(id),
	borrowed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// InitSchema creates the ledger tables if they do not exist
func InitSchema(ctx context.Context, database *db.DB) error {
	if _, err := database.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}
	return nil
}
