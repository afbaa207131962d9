package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shelfwise/lending/common/db"
	"github.com/shelfwise/lending/common/models"
)

// MemberRepository handles database operations for members
type MemberRepository struct {
	db *db.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *db.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// Create inserts a new member and returns it with server-assigned fields
func (r *MemberRepository) Create(ctx context.Context, name string) (*models.Member, error) {
	query := `
		INSERT INTO member (name)
		VALUES ($1)
		RETURNING id, name, created_at, updated_at
	`

	member := &models.Member{}
	err := r.db.QueryRow(ctx, query, name).Scan(
		&member.ID,
		&member.Name,
		&member.CreatedAt,
		&member.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	return member, nil
}

// GetByID retrieves a member by id
func (r *MemberRepository) GetByID(ctx context.Context, id int64) (*models.Member, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM member
		WHERE id = $1
	`

	member := &models.Member{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&member.ID,
		&member.Name,
		&member.CreatedAt,
		&member.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return member, nil
}

// Exists checks if a member exists
func (r *MemberRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM member WHERE id = $1)`

	var exists bool
	err := r.db.QueryRow(ctx, query, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check member existence: %w", err)
	}

	return exists, nil
}

// List retrieves all members in creation order
func (r *MemberRepository) List(ctx context.Context) ([]*models.Member, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM member
		ORDER BY id ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		member := &models.Member{}
		err := rows.Scan(
			&member.ID,
			&member.Name,
			&member.CreatedAt,
			&member.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}

	return members, nil
}
