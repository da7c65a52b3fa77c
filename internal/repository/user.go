package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/meetapp/internal/model/user"
	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, password_hash, created_at, updated_at`

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*user.User, error) {
	stmt := `SELECT ` + userColumns + ` FROM users WHERE id = @id`

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{"id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get user by id query for user_id=%d: %w", userID, err)
	}

	u, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[user.User])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:users for user_id=%d: %w", userID, notFound(err))
	}

	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	stmt := `SELECT ` + userColumns + ` FROM users WHERE email = @email`

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{"email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get user by email query: %w", err)
	}

	u, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[user.User])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:users by email: %w", notFound(err))
	}

	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	stmt := `
		INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		VALUES (@id, @name, @email, @password_hash, @created_at, @updated_at)
		RETURNING ` + userColumns

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{
		"id":            u.ID,
		"name":          u.Name,
		"email":         u.Email,
		"password_hash": u.PasswordHash,
		"created_at":    u.CreatedAt,
		"updated_at":    u.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute create user query: %w", err)
	}

	created, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[user.User])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:users after insert: %w", err)
	}

	return created, nil
}

// Update writes every mutable column of u.
func (r *UserRepository) Update(ctx context.Context, u *user.User) (*user.User, error) {
	stmt := `
		UPDATE users
		SET name = @name, email = @email, password_hash = @password_hash, updated_at = @updated_at
		WHERE id = @id
		RETURNING ` + userColumns

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{
		"id":            u.ID,
		"name":          u.Name,
		"email":         u.Email,
		"password_hash": u.PasswordHash,
		"updated_at":    u.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute update user query for user_id=%d: %w", u.ID, err)
	}

	updated, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[user.User])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:users for user_id=%d: %w", u.ID, notFound(err))
	}

	return updated, nil
}
