package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/microshop/microshop/internal/model"
)

// ListUsers returns every user ordered by id ascending.
func (p *Postgres) ListUsers(ctx context.Context) ([]*model.User, error) {
	query := `SELECT id, name, email FROM ` + p.table + ` ORDER BY id ASC`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// GetUser retrieves a user by ID.
func (p *Postgres) GetUser(ctx context.Context, id string) (*model.User, error) {
	userID, err := parseUserID(id)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, name, email FROM ` + p.table + ` WHERE id = $1`

	user, err := scanUser(p.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// CreateUser inserts a new user and returns it with the assigned ID.
func (p *Postgres) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
		INSERT INTO ` + p.table + ` (name, email)
		VALUES ($1, $2)
		RETURNING id, name, email
	`

	created, err := scanUser(p.pool.QueryRow(ctx, query, user.Name, user.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

// UpdateUser replaces a user's mutable fields.
func (p *Postgres) UpdateUser(ctx context.Context, id string, user *model.User) (*model.User, error) {
	userID, err := parseUserID(id)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE ` + p.table + `
		SET name = $1, email = $2
		WHERE id = $3
		RETURNING id, name, email
	`

	updated, err := scanUser(p.pool.QueryRow(ctx, query, user.Name, user.Email, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return updated, nil
}

// DeleteUser removes a user and returns the deleted row.
func (p *Postgres) DeleteUser(ctx context.Context, id string) (*model.User, error) {
	userID, err := parseUserID(id)
	if err != nil {
		return nil, err
	}

	query := `DELETE FROM ` + p.table + ` WHERE id = $1 RETURNING id, name, email`

	deleted, err := scanUser(p.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	return deleted, nil
}

// scanUser scans a single row into a User model.
func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	if err := row.Scan(&user.ID, &user.Name, &user.Email); err != nil {
		return nil, err
	}
	return &user, nil
}

// parseUserID converts a path identifier into a serial key.
func parseUserID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrInvalidID
	}
	return n, nil
}
