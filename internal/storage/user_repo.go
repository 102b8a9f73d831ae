package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/recipe-catalog/internal/model"
)

type UserRepository struct {
	db *Database
}

func NewUserRepository(db *Database) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, name, email, password string, role model.UserRole) (*model.User, error) {
	var user model.User
	query := `
		INSERT INTO users (name, email, password, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, role, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, name, email, password, role).
		StructScan(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	query := `SELECT id, name, email, password, role, created_at, updated_at FROM users WHERE email = $1`
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	query := `SELECT id, name, email, password, role, created_at, updated_at FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return &user, nil
}

// CreateAdmin upserts an admin account; used for startup seeding, so a
// rerun with the same email must not fail.
func (r *UserRepository) CreateAdmin(ctx context.Context, name, email, password string) (*model.User, error) {
	var user model.User
	query := `
		INSERT INTO users (name, email, password, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET updated_at = CURRENT_TIMESTAMP
		RETURNING id, name, email, role, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, name, email, password, model.UserRoleAdmin).
		StructScan(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}

	return &user, nil
}
