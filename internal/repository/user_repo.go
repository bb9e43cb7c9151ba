package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyflow/internal/apperr"
	"studyflow/internal/model"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user.
func (r *UserRepository) CreateUser(ctx context.Context, u *model.User) error {
	query := `
        INSERT INTO users (email, password_hash, created_at)
        VALUES ($1, $2, NOW())
        RETURNING id, created_at
    `
	return r.db.QueryRow(ctx, query, u.Email, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
}

// FindByEmail returns the user with the given email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
        SELECT id, email, password_hash, created_at
        FROM users
        WHERE email = $1
    `
	var u model.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpsertProfile creates or updates the public profile for a user.
func (r *UserRepository) UpsertProfile(ctx context.Context, p *model.Profile) error {
	query := `
        INSERT INTO profiles (user_id, first_name, last_name, email)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id)
        DO UPDATE SET first_name = EXCLUDED.first_name,
                      last_name = EXCLUDED.last_name,
                      email = EXCLUDED.email
    `
	_, err := r.db.Exec(ctx, query, p.UserID, p.FirstName, p.LastName, p.Email)
	return err
}

// FindProfile returns the profile for a user, or nil when none exists.
// A missing profile is not an error: leaderboard members without one are
// still scored and shown with a placeholder identity.
func (r *UserRepository) FindProfile(ctx context.Context, userID int) (*model.Profile, error) {
	query := `
        SELECT user_id, first_name, last_name, email
        FROM profiles
        WHERE user_id = $1
    `
	var p model.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.FirstName, &p.LastName, &p.Email,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
