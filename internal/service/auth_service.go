package service

import (
	"context"
	"fmt"
	"time"

	"studyflow/internal/apperr"
	"studyflow/internal/model"
	"studyflow/internal/util"
)

type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpsertProfile(ctx context.Context, p *model.Profile) error
	FindProfile(ctx context.Context, userID int) (*model.Profile, error)
}

type AuthService struct {
	users     UserStore
	jwtSecret string
}

func NewAuthService(users UserStore, jwtSecret string) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: jwtSecret,
	}
}

// Register creates a new user and its public profile.
func (s *AuthService) Register(ctx context.Context, email, password, firstName, lastName string) (*model.User, error) {
	if email == "" {
		return nil, apperr.Validation("email is required")
	}
	if password == "" {
		return nil, apperr.Validation("password is required")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Validation("email already registered")
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	profile := &model.Profile{
		UserID: u.ID,
		Email:  &u.Email,
	}
	if firstName != "" {
		profile.FirstName = &firstName
	}
	if lastName != "" {
		profile.LastName = &lastName
	}
	if err := s.users.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}

	return u, nil
}

// Login checks user credentials and returns a JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("invalid email or password: %w", apperr.ErrUnauthenticated)
	}

	if !util.CheckPassword(password, u.PasswordHash) {
		return "", fmt.Errorf("invalid email or password: %w", apperr.ErrUnauthenticated)
	}

	return util.GenerateJWT(u.ID, s.jwtSecret)
}

// UpdateProfile replaces the caller's public profile fields.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int, firstName, lastName, email string) (*model.Profile, error) {
	p := &model.Profile{UserID: userID}
	if firstName != "" {
		p.FirstName = &firstName
	}
	if lastName != "" {
		p.LastName = &lastName
	}
	if email != "" {
		p.Email = &email
	}
	if err := s.users.UpsertProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *AuthService) Profile(ctx context.Context, userID int) (*model.Profile, error) {
	p, err := s.users.FindProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("profile")
	}
	return p, nil
}
