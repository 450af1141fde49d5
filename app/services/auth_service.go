package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/floracart/floracart/app/models"
	"github.com/floracart/floracart/app/repositories"
	"github.com/floracart/floracart/pkg/metrics"
)

// UserStore is the data access surface AuthService needs.
// *repositories.UserRepository satisfies it.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// AuthService implements signup and login.
type AuthService struct {
	users UserStore
}

// NewAuthService builds an AuthService over users.
func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Signup registers a new account. The username is derived from the email's
// local part; the password is stored as a bcrypt hash (salt included in
// the hash). Returns ErrDuplicateUser when the email — or the derived
// username — is already taken.
func (s *AuthService) Signup(ctx context.Context, email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return models.User{}, ErrDuplicateUser
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, fmt.Errorf("signup: lookup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("signup: hash: %w", err)
	}

	user := models.User{
		Email:    email,
		Username: usernameFromEmail(email),
		Password: string(hash),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		// The unique username index also fires here when two distinct
		// emails derive the same local part.
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return models.User{}, ErrDuplicateUser
		}
		return models.User{}, fmt.Errorf("signup: create: %w", err)
	}

	metrics.SignupsTotal.Inc()
	return user, nil
}

// Login verifies email/password. Unknown email and wrong password both
// return ErrInvalidCredentials; storage errors are returned wrapped.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, fmt.Errorf("login: lookup: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return models.User{}, ErrInvalidCredentials
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return user, nil
}

// usernameFromEmail returns the local part of email.
func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
