package core

import (
	"context"
	"strings"

	"todo-chatbot-backend/services/api/auth"
)

const minPasswordLen = 6

// RegisterUser creates an account. The stored hash never leaves this layer.
func (s *Service) RegisterUser(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return User{}, ErrInvalidArgs
	}
	if len(password) < minPasswordLen {
		return User{}, ErrInvalidArgs
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return User{}, err
	}
	return s.db.CreateUser(ctx, email, hash)
}

// AuthenticateUser returns the user for a valid email/password pair.
// Every failure mode collapses to ErrUnauthorized.
func (s *Service) AuthenticateUser(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.db.GetUserByEmail(ctx, email)
	if err != nil {
		return User{}, ErrUnauthorized
	}
	if !u.IsActive {
		return User{}, ErrUnauthorized
	}
	if !auth.CheckPassword(password, u.PasswordHash) {
		return User{}, ErrUnauthorized
	}
	return u, nil
}
