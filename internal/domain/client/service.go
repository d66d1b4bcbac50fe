package client

import (
	"context"
	"errors"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Login looks a client up by the exact phone and email pair. There is no
// password: a pair that matches no row yields ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Client, error) {
	phone := strings.TrimSpace(creds.Phone)
	email := NormalizeEmail(creds.Email)
	if phone == "" || email == "" {
		return nil, ErrInvalidCredentials
	}

	client, err := s.repo.FindByCredentials(ctx, phone, email)
	if err != nil {
		if errors.Is(err, ErrClientNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return client, nil
}

func (s *Service) GetClient(ctx context.Context, id uint) (*Client, error) {
	return s.repo.GetClientByID(ctx, id)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
