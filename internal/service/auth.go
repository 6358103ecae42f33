package service

import (
	"context"
	"errors"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
	"carrental-backend/internal/security"
)

type authService struct {
	staff  repository.StaffRepository
	tokens security.TokenManager
}

func NewAuthService(staff repository.StaffRepository, tokens security.TokenManager) AuthService {
	return &authService{staff: staff, tokens: tokens}
}

// Login verifies staff credentials and issues an access token. Unknown email
// and wrong password both report ErrInvalidCredentials so the response does
// not reveal which staff accounts exist.
func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.Staff, error) {
	staff, err := s.staff.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if !security.CheckPassword(password, staff.PasswordHash) {
		logger.Warn("Failed staff login attempt", "email", email)
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(staff.ID, staff.Email, staff.Role)
	if err != nil {
		return "", nil, err
	}
	return token, staff, nil
}
