package service

import (
	"context"
	"fmt"

	"fedauth/internal/domain"
	"fedauth/internal/port"
)

// UserPayload is the public view of a user returned by the API.
type UserPayload struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// NewUserPayload builds the public view of user.
func NewUserPayload(user *domain.User) UserPayload {
	return UserPayload{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// UserService defines the user lookup contract.
type UserService interface {
	GetByID(ctx context.Context, userID int64) (*domain.User, error)
}

type userService struct {
	repo port.UserRepository
}

// NewUserService creates a new UserService implementation.
func NewUserService(repo port.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("userService.GetByID: %w", err)
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}
	return user, nil
}
