package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"thinking-of-you-backend/internal/models"
	"thinking-of-you-backend/internal/repository"

	"github.com/google/uuid"
)

// UserService handles user-related business logic
type UserService struct {
	userRepo       *repository.UserRepository
	connectionRepo *repository.ConnectionRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo *repository.UserRepository, connectionRepo *repository.ConnectionRepository) *UserService {
	return &UserService{
		userRepo:       userRepo,
		connectionRepo: connectionRepo,
	}
}

// Upsert returns the known user userID, renaming it if name is set, or creates a
// new user when userID is empty or unknown
func (s *UserService) Upsert(userID, name string) (*models.User, []models.Connection, error) {
	name = strings.TrimSpace(name)

	if userID != "" && s.userRepo.Exists(userID) {
		var (
			user *models.User
			err  error
		)
		if name != "" {
			user, err = s.userRepo.UpdateName(userID, name)
		} else {
			user, err = s.userRepo.GetByID(userID)
		}
		if err != nil {
			return nil, nil, err
		}
		return user, s.connectionRepo.ListFor(userID), nil
	}

	if name == "" {
		name = models.DefaultUserName
	}
	user := &models.User{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, []models.Connection{}, nil
}

// GetUser returns a known user or models.ErrInvalidUser
func (s *UserService) GetUser(userID string) (*models.User, error) {
	if userID == "" {
		return nil, models.ErrInvalidUser
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, models.ErrInvalidUser) {
			return nil, models.ErrInvalidUser
		}
		return nil, err
	}
	return user, nil
}

// Exists checks whether userID belongs to a known user
func (s *UserService) Exists(userID string) bool {
	return userID != "" && s.userRepo.Exists(userID)
}
