package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/bianca-8/reload-rage/internal/model"
	"github.com/bianca-8/reload-rage/internal/repository"
)

// UserService handles business logic for registration and login
type UserService struct {
	repo     repository.UserRepository
	validate *validator.Validate
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Register creates a new user account with a zero view count.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	req.Username = strings.TrimSpace(req.Username)

	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrValidation, registerValidationMessage(err))
	}

	// Check if username already exists. The unique constraint still backstops
	// the race between this check and the insert.
	exists, err := s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, model.ErrUsernameExists
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:       req.Username,
		PasswordHashed: string(hashedPassword),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrUsernameExists) {
			return nil, model.ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user with username and password. Nothing is mutated
// on failure.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: username and password are required", model.ErrValidation)
	}

	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			// Don't reveal whether the username exists
			return nil, model.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// registerValidationMessage turns the first validator failure into a message
// safe to show on the registration form.
func registerValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid input"
	}

	fe := verrs[0]
	switch fe.Field() {
	case "Username":
		if fe.Tag() == "max" {
			return "username must be at most 32 characters"
		}
		return "username is required"
	case "Password":
		if fe.Tag() == "min" {
			return "password must be at least 6 characters"
		}
		return "password is required"
	}
	return "invalid input"
}
