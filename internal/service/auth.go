package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/google/uuid"

	"storefront/internal/hash"
	"storefront/internal/models"
	"storefront/internal/repo"
	"storefront/internal/tokens"
	"storefront/internal/transport"
)

var (
	emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phoneRe = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
	digitRe = regexp.MustCompile(`\d`)
)

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	JWTExpire time.Duration
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("Password must be at least 6 characters: %w", ErrValidation)
	}
	if !digitRe.MatchString(password) {
		return fmt.Errorf("Password must contain at least one number: %w", ErrValidation)
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, string, error) {
	name := strings.TrimSpace(req.Name)
	if len(name) < 2 || len(name) > 50 {
		return nil, "", fmt.Errorf("Name must be 2-50 characters: %w", ErrValidation)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailRe.MatchString(email) {
		return nil, "", fmt.Errorf("Please provide a valid email: %w", ErrValidation)
	}

	if err := validatePassword(req.Password); err != nil {
		return nil, "", err
	}

	if req.Phone != "" && !phoneRe.MatchString(req.Phone) {
		return nil, "", fmt.Errorf("Please provide a valid phone number: %w", ErrValidation)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: pwHash,
		Role:         models.RoleCustomer,
		Phone:        req.Phone,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExists) {
			return nil, "", fmt.Errorf("User already exists: %w", ErrConflict)
		}
		return nil, "", err
	}

	token, _, err := tokens.Issue(user.ID, user.Role, s.JWTSecret, s.JWTExpire)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Login reports the same message for an unknown email and a wrong password
// so callers cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", fmt.Errorf("Invalid credentials: %w", ErrUnauthorized)
		}
		return nil, "", err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, "", fmt.Errorf("Invalid credentials: %w", ErrUnauthorized)
	}

	token, _, err := tokens.Issue(user.ID, user.Role, s.JWTSecret, s.JWTExpire)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("User not found: %w", ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req transport.UpdateProfileRequest) (*models.User, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if len(name) < 2 || len(name) > 50 {
			return nil, fmt.Errorf("Name must be 2-50 characters: %w", ErrValidation)
		}
		user.Name = name
	}
	if req.Phone != nil {
		if *req.Phone != "" && !phoneRe.MatchString(*req.Phone) {
			return nil, fmt.Errorf("Please provide a valid phone number: %w", ErrValidation)
		}
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) UpdatePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}

	if !hash.CheckPassword(user.PasswordHash, current) {
		return fmt.Errorf("Current password is incorrect: %w", ErrUnauthorized)
	}
	if err := validatePassword(next); err != nil {
		return err
	}

	pwHash, err := hash.HashPassword(next)
	if err != nil {
		return err
	}
	return s.Repo.UpdatePasswordHash(ctx, userID, pwHash)
}
