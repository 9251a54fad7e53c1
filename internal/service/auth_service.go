package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vedran77/taskly/internal/auth"
	"github.com/vedran77/taskly/internal/domain"
	"github.com/vedran77/taskly/internal/logger"
	"github.com/vedran77/taskly/internal/repository"
	"github.com/vedran77/taskly/pkg/validator"
)

const msgInvalidCreds = "Invalid email or password"

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	hasher   *auth.PasswordHasher
}

func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager, hasher *auth.PasswordHasher) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		hasher:   hasher,
	}
}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*AuthResponse, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, domain.BadRequest("Please provide all required fields")
	}
	if err := validator.ValidateName(input.Name); err != nil {
		return nil, domain.BadRequest(err.Error())
	}
	if !validator.IsValidEmail(input.Email) {
		return nil, domain.BadRequest("Please provide a valid email address")
	}
	if err := validator.ValidatePassword(input.Password); err != nil {
		return nil, domain.BadRequest(err.Error())
	}

	email := strings.ToLower(input.Email)
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("User with this email already exists")
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := timestamp()
	user := &domain.User{
		ID:           domain.NewID(),
		Name:         validator.Sanitize(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return s.respond(user)
}

// Login checks existence, then the active flag, then the password.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domain.BadRequest("Please provide email and password")
	}
	if !validator.IsValidEmail(input.Email) {
		return nil, domain.BadRequest("Please provide a valid email address")
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(input.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.Unauthenticated(msgInvalidCreds)
	}
	if !user.IsActive {
		return nil, domain.Forbidden("Account is deactivated. Please contact support")
	}

	ok, err := s.hasher.Compare(input.Password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.Unauthenticated(msgInvalidCreds)
	}

	return s.respond(user)
}

// Resolve turns a bearer token into the active user it names. Every failure
// is a domain error; the reason is logged at debug level.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			logger.LogDebug("auth: expired token")
			return nil, domain.Unauthenticated("Token expired. Please login again")
		}
		logger.LogDebug("auth: invalid token: %v", err)
		return nil, domain.Unauthenticated("Invalid token. Please login again")
	}

	if !validator.IsValidID(userID) {
		logger.LogDebug("auth: token carries malformed user id %q", userID)
		return nil, domain.Unauthenticated("Invalid token. Please login again")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		logger.LogDebug("auth: token for missing user %s", userID)
		return nil, domain.Unauthenticated("User not found. Token is invalid")
	}
	if !user.IsActive {
		logger.LogDebug("auth: token for deactivated user %s", userID)
		return nil, domain.Forbidden("Account is deactivated. Please contact support")
	}

	return user, nil
}

func (s *AuthService) respond(user *domain.User) (*AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}
	return &AuthResponse{User: user, Token: token}, nil
}

// timestamp is the store-friendly current time: UTC with millisecond
// precision, which is what the document store keeps.
func timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
