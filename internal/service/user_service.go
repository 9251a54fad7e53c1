package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vedran77/taskly/internal/auth"
	"github.com/vedran77/taskly/internal/domain"
	"github.com/vedran77/taskly/internal/logger"
	"github.com/vedran77/taskly/internal/repository"
	"github.com/vedran77/taskly/pkg/validator"
)

type UserService struct {
	userRepo repository.UserRepository
	taskRepo repository.TaskRepository
	hasher   *auth.PasswordHasher
}

func NewUserService(userRepo repository.UserRepository, taskRepo repository.TaskRepository, hasher *auth.PasswordHasher) *UserService {
	return &UserService{
		userRepo: userRepo,
		taskRepo: taskRepo,
		hasher:   hasher,
	}
}

type UpdateProfileInput struct {
	Name   *string `json:"name"`
	Bio    *string `json:"bio"`
	Avatar *string `json:"avatar"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type SetActiveInput struct {
	IsActive *bool `json:"isActive"`
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := validator.ValidateName(*input.Name); err != nil {
			return nil, domain.BadRequest(err.Error())
		}
		user.Name = validator.Sanitize(*input.Name)
	}

	if input.Bio != nil {
		if err := validator.ValidateBio(*input.Bio); err != nil {
			return nil, domain.BadRequest(err.Error())
		}
		bio := validator.Sanitize(*input.Bio)
		user.Bio = &bio
	}

	if input.Avatar != nil {
		if err := validator.ValidateAvatar(*input.Avatar); err != nil {
			return nil, domain.BadRequest(err.Error())
		}
		if *input.Avatar == "" {
			user.Avatar = nil
		} else {
			avatar := *input.Avatar
			user.Avatar = &avatar
		}
	}

	user.UpdatedAt = timestamp()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID string, input ChangePasswordInput) error {
	if input.CurrentPassword == "" || input.NewPassword == "" {
		return domain.BadRequest("Please provide current and new password")
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Compare(input.CurrentPassword, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return domain.Unauthenticated("Current password is incorrect")
	}

	if err := validator.ValidatePassword(input.NewPassword); err != nil {
		return domain.BadRequest(err.Error())
	}

	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.UpdatedAt = timestamp()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return nil
}

// DeleteAccount removes the user, then every task they own.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	deleted, err := s.userRepo.Delete(ctx, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NotFound("User not found")
	}

	n, err := s.taskRepo.DeleteByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("deleting tasks of user %s: %w", userID, err)
	}
	logger.LogDebug("deleted account %s and %d tasks", userID, n)
	return nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

// SetActive activates or deactivates targetID on behalf of an admin.
func (s *UserService) SetActive(ctx context.Context, adminID, targetID string, input SetActiveInput) (*domain.User, error) {
	targetID = strings.ToLower(targetID)
	if !validator.IsValidID(targetID) {
		return nil, domain.BadRequest("Invalid user ID")
	}
	if input.IsActive == nil {
		return nil, domain.BadRequest("isActive is required")
	}
	if targetID == adminID && !*input.IsActive {
		return nil, domain.BadRequest("You cannot deactivate your own account")
	}

	user, err := s.load(ctx, targetID)
	if err != nil {
		return nil, err
	}

	user.IsActive = *input.IsActive
	user.UpdatedAt = timestamp()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("updating user status: %w", err)
	}
	return user, nil
}

func (s *UserService) load(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFound("User not found")
	}
	return user, nil
}
