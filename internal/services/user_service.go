package services

import (
	"context"
	"errors"
	"strings"

	"healthwallet/internal/errs"
	"healthwallet/internal/models"
	"healthwallet/internal/repositories"
	"healthwallet/internal/storage"
	"healthwallet/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UpdateProfileInput is the body of a profile update.
type UpdateProfileInput struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email,max=255"`
}

// ChangePasswordInput is the body of a password change.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

// UserService manages the caller's own account.
type UserService struct {
	users    repositories.UserRepository
	reports  repositories.ReportRepository
	files    storage.FileStore
	validate *validation.Validator
	log      *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users repositories.UserRepository, reports repositories.ReportRepository, files storage.FileStore, log *zap.Logger) *UserService {
	return &UserService{
		users:    users,
		reports:  reports,
		files:    files,
		validate: validation.New(),
		log:      log,
	}
}

func userNotFound(err error) error {
	if errors.Is(err, errs.ErrNotFound) {
		return errs.NotFound("User not found")
	}
	return err
}

// Profile returns the account with the given id.
func (s *UserService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, userNotFound(err)
	}
	return user, nil
}

// UpdateProfile changes the caller's name and e-mail.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	if err := s.users.UpdateProfile(ctx, userID, in.Name, in.Email); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return nil, errs.Conflict("Email already exists")
		}
		return nil, userNotFound(err)
	}
	return s.Profile(ctx, userID)
}

// ChangePassword replaces the password after verifying the current one.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, in ChangePasswordInput) error {
	if err := s.validate.Struct(in); err != nil {
		return err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return userNotFound(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)); err != nil {
		return errs.Unauthorized("Current password is incorrect")
	}
	hashed, err := hashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hashed); err != nil {
		return userNotFound(err)
	}
	return nil
}

// Delete removes the account. Rows cascade in the store; stored files are
// removed afterwards and any failures come back as warnings.
func (s *UserService) Delete(ctx context.Context, userID uint) ([]string, error) {
	paths, err := s.reports.FilePathsByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return nil, userNotFound(err)
	}

	var warnings []string
	for _, p := range paths {
		if err := s.files.Delete(ctx, p); err != nil {
			s.log.Warn("failed to delete report file after account removal",
				zap.Uint("user_id", userID), zap.String("path", p), zap.Error(err))
			warnings = append(warnings, "A stored report file could not be removed")
		}
	}
	return warnings, nil
}
