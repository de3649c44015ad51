package services

import (
	"context"

	"github.com/tonzxz12/Findr-sub000/internal/apperrors"
	"github.com/tonzxz12/Findr-sub000/internal/logger"
	"github.com/tonzxz12/Findr-sub000/internal/models"
	"github.com/tonzxz12/Findr-sub000/internal/repositories"
)

// userManagementService implements UserManagementService
type userManagementService struct {
	logger    *logger.Logger
	userRepo  repositories.UserRepository
	authSvc   AuthenticationService
	validator *models.ValidationService
}

// NewUserManagementService creates a new user management service
func NewUserManagementService(
	logger *logger.Logger,
	userRepo repositories.UserRepository,
	authSvc AuthenticationService,
) UserManagementService {
	return &userManagementService{
		logger:    logger,
		userRepo:  userRepo,
		authSvc:   authSvc,
		validator: models.NewValidationService(),
	}
}

// Register creates a client user together with the client it owns
func (s *userManagementService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, *models.Client, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, nil, invalid(err)
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err == nil && existing != nil {
		return nil, nil, ErrUserAlreadyExists
	}
	if err != nil && !apperrors.IsCode(err, apperrors.CodeNotFound) {
		return nil, nil, err
	}

	hashedPassword, err := s.authSvc.HashPassword(req.Password)
	if err != nil {
		s.logger.WithError(err).Error("Failed to hash password")
		return nil, nil, err
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hashedPassword,
		FullName:     req.FullName,
		Role:         models.RoleClient,
		IsActive:     true,
	}
	client := &models.Client{
		Name:     req.CompanyName,
		Keywords: req.Keywords,
	}

	if err := s.userRepo.CreateWithClient(ctx, user, client); err != nil {
		if apperrors.IsCode(err, apperrors.CodeAlreadyExists) {
			return nil, nil, ErrUserAlreadyExists
		}
		s.logger.WithError(err).Error("Failed to register user")
		return nil, nil, err
	}

	s.logger.WithUser(user.ID).WithField("client_id", client.ID).Info("User registered")
	return user, client, nil
}

// GetUser retrieves a user by ID
func (s *userManagementService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// GetAllUsers retrieves all users in the system
func (s *userManagementService) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.GetAll(ctx)
}

// ChangePassword replaces the password after checking the current one
func (s *userManagementService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	req := &models.ChangePasswordRequest{CurrentPassword: currentPassword, NewPassword: newPassword}
	if err := s.validator.ValidateStruct(req); err != nil {
		return invalid(err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.authSvc.VerifyPassword(user.PasswordHash, currentPassword); err != nil {
		s.logger.WithUser(userID).Warn("Password change with wrong current password")
		return ErrInvalidCredentials
	}

	hashedPassword, err := s.authSvc.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hashedPassword
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.logger.WithUser(userID).Info("Password changed")
	return nil
}

// ActivateUser activates a user account
func (s *userManagementService) ActivateUser(ctx context.Context, userID string) error {
	return s.setActive(ctx, userID, true)
}

// DeactivateUser deactivates a user account. Users are never hard deleted.
func (s *userManagementService) DeactivateUser(ctx context.Context, userID string) error {
	return s.setActive(ctx, userID, false)
}

func (s *userManagementService) setActive(ctx context.Context, userID string, active bool) error {
	s.logger.WithUser(userID).WithField("active", active).Info("Changing user activation")

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	user.IsActive = active
	return s.userRepo.Update(ctx, user)
}
