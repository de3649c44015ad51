package services

import (
	"context"

	"github.com/tonzxz12/Findr-sub000/internal/apperrors"
	"github.com/tonzxz12/Findr-sub000/internal/logger"
	"github.com/tonzxz12/Findr-sub000/internal/models"
	"github.com/tonzxz12/Findr-sub000/internal/repositories"
	"github.com/tonzxz12/Findr-sub000/internal/tenant"
)

// authorizationService implements AuthorizationService
type authorizationService struct {
	logger     *logger.Logger
	clientRepo repositories.ClientRepository
}

// NewAuthorizationService creates a new authorization service
func NewAuthorizationService(
	logger *logger.Logger,
	clientRepo repositories.ClientRepository,
) AuthorizationService {
	return &authorizationService{
		logger:     logger,
		clientRepo: clientRepo,
	}
}

// ResolveTenant picks the client a request acts on. An explicit client id
// must be one the user may access. Without one, a user owning exactly one
// client acts on it; admins and multi-client owners must choose.
func (s *authorizationService) ResolveTenant(ctx context.Context, user *models.User, requestedClientID string) (tenant.Tenant, error) {
	if user == nil || !user.IsActive {
		return tenant.Tenant{}, ErrUserInactive
	}

	if requestedClientID != "" {
		client, err := s.clientRepo.GetByID(ctx, requestedClientID)
		if err != nil {
			if apperrors.IsCode(err, apperrors.CodeNotFound) {
				s.LogSecurityViolation(ctx, user, "resolve_tenant", requestedClientID)
				return tenant.Tenant{}, ErrClientForbidden
			}
			return tenant.Tenant{}, err
		}
		if !s.CanAccessClient(ctx, user, client) {
			s.LogSecurityViolation(ctx, user, "resolve_tenant", requestedClientID)
			return tenant.Tenant{}, ErrClientForbidden
		}
		return tenant.Resolve(client.ID), nil
	}

	if user.IsAdmin() {
		return tenant.Tenant{}, ErrClientRequired
	}

	owned, err := s.clientRepo.GetByOwner(ctx, user.ID)
	if err != nil {
		return tenant.Tenant{}, err
	}
	switch len(owned) {
	case 0:
		return tenant.Tenant{}, ErrNoClientAssigned
	case 1:
		return tenant.Resolve(owned[0].ID), nil
	default:
		return tenant.Tenant{}, ErrClientRequired
	}
}

// CanAccessClient checks if a user can act on a client
func (s *authorizationService) CanAccessClient(ctx context.Context, user *models.User, client *models.Client) bool {
	if user == nil || !user.IsActive || client == nil {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	return client.IsOwnedBy(user.ID)
}

// LogSecurityViolation logs a security violation attempt
func (s *authorizationService) LogSecurityViolation(ctx context.Context, user *models.User, action string, resourceID string) {
	userID := "anonymous"
	role := "unknown"
	if user != nil {
		userID = user.ID
		role = user.Role
	}

	s.logger.SecurityEvent(userID, role, action, resourceID).Warn("Security violation detected")
}
