package services

import (
	"context"

	"github.com/tonzxz12/Findr-sub000/internal/logger"
	"github.com/tonzxz12/Findr-sub000/internal/models"
	"github.com/tonzxz12/Findr-sub000/internal/repositories"
	"github.com/tonzxz12/Findr-sub000/internal/tenant"
)

// clientService implements ClientService
type clientService struct {
	logger     *logger.Logger
	clientRepo repositories.ClientRepository
	dashboard  DashboardService
	validator  *models.ValidationService
}

// NewClientService creates a new client service
func NewClientService(
	logger *logger.Logger,
	clientRepo repositories.ClientRepository,
	dashboard DashboardService,
) ClientService {
	return &clientService{
		logger:     logger,
		clientRepo: clientRepo,
		dashboard:  dashboard,
		validator:  models.NewValidationService(),
	}
}

// ListClients returns every client to admins and the owned clients otherwise
func (s *clientService) ListClients(ctx context.Context, user *models.User) ([]*models.Client, error) {
	if user.IsAdmin() {
		return s.clientRepo.GetAll(ctx)
	}
	return s.clientRepo.GetByOwner(ctx, user.ID)
}

func (s *clientService) GetClient(ctx context.Context, id string) (*models.Client, error) {
	return s.clientRepo.GetByID(ctx, id)
}

// UpdateClient applies name, keyword and owner changes
func (s *clientService) UpdateClient(ctx context.Context, id string, update *models.ClientUpdate) (*models.Client, error) {
	if err := s.validator.ValidateStruct(update); err != nil {
		return nil, invalid(err)
	}

	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	client.Name = update.Name
	client.Keywords = update.Keywords
	if update.OwnerID != nil {
		if *update.OwnerID == "" {
			client.OwnerID = nil
		} else {
			owner := *update.OwnerID
			client.OwnerID = &owner
		}
	}
	client.Normalize()

	if err := s.clientRepo.Update(ctx, client); err != nil {
		s.logger.WithField("client_id", id).WithError(err).Error("Failed to update client")
		return nil, err
	}
	return client, nil
}

// DeleteClient removes a client. The store refuses while projects remain.
func (s *clientService) DeleteClient(ctx context.Context, id string) error {
	if err := s.clientRepo.Delete(ctx, id); err != nil {
		s.logger.WithField("client_id", id).WithError(err).Warn("Failed to delete client")
		return err
	}
	s.logger.WithField("client_id", id).Info("Client deleted")
	s.dashboard.Invalidate(ctx, tenant.Resolve(id))
	return nil
}
